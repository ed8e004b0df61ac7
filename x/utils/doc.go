/*
Package utils contains decorators shared by every transaction: panic
recovery, per transaction logging and the action tag.
*/
package utils
