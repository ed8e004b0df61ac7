/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of object, stored under its primary
key. Keys may be composite, so a prefix of the key selects a range of
objects (for example all escrows of one sender).

Buckets are meant to be embedded in a type-safe wrapper that converts
Objects into the concrete model of an extension.
*/
package orm
