/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension owns one configuration singleton, saved under the "_c:<pkg>"
key. Configurations are loaded from the "conf" section of the genesis file
and read back by the extension handlers on every call.

*/
package gconf
