/*
Package x holds the extensions of the escrow node and the authentication
glue they share.

An extension owns a part of the state (a bucket), the messages changing it
and their handlers. Extensions never share buckets: the escrow extension
moves funds only through the cash controller, and the authority over a
custody account is expressed as an Authenticator that the node chains
with signature verification.
*/
package x
