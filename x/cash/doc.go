/*
Package cash defines a simple implementation of moving fungible assets
between accounts.

An account is identified by an owner address and an asset type. There is no
logic in the assets, except that the balance of an account may never go
below zero and never overflow. Thus, this implementation is referred to as
cash. Simple and safe.

Any extension that holds value on behalf of its users (for example escrow)
uses the Controller to move funds. A transfer is authorized when the
Authenticator passed by the caller recognizes the source address.
*/
package cash
