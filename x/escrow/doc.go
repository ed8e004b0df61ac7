/*
Package escrow implements time bounded custody of funds sent to a recipient
that is known only by a hash of an off-chain identifier (for example an
email address).

The sender locks an amount of an asset in a custody account that is derived
from the sender address and the recipient identifier hash. Nobody holds a
key for that account. Funds leave it only through this extension, which
presents the derivation seeds as the authorization for the transfer.

An escrow is Active after creation. Before it expires the first claimant
that succeeds is bound as the recipient and receives the funds, the escrow
becomes Claimed. After it expires only the sender may reclaim the funds,
the escrow becomes Expired. Both Claimed and Expired are terminal.

Expiration is evaluated lazily against the block time of the transition.
There is no background process.
*/
package escrow
