// Package weave is the core of a small ABCI application framework that holds
// conditional custody of fungible value.
//
// The root package carries the shared vocabulary: stores, addresses and
// conditions, handlers, transactions and the context helpers. Extensions
// live under x/, the escrow state machine in x/escrow.
package weave
