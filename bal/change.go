// Package bal implements the Block Access List: a per-block record of every
// account state change produced by transaction execution, with a canonical
// RLP encoding and a keccak-256 commitment over it.
package bal

import (
	"github.com/holiman/uint256"

	"github.com/balkit/balkit/types"
)

// BalanceChange records the balance of an account immediately after the
// transaction at TxIndex executed. Immutable once created; equality is
// structural over both fields.
type BalanceChange struct {
	TxIndex     uint64
	PostBalance *uint256.Int
}

// NewBalanceChange creates a BalanceChange. The balance is copied, so the
// caller keeps ownership of its value.
func NewBalanceChange(txIndex uint64, postBalance *uint256.Int) BalanceChange {
	return BalanceChange{TxIndex: txIndex, PostBalance: new(uint256.Int).Set(postBalance)}
}

// Equal reports whether both fields match.
func (c BalanceChange) Equal(other BalanceChange) bool {
	return c.TxIndex == other.TxIndex && c.PostBalance.Eq(other.PostBalance)
}

// NonceChange records the nonce of an account immediately after the
// transaction at TxIndex executed.
type NonceChange struct {
	TxIndex   uint64
	PostNonce uint64
}

// StorageChange records the value of one storage slot immediately after
// the transaction at TxIndex executed. The slot itself lives on the
// enclosing SlotChanges.
type StorageChange struct {
	TxIndex   uint64
	PostValue types.Hash
}

// SlotChanges groups all writes to a single storage slot of one account,
// in transaction order.
type SlotChanges struct {
	Slot    types.Hash
	Changes []StorageChange
}

// CodeChange records a deployment of new code at TxIndex. At most one code
// change per account per block: runtime code is set once, at deployment.
type CodeChange struct {
	TxIndex uint64
	NewCode []byte
}
