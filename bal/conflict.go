// conflict.go derives transaction conflicts from a finalized access list.
// The change model records writes only (post-values), so every conflict is
// write-write: two transactions that both set the same account field or
// the same storage slot cannot run concurrently.

package bal

import (
	"encoding/binary"
	"sort"

	"github.com/balkit/balkit/crypto"
	"github.com/balkit/balkit/types"
)

// ConflictType classifies which field two transactions collided on.
type ConflictType uint8

const (
	// ConflictBalance means both transactions set the account's balance.
	ConflictBalance ConflictType = iota
	// ConflictNonce means both transactions set the account's nonce.
	ConflictNonce
	// ConflictStorage means both transactions wrote the same storage slot.
	ConflictStorage
)

// String returns a human-readable label for the conflict type.
func (ct ConflictType) String() string {
	switch ct {
	case ConflictBalance:
		return "balance"
	case ConflictNonce:
		return "nonce"
	case ConflictStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Conflict records a single write-write collision between two transactions.
// TxA always holds the lower index. Slot is zero for account-level
// conflicts.
type Conflict struct {
	TxA     uint64
	TxB     uint64
	Type    ConflictType
	Address types.Address
	Slot    types.Hash
}

// DetectConflicts walks a finalized access list and returns every pairwise
// write-write conflict. Output order is deterministic: list order of
// accounts, field order within an account, then index pairs ascending.
//
// Per-field sequences are strictly increasing by construction, so for each
// contended item every ordered pair of its writers is one conflict.
func DetectConflicts(b *BlockAccessList) []Conflict {
	var conflicts []Conflict
	for i := range b.Accounts {
		acct := &b.Accounts[i]

		txs := make([]uint64, 0, len(acct.BalanceChanges))
		for _, c := range acct.BalanceChanges {
			txs = append(txs, c.TxIndex)
		}
		conflicts = appendPairs(conflicts, txs, ConflictBalance, acct.Address, types.Hash{})

		txs = txs[:0]
		for _, c := range acct.NonceChanges {
			txs = append(txs, c.TxIndex)
		}
		conflicts = appendPairs(conflicts, txs, ConflictNonce, acct.Address, types.Hash{})

		for j := range acct.StorageChanges {
			sc := &acct.StorageChanges[j]
			slotTxs := make([]uint64, 0, len(sc.Changes))
			for _, c := range sc.Changes {
				slotTxs = append(slotTxs, c.TxIndex)
			}
			conflicts = appendPairs(conflicts, slotTxs, ConflictStorage, acct.Address, sc.Slot)
		}
	}
	return conflicts
}

func appendPairs(conflicts []Conflict, txs []uint64, ct ConflictType, addr types.Address, slot types.Hash) []Conflict {
	for i := 0; i < len(txs); i++ {
		for j := i + 1; j < len(txs); j++ {
			conflicts = append(conflicts, Conflict{
				TxA:     txs[i],
				TxB:     txs[j],
				Type:    ct,
				Address: addr,
				Slot:    slot,
			})
		}
	}
	return conflicts
}

// ConflictSetHash computes an aggregate digest over a set of conflicts.
// Conflicts are sorted before hashing, so the digest is independent of
// detection order. An empty set hashes to the zero hash.
func ConflictSetHash(conflicts []Conflict) types.Hash {
	if len(conflicts) == 0 {
		return types.Hash{}
	}

	sorted := make([]Conflict, len(conflicts))
	copy(sorted, conflicts)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.TxA != b.TxA {
			return a.TxA < b.TxA
		}
		if a.TxB != b.TxB {
			return a.TxB < b.TxB
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if c := a.Address.Cmp(b.Address); c != 0 {
			return c < 0
		}
		return a.Slot.Cmp(b.Slot) < 0
	})

	var buf []byte
	var idx [16]byte
	for _, c := range sorted {
		binary.BigEndian.PutUint64(idx[:8], c.TxA)
		binary.BigEndian.PutUint64(idx[8:], c.TxB)
		buf = append(buf, idx[:]...)
		buf = append(buf, byte(c.Type))
		buf = append(buf, c.Address[:]...)
		buf = append(buf, c.Slot[:]...)
	}
	return crypto.Keccak256Hash(buf)
}
