package bal

import (
	"fmt"
	"sort"

	"github.com/holiman/uint256"

	"github.com/balkit/balkit/types"
)

// AccountChanges aggregates every field-level mutation attributed to one
// account within a block. Appends enforce strictly increasing transaction
// indices per field (and per storage slot): each transaction produces at
// most one post-state value per field, and re-sorting here would hide
// execution-engine bugs, so violations fail instead.
//
// Changes are never removed or rewritten; an amendment is a new entry with
// a higher transaction index.
type AccountChanges struct {
	Address        types.Address
	BalanceChanges []BalanceChange
	NonceChanges   []NonceChange
	StorageChanges []SlotChanges
	CodeChange     *CodeChange
}

// NewAccountChanges creates an empty change bundle for addr.
func NewAccountChanges(addr types.Address) *AccountChanges {
	return &AccountChanges{Address: addr}
}

// AppendBalanceChange records the account's balance after txIndex. The
// index must be strictly greater than the last recorded balance index.
func (a *AccountChanges) AppendBalanceChange(txIndex uint64, postBalance *uint256.Int) error {
	if n := len(a.BalanceChanges); n > 0 && txIndex <= a.BalanceChanges[n-1].TxIndex {
		return fmt.Errorf("%w: balance of %s at tx %d, last %d",
			ErrOutOfOrderChange, a.Address, txIndex, a.BalanceChanges[n-1].TxIndex)
	}
	a.BalanceChanges = append(a.BalanceChanges, NewBalanceChange(txIndex, postBalance))
	return nil
}

// AppendNonceChange records the account's nonce after txIndex.
func (a *AccountChanges) AppendNonceChange(txIndex, postNonce uint64) error {
	if n := len(a.NonceChanges); n > 0 && txIndex <= a.NonceChanges[n-1].TxIndex {
		return fmt.Errorf("%w: nonce of %s at tx %d, last %d",
			ErrOutOfOrderChange, a.Address, txIndex, a.NonceChanges[n-1].TxIndex)
	}
	a.NonceChanges = append(a.NonceChanges, NonceChange{TxIndex: txIndex, PostNonce: postNonce})
	return nil
}

// AppendStorageChange records the value of slot after txIndex. The index
// must be strictly greater than the last recorded index for that slot;
// distinct slots order independently. A slot first seen here is appended
// to the bundle's slot sequence.
func (a *AccountChanges) AppendStorageChange(slot types.Hash, txIndex uint64, postValue types.Hash) error {
	sc := a.slotChanges(slot)
	if sc != nil {
		if n := len(sc.Changes); n > 0 && txIndex <= sc.Changes[n-1].TxIndex {
			return fmt.Errorf("%w: slot %s of %s at tx %d, last %d",
				ErrOutOfOrderChange, slot, a.Address, txIndex, sc.Changes[n-1].TxIndex)
		}
		sc.Changes = append(sc.Changes, StorageChange{TxIndex: txIndex, PostValue: postValue})
		return nil
	}
	a.StorageChanges = append(a.StorageChanges, SlotChanges{
		Slot:    slot,
		Changes: []StorageChange{{TxIndex: txIndex, PostValue: postValue}},
	})
	return nil
}

// SetCodeChange records a code deployment at txIndex. A second call fails:
// an account's code is set at most once per block.
func (a *AccountChanges) SetCodeChange(txIndex uint64, newCode []byte) error {
	if a.CodeChange != nil {
		return fmt.Errorf("%w: code of %s at tx %d, already set at tx %d",
			ErrDuplicateCodeChange, a.Address, txIndex, a.CodeChange.TxIndex)
	}
	code := make([]byte, len(newCode))
	copy(code, newCode)
	a.CodeChange = &CodeChange{TxIndex: txIndex, NewCode: code}
	return nil
}

// SlotSequence returns the recorded changes for one storage slot in
// insertion order, or nil if the slot was never written.
func (a *AccountChanges) SlotSequence(slot types.Hash) []StorageChange {
	if sc := a.slotChanges(slot); sc != nil {
		return sc.Changes
	}
	return nil
}

// ChangeCount returns the total number of change entries across all fields.
func (a *AccountChanges) ChangeCount() int {
	n := len(a.BalanceChanges) + len(a.NonceChanges)
	for i := range a.StorageChanges {
		n += len(a.StorageChanges[i].Changes)
	}
	if a.CodeChange != nil {
		n++
	}
	return n
}

func (a *AccountChanges) slotChanges(slot types.Hash) *SlotChanges {
	for i := range a.StorageChanges {
		if a.StorageChanges[i].Slot == slot {
			return &a.StorageChanges[i]
		}
	}
	return nil
}

// sortSlots orders the bundle's storage slots ascending. Used by the
// canonicalizing construction paths; direct construction preserves
// whatever order the caller supplied.
func (a *AccountChanges) sortSlots() {
	sort.Slice(a.StorageChanges, func(i, j int) bool {
		return a.StorageChanges[i].Slot.Cmp(a.StorageChanges[j].Slot) < 0
	})
}
