package bal

import (
	"github.com/holiman/uint256"

	"github.com/balkit/balkit/types"
)

// AccessTracker is the execution-engine-side accumulator. The engine calls
// the Record methods as it applies each transaction; at block finalization
// Build hands the accumulated bundles to the canonical constructor. The
// ordering invariant is enforced at record time, so an engine replaying
// transactions out of order fails fast instead of producing a bad
// commitment.
//
// Not safe for concurrent use; a concurrent engine must snapshot into an
// owned tracker before building.
type AccessTracker struct {
	builder *Builder
}

// NewTracker creates an empty tracker.
func NewTracker() *AccessTracker {
	return &AccessTracker{builder: NewBuilder()}
}

// RecordBalanceChange records addr's balance after txIndex executed.
func (t *AccessTracker) RecordBalanceChange(addr types.Address, txIndex uint64, postBalance *uint256.Int) error {
	acct, err := t.account(addr)
	if err != nil {
		return err
	}
	return acct.AppendBalanceChange(txIndex, postBalance)
}

// RecordNonceChange records addr's nonce after txIndex executed.
func (t *AccessTracker) RecordNonceChange(addr types.Address, txIndex, postNonce uint64) error {
	acct, err := t.account(addr)
	if err != nil {
		return err
	}
	return acct.AppendNonceChange(txIndex, postNonce)
}

// RecordStorageChange records the post value of one storage slot of addr
// after txIndex executed.
func (t *AccessTracker) RecordStorageChange(addr types.Address, slot types.Hash, txIndex uint64, postValue types.Hash) error {
	acct, err := t.account(addr)
	if err != nil {
		return err
	}
	return acct.AppendStorageChange(slot, txIndex, postValue)
}

// RecordCodeChange records a code deployment at addr by txIndex.
func (t *AccessTracker) RecordCodeChange(addr types.Address, txIndex uint64, newCode []byte) error {
	acct, err := t.account(addr)
	if err != nil {
		return err
	}
	return acct.SetCodeChange(txIndex, newCode)
}

func (t *AccessTracker) account(addr types.Address) (*AccountChanges, error) {
	acct := t.builder.Account(addr)
	if acct == nil {
		return nil, ErrFinalized
	}
	return acct, nil
}

// Build finalizes the recorded changes into a canonical access list:
// accounts ascending by address, slots ascending within each account.
// The tracker is spent afterwards; use Reset to start the next block.
func (t *AccessTracker) Build() (*BlockAccessList, error) {
	return t.builder.Finalize()
}

// Reset discards all recorded changes so the tracker can be reused for
// the next block.
func (t *AccessTracker) Reset() {
	t.builder = NewBuilder()
}
