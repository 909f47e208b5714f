package bal

import (
	"fmt"
	"sort"

	"github.com/balkit/balkit/types"
)

// Structural limits checked by Validate. A list breaching them cannot be
// the product of a well-formed block.
const (
	// MaxTxs is the highest permitted transaction index plus one.
	MaxTxs = 30_000
	// MaxAccounts is the maximum number of account bundles per block.
	MaxAccounts = 300_000
	// MaxSlots is the maximum number of storage slots per account.
	MaxSlots = 300_000
	// MaxCodeSize is the maximum byte length of deployed code.
	MaxCodeSize = 24_576
)

// BlockAccessList is the finalized, per-block sequence of account change
// bundles. It is a value: constructed once, encoded and hashed, never
// mutated afterwards.
//
// Account order determines the commitment bytes. NewBlockAccessList
// preserves the caller's order and only rejects duplicates; producers that
// need the canonical ascending-address order use Builder or AccessTracker,
// which always emit it. This split is a pinned contract, not an accident:
// the direct constructor exists for verifiers replaying already-canonical
// bytes, the builder for everyone else.
type BlockAccessList struct {
	Accounts []AccountChanges
}

// NewBlockAccessList constructs an access list from finalized bundles,
// preserving their order. Construction fails with ErrDuplicateAccount if
// two bundles share an address; the partial list is discarded.
func NewBlockAccessList(accounts []AccountChanges) (*BlockAccessList, error) {
	seen := make(map[types.Address]struct{}, len(accounts))
	for i := range accounts {
		addr := accounts[i].Address
		if _, ok := seen[addr]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, addr)
		}
		seen[addr] = struct{}{}
	}
	return &BlockAccessList{Accounts: accounts}, nil
}

// Len returns the number of account bundles.
func (b *BlockAccessList) Len() int {
	return len(b.Accounts)
}

// Account returns the change bundle for addr, or nil if the account was
// not touched in the block.
func (b *BlockAccessList) Account(addr types.Address) *AccountChanges {
	for i := range b.Accounts {
		if b.Accounts[i].Address == addr {
			return &b.Accounts[i]
		}
	}
	return nil
}

// Addresses returns the account addresses in list order.
func (b *BlockAccessList) Addresses() []types.Address {
	addrs := make([]types.Address, len(b.Accounts))
	for i := range b.Accounts {
		addrs[i] = b.Accounts[i].Address
	}
	return addrs
}

// Validate checks the structural limits on a finalized list.
func (b *BlockAccessList) Validate() error {
	if len(b.Accounts) > MaxAccounts {
		return fmt.Errorf("%w: %d accounts exceeds maximum %d", ErrLimitExceeded, len(b.Accounts), MaxAccounts)
	}
	for i := range b.Accounts {
		acct := &b.Accounts[i]
		if len(acct.StorageChanges) > MaxSlots {
			return fmt.Errorf("%w: %d storage slots for %s exceeds maximum %d",
				ErrLimitExceeded, len(acct.StorageChanges), acct.Address, MaxSlots)
		}
		if cc := acct.CodeChange; cc != nil && len(cc.NewCode) > MaxCodeSize {
			return fmt.Errorf("%w: %d code bytes for %s exceeds maximum %d",
				ErrLimitExceeded, len(cc.NewCode), acct.Address, MaxCodeSize)
		}
		if idx, ok := maxTxIndex(acct); ok && idx >= MaxTxs {
			return fmt.Errorf("%w: tx index %d for %s exceeds maximum %d",
				ErrLimitExceeded, idx, acct.Address, MaxTxs)
		}
	}
	return nil
}

func maxTxIndex(a *AccountChanges) (uint64, bool) {
	var max uint64
	found := false
	note := func(idx uint64) {
		if !found || idx > max {
			max = idx
		}
		found = true
	}
	// Per-field sequences are strictly increasing, so the last entry holds
	// the field's highest index.
	if n := len(a.BalanceChanges); n > 0 {
		note(a.BalanceChanges[n-1].TxIndex)
	}
	if n := len(a.NonceChanges); n > 0 {
		note(a.NonceChanges[n-1].TxIndex)
	}
	for i := range a.StorageChanges {
		if n := len(a.StorageChanges[i].Changes); n > 0 {
			note(a.StorageChanges[i].Changes[n-1].TxIndex)
		}
	}
	if a.CodeChange != nil {
		note(a.CodeChange.TxIndex)
	}
	return max, found
}

// Builder accumulates account change bundles and produces a canonical
// BlockAccessList through a single consuming Finalize call. It is the
// explicit finalization phase: no caller can observe a half-built or
// unsorted list as if it were canonical, and a spent builder rejects
// further use.
type Builder struct {
	accounts  map[types.Address]*AccountChanges
	finalized bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{accounts: make(map[types.Address]*AccountChanges)}
}

// Account returns the change bundle for addr, creating it on first use.
// Returns nil once the builder is finalized.
func (b *Builder) Account(addr types.Address) *AccountChanges {
	if b.finalized {
		return nil
	}
	acct, ok := b.accounts[addr]
	if !ok {
		acct = NewAccountChanges(addr)
		b.accounts[addr] = acct
	}
	return acct
}

// Finalize consumes the builder and produces the canonical access list:
// accounts in ascending address order, each account's slots in ascending
// slot order. Duplicates cannot occur by construction. A second call
// fails with ErrFinalized.
func (b *Builder) Finalize() (*BlockAccessList, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	b.finalized = true

	addrs := make([]types.Address, 0, len(b.accounts))
	for addr := range b.accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].Cmp(addrs[j]) < 0
	})

	accounts := make([]AccountChanges, 0, len(addrs))
	for _, addr := range addrs {
		acct := b.accounts[addr]
		acct.sortSlots()
		accounts = append(accounts, *acct)
	}
	b.accounts = nil
	return &BlockAccessList{Accounts: accounts}, nil
}
