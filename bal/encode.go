package bal

import (
	"fmt"

	"github.com/balkit/balkit/rlp"
	"github.com/balkit/balkit/types"
)

// Canonical wire format, fixed field order throughout:
//
//	BalanceChange  = [tx_index, post_balance]
//	NonceChange    = [tx_index, post_nonce]
//	StorageChange  = [tx_index, post_value]     post_value: 32-byte string
//	SlotChanges    = [slot, [StorageChange...]] slot: 32-byte string
//	CodeChange     = [tx_index, new_code]
//	AccountChanges = [address, [BalanceChange...], [NonceChange...],
//	                  [SlotChanges...], [CodeChange?]]
//	BlockAccessList = [AccountChanges...]
//
// The code position is a list holding zero or one element, so absence and
// presence are always distinguishable and the encoding stays injective.
// Scalars use minimal big-endian bytes; the empty list is the single byte
// 0xc0, distinct from the zero scalar 0x80.

// EncodeRLP returns the canonical byte encoding of the access list. It is
// deterministic and injective over list values; the empty list encodes to
// the single byte 0xc0.
func (b *BlockAccessList) EncodeRLP() []byte {
	var payload []byte
	for i := range b.Accounts {
		payload = appendAccount(payload, &b.Accounts[i])
	}
	return rlp.AppendList(nil, payload)
}

// CanonicalBytes is an alias for EncodeRLP, named for the commitment role
// of the output.
func (b *BlockAccessList) CanonicalBytes() []byte {
	return b.EncodeRLP()
}

func appendAccount(buf []byte, a *AccountChanges) []byte {
	var payload []byte
	payload = rlp.AppendBytes(payload, a.Address.Bytes())

	var balances []byte
	for _, c := range a.BalanceChanges {
		balances = appendBalanceChange(balances, c)
	}
	payload = rlp.AppendList(payload, balances)

	var nonces []byte
	for _, c := range a.NonceChanges {
		nonces = appendNonceChange(nonces, c)
	}
	payload = rlp.AppendList(payload, nonces)

	var slots []byte
	for i := range a.StorageChanges {
		slots = appendSlotChanges(slots, &a.StorageChanges[i])
	}
	payload = rlp.AppendList(payload, slots)

	var code []byte
	if a.CodeChange != nil {
		code = appendCodeChange(code, a.CodeChange)
	}
	payload = rlp.AppendList(payload, code)

	return rlp.AppendList(buf, payload)
}

func appendBalanceChange(buf []byte, c BalanceChange) []byte {
	var payload []byte
	payload = rlp.AppendUint(payload, c.TxIndex)
	payload = rlp.AppendUint256(payload, c.PostBalance)
	return rlp.AppendList(buf, payload)
}

func appendNonceChange(buf []byte, c NonceChange) []byte {
	var payload []byte
	payload = rlp.AppendUint(payload, c.TxIndex)
	payload = rlp.AppendUint(payload, c.PostNonce)
	return rlp.AppendList(buf, payload)
}

func appendSlotChanges(buf []byte, sc *SlotChanges) []byte {
	var changes []byte
	for _, c := range sc.Changes {
		var item []byte
		item = rlp.AppendUint(item, c.TxIndex)
		item = rlp.AppendBytes(item, c.PostValue.Bytes())
		changes = rlp.AppendList(changes, item)
	}
	var payload []byte
	payload = rlp.AppendBytes(payload, sc.Slot.Bytes())
	payload = rlp.AppendList(payload, changes)
	return rlp.AppendList(buf, payload)
}

func appendCodeChange(buf []byte, c *CodeChange) []byte {
	var payload []byte
	payload = rlp.AppendUint(payload, c.TxIndex)
	payload = rlp.AppendBytes(payload, c.NewCode)
	return rlp.AppendList(buf, payload)
}

// DecodeAccessList parses canonical bytes back into a BlockAccessList. It
// rejects structurally invalid input, non-canonical scalar encodings, and
// any content violating the list invariants (duplicate accounts, duplicate
// slots, out-of-order transaction indices), so decode(encode(x)) == x and
// every decoded value re-encodes to its input bytes.
func DecodeAccessList(data []byte) (*BlockAccessList, error) {
	payload, rest, err := rlp.SplitList(data)
	if err != nil {
		return nil, fmt.Errorf("bal: decode: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("bal: decode: %w", rlp.ErrTrailingBytes)
	}

	var accounts []AccountChanges
	seen := make(map[types.Address]struct{})
	for i := 0; len(payload) > 0; i++ {
		var acct AccountChanges
		payload, err = decodeAccount(payload, &acct)
		if err != nil {
			return nil, fmt.Errorf("bal: decode account %d: %w", i, err)
		}
		if _, ok := seen[acct.Address]; ok {
			return nil, fmt.Errorf("bal: decode account %d: %w: %s", i, ErrDuplicateAccount, acct.Address)
		}
		seen[acct.Address] = struct{}{}
		accounts = append(accounts, acct)
	}
	return &BlockAccessList{Accounts: accounts}, nil
}

func decodeAccount(data []byte, acct *AccountChanges) (rest []byte, err error) {
	payload, rest, err := rlp.SplitList(data)
	if err != nil {
		return nil, err
	}

	addrBytes, payload, err := rlp.SplitString(payload)
	if err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	if len(addrBytes) != types.AddressLength {
		return nil, fmt.Errorf("address: got %d bytes, want %d", len(addrBytes), types.AddressLength)
	}
	acct.Address = types.BytesToAddress(addrBytes)

	if payload, err = decodeBalanceChanges(payload, acct); err != nil {
		return nil, err
	}
	if payload, err = decodeNonceChanges(payload, acct); err != nil {
		return nil, err
	}
	if payload, err = decodeSlotChanges(payload, acct); err != nil {
		return nil, err
	}
	if payload, err = decodeCodeChange(payload, acct); err != nil {
		return nil, err
	}
	if len(payload) != 0 {
		return nil, rlp.ErrTrailingBytes
	}
	return rest, nil
}

func decodeBalanceChanges(data []byte, acct *AccountChanges) ([]byte, error) {
	payload, rest, err := rlp.SplitList(data)
	if err != nil {
		return nil, fmt.Errorf("balance changes: %w", err)
	}
	for len(payload) > 0 {
		item, remaining, err := rlp.SplitList(payload)
		if err != nil {
			return nil, fmt.Errorf("balance change: %w", err)
		}
		txIndex, item, err := rlp.SplitUint(item)
		if err != nil {
			return nil, fmt.Errorf("balance change tx index: %w", err)
		}
		balance, item, err := rlp.SplitUint256(item)
		if err != nil {
			return nil, fmt.Errorf("post balance: %w", err)
		}
		if len(item) != 0 {
			return nil, fmt.Errorf("balance change: %w", rlp.ErrTrailingBytes)
		}
		if err := acct.AppendBalanceChange(txIndex, balance); err != nil {
			return nil, err
		}
		payload = remaining
	}
	return rest, nil
}

func decodeNonceChanges(data []byte, acct *AccountChanges) ([]byte, error) {
	payload, rest, err := rlp.SplitList(data)
	if err != nil {
		return nil, fmt.Errorf("nonce changes: %w", err)
	}
	for len(payload) > 0 {
		item, remaining, err := rlp.SplitList(payload)
		if err != nil {
			return nil, fmt.Errorf("nonce change: %w", err)
		}
		txIndex, item, err := rlp.SplitUint(item)
		if err != nil {
			return nil, fmt.Errorf("nonce change tx index: %w", err)
		}
		nonce, item, err := rlp.SplitUint(item)
		if err != nil {
			return nil, fmt.Errorf("post nonce: %w", err)
		}
		if len(item) != 0 {
			return nil, fmt.Errorf("nonce change: %w", rlp.ErrTrailingBytes)
		}
		if err := acct.AppendNonceChange(txIndex, nonce); err != nil {
			return nil, err
		}
		payload = remaining
	}
	return rest, nil
}

func decodeSlotChanges(data []byte, acct *AccountChanges) ([]byte, error) {
	payload, rest, err := rlp.SplitList(data)
	if err != nil {
		return nil, fmt.Errorf("storage changes: %w", err)
	}
	seen := make(map[types.Hash]struct{})
	for len(payload) > 0 {
		item, remaining, err := rlp.SplitList(payload)
		if err != nil {
			return nil, fmt.Errorf("slot changes: %w", err)
		}
		slotBytes, item, err := rlp.SplitString(item)
		if err != nil {
			return nil, fmt.Errorf("slot: %w", err)
		}
		if len(slotBytes) != types.HashLength {
			return nil, fmt.Errorf("slot: got %d bytes, want %d", len(slotBytes), types.HashLength)
		}
		slot := types.BytesToHash(slotBytes)
		if _, ok := seen[slot]; ok {
			return nil, fmt.Errorf("slot %s listed twice", slot)
		}
		seen[slot] = struct{}{}

		changes, item, err := rlp.SplitList(item)
		if err != nil {
			return nil, fmt.Errorf("slot %s changes: %w", slot, err)
		}
		if len(item) != 0 {
			return nil, fmt.Errorf("slot changes: %w", rlp.ErrTrailingBytes)
		}
		if len(changes) == 0 {
			return nil, fmt.Errorf("slot %s has no changes", slot)
		}
		for len(changes) > 0 {
			entry, next, err := rlp.SplitList(changes)
			if err != nil {
				return nil, fmt.Errorf("storage change: %w", err)
			}
			txIndex, entry, err := rlp.SplitUint(entry)
			if err != nil {
				return nil, fmt.Errorf("storage change tx index: %w", err)
			}
			valueBytes, entry, err := rlp.SplitString(entry)
			if err != nil {
				return nil, fmt.Errorf("post value: %w", err)
			}
			if len(valueBytes) != types.HashLength {
				return nil, fmt.Errorf("post value: got %d bytes, want %d", len(valueBytes), types.HashLength)
			}
			if len(entry) != 0 {
				return nil, fmt.Errorf("storage change: %w", rlp.ErrTrailingBytes)
			}
			if err := acct.AppendStorageChange(slot, txIndex, types.BytesToHash(valueBytes)); err != nil {
				return nil, err
			}
			changes = next
		}
		payload = remaining
	}
	return rest, nil
}

func decodeCodeChange(data []byte, acct *AccountChanges) ([]byte, error) {
	payload, rest, err := rlp.SplitList(data)
	if err != nil {
		return nil, fmt.Errorf("code change: %w", err)
	}
	if len(payload) == 0 {
		return rest, nil
	}
	item, payload, err := rlp.SplitList(payload)
	if err != nil {
		return nil, fmt.Errorf("code change: %w", err)
	}
	if len(payload) != 0 {
		return nil, fmt.Errorf("code change: %w", ErrDuplicateCodeChange)
	}
	txIndex, item, err := rlp.SplitUint(item)
	if err != nil {
		return nil, fmt.Errorf("code change tx index: %w", err)
	}
	code, item, err := rlp.SplitString(item)
	if err != nil {
		return nil, fmt.Errorf("new code: %w", err)
	}
	if len(item) != 0 {
		return nil, fmt.Errorf("code change: %w", rlp.ErrTrailingBytes)
	}
	return rest, acct.SetCodeChange(txIndex, code)
}
