package main

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/balkit/balkit/bal"
	"github.com/balkit/balkit/types"
)

const sampleInput = `{
  "accounts": [
    {
      "address": "0x2222222222222222222222222222222222222222",
      "nonceChanges": [{"txIndex": 0, "postNonce": 1}]
    },
    {
      "address": "0x1111111111111111111111111111111111111111",
      "balanceChanges": [
        {"txIndex": 0, "postBalance": "100"},
        {"txIndex": 3, "postBalance": "0x1fa"}
      ],
      "storageChanges": [
        {
          "slot": "0x01",
          "changes": [{"txIndex": 2, "postValue": "0xff"}]
        }
      ],
      "codeChange": {"txIndex": 1, "newCode": "0x6001"}
    }
  ]
}`

func parseInput(t *testing.T, raw string) *changeSetJSON {
	t.Helper()
	var cs changeSetJSON
	if err := json.Unmarshal([]byte(raw), &cs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return &cs
}

func TestBuildListCanonicalizes(t *testing.T) {
	list, err := buildList(parseInput(t, sampleInput))
	if err != nil {
		t.Fatal(err)
	}
	if list.Len() != 2 {
		t.Fatalf("accounts = %d, want 2", list.Len())
	}

	// Input order is 0x22.. then 0x11..; output must be ascending.
	addrs := list.Addresses()
	if addrs[0] != types.HexToAddress("0x1111111111111111111111111111111111111111") {
		t.Fatalf("accounts not canonicalized: %v", addrs)
	}

	acct := list.Account(addrs[0])
	if len(acct.BalanceChanges) != 2 || acct.BalanceChanges[0].PostBalance.Uint64() != 100 ||
		acct.BalanceChanges[1].PostBalance.Uint64() != 0x1fa {
		t.Fatalf("balance changes: %+v", acct.BalanceChanges)
	}
	if acct.CodeChange == nil || acct.CodeChange.TxIndex != 1 {
		t.Fatalf("code change: %+v", acct.CodeChange)
	}
	if err := list.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBuildListDeterministicHash(t *testing.T) {
	a, err := buildList(parseInput(t, sampleInput))
	if err != nil {
		t.Fatal(err)
	}
	b, err := buildList(parseInput(t, sampleInput))
	if err != nil {
		t.Fatal(err)
	}
	if a.CommitmentHash() != b.CommitmentHash() {
		t.Fatal("same input produced different commitments")
	}
}

func TestBuildListRejectsOutOfOrder(t *testing.T) {
	input := `{
  "accounts": [
    {
      "address": "0x1111111111111111111111111111111111111111",
      "nonceChanges": [
        {"txIndex": 5, "postNonce": 1},
        {"txIndex": 5, "postNonce": 2}
      ]
    }
  ]
}`
	if _, err := buildList(parseInput(t, input)); !errors.Is(err, bal.ErrOutOfOrderChange) {
		t.Fatalf("got %v, want ErrOutOfOrderChange", err)
	}
}

func TestBuildListEmpty(t *testing.T) {
	list, err := buildList(parseInput(t, `{"accounts": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if list.CommitmentHash() != bal.EmptyListHash {
		t.Fatalf("empty input hash = %s", list.CommitmentHash().Hex())
	}
}

func TestParseU256(t *testing.T) {
	v, err := parseU256("1000")
	if err != nil || v.Uint64() != 1000 {
		t.Fatalf("decimal: %v %v", v, err)
	}
	v, err = parseU256("0xff")
	if err != nil || v.Uint64() != 255 {
		t.Fatalf("hex: %v %v", v, err)
	}
	if _, err := parseU256("not-a-number"); err == nil {
		t.Fatal("garbage accepted")
	}
}
