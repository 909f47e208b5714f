// Command balhash builds a block access list from a JSON description of
// per-account state changes and prints its canonical RLP encoding and
// keccak-256 commitment. It is a producer-side debugging tool: the JSON
// input stands in for the change stream an execution engine would record.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/holiman/uint256"

	"github.com/balkit/balkit/bal"
	"github.com/balkit/balkit/log"
	"github.com/balkit/balkit/types"
)

type changeSetJSON struct {
	Accounts []accountJSON `json:"accounts"`
}

type accountJSON struct {
	Address        string            `json:"address"`
	BalanceChanges []balanceJSON     `json:"balanceChanges,omitempty"`
	NonceChanges   []nonceJSON       `json:"nonceChanges,omitempty"`
	StorageChanges []slotChangesJSON `json:"storageChanges,omitempty"`
	CodeChange     *codeJSON         `json:"codeChange,omitempty"`
}

type balanceJSON struct {
	TxIndex     uint64 `json:"txIndex"`
	PostBalance string `json:"postBalance"`
}

type nonceJSON struct {
	TxIndex   uint64 `json:"txIndex"`
	PostNonce uint64 `json:"postNonce"`
}

type slotChangesJSON struct {
	Slot    string        `json:"slot"`
	Changes []storageJSON `json:"changes"`
}

type storageJSON struct {
	TxIndex   uint64 `json:"txIndex"`
	PostValue string `json:"postValue"`
}

type codeJSON struct {
	TxIndex uint64 `json:"txIndex"`
	NewCode string `json:"newCode"`
}

func main() {
	var (
		inputPath = flag.String("input", "-", "JSON change-set file, or - for stdin")
		hashOnly  = flag.Bool("hash-only", false, "print only the commitment hash")
		logLevel  = flag.String("log-level", "info", "log verbosity (debug, info, warn, error)")
	)
	flag.Parse()

	log.SetDefault(log.New(log.LevelFromString(*logLevel)))
	logger := log.Default().Module("balhash")

	data, err := readInput(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading input: %v\n", err)
		os.Exit(1)
	}

	var cs changeSetJSON
	if err := json.Unmarshal(data, &cs); err != nil {
		fmt.Fprintf(os.Stderr, "parsing input: %v\n", err)
		os.Exit(1)
	}

	list, err := buildList(&cs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building access list: %v\n", err)
		os.Exit(1)
	}
	if err := list.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "validating access list: %v\n", err)
		os.Exit(1)
	}

	encoded := list.EncodeRLP()
	hash := list.CommitmentHash()
	logger.Debug("access list built", "accounts", list.Len(), "bytes", len(encoded))

	if *hashOnly {
		fmt.Println(hash.Hex())
		return
	}
	fmt.Printf("rlp:        0x%x\n", encoded)
	fmt.Printf("commitment: %s\n", hash.Hex())
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// buildList replays the JSON change set through the canonicalizing builder,
// so account and slot order in the input does not affect the commitment.
func buildList(cs *changeSetJSON) (*bal.BlockAccessList, error) {
	builder := bal.NewBuilder()
	for i := range cs.Accounts {
		in := &cs.Accounts[i]
		acct := builder.Account(types.HexToAddress(in.Address))

		for _, c := range in.BalanceChanges {
			balance, err := parseU256(c.PostBalance)
			if err != nil {
				return nil, fmt.Errorf("account %s balance at tx %d: %w", in.Address, c.TxIndex, err)
			}
			if err := acct.AppendBalanceChange(c.TxIndex, balance); err != nil {
				return nil, err
			}
		}
		for _, c := range in.NonceChanges {
			if err := acct.AppendNonceChange(c.TxIndex, c.PostNonce); err != nil {
				return nil, err
			}
		}
		for _, sc := range in.StorageChanges {
			slot := types.HexToHash(sc.Slot)
			for _, c := range sc.Changes {
				if err := acct.AppendStorageChange(slot, c.TxIndex, types.HexToHash(c.PostValue)); err != nil {
					return nil, err
				}
			}
		}
		if in.CodeChange != nil {
			code, err := hex.DecodeString(strings.TrimPrefix(in.CodeChange.NewCode, "0x"))
			if err != nil {
				return nil, fmt.Errorf("account %s code: %w", in.Address, err)
			}
			if err := acct.SetCodeChange(in.CodeChange.TxIndex, code); err != nil {
				return nil, err
			}
		}
	}
	return builder.Finalize()
}

// parseU256 accepts 0x-prefixed hex or plain decimal.
func parseU256(s string) (*uint256.Int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return uint256.FromHex(s)
	}
	v := new(uint256.Int)
	if err := v.SetFromDecimal(s); err != nil {
		return nil, err
	}
	return v, nil
}
