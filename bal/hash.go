package bal

import (
	"github.com/balkit/balkit/crypto"
	"github.com/balkit/balkit/types"
)

// EmptyListHash is the commitment of an empty access list: the keccak-256
// digest of the single byte 0xc0.
var EmptyListHash = types.HexToHash("0x1dcc4de8dec75d7aab85b567b6ccd41ad312451b948a7413f0a142fd40d49347")

// CommitmentHash returns the keccak-256 digest of the canonical encoding.
// This 32-byte value is the externally visible commitment to the block's
// state changes: pure, deterministic, and reproducible by any independent
// implementation of the same wire format.
func (b *BlockAccessList) CommitmentHash() types.Hash {
	return crypto.Keccak256Hash(b.EncodeRLP())
}
