// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genome

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/ava-labs/avalanchego/ids"
	"golang.org/x/crypto/blake2b"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

// Genome is the opaque DNA of a kitty.
type Genome [consts.GenomeLen]byte

func (g Genome) String() string {
	return hex.EncodeToString(g[:])
}

// MarshalText returns the hex representation of g.
func (g Genome) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Genome) UnmarshalText(b []byte) error {
	decoded, err := hex.DecodeString(string(b))
	if err != nil {
		return err
	}
	if len(decoded) != consts.GenomeLen {
		return codec.ErrInsufficientLength
	}
	copy(g[:], decoded)
	return nil
}

// Selector derives 16 bytes from the random [seed], the [actor] and an
// [index] that differs between calls made with the same seed.
func Selector(seed ids.ID, actor codec.Address, index uint64) Genome {
	// blake2b.New only fails for oversized keys or sizes.
	h, _ := blake2b.New(consts.GenomeLen, nil)
	_, _ = h.Write(seed[:])
	_, _ = h.Write(actor[:])
	_, _ = h.Write(binary.BigEndian.AppendUint64(nil, index))

	var g Genome
	copy(g[:], h.Sum(nil))
	return g
}

// Originate returns the genome of a kitty with no parents.
func Originate(seed ids.ID, actor codec.Address, index uint64) Genome {
	return Selector(seed, actor, index)
}

// Crossover mixes two parents bit by bit. Where [sel] is set the bit comes
// from [a], otherwise from [b].
func Crossover(sel, a, b Genome) Genome {
	var child Genome
	for i := range child {
		child[i] = (sel[i] & a[i]) | (^sel[i] & b[i])
	}
	return child
}
