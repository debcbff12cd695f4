// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package randomness

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
)

var (
	ErrHeightRegressed = errors.New("height regressed")
	ErrHeightSkipped   = errors.New("height skipped")
)

// Fixed always returns the same seed.
type Fixed ids.ID

func (f Fixed) Sample(context.Context) (ids.ID, error) {
	return ids.ID(f), nil
}

// Advance is a no-op, a [Fixed] beacon never changes.
func (Fixed) Advance(uint64, ids.ID) error {
	return nil
}

func (Fixed) Restore(uint64, ids.ID) {}

// HashChain derives one seed per block height:
//
//	seed(h) = sha256(seed(h-1) || bigEndian(h) || parent)
//
// where parent is the digest of the transactions accepted at h-1 and seed(0)
// is the genesis seed. A seed can only be computed once the parent block is
// known, and every invocation within a block observes the same value.
type HashChain struct {
	l      sync.RWMutex
	height uint64
	seed   ids.ID
}

// NewHashChain returns a chain whose seed at [height] is [seed].
func NewHashChain(seed ids.ID, height uint64) *HashChain {
	return &HashChain{
		height: height,
		seed:   seed,
	}
}

// Derive computes the seed at [height] from the seed of the previous height
// and the digest of the previous block.
func Derive(prev ids.ID, height uint64, parent ids.ID) ids.ID {
	b := make([]byte, 0, 2*ids.IDLen+8)
	b = append(b, prev[:]...)
	b = binary.BigEndian.AppendUint64(b, height)
	b = append(b, parent[:]...)
	return hashing.ComputeHash256Array(b)
}

// Advance moves the chain to [height], which must directly follow the
// current height.
func (c *HashChain) Advance(height uint64, parent ids.ID) error {
	c.l.Lock()
	defer c.l.Unlock()

	switch {
	case height <= c.height:
		return fmt.Errorf("%w: at %d but got %d", ErrHeightRegressed, c.height, height)
	case height > c.height+1:
		return fmt.Errorf("%w: at %d but got %d", ErrHeightSkipped, c.height, height)
	}
	c.height = height
	c.seed = Derive(c.seed, height, parent)
	return nil
}

// Restore resets the chain to a [seed] previously observed at [height].
func (c *HashChain) Restore(height uint64, seed ids.ID) {
	c.l.Lock()
	defer c.l.Unlock()

	c.height = height
	c.seed = seed
}

func (c *HashChain) Height() uint64 {
	c.l.RLock()
	defer c.l.RUnlock()

	return c.height
}

func (c *HashChain) Sample(context.Context) (ids.ID, error) {
	c.l.RLock()
	defer c.l.RUnlock()

	return c.seed, nil
}
