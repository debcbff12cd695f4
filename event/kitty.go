// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/ava-labs/kittyvm/codec"
)

type Kind uint8

const (
	Created Kind = iota
	Transferred
	Bought
	Listed
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Transferred:
		return "transferred"
	case Bought:
		return "bought"
	case Listed:
		return "listed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is a notification about a kitty. Which fields are meaningful depends
// on Kind:
//
//	Created:     Owner, KittyID
//	Transferred: From, To, KittyID
//	Bought:      From (buyer), To (seller), KittyID, Price
//	Listed:      Owner, KittyID, Price (zero when delisted)
type Event struct {
	Kind    Kind          `json:"kind"`
	Owner   codec.Address `json:"owner"`
	From    codec.Address `json:"from"`
	To      codec.Address `json:"to"`
	KittyID uint64        `json:"kittyID"`
	Price   uint64        `json:"price,omitempty"`
}

var (
	_ Subscription[Event]        = (*Recorder)(nil)
	_ SubscriptionFactory[Event] = (*Recorder)(nil)
)

// Recorder keeps every accepted event in memory.
type Recorder struct {
	l      sync.Mutex
	events []Event
	closed bool
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// New returns [r] itself, so a single recorder can be shared with its
// creator.
func (r *Recorder) New() (Subscription[Event], error) {
	return r, nil
}

func (r *Recorder) Accept(_ context.Context, e Event) error {
	r.l.Lock()
	defer r.l.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error {
	r.l.Lock()
	defer r.l.Unlock()

	r.closed = true
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.l.Lock()
	defer r.l.Unlock()

	return append([]Event(nil), r.events...)
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.l.Lock()
	defer r.l.Unlock()

	r.events = nil
}
