// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

// TypeParser maps a one byte type id to the function that decodes it.
type TypeParser[T any] struct {
	decoders map[uint8]func(*Packer) (T, error)
}

// NewTypeParser returns an empty parser.
func NewTypeParser[T any]() *TypeParser[T] {
	return &TypeParser[T]{decoders: map[uint8]func(*Packer) (T, error){}}
}

// Register adds [f] as the decoder for [typeID]. Each type id may only be
// registered once.
func (p *TypeParser[T]) Register(typeID uint8, f func(*Packer) (T, error)) error {
	if _, ok := p.decoders[typeID]; ok {
		return ErrDuplicateItem
	}
	p.decoders[typeID] = f
	return nil
}

// Unmarshal reads a type id from [pk] and decodes the item that follows it.
func (p *TypeParser[T]) Unmarshal(pk *Packer) (T, error) {
	var empty T
	typeID := pk.UnpackByte()
	if err := pk.Err(); err != nil {
		return empty, err
	}
	f, ok := p.decoders[typeID]
	if !ok {
		return empty, ErrUnknownType
	}
	return f(pk)
}
