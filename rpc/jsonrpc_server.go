// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/genesis"
	"github.com/ava-labs/kittyvm/genome"
	"github.com/ava-labs/kittyvm/storage"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// JSONRPCServer serves read-only queries against committed state.
type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

type GenesisReply struct {
	Genesis *genesis.Genesis `json:"genesis"`
}

func (j *JSONRPCServer) Genesis(_ *http.Request, _ *struct{}, reply *GenesisReply) (err error) {
	reply.Genesis = j.c.Genesis()
	return nil
}

type LastAcceptedReply struct {
	Height uint64 `json:"height"`
}

func (j *JSONRPCServer) LastAccepted(_ *http.Request, _ *struct{}, reply *LastAcceptedReply) error {
	reply.Height = j.c.LastAccepted()
	return nil
}

type TreasuryReply struct {
	Address   string `json:"address"`
	CreateFee uint64 `json:"createFee"`
}

func (j *JSONRPCServer) Treasury(_ *http.Request, _ *struct{}, reply *TreasuryReply) error {
	addr, err := codec.AddressBech32(j.c.HRP(), j.c.Treasury())
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.CreateFee = j.c.CreateFee()
	return nil
}

type CountReply struct {
	Count uint64 `json:"count"`
}

func (j *JSONRPCServer) Count(req *http.Request, _ *struct{}, reply *CountReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Count")
	defer span.End()

	count, err := storage.GetKittiesCountFromState(ctx, j.c.ReadState)
	if err != nil {
		return err
	}
	reply.Count = count
	return nil
}

type KittyArgs struct {
	ID uint64 `json:"id"`
}

type KittyReply struct {
	Genome genome.Genome `json:"genome"`
	Owner  string        `json:"owner"`
	Price  uint64        `json:"price"`
}

func (j *JSONRPCServer) Kitty(req *http.Request, args *KittyArgs, reply *KittyReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Kitty", oteltrace.WithAttributes(
		attribute.String("id", strconv.FormatUint(args.ID, 10)),
	))
	defer span.End()

	exists, g, owner, price, err := storage.GetKittyFromState(ctx, j.c.ReadState, args.ID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrKittyNotFound
	}
	addr, err := codec.AddressBech32(j.c.HRP(), owner)
	if err != nil {
		return err
	}
	reply.Genome = g
	reply.Owner = addr
	reply.Price = price
	return nil
}

type BalanceArgs struct {
	Address string `json:"address"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "Server.Balance")
	defer span.End()

	addr, err := codec.ParseAddressBech32(j.c.HRP(), args.Address)
	if err != nil {
		return err
	}
	balance, err := storage.GetBalanceFromState(ctx, j.c.ReadState, addr)
	if err != nil {
		return err
	}
	reply.Amount = balance
	return nil
}
