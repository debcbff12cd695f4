// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/kittyvm/genesis"
	"github.com/ava-labs/kittyvm/genome"
)

type JSONRPCClient struct {
	requester *EndpointRequester

	g *genesis.Genesis
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: NewEndpointRequester(uri, Name)}
}

func (cli *JSONRPCClient) Genesis(ctx context.Context) (*genesis.Genesis, error) {
	if cli.g != nil {
		return cli.g, nil
	}

	resp := new(GenesisReply)
	err := cli.requester.SendRequest(
		ctx,
		"genesis",
		nil,
		resp,
	)
	if err != nil {
		return nil, err
	}
	cli.g = resp.Genesis
	return resp.Genesis, nil
}

func (cli *JSONRPCClient) LastAccepted(ctx context.Context) (uint64, error) {
	resp := new(LastAcceptedReply)
	err := cli.requester.SendRequest(
		ctx,
		"lastAccepted",
		nil,
		resp,
	)
	return resp.Height, err
}

func (cli *JSONRPCClient) Treasury(ctx context.Context) (string, uint64, error) {
	resp := new(TreasuryReply)
	err := cli.requester.SendRequest(
		ctx,
		"treasury",
		nil,
		resp,
	)
	return resp.Address, resp.CreateFee, err
}

func (cli *JSONRPCClient) Count(ctx context.Context) (uint64, error) {
	resp := new(CountReply)
	err := cli.requester.SendRequest(
		ctx,
		"count",
		nil,
		resp,
	)
	return resp.Count, err
}

// Kitty returns false if [id] does not exist.
func (cli *JSONRPCClient) Kitty(ctx context.Context, id uint64) (bool, genome.Genome, string, uint64, error) {
	resp := new(KittyReply)
	err := cli.requester.SendRequest(
		ctx,
		"kitty",
		&KittyArgs{ID: id},
		resp,
	)
	switch {
	// We use string parsing here because the JSON-RPC library we use may not
	// allows us to perform errors.Is.
	case err != nil && strings.Contains(err.Error(), ErrKittyNotFound.Error()):
		return false, genome.Genome{}, "", 0, nil
	case err != nil:
		return false, genome.Genome{}, "", 0, err
	}
	return true, resp.Genome, resp.Owner, resp.Price, nil
}

func (cli *JSONRPCClient) Balance(ctx context.Context, addr string) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.requester.SendRequest(
		ctx,
		"balance",
		&BalanceArgs{Address: addr},
		resp,
	)
	return resp.Amount, err
}
