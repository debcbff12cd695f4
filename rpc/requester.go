// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/rpc"
)

// EndpointRequester prefixes every method with the service name before
// sending it to the endpoint.
type EndpointRequester struct {
	cli  rpc.EndpointRequester
	base string
}

func NewEndpointRequester(uri, base string) *EndpointRequester {
	return &EndpointRequester{
		cli:  rpc.NewEndpointRequester(uri),
		base: base,
	}
}

func (e *EndpointRequester) SendRequest(
	ctx context.Context,
	method string,
	params interface{},
	reply interface{},
) error {
	return e.cli.SendRequest(
		ctx,
		fmt.Sprintf("%s.%s", e.base, method),
		params,
		reply,
	)
}
