// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/rpc"
	"github.com/ava-labs/kittyvm/utils"
)

func newKittyCmd(k *kittyCLI) *cobra.Command {
	var endpoint string
	cmd := &cobra.Command{
		Use:   "kitty [id]",
		Short: "Show a kitty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgs, err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			if len(endpoint) > 0 {
				cli := rpc.NewJSONRPCClient(endpoint)
				exists, g, owner, price, err := cli.Kitty(ctx, id)
				if err != nil {
					return err
				}
				if !exists {
					return fmt.Errorf("%w: id=%d", rpc.ErrKittyNotFound, id)
				}
				utils.Outf("{{yellow}}kitty %d{{/}} genome=%s owner=%s price=%d\n", id, g, owner, price)
				return nil
			}

			n, err := k.open(ctx, nil)
			if err != nil {
				return err
			}
			defer n.Close()
			kitty, err := n.Kitty(ctx, id)
			if err != nil {
				return err
			}
			owner, err := codec.AddressBech32(n.HRP(), kitty.Owner)
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}kitty %d{{/}} genome=%s owner=%s price=%d\n", id, kitty.Genome, owner, kitty.Price)
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "query a running kitty-cli serve instead of the local database")
	return cmd
}

func newBalanceCmd(k *kittyCLI) *cobra.Command {
	var endpoint string
	cmd := &cobra.Command{
		Use:   "balance [account]",
		Short: "Show the balance of an account name or address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			if len(endpoint) > 0 {
				cli := rpc.NewJSONRPCClient(endpoint)
				g, err := cli.Genesis(ctx)
				if err != nil {
					return err
				}
				account, err := accountAddress(g.HRP, args[0])
				if err != nil {
					return err
				}
				addr, err := codec.AddressBech32(g.HRP, account)
				if err != nil {
					return err
				}
				bal, err := cli.Balance(ctx, addr)
				if err != nil {
					return err
				}
				utils.Outf("{{yellow}}%s{{/}} balance=%d\n", addr, bal)
				return nil
			}

			n, err := k.open(ctx, nil)
			if err != nil {
				return err
			}
			defer n.Close()
			addr, err := accountAddress(n.HRP(), args[0])
			if err != nil {
				return err
			}
			bal, err := n.Balance(ctx, addr)
			if err != nil {
				return err
			}
			utils.Outf("{{yellow}}%s{{/}} balance=%d\n", codec.MustAddressBech32(n.HRP(), addr), bal)
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "query a running kitty-cli serve instead of the local database")
	return cmd
}
