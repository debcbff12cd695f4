// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/kittyvm/actions"
	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/event"
	"github.com/ava-labs/kittyvm/utils"
)

// BlockReport is the outcome of a single plan block.
type BlockReport struct {
	Height  uint64          `json:"height"`
	Results []*chain.Result `json:"results"`
	Events  []event.Event   `json:"events"`
}

func newRunCmd(k *kittyCLI) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Execute a scenario plan, use - to read it from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b   []byte
				err error
			)
			if args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			plan, err := unmarshalPlan(b)
			if err != nil {
				return err
			}
			n, err := k.open(cmd.Context(), plan.Accounts)
			if err != nil {
				return err
			}
			defer n.Close()

			reports, err := runPlan(cmd.Context(), n, plan)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			}
			for i, report := range reports {
				printReport(n.HRP(), &plan.Blocks[i], report)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print block reports as JSON")
	return cmd
}

func runPlan(ctx context.Context, n *node, plan *Plan) ([]*BlockReport, error) {
	reports := make([]*BlockReport, 0, len(plan.Blocks))
	for i, pblk := range plan.Blocks {
		txs := make([]*chain.Transaction, len(pblk.Txs))
		for j := range pblk.Txs {
			tx, err := pblk.Txs[j].Build(n.HRP())
			if err != nil {
				return nil, fmt.Errorf("block %d tx %d: %w", i, j, err)
			}
			txs[j] = tx
		}
		blk := n.NextBlock(txs...)
		results, err := n.Accept(ctx, blk)
		if err != nil {
			return nil, err
		}
		reports = append(reports, &BlockReport{
			Height:  blk.Height,
			Results: results,
			Events:  n.recorder.Events(),
		})
		n.recorder.Reset()
		n.Logger().Debug("executed plan block",
			zap.String("plan", plan.Name),
			zap.Int("index", i),
			zap.Uint64("height", blk.Height),
		)
	}
	return reports, nil
}

func printReport(hrp string, pblk *Block, report *BlockReport) {
	utils.Outf("{{yellow}}block %d{{/}} {{light-gray}}%s{{/}}\n", report.Height, pblk.Description)
	for i, result := range report.Results {
		tx := pblk.Txs[i]
		if !result.Success {
			utils.Outf("  {{red}}%s %s failed{{/}} (%s): %s\n", tx.Actor, tx.Action, result.Kind, result.Error)
			continue
		}
		if len(result.Output) == 0 {
			utils.Outf("  {{green}}%s %s{{/}}\n", tx.Actor, tx.Action)
			continue
		}
		id, err := actions.UnpackKittyID(result.Output)
		if err != nil {
			utils.Outf("  {{green}}%s %s{{/}} output=%x\n", tx.Actor, tx.Action, result.Output)
			continue
		}
		utils.Outf("  {{green}}%s %s{{/}} kitty=%d\n", tx.Actor, tx.Action, id)
	}
	for _, e := range report.Events {
		switch e.Kind {
		case event.Created:
			utils.Outf("    {{cyan}}%s{{/}} kitty=%d owner=%s\n", e.Kind, e.KittyID, codec.MustAddressBech32(hrp, e.Owner))
		case event.Listed:
			utils.Outf("    {{cyan}}%s{{/}} kitty=%d owner=%s price=%d\n", e.Kind, e.KittyID, codec.MustAddressBech32(hrp, e.Owner), e.Price)
		case event.Transferred:
			utils.Outf("    {{cyan}}%s{{/}} kitty=%d from=%s to=%s\n", e.Kind, e.KittyID, codec.MustAddressBech32(hrp, e.From), codec.MustAddressBech32(hrp, e.To))
		case event.Bought:
			utils.Outf("    {{cyan}}%s{{/}} kitty=%d buyer=%s seller=%s price=%d\n", e.Kind, e.KittyID, codec.MustAddressBech32(hrp, e.From), codec.MustAddressBech32(hrp, e.To), e.Price)
		}
	}
}
