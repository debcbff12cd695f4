// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/trace"
)

const (
	defaultKittyCreateFee         = 5
	defaultExistentialDeposit     = 1
	defaultTreasuryModuleID       = "kitty/treasury"
	defaultClearListingOnTransfer = true
	defaultTraceSampleRate        = 0.1
)

type Config struct {
	// Registry
	KittyCreateFee   uint64 `json:"kittyCreateFee"`
	TreasuryModuleID string `json:"treasuryModuleID"`

	// When false, a transfer leaves an existing listing in place and the new
	// owner inherits it.
	ClearListingOnTransfer bool `json:"clearListingOnTransfer"`

	// Payment
	ExistentialDeposit uint64 `json:"existentialDeposit"`

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled"`
	TraceSampleRate float64 `json:"traceSampleRate"`
	TraceEndpoint   string  `json:"traceEndpoint"`

	// Misc
	HRP      string        `json:"hrp"`
	LogLevel logging.Level `json:"logLevel"`
}

func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if len(c.TreasuryModuleID) == 0 {
		return nil, ErrMissingTreasuryModuleID
	}
	return c, nil
}

func (c *Config) setDefault() {
	c.KittyCreateFee = defaultKittyCreateFee
	c.TreasuryModuleID = defaultTreasuryModuleID
	c.ClearListingOnTransfer = defaultClearListingOnTransfer
	c.ExistentialDeposit = defaultExistentialDeposit
	c.TraceSampleRate = defaultTraceSampleRate
	c.HRP = consts.HRP
	c.LogLevel = logging.Info
}

// Treasury returns the account that receives creation fees.
func (c *Config) Treasury() codec.Address {
	return codec.DeriveAddress(consts.TreasuryTypeID, []byte(c.TreasuryModuleID))
}

func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		TraceSampleRate: c.TraceSampleRate,
		AppName:         consts.Name,
		Agent:           consts.Name,
		Version:         consts.Version,
		Endpoint:        c.TraceEndpoint,
	}
}
