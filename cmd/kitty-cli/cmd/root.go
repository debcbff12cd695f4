// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/kittyvm/config"
	"github.com/ava-labs/kittyvm/controller"
	"github.com/ava-labs/kittyvm/event"
	"github.com/ava-labs/kittyvm/genesis"
	"github.com/ava-labs/kittyvm/pebble"
	"github.com/ava-labs/kittyvm/utils"

	ktrace "github.com/ava-labs/kittyvm/trace"
)

const (
	defaultDataDir = ".kitty-cli"
	dbFolder       = "db"
	logsFolder     = "logs"
	requestTimeout = 30 * time.Second
)

type kittyCLI struct {
	dataDir     string
	configFile  string
	genesisFile string
	logLevel    string
	showLogs    bool

	logFactory *logFactory
	log        logging.Logger
}

func NewRootCmd() *cobra.Command {
	k := &kittyCLI{}
	cmd := &cobra.Command{
		Use:        "kitty-cli",
		Short:      "Kitty registry CLI",
		SuggestFor: []string{"kitty-cli", "kittycli"},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return k.initLogger()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if k.logFactory != nil {
				k.logFactory.Close()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cmd.PersistentFlags().StringVar(&k.dataDir, "data-dir", filepath.Join(home, defaultDataDir), "directory holding the database and logs")
	cmd.PersistentFlags().StringVar(&k.configFile, "config-file", "", "registry config (JSON)")
	cmd.PersistentFlags().StringVar(&k.genesisFile, "genesis-file", "", "genesis (JSON), only applied to a new database")
	cmd.PersistentFlags().StringVar(&k.logLevel, "log-level", "info", "log level")
	cmd.PersistentFlags().BoolVar(&k.showLogs, "show-logs", false, "write logs to stderr")

	cmd.AddCommand(
		newRunCmd(k),
		newKittyCmd(k),
		newBalanceCmd(k),
		newServeCmd(k),
	)
	return cmd
}

func (k *kittyCLI) initLogger() error {
	level, err := logging.ToLevel(k.logLevel)
	if err != nil {
		return err
	}
	dir, err := utils.InitSubDirectory(k.dataDir, logsFolder)
	if err != nil {
		return err
	}
	k.logFactory = newLogFactory(logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   8,
			MaxFiles:  4,
			MaxAge:    7,
			Directory: dir,
		},
		LogLevel:                level,
		DisplayLevel:            level,
		LogFormat:               logging.JSON,
		DisableWriterDisplaying: !k.showLogs,
	})
	k.log, err = k.logFactory.Make("kitty-cli")
	return err
}

// node is a controller opened over the local pebble database.
type node struct {
	*controller.Controller

	config   *config.Config
	db       *pebble.Database
	recorder *event.Recorder
	tracer   trace.Tracer

	// Metrics of the registry and processor
	registry *prometheus.Registry
	// Metrics of the database
	dbRegistry *prometheus.Registry
}

// open loads the config and genesis files and opens the database. Named
// [accounts] are allocated at genesis next to those of the genesis file.
func (k *kittyCLI) open(ctx context.Context, accounts map[string]uint64) (*node, error) {
	var cfgBytes, genesisBytes []byte
	if len(k.configFile) > 0 {
		b, err := os.ReadFile(k.configFile)
		if err != nil {
			return nil, err
		}
		cfgBytes = b
	}
	if len(k.genesisFile) > 0 {
		b, err := os.ReadFile(k.genesisFile)
		if err != nil {
			return nil, err
		}
		genesisBytes = b
	}
	cfg, err := config.New(cfgBytes)
	if err != nil {
		return nil, err
	}
	g, err := genesis.New(genesisBytes)
	if err != nil {
		return nil, err
	}
	extra, err := allocations(g.HRP, accounts)
	if err != nil {
		return nil, err
	}
	g.CustomAllocation = append(g.CustomAllocation, extra...)

	tracer, err := ktrace.New(cfg.GetTraceConfig())
	if err != nil {
		return nil, err
	}
	dbPath, err := utils.InitSubDirectory(k.dataDir, dbFolder)
	if err != nil {
		return nil, err
	}
	db, dbRegistry, err := pebble.New(dbPath, pebble.NewDefaultConfig())
	if err != nil {
		_ = tracer.Close()
		return nil, err
	}

	var (
		registry = prometheus.NewRegistry()
		recorder = event.NewRecorder()
		eventLog = event.SubscriptionFuncFactory[event.Event]{
			AcceptF: func(_ context.Context, e event.Event) error {
				k.log.Debug("kitty event",
					zap.Stringer("kind", e.Kind),
					zap.Uint64("kittyID", e.KittyID),
					zap.Uint64("price", e.Price),
				)
				return nil
			},
		}
	)
	c, err := controller.New(ctx, cfg, g, db, k.log, tracer, registry, recorder, eventLog)
	if err != nil {
		_ = db.Close()
		_ = tracer.Close()
		return nil, err
	}
	k.log.Debug("opened database", zap.String("path", dbPath))
	return &node{
		Controller: c,
		config:     cfg,
		db:         db,
		recorder:   recorder,
		tracer:     tracer,
		registry:   registry,
		dbRegistry: dbRegistry,
	}, nil
}

func (n *node) Close() error {
	errs := wrappers.Errs{}
	errs.Add(
		n.Controller.Close(),
		n.db.Close(),
		n.tracer.Close(),
	)
	return errs.Err
}
