// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/rpc"
	"github.com/ava-labs/kittyvm/server"
)

const baseURL = "/ext"

type serveConfig struct {
	address         string
	allowedOrigins  []string
	allowedHosts    []string
	shutdownTimeout time.Duration
}

func newServeCmd(k *kittyCLI) *cobra.Command {
	c := &serveConfig{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API and metrics over the local database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return k.serve(ctx, c)
		},
	}
	cmd.Flags().StringVar(&c.address, "http-address", "127.0.0.1:9650", "address to listen on")
	cmd.Flags().StringSliceVar(&c.allowedOrigins, "allowed-origins", []string{"*"}, "CORS allowed origins")
	cmd.Flags().StringSliceVar(&c.allowedHosts, "allowed-hosts", []string{"localhost"}, "allowed Host headers")
	cmd.Flags().DurationVar(&c.shutdownTimeout, "shutdown-timeout", 10*time.Second, "time allowed for in-flight requests on shutdown")
	return cmd
}

func (k *kittyCLI) serve(ctx context.Context, c *serveConfig) error {
	n, err := k.open(ctx, nil)
	if err != nil {
		return err
	}
	defer n.Close()

	listener, err := net.Listen("tcp", c.address)
	if err != nil {
		return err
	}
	srv, err := server.New(
		baseURL,
		k.log,
		listener,
		server.NewDefaultHTTPConfig(),
		c.allowedOrigins,
		c.allowedHosts,
		c.shutdownTimeout,
	)
	if err != nil {
		return err
	}
	handler, err := rpc.NewJSONRPCHandler(rpc.Name, rpc.NewJSONRPCServer(n))
	if err != nil {
		return err
	}
	if err := srv.AddRoute(handler, consts.Name, rpc.JSONRPCEndpoint); err != nil {
		return err
	}
	metrics := server.NewMetricsHandler(n.registry, n.dbRegistry)
	if err := srv.AddRoute(metrics, consts.Name, server.MetricsEndpoint); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Dispatch(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		k.log.Info("shutting down API", zap.Error(context.Cause(gctx)))
		return srv.Shutdown()
	})
	return g.Wait()
}
