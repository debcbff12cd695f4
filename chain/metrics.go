// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type chainMetrics struct {
	blocksAccepted  prometheus.Counter
	txsAccepted     prometheus.Counter
	txsFailed       prometheus.Counter
	stateChanges    prometheus.Counter
	stateOperations prometheus.Counter
	lastAccepted    prometheus.Gauge

	blockProcess metric.Averager
}

func newMetrics(r prometheus.Registerer) (*chainMetrics, error) {
	blockProcess, err := metric.NewAverager(
		"",
		"chain_block_process",
		"time spent processing blocks",
		r,
	)
	if err != nil {
		return nil, err
	}

	m := &chainMetrics{
		blocksAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "blocks_accepted",
			Help:      "number of blocks accepted",
		}),
		txsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_accepted",
			Help:      "number of txs that executed successfully",
		}),
		txsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_failed",
			Help:      "number of txs that were rolled back",
		}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "state_changes",
			Help:      "number of state changes",
		}),
		stateOperations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "state_operations",
			Help:      "number of state operations",
		}),
		lastAccepted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chain",
			Name:      "last_accepted_height",
			Help:      "height of the last accepted block",
		}),
		blockProcess: blockProcess,
	}

	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.blocksAccepted),
		r.Register(m.txsAccepted),
		r.Register(m.txsFailed),
		r.Register(m.stateChanges),
		r.Register(m.stateOperations),
		r.Register(m.lastAccepted),
	)
	return m, errs.Err
}
