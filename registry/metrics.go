// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	created     prometheus.Counter
	bred        prometheus.Counter
	transferred prometheus.Counter
	listed      prometheus.Counter
	bought      prometheus.Counter
	feesPaid    prometheus.Counter
	volume      prometheus.Counter
	failures    *prometheus.CounterVec
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "kitties_created",
			Help:      "number of kitties created without parents",
		}),
		bred: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "kitties_bred",
			Help:      "number of kitties bred from two parents",
		}),
		transferred: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "kitties_transferred",
			Help:      "number of direct transfers",
		}),
		listed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "listings_updated",
			Help:      "number of listings set or cleared",
		}),
		bought: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "kitties_bought",
			Help:      "number of kitties bought",
		}),
		feesPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "fees_paid",
			Help:      "sum of creation fees paid to the treasury",
		}),
		volume: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "sale_volume",
			Help:      "sum of prices paid for kitties",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registry",
			Name:      "failures",
			Help:      "number of failed operations",
		}, []string{"operation", "kind"}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.created),
		r.Register(m.bred),
		r.Register(m.transferred),
		r.Register(m.listed),
		r.Register(m.bought),
		r.Register(m.feesPaid),
		r.Register(m.volume),
		r.Register(m.failures),
	)
	return m, errs.Err
}

func (m *metrics) fail(operation string, err error) {
	m.failures.WithLabelValues(operation, ErrorKind(err)).Inc()
}
