// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/kittyvm/state"
)

var _ state.Database = (*Database)(nil)

type Config struct {
	CacheSize                   int64 `json:"cacheSize"`
	BytesPerSync                int   `json:"bytesPerSync"`
	WALBytesPerSync             int   `json:"walBytesPerSync"`
	MemTableStopWritesThreshold int   `json:"memTableStopWritesThreshold"`
	MaxOpenFiles                int   `json:"maxOpenFiles"`
	Sync                        bool  `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   128 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		WALBytesPerSync:             1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MaxOpenFiles:                4_096,
		Sync:                        true,
	}
}

// Database is a [state.Database] persisted on disk with pebble.
type Database struct {
	db      *pebble.DB
	cache   *pebble.Cache
	metrics *metrics

	writeOpts *pebble.WriteOptions

	closing   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func New(dir string, cfg Config) (*Database, *prometheus.Registry, error) {
	r, m, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		cache:     pebble.NewCache(cfg.CacheSize),
		metrics:   m,
		writeOpts: &pebble.WriteOptions{Sync: cfg.Sync},
		closing:   make(chan struct{}),
	}
	opts := &pebble.Options{
		Cache:                       d.cache,
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		d.cache.Unref()
		return nil, nil, err
	}
	d.db = db

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.collectMetrics()
	}()
	return d, r, nil
}

func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		d.metrics.getLatency.Observe(float64(time.Since(start)))
	}()

	v, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// [v] is only valid until [closer] is closed.
	value := make([]byte, len(v))
	copy(value, v)
	return value, closer.Close()
}

// Apply writes [changes] in a single atomic batch.
func (d *Database) Apply(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	start := time.Now()
	defer func() {
		d.metrics.applyLatency.Observe(float64(time.Since(start)))
	}()

	batch := d.db.NewBatch()
	defer batch.Close()

	for k, v := range changes {
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k), nil)
		} else {
			err = batch.Set([]byte(k), v.Value(), nil)
		}
		if err != nil {
			return err
		}
	}
	return batch.Commit(d.writeOpts)
}

func (d *Database) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.closing)
		d.wg.Wait()
		err = d.db.Close()
		d.cache.Unref()
	})
	return err
}
