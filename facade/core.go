// File: facade/core.go
// Unified lifecycle facade for the hioload-tls core.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Core aggregates process-wide initialization and teardown of the pool
// subsystem (per-CPU scratch pools, profile registry) and the connection
// subsystem (per-CPU object caches), and wires their counters into the
// control probes.

package facade

import (
	"log"
	"sync"

	"github.com/momentics/hioload-tls/connection"
	"github.com/momentics/hioload-tls/control"
	"github.com/momentics/hioload-tls/pool"
)

// Config holds parameters immutable per run.
type Config struct {
	ConnCacheLimit int  // Per-CPU live connection cap
	EnableMetrics  bool // Whether to maintain the metrics registry
	EnableDebug    bool // Whether to register debug probes
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		ConnCacheLimit: connection.DefaultCacheLimit,
		EnableMetrics:  true,
		EnableDebug:    true,
	}
}

// Core is the process-wide subsystem handle.
type Core struct {
	cfg     *Config
	metrics *control.MetricsRegistry
	probes  *control.DebugProbes

	mu      sync.Mutex
	started bool
}

// New creates an uninitialized Core. A nil config selects defaults.
func New(cfg *Config) *Core {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := &Core{cfg: cfg}
	if cfg.EnableMetrics {
		c.metrics = control.NewMetricsRegistry()
	}
	if cfg.EnableDebug {
		c.probes = control.NewDebugProbes()
	}
	return c
}

// Init brings the pool and connection subsystems up. Blocking context only.
func (c *Core) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}

	if err := pool.MpoolInit(); err != nil {
		return err
	}
	if err := connection.InitLimit(c.cfg.ConnCacheLimit); err != nil {
		pool.MpoolExit()
		return err
	}

	if c.probes != nil {
		c.probes.RegisterProbe("mpool.scratch", func() any { return pool.ScratchStats() })
		c.probes.RegisterProbe("mpool.profiles", func() any { return pool.DefaultProfiles.Stats() })
		c.probes.RegisterProbe("conn.cache", func() any { return connection.Stats() })
	}

	c.started = true
	log.Printf("[core] pool and connection subsystems initialized")
	return nil
}

// Exit zeroes and releases all scratch pools and populated profiles and
// destroys the connection caches. Process teardown only.
func (c *Core) Exit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return
	}
	connection.Exit()
	pool.MpoolExit()
	c.started = false
	log.Printf("[core] pool and connection subsystems stopped")
}

// Metrics returns the metrics registry, nil when disabled.
func (c *Core) Metrics() *control.MetricsRegistry { return c.metrics }

// Probes returns the debug probe registry, nil when disabled.
func (c *Core) Probes() *control.DebugProbes { return c.probes }
