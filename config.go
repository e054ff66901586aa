// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

import "time"

// Defaults applied by [NewConfig] unless overridden.
const (
	DefaultMaxPages = 16
	DefaultMinOrder = 9
	DefaultPageSize = 4096
	DefaultDebounce = 100 * time.Millisecond
)

// Config is the configuration handed to [Controller.Enable]. Exactly
// one Config may be active per Controller at a time; Config values are
// treated as opaque identity tokens by [Controller.Disable], which
// compares by pointer to verify the caller is disabling the
// configuration it actually enabled.
type Config struct {
	report   ReportFunc
	maxPages int
	minOrder uint8
	pageSize uint64
	debounce time.Duration
	logger   Logger
}

// ConfigBuilder creates [Config] values with fluent configuration,
// mirroring the allocator ecosystem's own queue-builder pattern.
//
// Example:
//
//	cfg := pagereport.NewConfig(report).
//	    MaxPages(16).
//	    MinOrder(9).
//	    Build()
type ConfigBuilder struct {
	cfg Config
}

// NewConfig creates a builder for a [Config] that invokes report for
// every emitted batch. Panics if report is nil — a configuration with
// no way to report anything is a programming error, not a runtime
// condition to recover from.
func NewConfig(report ReportFunc) *ConfigBuilder {
	if report == nil {
		panic("pagereport: report callback must not be nil")
	}
	return &ConfigBuilder{cfg: Config{
		report:   report,
		maxPages: DefaultMaxPages,
		minOrder: DefaultMinOrder,
		pageSize: DefaultPageSize,
		debounce: DefaultDebounce,
		logger:   noopLogger{},
	}}
}

// MaxPages sets the staging batch capacity. Panics if n < 1.
func (b *ConfigBuilder) MaxPages(n int) *ConfigBuilder {
	if n < 1 {
		panic("pagereport: MaxPages must be >= 1")
	}
	b.cfg.maxPages = n
	return b
}

// MinOrder sets the minimum block order the external consumer is
// interested in. Sub-minimum frees are filtered at the hook and never
// reach the candidate index.
func (b *ConfigBuilder) MinOrder(order uint8) *ConfigBuilder {
	b.cfg.minOrder = order
	return b
}

// PageSize sets the allocator's page size in bytes. The value is stored
// in the configuration only: batches passed to the report callback do
// not carry a byte length, and [BatchEntry.LengthBytes] takes the page
// size as its argument rather than reading this setting.
func (b *ConfigBuilder) PageSize(n uint64) *ConfigBuilder {
	if n == 0 {
		panic("pagereport: PageSize must be > 0")
	}
	b.cfg.pageSize = n
	return b
}

// Debounce sets the minimum wall-clock delay between a wake request and
// the start of a scan cycle, coalescing bursts of frees into one scan.
func (b *ConfigBuilder) Debounce(d time.Duration) *ConfigBuilder {
	if d < 0 {
		panic("pagereport: Debounce must be >= 0")
	}
	b.cfg.debounce = d
	return b
}

// Logger sets the diagnostics sink. Defaults to a no-op logger.
func (b *ConfigBuilder) Logger(l Logger) *ConfigBuilder {
	if l == nil {
		l = noopLogger{}
	}
	b.cfg.logger = l
	return b
}

// Build returns the assembled Config. The builder may be reused or
// discarded afterwards; Build always returns a fresh value.
func (b *ConfigBuilder) Build() *Config {
	cfg := b.cfg
	return &cfg
}
