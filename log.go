// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

// Logger is the minimal structured-logging facade the engine writes
// diagnostics to. Nothing logged through it is load-bearing for
// correctness — the core's error handling never depends on a log line
// being observed (see package docs, "Advisory Reporting").
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// noopLogger is the default [Logger] when none is configured.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)  {}
