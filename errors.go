// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

import "errors"

// ErrBusy is returned by [Controller.Enable] when a configuration is
// already active. Enable is otherwise idempotent-rejecting: calling it
// again while Active never disturbs the running configuration.
var ErrBusy = errors.New("pagereport: a configuration is already active")

// ErrOutOfMemory is returned by [Controller.Enable] when allocating the
// per-region candidate index failed for at least one region. Enable
// rolls back any indexes it had already allocated before returning this
// error, so no partial enable is ever observable.
var ErrOutOfMemory = errors.New("pagereport: failed to allocate candidate index")

// IsBusy reports whether err is (or wraps) [ErrBusy].
func IsBusy(err error) bool {
	return errors.Is(err, ErrBusy)
}

// IsOutOfMemory reports whether err is (or wraps) [ErrOutOfMemory].
func IsOutOfMemory(err error) bool {
	return errors.Is(err, ErrOutOfMemory)
}
