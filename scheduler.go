// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

// scheduleTick defers fn's execution to its own goroutine, the same
// "run on the next tick, not inline" guarantee
// other_examples/joeycumines-go-utilpkg's eventloop gives callers through
// ScheduleMicrotask — Fork's caller observes a live *Handle before the
// forked computation has necessarily started, exactly as that API
// promises the scheduled callback won't run synchronously inside the
// Schedule call itself. Go's runtime scheduler plays the role that
// package's own run loop does, so there is no tick queue to maintain
// here beyond the goroutine boundary.
func scheduleTick(fn func()) {
	go fn()
}
