// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package micro

import log "github.com/sirupsen/logrus"

// logger is the package-level structured logger every runner and
// lifecycle hook writes trace/debug events through, the same
// package-level logrus logger pattern dcos-dcos-go's statsd package
// uses rather than threading a logger value through every call.
var logger = log.StandardLogger()

// SetLogger replaces the package-level logger, e.g. to route this
// module's trace output into an application's own logrus instance.
func SetLogger(l *log.Logger) {
	logger = l
}

func logFork(daemon bool) {
	logger.WithField("daemon", daemon).Trace("micro: fork started")
}

func logHandleSettled(failed, aborted bool) {
	entry := logger.WithField("failed", failed).WithField("aborted", aborted)
	entry.Trace("micro: handle settled")
}

func logScopeClosed(failures int) {
	entry := logger.WithField("failures", failures)
	if failures > 0 {
		entry.Warn("micro: scope closed with finalizer failures")
		return
	}
	entry.Trace("micro: scope closed")
}
