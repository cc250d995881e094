// Package modkit provides module wiring and core deps
package modkit

import (
	"piiquante/internal/modkit/repokit"
	"piiquante/internal/platform/blob"
	"piiquante/internal/platform/config"
	"piiquante/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log  logger.Logger
	Cfg  config.Conf
	PG   repokit.TxRunner
	Blob blob.Store
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check for optional stores
func (d Deps) ZeroOK() bool { return true }
