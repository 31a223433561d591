package repository

import (
	"errors"

	"github.com/vcscsvcscs/vitals-tracker/internal/metrics"
)

// ErrStoreUnavailable marks any failure to reach or understand the document store
var ErrStoreUnavailable = errors.New("vital signs store unavailable")

// Store backends
const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
)

func observe(backend, op string, err error) {
	metrics.ObserveStoreCall(backend, op, err)
}
