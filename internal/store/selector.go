package store

import (
	"context"
	"time"

	"github.com/abacreative/admin-services/pkg/metrics"
)

// Probe checks whether the remote backend can serve a bounded-cost read.
type Probe func(ctx context.Context) error

// Selector decides per call which backend serves a storage operation. The
// remote backend is chosen only when it was configured at startup AND the
// liveness probe succeeds right now; everything else falls back to the local
// store. The decision is never cached, so a remote outage degrades calls
// one-by-one instead of failing the session.
type Selector struct {
	local   Store
	remote  Store
	probe   Probe
	timeout time.Duration
}

// NewSelector builds a selector. remote and probe may be nil when the remote
// backend is not configured; Resolve then always answers local.
func NewSelector(local Store, remote Store, probe Probe, timeout time.Duration) *Selector {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Selector{local: local, remote: remote, probe: probe, timeout: timeout}
}

// Resolve returns the backend for this call. Probe failures are swallowed:
// they mean "choose local", never an error for the caller.
func (s *Selector) Resolve(ctx context.Context) Store {
	if s.remote == nil || s.probe == nil {
		metrics.BackendSelected.WithLabelValues(BackendLocal).Inc()
		return s.local
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.probe(ctx); err != nil {
		metrics.BackendSelected.WithLabelValues(BackendLocal).Inc()
		return s.local
	}
	metrics.BackendSelected.WithLabelValues(BackendRemote).Inc()
	return s.remote
}

// Local returns the local store directly, for paths that must bypass
// selection (backup restore).
func (s *Selector) Local() Store { return s.local }
