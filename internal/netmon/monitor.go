// Package netmon watches reachability of the remote API and reports
// online/offline transitions. It is the sole automatic trigger for
// reconciliation besides explicit calls.
package netmon

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/enzomar/agrinote/pkg/logger"
)

// Monitor probes a health URL on an interval and invokes the transition
// callback whenever reachability flips. Platforms that deliver their own
// connectivity signal can bypass probing with SetOnline.
type Monitor struct {
	url      string
	interval time.Duration
	client   *http.Client
	onChange func(online bool)

	mu      sync.Mutex
	online  bool
	known   bool
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates a monitor probing url. onChange fires on every transition,
// including the first observation.
func New(url string, interval, timeout time.Duration, onChange func(online bool)) *Monitor {
	if interval == 0 {
		interval = 15 * time.Second
	}
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	return &Monitor{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: timeout},
		onChange: onChange,
	}
}

// Start begins probing. An immediate probe runs before the first tick so
// the store learns its connectivity state at startup.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.stopCh = make(chan struct{})
	stop := m.stopCh
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		m.observe(m.probe(ctx))

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.observe(m.probe(ctx))
			}
		}
	}()
}

// Stop ends probing and waits for the probe goroutine
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	close(m.stopCh)
	m.mu.Unlock()
	m.wg.Wait()
}

// SetOnline records an externally observed connectivity state, firing the
// transition callback if it differs from the last known state.
func (m *Monitor) SetOnline(online bool) {
	m.observe(online)
}

func (m *Monitor) observe(online bool) {
	m.mu.Lock()
	changed := !m.known || m.online != online
	m.known = true
	m.online = online
	m.mu.Unlock()

	if !changed {
		return
	}

	logger.GetLogger().Info("connectivity changed", zap.Bool("online", online))
	if m.onChange != nil {
		m.onChange(online)
	}
}

func (m *Monitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.url, nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}
