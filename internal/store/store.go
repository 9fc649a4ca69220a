// Package store implements the offline-first sync engine: it holds the
// in-memory application snapshot, mirrors it to local storage, queues
// mutations made while offline and reconciles them against the remote API
// when connectivity returns.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enzomar/agrinote/internal/api"
	"github.com/enzomar/agrinote/internal/service"
	"github.com/enzomar/agrinote/internal/storage"
	"github.com/enzomar/agrinote/pkg/logger"
	"github.com/enzomar/agrinote/pkg/metrics"
)

// Listener receives the full new snapshot after every state change
type Listener func(AppState)

// ConnectivityMonitor is the external online/offline signal source. The
// store starts and stops it together with its own periodic sync tickers.
type ConnectivityMonitor interface {
	Start(ctx context.Context)
	Stop()
}

// Config holds the store's tunables
type Config struct {
	TreatmentsInterval time.Duration
	ProductsInterval   time.Duration
	WeatherInterval    time.Duration
	MaxReplayAttempts  int
	PageSize           int
}

func (c *Config) applyDefaults() {
	if c.TreatmentsInterval == 0 {
		c.TreatmentsInterval = 5 * time.Minute
	}
	if c.ProductsInterval == 0 {
		c.ProductsInterval = 10 * time.Minute
	}
	if c.WeatherInterval == 0 {
		c.WeatherInterval = 30 * time.Minute
	}
	if c.MaxReplayAttempts == 0 {
		c.MaxReplayAttempts = 5
	}
	if c.PageSize == 0 {
		c.PageSize = 100
	}
}

type listenerEntry struct {
	id int
	fn Listener
}

// Store is the sync engine. Construct it with New, wire it to a monitor if
// one is available, then Start it; timers and the monitor live until Stop.
type Store struct {
	mu        sync.Mutex
	state     AppState
	listeners []listenerEntry
	nextID    int
	seq       uint64

	notifyMu     sync.Mutex
	lastNotified uint64

	persistMu     sync.Mutex
	lastPersisted uint64

	storage storage.Storage
	monitor ConnectivityMonitor
	cfg     Config

	treatments     *service.TreatmentService
	products       *service.ProductService
	fertilizations *service.FertilizationService
	reports        *service.ReportService
	weather        *service.WeatherService
	farm           *service.FarmService
	notifications  *service.NotificationService

	syncMetrics *metrics.SyncMetrics

	stopCh    chan struct{}
	wg        sync.WaitGroup
	started   bool
	replaying bool
}

// New builds a store over the given gateway client and storage
func New(client *api.Client, store storage.Storage, cfg Config) *Store {
	cfg.applyDefaults()
	return &Store{
		state:          initialState(),
		storage:        store,
		cfg:            cfg,
		treatments:     service.NewTreatmentService(client),
		products:       service.NewProductService(client),
		fertilizations: service.NewFertilizationService(client),
		reports:        service.NewReportService(client),
		weather:        service.NewWeatherService(client),
		farm:           service.NewFarmService(client),
		notifications:  service.NewNotificationService(client),
	}
}

// SetMetrics attaches a sync metrics collector. Optional; nil means no-op.
func (s *Store) SetMetrics(m *metrics.SyncMetrics) {
	s.syncMetrics = m
}

// SetMonitor attaches the connectivity monitor started and stopped with the
// store. Must be called before Start.
func (s *Store) SetMonitor(m ConnectivityMonitor) {
	s.monitor = m
}

// GetState returns a copy of the current snapshot
func (s *Store) GetState() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers a listener invoked with the new snapshot on every
// change. The returned function removes the listener; it is safe to call
// during dispatch. Delivery is serialized, so a listener must not call the
// store's mutation methods synchronously; spawn a goroutine for follow-up
// writes.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, entry := range s.listeners {
			if entry.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				break
			}
		}
	}
}

// update derives the next snapshot from the current one under the lock,
// notifies every listener synchronously, then persists asynchronously.
// Listener panics are recovered per listener so one subscriber cannot stop
// delivery to the rest.
func (s *Store) update(mutate func(*AppState)) AppState {
	snap, _ := s.updateIf(nil, mutate)
	return snap
}

// updateIf is update gated by a precondition checked under the same lock;
// it returns false without mutating when the condition fails.
func (s *Store) updateIf(cond func(AppState) bool, mutate func(*AppState)) (AppState, bool) {
	s.mu.Lock()
	if cond != nil && !cond(s.state) {
		state := s.state.clone()
		s.mu.Unlock()
		return state, false
	}

	next := s.state.clone()
	mutate(&next)
	s.state = next

	s.seq++
	seq := s.seq

	entries := make([]listenerEntry, len(s.listeners))
	copy(entries, s.listeners)
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	snap := next.clone()
	s.mu.Unlock()

	s.notify(seq, entries, snap)

	go s.persist(seq, snap)

	return snap, true
}

// notify delivers the snapshot to the listeners. Delivery is serialized and
// seq-gated the same way persist is: when two updates race, a snapshot older
// than one already delivered is skipped, so subscribers never observe state
// moving backwards.
func (s *Store) notify(seq uint64, entries []listenerEntry, snap AppState) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if seq <= s.lastNotified {
		return
	}
	s.lastNotified = seq

	for _, entry := range entries {
		s.dispatch(entry, snap)
	}
}

func (s *Store) dispatch(entry listenerEntry, snap AppState) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetLogger().Error("state listener panicked",
				zap.Int("listener_id", entry.id),
				zap.Any("panic", r))
		}
	}()
	entry.fn(snap)
}

// persist writes the durable subset of the snapshot. Failures are logged
// only; the in-memory state stays authoritative. Out-of-date snapshots are
// skipped so a slow write can never clobber a newer one.
func (s *Store) persist(seq uint64, snap AppState) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if seq <= s.lastPersisted {
		return
	}

	blob, err := json.Marshal(toPersisted(snap))
	if err != nil {
		logger.GetLogger().Error("failed to serialize state", zap.Error(err))
		return
	}
	if err := s.storage.Set(stateKey, blob); err != nil {
		logger.GetLogger().Error("failed to save state to storage", zap.Error(err))
		return
	}
	s.lastPersisted = seq
}

// LoadFromStorage restores the persisted snapshot. Entity data, sync
// metadata and pending queues come back; loading and error flags always
// reset so stale in-flight state never survives a restart.
func (s *Store) LoadFromStorage() error {
	blob, err := s.storage.Get(stateKey)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil
		}
		logger.GetLogger().Error("failed to load state from storage", zap.Error(err))
		return err
	}

	var saved persistedState
	if err := json.Unmarshal(blob, &saved); err != nil {
		logger.GetLogger().Error("failed to parse persisted state", zap.Error(err))
		return err
	}
	if saved.SchemaVersion != schemaVersion {
		logger.GetLogger().Warn("discarding persisted state with unknown schema version",
			zap.Int("found", saved.SchemaVersion),
			zap.Int("expected", schemaVersion))
		return nil
	}

	s.update(func(st *AppState) {
		fresh := initialState()
		st.Loading = fresh.Loading
		st.Errors = fresh.Errors

		if saved.Treatments != nil {
			st.Treatments = saved.Treatments
		}
		if saved.Products != nil {
			st.Products = saved.Products
		}
		if saved.Fertilizations != nil {
			st.Fertilizations = saved.Fertilizations
		}
		if saved.Reports != nil {
			st.Reports = saved.Reports
		}
		if saved.Notifications != nil {
			st.Notifications = saved.Notifications
		}
		st.Weather = saved.Weather
		st.Farm = saved.Farm
		if saved.LastSync != nil {
			st.LastSync = saved.LastSync
		}
		for _, res := range mutableResources {
			if queue, ok := saved.PendingSync[res]; ok && queue != nil {
				st.PendingSync[res] = queue
			}
		}
	})

	return nil
}

// SetOnline flips the connectivity flag. The offline-to-online transition
// triggers reconciliation of the pending queues.
func (s *Store) SetOnline(ctx context.Context, online bool) {
	_, changed := s.updateIf(
		func(st AppState) bool { return st.Offline == online },
		func(st *AppState) { st.Offline = !online },
	)
	if changed && online {
		s.SyncPendingChanges(ctx)
	}
}

// beginReplay marks a reconciliation pass as in flight. Concurrent passes
// would read the same queues and replay each operation twice, so the
// re-entrant call is suppressed; the ticker or the next transition retries.
func (s *Store) beginReplay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaying {
		return false
	}
	s.replaying = true
	return true
}

func (s *Store) endReplay() {
	s.mu.Lock()
	s.replaying = false
	s.mu.Unlock()
}

func (s *Store) offline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Offline
}

// Start launches the periodic sync tickers and the connectivity monitor.
// ctx bounds every network call the timers make.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.stopCh = make(chan struct{})
	stop := s.stopCh
	s.mu.Unlock()

	s.runPeriodic(ctx, stop, s.cfg.TreatmentsInterval, s.SyncTreatments)
	s.runPeriodic(ctx, stop, s.cfg.ProductsInterval, s.SyncProducts)
	s.runPeriodic(ctx, stop, s.cfg.WeatherInterval, s.SyncWeather)

	if s.monitor != nil {
		s.monitor.Start(ctx)
	}

	logger.GetLogger().Info("store started",
		zap.Duration("treatments_interval", s.cfg.TreatmentsInterval),
		zap.Duration("products_interval", s.cfg.ProductsInterval),
		zap.Duration("weather_interval", s.cfg.WeatherInterval))
}

// Stop cancels the timers and the monitor as a group and waits for them
func (s *Store) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	if s.monitor != nil {
		s.monitor.Stop()
	}
	s.wg.Wait()

	logger.GetLogger().Info("store stopped")
}

func (s *Store) runPeriodic(ctx context.Context, stop <-chan struct{}, interval time.Duration, sync func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !s.offline() {
					sync(ctx)
				}
			}
		}
	}()
}

func (s *Store) setPendingGauge(res Resource, depth int) {
	if s.syncMetrics != nil {
		s.syncMetrics.SetPending(string(res), depth)
	}
}

// tempID allocates an id in the reserved local namespace. Reconciliation
// relies on the prefix to tell optimistic records from server-assigned ones.
const tempIDPrefix = "local-"

func tempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id belongs to the local id namespace
func IsTempID(id string) bool {
	return len(id) > len(tempIDPrefix) && id[:len(tempIDPrefix)] == tempIDPrefix
}
