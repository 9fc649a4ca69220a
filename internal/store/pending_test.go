package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzomar/agrinote/internal/api"
	"github.com/enzomar/agrinote/internal/model"
	"github.com/enzomar/agrinote/internal/storage"
	"github.com/enzomar/agrinote/internal/store"
)

// recordingHandler wraps a handler and records every "METHOD /path" it serves
type recordingHandler struct {
	mu    sync.Mutex
	calls []string
	next  http.Handler
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.calls = append(h.calls, r.Method+" "+r.URL.Path)
	h.mu.Unlock()
	h.next.ServeHTTP(w, r)
}

func (h *recordingHandler) recorded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.calls))
	copy(out, h.calls)
	return out
}

func TestReconnectReplaysQueuedCreate(t *testing.T) {
	ctx := context.Background()
	server := model.Product{ID: "prd-77", Name: "Zolfo bagnabile", Quantity: 5}

	rec := &recordingHandler{next: jsonHandler(t, map[string]interface{}{
		"POST /products": server,
		"GET /products":  []model.Product{server},
	})}
	s, _ := newTestStore(t, rec)

	s.SetOnline(ctx, false)
	require.True(t, s.CreateProduct(ctx, model.Product{Name: "Zolfo bagnabile", Quantity: 5}))

	tempID := s.GetState().Products[0].ID
	require.True(t, store.IsTempID(tempID))

	s.SetOnline(ctx, true)

	state := s.GetState()
	require.Len(t, state.Products, 1)
	assert.Equal(t, "prd-77", state.Products[0].ID, "temp record is replaced by the server record")
	assert.Empty(t, state.PendingSync[store.ResourceProducts])

	creates := 0
	for _, call := range rec.recorded() {
		if call == "POST /products" {
			creates++
		}
	}
	assert.Equal(t, 1, creates, "queued create must replay exactly once")
}

func TestReconciliationReplaysInEnqueueOrder(t *testing.T) {
	ctx := context.Background()

	rec := &recordingHandler{next: jsonHandler(t, map[string]interface{}{
		"GET /products":          []model.Product{{ID: "prd-b"}, {ID: "prd-c"}},
		"POST /products":         model.Product{ID: "prd-a"},
		"PUT /products/prd-b":    model.Product{ID: "prd-b", Quantity: 3},
		"DELETE /products/prd-c": map[string]bool{"deleted": true},
	})}
	s, _ := newTestStore(t, rec)

	s.SyncProducts(ctx)
	s.SetOnline(ctx, false)

	require.True(t, s.CreateProduct(ctx, model.Product{Name: "nuovo"}))
	require.True(t, s.UpdateProduct(ctx, "prd-b", model.Product{Quantity: 3}))
	require.True(t, s.DeleteProduct(ctx, "prd-c"))

	rec.mu.Lock()
	rec.calls = nil
	rec.mu.Unlock()

	s.SetOnline(ctx, true)

	calls := rec.recorded()
	require.Len(t, calls, 4)
	assert.Equal(t, "POST /products", calls[0])
	assert.Equal(t, "PUT /products/prd-b", calls[1])
	assert.Equal(t, "DELETE /products/prd-c", calls[2])
	assert.Equal(t, "GET /products", calls[3], "affected resource resyncs after the replay")
}

func TestFailedReplayIsRetainedWithAttemptCount(t *testing.T) {
	ctx := context.Background()

	// creates fail, the list endpoint still answers
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]model.Product{})
	}))
	t.Cleanup(srv.Close)

	mem := storage.NewMemory()
	s := store.New(api.NewClient(srv.URL, time.Second, mem), mem, store.Config{})

	s.SetOnline(ctx, false)
	require.True(t, s.CreateProduct(ctx, model.Product{Name: "Rame"}))

	s.SetOnline(ctx, true)

	queue := s.GetState().PendingSync[store.ResourceProducts]
	require.Len(t, queue, 1, "failed replay stays queued for the next reconciliation")
	assert.Equal(t, 1, queue[0].Attempts)

	s.SyncPendingChanges(ctx)
	queue = s.GetState().PendingSync[store.ResourceProducts]
	require.Len(t, queue, 1)
	assert.Equal(t, 2, queue[0].Attempts)
}

func TestReplayDroppedAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]model.Product{})
	}))
	t.Cleanup(srv.Close)

	mem := storage.NewMemory()
	s := store.New(api.NewClient(srv.URL, time.Second, mem), mem, store.Config{MaxReplayAttempts: 2})

	s.SetOnline(ctx, false)
	require.True(t, s.CreateProduct(ctx, model.Product{Name: "Rame"}))

	s.SetOnline(ctx, true)
	require.Len(t, s.GetState().PendingSync[store.ResourceProducts], 1)

	s.SyncPendingChanges(ctx)
	assert.Empty(t, s.GetState().PendingSync[store.ResourceProducts],
		"an operation that exhausts its attempts is dropped")
}

func TestConcurrentReconciliationReplaysOnce(t *testing.T) {
	ctx := context.Background()

	var creates atomic.Int32
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			creates.Add(1)
			select {
			case entered <- struct{}{}:
			default:
			}
			<-release
			json.NewEncoder(w).Encode(model.Product{ID: "prd-once"})
			return
		}
		json.NewEncoder(w).Encode([]model.Product{{ID: "prd-once"}})
	}))
	t.Cleanup(srv.Close)

	mem := storage.NewMemory()
	s := store.New(api.NewClient(srv.URL, 5*time.Second, mem), mem, store.Config{})

	s.SetOnline(ctx, false)
	require.True(t, s.CreateProduct(ctx, model.Product{Name: "Rame"}))

	done := make(chan struct{})
	go func() {
		s.SetOnline(ctx, true)
		close(done)
	}()

	<-entered
	// second reconciliation arrives while the first replay's create is in
	// flight; it must not send the queued create again
	s.SyncPendingChanges(ctx)

	close(release)
	<-done

	assert.Equal(t, int32(1), creates.Load(), "a queued create must replay exactly once")
	state := s.GetState()
	assert.Empty(t, state.PendingSync[store.ResourceProducts])
	require.Len(t, state.Products, 1)
	assert.Equal(t, "prd-once", state.Products[0].ID)
}

func TestSyncPendingChangesNoopWhileOffline(t *testing.T) {
	ctx := context.Background()
	rec := &recordingHandler{next: http.NotFoundHandler()}
	s, _ := newTestStore(t, rec)

	s.SetOnline(ctx, false)
	require.True(t, s.CreateProduct(ctx, model.Product{Name: "Rame"}))

	s.SyncPendingChanges(ctx)

	assert.Empty(t, rec.recorded(), "no network traffic while offline")
	assert.Len(t, s.GetState().PendingSync[store.ResourceProducts], 1)
}

func TestReconnectResyncsOnlyAffectedResources(t *testing.T) {
	ctx := context.Background()
	rec := &recordingHandler{next: jsonHandler(t, map[string]interface{}{
		"POST /fertilizations": model.Fertilization{ID: "frt-9"},
		"GET /fertilizations":  []model.Fertilization{{ID: "frt-9"}},
	})}
	s, _ := newTestStore(t, rec)

	s.SetOnline(ctx, false)
	require.True(t, s.CreateFertilization(ctx, model.Fertilization{Crop: "vite"}))

	s.SetOnline(ctx, true)

	for _, call := range rec.recorded() {
		assert.NotEqual(t, "GET /products", call)
		assert.NotEqual(t, "GET /treatments", call)
	}
	assert.Contains(t, rec.recorded(), "GET /fertilizations")
}
