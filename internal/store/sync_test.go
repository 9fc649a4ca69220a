package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func TestSyncProductsReplacesWholesale(t *testing.T) {
	products := []model.Product{
		{ID: "prd-1", Name: "Rame", Quantity: 25, MinStock: 10},
		{ID: "prd-2", Name: "Zolfo", Quantity: 8, MinStock: 10},
	}
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /products": products,
	}))

	s.SyncProducts(context.Background())
	s.SyncProducts(context.Background())

	state := s.GetState()
	require.Len(t, state.Products, 2)
	assert.Equal(t, "Rame", state.Products[0].Name)
	assert.False(t, state.LastSync[store.ResourceProducts].IsZero())
	assert.Empty(t, state.Errors[store.ResourceProducts])
	assert.False(t, state.Loading[store.ResourceProducts])
}

func TestSyncFailureKeepsPreviousData(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]model.Product{{ID: "prd-1", Name: "Rame"}})
	}))
	t.Cleanup(srv.Close)

	mem := storage.NewMemory()
	s := store.New(api.NewClient(srv.URL, time.Second, mem), mem, store.Config{})

	s.SyncProducts(context.Background())
	require.Len(t, s.GetState().Products, 1)

	fail.Store(true)
	s.SyncProducts(context.Background())

	state := s.GetState()
	assert.Len(t, state.Products, 1, "failed sync must not touch the previous array")
	assert.Contains(t, state.Errors[store.ResourceProducts], "HTTP 503")
	assert.False(t, state.Loading[store.ResourceProducts])
}

func TestSyncWeatherReentrancyGuard(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		json.NewEncoder(w).Encode(model.WeatherCondition{Temperature: 20, Suitable: true})
	}))
	t.Cleanup(srv.Close)

	mem := storage.NewMemory()
	s := store.New(api.NewClient(srv.URL, 5*time.Second, mem), mem, store.Config{})

	done := make(chan struct{})
	go func() {
		s.SyncWeather(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		return s.GetState().Loading[store.ResourceWeather]
	}, time.Second, 5*time.Millisecond)

	// second call while the first is in flight must be suppressed
	s.SyncWeather(context.Background())

	close(release)
	<-done

	assert.Equal(t, int32(1), calls.Load())
	state := s.GetState()
	require.NotNil(t, state.Weather)
	assert.Equal(t, 20.0, state.Weather.Temperature)
}

func TestSyncTreatmentsUnwrapsPagination(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /treatments": model.PaginatedTreatments{
			Items: []model.Treatment{{ID: "trt-1", Description: "rame"}},
			Total: 1, Page: 1, PageSize: 100, TotalPages: 1,
		},
	}))

	s.SyncTreatments(context.Background())

	state := s.GetState()
	require.Len(t, state.Treatments, 1)
	assert.Equal(t, "trt-1", state.Treatments[0].ID)
}

func TestSyncAllTouchesEveryResource(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /treatments":      model.PaginatedTreatments{Items: []model.Treatment{{ID: "trt-1"}}},
		"GET /products":        []model.Product{{ID: "prd-1"}},
		"GET /fertilizations":  []model.Fertilization{{ID: "frt-1"}},
		"GET /reports":         []model.Report{{ID: "rpt-1"}},
		"GET /weather/current": model.WeatherCondition{Temperature: 18},
		"GET /farm":            model.Farm{ID: "farm-1", Name: "Demo"},
		"GET /notifications":   []model.Notification{{ID: "ntf-1"}},
	}))

	s.SyncAll(context.Background())

	state := s.GetState()
	assert.Len(t, state.Treatments, 1)
	assert.Len(t, state.Products, 1)
	assert.Len(t, state.Fertilizations, 1)
	assert.Len(t, state.Reports, 1)
	require.NotNil(t, state.Weather)
	require.NotNil(t, state.Farm)
	assert.Equal(t, "Demo", state.Farm.Name)
	assert.Len(t, state.Notifications, 1)
}
