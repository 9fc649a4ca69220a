package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzomar/agrinote/internal/model"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestGetOverdueTreatments(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)

	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /treatments": model.PaginatedTreatments{Items: []model.Treatment{
			{ID: "trt-past-planned", Date: yesterday, Status: model.StatusPlanned},
			{ID: "trt-past-done", Date: yesterday, Status: model.StatusCompleted},
			{ID: "trt-future", Date: tomorrow, Status: model.StatusPlanned},
		}},
	}))
	s.SyncTreatments(context.Background())

	overdue := s.GetOverdueTreatments()
	require.Len(t, overdue, 1)
	assert.Equal(t, "trt-past-planned", overdue[0].ID)
}

func TestGetTodaysTreatments(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /treatments": model.PaginatedTreatments{Items: []model.Treatment{
			{ID: "trt-today", Date: time.Now()},
			{ID: "trt-yesterday", Date: time.Now().AddDate(0, 0, -1)},
			{ID: "trt-next-week", Date: time.Now().AddDate(0, 0, 7)},
		}},
	}))
	s.SyncTreatments(context.Background())

	today := s.GetTodaysTreatments()
	require.Len(t, today, 1)
	assert.Equal(t, "trt-today", today[0].ID)
}

func TestGetLowStockProducts(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /products": []model.Product{
			{ID: "prd-low", Quantity: 5, MinStock: 10},
			{ID: "prd-exact", Quantity: 10, MinStock: 10},
			{ID: "prd-ok", Quantity: 50, MinStock: 10},
		},
	}))
	s.SyncProducts(context.Background())

	low := s.GetLowStockProducts()
	require.Len(t, low, 2, "at-threshold counts as low stock")
	assert.Equal(t, "prd-low", low[0].ID)
	assert.Equal(t, "prd-exact", low[1].ID)
}

func TestGetExpiringProducts(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /products": []model.Product{
			{ID: "prd-soon", ExpiryDate: timePtr(time.Now().AddDate(0, 0, 10))},
			{ID: "prd-later", ExpiryDate: timePtr(time.Now().AddDate(0, 0, 60))},
			{ID: "prd-no-expiry"},
		},
	}))
	s.SyncProducts(context.Background())

	expiring := s.GetExpiringProducts(30)
	require.Len(t, expiring, 1)
	assert.Equal(t, "prd-soon", expiring[0].ID)
}

func TestGetByIDMissesReturnNil(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /products": []model.Product{{ID: "prd-1", Name: "Rame"}},
	}))
	s.SyncProducts(context.Background())

	require.NotNil(t, s.GetProductByID("prd-1"))
	assert.Nil(t, s.GetProductByID("prd-missing"))
	assert.Nil(t, s.GetTreatmentByID("trt-missing"))
}
