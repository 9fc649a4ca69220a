package store_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzomar/agrinote/internal/model"
	"github.com/enzomar/agrinote/internal/store"
)

func TestCreateProductOnlineAppendsServerRecord(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"POST /products": model.Product{ID: "prd-42", Name: "Rame idrossido", Quantity: 10},
	}))

	ok := s.CreateProduct(context.Background(), model.Product{Name: "Rame idrossido", Quantity: 10})
	require.True(t, ok)

	state := s.GetState()
	require.Len(t, state.Products, 1)
	assert.Equal(t, "prd-42", state.Products[0].ID)
	assert.Empty(t, state.PendingSync[store.ResourceProducts])
}

func TestCreateProductOfflineIsOptimistic(t *testing.T) {
	s, _ := newTestStore(t, http.NotFoundHandler())
	s.SetOnline(context.Background(), false)

	ok := s.CreateProduct(context.Background(), model.Product{Name: "Zolfo bagnabile", Quantity: 5})
	require.True(t, ok, "offline creation must always succeed")

	state := s.GetState()
	require.Len(t, state.Products, 1)
	assert.True(t, store.IsTempID(state.Products[0].ID))
	assert.False(t, state.Products[0].CreatedAt.IsZero())

	queue := state.PendingSync[store.ResourceProducts]
	require.Len(t, queue, 1)
	assert.Equal(t, store.ActionCreate, queue[0].Action)
}

func TestCreateFailureLeavesStateUntouched(t *testing.T) {
	s, _ := newTestStore(t, http.NotFoundHandler())

	ok := s.CreateProduct(context.Background(), model.Product{Name: "Rame"})
	assert.False(t, ok)

	state := s.GetState()
	assert.Empty(t, state.Products)
	assert.Empty(t, state.PendingSync[store.ResourceProducts])
}

func TestUpdateProductOfflineQueuesAndClampsQuantity(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /products": []model.Product{{ID: "prd-1", Name: "Rame", Quantity: 25}},
	}))
	s.SyncProducts(context.Background())
	s.SetOnline(context.Background(), false)

	ok := s.UpdateProduct(context.Background(), "prd-1", model.Product{Name: "Rame", Quantity: -3})
	require.True(t, ok)

	state := s.GetState()
	require.Len(t, state.Products, 1)
	assert.Equal(t, 0.0, state.Products[0].Quantity, "quantity clamps at zero")

	queue := state.PendingSync[store.ResourceProducts]
	require.Len(t, queue, 1)
	assert.Equal(t, store.ActionUpdate, queue[0].Action)
	assert.Equal(t, "prd-1", queue[0].ID)
}

func TestDeleteTempRecordCancelsPendingCreate(t *testing.T) {
	s, _ := newTestStore(t, http.NotFoundHandler())
	s.SetOnline(context.Background(), false)

	require.True(t, s.CreateTreatment(context.Background(), model.Treatment{Description: "verderame"}))
	tempID := s.GetState().Treatments[0].ID
	require.True(t, store.IsTempID(tempID))

	require.True(t, s.DeleteTreatment(context.Background(), tempID))

	state := s.GetState()
	assert.Empty(t, state.Treatments)
	assert.Empty(t, state.PendingSync[store.ResourceTreatments],
		"deleting a never-synced record must cancel its queued create")
}

func TestDeleteSyncedRecordOfflineQueuesDelete(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /treatments": model.PaginatedTreatments{
			Items: []model.Treatment{{ID: "trt-1", Description: "rame"}},
		},
	}))
	s.SyncTreatments(context.Background())
	s.SetOnline(context.Background(), false)

	require.True(t, s.DeleteTreatment(context.Background(), "trt-1"))

	state := s.GetState()
	assert.Empty(t, state.Treatments)
	queue := state.PendingSync[store.ResourceTreatments]
	require.Len(t, queue, 1)
	assert.Equal(t, store.ActionDelete, queue[0].Action)
	assert.Equal(t, "trt-1", queue[0].ID)
}

func TestOfflineMutationsPreserveEnqueueOrder(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /fertilizations": []model.Fertilization{
			{ID: "frt-1", Crop: "vite"},
			{ID: "frt-2", Crop: "olivo"},
		},
	}))
	s.SyncFertilizations(context.Background())
	s.SetOnline(context.Background(), false)

	require.True(t, s.CreateFertilization(context.Background(), model.Fertilization{Crop: "melo"}))
	require.True(t, s.UpdateFertilization(context.Background(), "frt-1", model.Fertilization{Crop: "vite", Dose: 2}))
	require.True(t, s.DeleteFertilization(context.Background(), "frt-2"))

	queue := s.GetState().PendingSync[store.ResourceFertilizations]
	require.Len(t, queue, 3)
	assert.Equal(t, store.ActionCreate, queue[0].Action)
	assert.Equal(t, store.ActionUpdate, queue[1].Action)
	assert.Equal(t, store.ActionDelete, queue[2].Action)
}

func TestGenerateReportAppendsWithoutReplacing(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /reports":           []model.Report{{ID: "rpt-1", Status: model.ReportReady}},
		"POST /reports/generate": model.Report{ID: "rpt-2", Status: model.ReportGenerating},
	}))
	s.SyncReports(context.Background())

	id := s.GenerateReport(context.Background(), "tpl-quaderno", model.ReportParameters{})
	assert.Equal(t, "rpt-2", id)

	state := s.GetState()
	require.Len(t, state.Reports, 2, "generated reports accumulate alongside synced ones")
	assert.Equal(t, model.ReportGenerating, state.Reports[1].Status)
}

func TestGenerateReportFailureReturnsEmptyID(t *testing.T) {
	s, _ := newTestStore(t, http.NotFoundHandler())

	id := s.GenerateReport(context.Background(), "tpl-quaderno", model.ReportParameters{})
	assert.Empty(t, id)
	assert.Empty(t, s.GetState().Reports)
}

func TestParseVoiceInputReturnsDraft(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"POST /treatments/parse-voice": model.Treatment{
			Description: "trattamento rame su vite",
			Crop:        "Vite",
			CreatedBy:   model.OriginVoice,
		},
	}))

	draft := s.ParseVoiceInput(context.Background(), "trattamento rame su vite")
	require.NotNil(t, draft)
	assert.Equal(t, model.OriginVoice, draft.CreatedBy)
	assert.True(t, strings.Contains(draft.Description, "rame"))
}

func TestScanBarcodeFailureReturnsNil(t *testing.T) {
	s, _ := newTestStore(t, http.NotFoundHandler())
	assert.Nil(t, s.ScanBarcode(context.Background(), "8001234567890"))
}

func TestOfflineUpdateAppliesImmediately(t *testing.T) {
	s, _ := newTestStore(t, jsonHandler(t, map[string]interface{}{
		"GET /treatments": model.PaginatedTreatments{
			Items: []model.Treatment{{ID: "trt-1", Description: "rame", Date: time.Now()}},
		},
	}))
	s.SyncTreatments(context.Background())
	s.SetOnline(context.Background(), false)

	require.True(t, s.UpdateTreatment(context.Background(), "trt-1",
		model.Treatment{Description: "rame + zolfo", Status: model.StatusCompleted}))

	got := s.GetTreatmentByID("trt-1")
	require.NotNil(t, got)
	assert.Equal(t, "rame + zolfo", got.Description)
	assert.Equal(t, model.StatusCompleted, got.Status)
}
