package store

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/enzomar/agrinote/internal/model"
	"github.com/enzomar/agrinote/pkg/logger"
)

// Every mutation follows the dual-path protocol. Offline: apply the change
// optimistically, queue a pending operation and report success without
// touching the network. Online: call the service and apply the authoritative
// record on success; on failure local state stays untouched and the caller
// gets false. These methods never panic.

func (s *Store) enqueue(st *AppState, res Resource, op PendingOperation) {
	st.PendingSync[res] = append(st.PendingSync[res], op)
}

// removePendingCreate drops the queued create whose payload carries the
// given temp id. Deleting a record that was never on the server must cancel
// the create instead of queueing a delete the server cannot resolve.
func removePendingCreate(st *AppState, res Resource, id string) bool {
	queue := st.PendingSync[res]
	for i, op := range queue {
		if op.Action != ActionCreate {
			continue
		}
		var probe struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(op.Payload, &probe); err != nil || probe.ID != id {
			continue
		}
		st.PendingSync[res] = append(queue[:i:i], queue[i+1:]...)
		return true
	}
	return false
}

// CreateTreatment adds a treatment. Returns false only when the online call
// fails; offline creation always succeeds optimistically.
func (s *Store) CreateTreatment(ctx context.Context, treatment model.Treatment) bool {
	if s.offline() {
		now := time.Now()
		treatment.ID = tempID()
		treatment.CreatedAt = now
		treatment.UpdatedAt = now
		payload, err := json.Marshal(treatment)
		if err != nil {
			logger.GetLogger().Error("failed to encode treatment", zap.Error(err))
			return false
		}
		snap := s.update(func(st *AppState) {
			st.Treatments = append(st.Treatments, treatment)
			s.enqueue(st, ResourceTreatments, PendingOperation{Action: ActionCreate, Payload: payload})
		})
		s.setPendingGauge(ResourceTreatments, len(snap.PendingSync[ResourceTreatments]))
		return true
	}

	created, resp := s.treatments.Create(ctx, treatment)
	if !resp.Success {
		logger.GetLogger().Warn("failed to create treatment", zap.String("error", resp.Error))
		return false
	}
	s.update(func(st *AppState) {
		st.Treatments = append(st.Treatments, *created)
	})
	return true
}

// UpdateTreatment replaces the treatment with the given id
func (s *Store) UpdateTreatment(ctx context.Context, id string, updated model.Treatment) bool {
	updated.ID = id

	if s.offline() {
		payload, err := json.Marshal(updated)
		if err != nil {
			logger.GetLogger().Error("failed to encode treatment", zap.Error(err))
			return false
		}
		snap := s.update(func(st *AppState) {
			for i, t := range st.Treatments {
				if t.ID == id {
					st.Treatments[i] = updated
					break
				}
			}
			s.enqueue(st, ResourceTreatments, PendingOperation{Action: ActionUpdate, ID: id, Payload: payload})
		})
		s.setPendingGauge(ResourceTreatments, len(snap.PendingSync[ResourceTreatments]))
		return true
	}

	fresh, resp := s.treatments.Update(ctx, id, updated)
	if !resp.Success {
		logger.GetLogger().Warn("failed to update treatment",
			zap.String("treatment_id", id),
			zap.String("error", resp.Error))
		return false
	}
	s.update(func(st *AppState) {
		for i, t := range st.Treatments {
			if t.ID == id {
				st.Treatments[i] = *fresh
				break
			}
		}
	})
	return true
}

// DeleteTreatment removes the treatment with the given id
func (s *Store) DeleteTreatment(ctx context.Context, id string) bool {
	if s.offline() {
		snap := s.update(func(st *AppState) {
			st.Treatments = removeTreatment(st.Treatments, id)
			if IsTempID(id) {
				removePendingCreate(st, ResourceTreatments, id)
				return
			}
			s.enqueue(st, ResourceTreatments, PendingOperation{Action: ActionDelete, ID: id})
		})
		s.setPendingGauge(ResourceTreatments, len(snap.PendingSync[ResourceTreatments]))
		return true
	}

	resp := s.treatments.Delete(ctx, id)
	if !resp.Success {
		logger.GetLogger().Warn("failed to delete treatment",
			zap.String("treatment_id", id),
			zap.String("error", resp.Error))
		return false
	}
	s.update(func(st *AppState) {
		st.Treatments = removeTreatment(st.Treatments, id)
	})
	return true
}

// CreateProduct adds a product to the warehouse
func (s *Store) CreateProduct(ctx context.Context, product model.Product) bool {
	product.Quantity = clampQuantity(product.Quantity)

	if s.offline() {
		now := time.Now()
		product.ID = tempID()
		product.CreatedAt = now
		product.UpdatedAt = now
		payload, err := json.Marshal(product)
		if err != nil {
			logger.GetLogger().Error("failed to encode product", zap.Error(err))
			return false
		}
		snap := s.update(func(st *AppState) {
			st.Products = append(st.Products, product)
			s.enqueue(st, ResourceProducts, PendingOperation{Action: ActionCreate, Payload: payload})
		})
		s.setPendingGauge(ResourceProducts, len(snap.PendingSync[ResourceProducts]))
		return true
	}

	created, resp := s.products.Create(ctx, product)
	if !resp.Success {
		logger.GetLogger().Warn("failed to create product", zap.String("error", resp.Error))
		return false
	}
	s.update(func(st *AppState) {
		st.Products = append(st.Products, *created)
	})
	return true
}

// UpdateProduct replaces the product with the given id. Quantity clamps at
// zero; the warehouse never shows negative stock.
func (s *Store) UpdateProduct(ctx context.Context, id string, updated model.Product) bool {
	updated.ID = id
	updated.Quantity = clampQuantity(updated.Quantity)

	if s.offline() {
		payload, err := json.Marshal(updated)
		if err != nil {
			logger.GetLogger().Error("failed to encode product", zap.Error(err))
			return false
		}
		snap := s.update(func(st *AppState) {
			for i, p := range st.Products {
				if p.ID == id {
					st.Products[i] = updated
					break
				}
			}
			s.enqueue(st, ResourceProducts, PendingOperation{Action: ActionUpdate, ID: id, Payload: payload})
		})
		s.setPendingGauge(ResourceProducts, len(snap.PendingSync[ResourceProducts]))
		return true
	}

	fresh, resp := s.products.Update(ctx, id, updated)
	if !resp.Success {
		logger.GetLogger().Warn("failed to update product",
			zap.String("product_id", id),
			zap.String("error", resp.Error))
		return false
	}
	s.update(func(st *AppState) {
		for i, p := range st.Products {
			if p.ID == id {
				st.Products[i] = *fresh
				break
			}
		}
	})
	return true
}

// DeleteProduct removes the product with the given id
func (s *Store) DeleteProduct(ctx context.Context, id string) bool {
	if s.offline() {
		snap := s.update(func(st *AppState) {
			st.Products = removeProduct(st.Products, id)
			if IsTempID(id) {
				removePendingCreate(st, ResourceProducts, id)
				return
			}
			s.enqueue(st, ResourceProducts, PendingOperation{Action: ActionDelete, ID: id})
		})
		s.setPendingGauge(ResourceProducts, len(snap.PendingSync[ResourceProducts]))
		return true
	}

	resp := s.products.Delete(ctx, id)
	if !resp.Success {
		logger.GetLogger().Warn("failed to delete product",
			zap.String("product_id", id),
			zap.String("error", resp.Error))
		return false
	}
	s.update(func(st *AppState) {
		st.Products = removeProduct(st.Products, id)
	})
	return true
}

// CreateFertilization adds a fertilization log entry
func (s *Store) CreateFertilization(ctx context.Context, fertilization model.Fertilization) bool {
	if s.offline() {
		now := time.Now()
		fertilization.ID = tempID()
		fertilization.CreatedAt = now
		fertilization.UpdatedAt = now
		payload, err := json.Marshal(fertilization)
		if err != nil {
			logger.GetLogger().Error("failed to encode fertilization", zap.Error(err))
			return false
		}
		snap := s.update(func(st *AppState) {
			st.Fertilizations = append(st.Fertilizations, fertilization)
			s.enqueue(st, ResourceFertilizations, PendingOperation{Action: ActionCreate, Payload: payload})
		})
		s.setPendingGauge(ResourceFertilizations, len(snap.PendingSync[ResourceFertilizations]))
		return true
	}

	created, resp := s.fertilizations.Create(ctx, fertilization)
	if !resp.Success {
		logger.GetLogger().Warn("failed to create fertilization", zap.String("error", resp.Error))
		return false
	}
	s.update(func(st *AppState) {
		st.Fertilizations = append(st.Fertilizations, *created)
	})
	return true
}

// UpdateFertilization replaces the fertilization with the given id
func (s *Store) UpdateFertilization(ctx context.Context, id string, updated model.Fertilization) bool {
	updated.ID = id

	if s.offline() {
		payload, err := json.Marshal(updated)
		if err != nil {
			logger.GetLogger().Error("failed to encode fertilization", zap.Error(err))
			return false
		}
		snap := s.update(func(st *AppState) {
			for i, f := range st.Fertilizations {
				if f.ID == id {
					st.Fertilizations[i] = updated
					break
				}
			}
			s.enqueue(st, ResourceFertilizations, PendingOperation{Action: ActionUpdate, ID: id, Payload: payload})
		})
		s.setPendingGauge(ResourceFertilizations, len(snap.PendingSync[ResourceFertilizations]))
		return true
	}

	fresh, resp := s.fertilizations.Update(ctx, id, updated)
	if !resp.Success {
		logger.GetLogger().Warn("failed to update fertilization",
			zap.String("fertilization_id", id),
			zap.String("error", resp.Error))
		return false
	}
	s.update(func(st *AppState) {
		for i, f := range st.Fertilizations {
			if f.ID == id {
				st.Fertilizations[i] = *fresh
				break
			}
		}
	})
	return true
}

// DeleteFertilization removes the fertilization with the given id
func (s *Store) DeleteFertilization(ctx context.Context, id string) bool {
	if s.offline() {
		snap := s.update(func(st *AppState) {
			st.Fertilizations = removeFertilization(st.Fertilizations, id)
			if IsTempID(id) {
				removePendingCreate(st, ResourceFertilizations, id)
				return
			}
			s.enqueue(st, ResourceFertilizations, PendingOperation{Action: ActionDelete, ID: id})
		})
		s.setPendingGauge(ResourceFertilizations, len(snap.PendingSync[ResourceFertilizations]))
		return true
	}

	resp := s.fertilizations.Delete(ctx, id)
	if !resp.Success {
		logger.GetLogger().Warn("failed to delete fertilization",
			zap.String("fertilization_id", id),
			zap.String("error", resp.Error))
		return false
	}
	s.update(func(st *AppState) {
		st.Fertilizations = removeFertilization(st.Fertilizations, id)
	})
	return true
}

// GenerateReport requests report generation and appends the result to local
// state. Reports accumulate; only SyncReports replaces the list. Returns
// the report id, or "" on failure.
func (s *Store) GenerateReport(ctx context.Context, templateID string, parameters model.ReportParameters) string {
	report, resp := s.reports.Generate(ctx, templateID, parameters)
	if !resp.Success {
		logger.GetLogger().Warn("failed to generate report",
			zap.String("template_id", templateID),
			zap.String("error", resp.Error))
		return ""
	}
	s.update(func(st *AppState) {
		st.Reports = append(st.Reports, *report)
	})
	return report.ID
}

// ParseVoiceInput turns a transcript into a draft treatment, or nil on failure
func (s *Store) ParseVoiceInput(ctx context.Context, transcript string) *model.Treatment {
	draft, resp := s.treatments.ParseVoice(ctx, transcript)
	if !resp.Success {
		logger.GetLogger().Warn("failed to parse voice input", zap.String("error", resp.Error))
		return nil
	}
	return draft
}

// ValidateTreatment runs server-side validation, or nil on failure
func (s *Store) ValidateTreatment(ctx context.Context, treatment model.Treatment) *model.AIValidation {
	validation, resp := s.treatments.Validate(ctx, treatment)
	if !resp.Success {
		logger.GetLogger().Warn("failed to validate treatment", zap.String("error", resp.Error))
		return nil
	}
	return validation
}

// ScanBarcode looks up product details for a barcode, or nil on failure
func (s *Store) ScanBarcode(ctx context.Context, barcode string) *model.Product {
	product, resp := s.products.ScanBarcode(ctx, barcode)
	if !resp.Success {
		logger.GetLogger().Warn("failed to scan barcode",
			zap.String("barcode", barcode),
			zap.String("error", resp.Error))
		return nil
	}
	return product
}

func clampQuantity(q float64) float64 {
	if q < 0 {
		return 0
	}
	return q
}

func removeTreatment(items []model.Treatment, id string) []model.Treatment {
	out := items[:0]
	for _, t := range items {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func removeProduct(items []model.Product, id string) []model.Product {
	out := items[:0]
	for _, p := range items {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func removeFertilization(items []model.Fertilization, id string) []model.Fertilization {
	out := items[:0]
	for _, f := range items {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}
