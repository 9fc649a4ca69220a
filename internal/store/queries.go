package store

import (
	"time"

	"github.com/enzomar/agrinote/internal/model"
)

// Derived read-only queries. Pure filters over the current snapshot, no
// side effects.

// GetTreatmentByID returns the treatment with the given id, or nil
func (s *Store) GetTreatmentByID(id string) *model.Treatment {
	state := s.GetState()
	for i := range state.Treatments {
		if state.Treatments[i].ID == id {
			return &state.Treatments[i]
		}
	}
	return nil
}

// GetProductByID returns the product with the given id, or nil
func (s *Store) GetProductByID(id string) *model.Product {
	state := s.GetState()
	for i := range state.Products {
		if state.Products[i].ID == id {
			return &state.Products[i]
		}
	}
	return nil
}

// GetLowStockProducts returns products at or below their minimum stock level
func (s *Store) GetLowStockProducts() []model.Product {
	state := s.GetState()
	var out []model.Product
	for _, p := range state.Products {
		if p.Quantity <= p.MinStock {
			out = append(out, p)
		}
	}
	return out
}

// GetExpiringProducts returns products whose expiry date falls within the
// given number of days from now. Products without an expiry never expire.
func (s *Store) GetExpiringProducts(days int) []model.Product {
	cutoff := time.Now().AddDate(0, 0, days)
	state := s.GetState()
	var out []model.Product
	for _, p := range state.Products {
		if p.ExpiryDate != nil && !p.ExpiryDate.After(cutoff) {
			out = append(out, p)
		}
	}
	return out
}

// GetTodaysTreatments returns treatments dated today
func (s *Store) GetTodaysTreatments() []model.Treatment {
	now := time.Now()
	year, month, day := now.Date()
	state := s.GetState()
	var out []model.Treatment
	for _, t := range state.Treatments {
		ty, tm, td := t.Date.In(now.Location()).Date()
		if ty == year && tm == month && td == day {
			out = append(out, t)
		}
	}
	return out
}

// GetOverdueTreatments returns planned treatments whose date is strictly in
// the past at evaluation time
func (s *Store) GetOverdueTreatments() []model.Treatment {
	now := time.Now()
	state := s.GetState()
	var out []model.Treatment
	for _, t := range state.Treatments {
		if t.Status == model.StatusPlanned && t.Date.Before(now) {
			out = append(out, t)
		}
	}
	return out
}
