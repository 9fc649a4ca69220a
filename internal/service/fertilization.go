package service

import (
	"context"

	"github.com/enzomar/agrinote/internal/api"
	"github.com/enzomar/agrinote/internal/model"
)

// FertilizationService wraps the /fertilizations endpoints
type FertilizationService struct {
	api *api.Client
}

// NewFertilizationService creates a fertilization service on top of client
func NewFertilizationService(client *api.Client) *FertilizationService {
	return &FertilizationService{api: client}
}

// List retrieves all fertilizations
func (s *FertilizationService) List(ctx context.Context) ([]model.Fertilization, *api.Response) {
	resp := s.api.Get(ctx, "/fertilizations")
	var out []model.Fertilization
	if !resp.Decode(&out) {
		return nil, resp
	}
	return out, resp
}

// Create submits a new fertilization and returns the server-assigned record
func (s *FertilizationService) Create(ctx context.Context, fertilization model.Fertilization) (*model.Fertilization, *api.Response) {
	resp := s.api.Post(ctx, "/fertilizations", fertilization)
	var out model.Fertilization
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Update replaces a fertilization and returns the authoritative record
func (s *FertilizationService) Update(ctx context.Context, id string, fertilization model.Fertilization) (*model.Fertilization, *api.Response) {
	resp := s.api.Put(ctx, "/fertilizations/"+id, fertilization)
	var out model.Fertilization
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Delete removes a fertilization
func (s *FertilizationService) Delete(ctx context.Context, id string) *api.Response {
	return s.api.Delete(ctx, "/fertilizations/"+id)
}
