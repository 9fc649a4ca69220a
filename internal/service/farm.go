package service

import (
	"context"

	"github.com/enzomar/agrinote/internal/api"
	"github.com/enzomar/agrinote/internal/model"
)

// FarmService wraps the /farm endpoints
type FarmService struct {
	api *api.Client
}

// NewFarmService creates a farm service on top of client
func NewFarmService(client *api.Client) *FarmService {
	return &FarmService{api: client}
}

// Get retrieves the farm master record
func (s *FarmService) Get(ctx context.Context) (*model.Farm, *api.Response) {
	resp := s.api.Get(ctx, "/farm")
	var out model.Farm
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Update replaces the farm master record
func (s *FarmService) Update(ctx context.Context, farm model.Farm) (*model.Farm, *api.Response) {
	resp := s.api.Put(ctx, "/farm", farm)
	var out model.Farm
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Crops retrieves the cultivated crop areas
func (s *FarmService) Crops(ctx context.Context) ([]model.CropArea, *api.Response) {
	resp := s.api.Get(ctx, "/farm/crops")
	var out []model.CropArea
	if !resp.Decode(&out) {
		return nil, resp
	}
	return out, resp
}

// AddCrop registers a new crop area
func (s *FarmService) AddCrop(ctx context.Context, crop model.CropArea) (*model.CropArea, *api.Response) {
	resp := s.api.Post(ctx, "/farm/crops", crop)
	var out model.CropArea
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}
