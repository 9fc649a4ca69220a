// Package service contains the typed wrappers over the remote API: one
// stateless service per resource kind, each mapping CRUD vocabulary onto
// gateway calls with fixed paths.
package service

import (
	"context"
	"fmt"

	"github.com/enzomar/agrinote/internal/api"
	"github.com/enzomar/agrinote/internal/model"
)

// TreatmentService wraps the /treatments endpoints
type TreatmentService struct {
	api *api.Client
}

// NewTreatmentService creates a treatment service on top of client
func NewTreatmentService(client *api.Client) *TreatmentService {
	return &TreatmentService{api: client}
}

// List retrieves one page of treatments
func (s *TreatmentService) List(ctx context.Context, page, pageSize int) (*model.PaginatedTreatments, *api.Response) {
	resp := s.api.Get(ctx, fmt.Sprintf("/treatments?page=%d&pageSize=%d", page, pageSize))
	var out model.PaginatedTreatments
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Get retrieves a single treatment by id
func (s *TreatmentService) Get(ctx context.Context, id string) (*model.Treatment, *api.Response) {
	resp := s.api.Get(ctx, "/treatments/"+id)
	var out model.Treatment
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Create submits a new treatment and returns the server-assigned record
func (s *TreatmentService) Create(ctx context.Context, treatment model.Treatment) (*model.Treatment, *api.Response) {
	resp := s.api.Post(ctx, "/treatments", treatment)
	var out model.Treatment
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Update replaces a treatment and returns the authoritative record
func (s *TreatmentService) Update(ctx context.Context, id string, treatment model.Treatment) (*model.Treatment, *api.Response) {
	resp := s.api.Put(ctx, "/treatments/"+id, treatment)
	var out model.Treatment
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Delete removes a treatment
func (s *TreatmentService) Delete(ctx context.Context, id string) *api.Response {
	return s.api.Delete(ctx, "/treatments/"+id)
}

// Validate runs server-side validation over a draft treatment
func (s *TreatmentService) Validate(ctx context.Context, treatment model.Treatment) (*model.AIValidation, *api.Response) {
	resp := s.api.Post(ctx, "/treatments/validate", treatment)
	var out model.AIValidation
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// ParseVoice turns a spoken transcript into a draft treatment
func (s *TreatmentService) ParseVoice(ctx context.Context, transcript string) (*model.Treatment, *api.Response) {
	resp := s.api.Post(ctx, "/treatments/parse-voice", map[string]string{"transcript": transcript})
	var out model.Treatment
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}
