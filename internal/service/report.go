package service

import (
	"context"

	"github.com/enzomar/agrinote/internal/api"
	"github.com/enzomar/agrinote/internal/model"
)

// ReportService wraps the /reports endpoints
type ReportService struct {
	api *api.Client
}

// NewReportService creates a report service on top of client
func NewReportService(client *api.Client) *ReportService {
	return &ReportService{api: client}
}

// List retrieves all reports
func (s *ReportService) List(ctx context.Context) ([]model.Report, *api.Response) {
	resp := s.api.Get(ctx, "/reports")
	var out []model.Report
	if !resp.Decode(&out) {
		return nil, resp
	}
	return out, resp
}

// Generate requests generation of a report from a template
func (s *ReportService) Generate(ctx context.Context, templateID string, parameters model.ReportParameters) (*model.Report, *api.Response) {
	payload := map[string]interface{}{
		"templateId": templateID,
		"parameters": parameters,
	}
	resp := s.api.Post(ctx, "/reports/generate", payload)
	var out model.Report
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Status retrieves the current generation status of a report
func (s *ReportService) Status(ctx context.Context, id string) (*model.Report, *api.Response) {
	resp := s.api.Get(ctx, "/reports/"+id+"/status")
	var out model.Report
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Download retrieves the download URL of a ready report
func (s *ReportService) Download(ctx context.Context, id string) (string, *api.Response) {
	resp := s.api.Get(ctx, "/reports/"+id+"/download")
	var out struct {
		URL string `json:"url"`
	}
	if !resp.Decode(&out) {
		return "", resp
	}
	return out.URL, resp
}

// Delete removes a report
func (s *ReportService) Delete(ctx context.Context, id string) *api.Response {
	return s.api.Delete(ctx, "/reports/"+id)
}

// Templates retrieves the available report templates
func (s *ReportService) Templates(ctx context.Context) ([]map[string]interface{}, *api.Response) {
	resp := s.api.Get(ctx, "/reports/templates")
	var out []map[string]interface{}
	if !resp.Decode(&out) {
		return nil, resp
	}
	return out, resp
}
