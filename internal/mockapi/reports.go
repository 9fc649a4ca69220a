package mockapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/enzomar/agrinote/internal/model"
	"github.com/enzomar/agrinote/pkg/logger"
)

// ListReports handles retrieving all reports
func (s *Server) ListReports(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, append([]model.Report{}, s.reports...))
}

// GenerateReport handles a report generation request. The mock completes
// generation immediately.
func (s *Server) GenerateReport(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		TemplateID string                 `json:"templateId"`
		Parameters model.ReportParameters `json:"parameters"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if req.TemplateID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "templateId is required",
		})
	}

	report := model.Report{
		ID:         "rpt-" + uuid.New().String(),
		TemplateID: req.TemplateID,
		Name:       "Report " + req.TemplateID,
		Type:       "operational",
		Parameters: req.Parameters,
		Status:     model.ReportReady,
		FileURL:    "/reports/download/" + req.TemplateID + ".pdf",
		FileSize:   "128KB",
		Format:     "pdf",
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	s.reports = append(s.reports, report)
	s.mu.Unlock()

	log.Info("Report generated", zap.String("report_id", report.ID), zap.String("template_id", req.TemplateID))
	return c.JSON(http.StatusCreated, report)
}

// ReportStatus handles retrieving a report's generation status
func (s *Server) ReportStatus(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reports {
		if r.ID == id {
			return c.JSON(http.StatusOK, r)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Report not found",
	})
}

// DownloadReport handles retrieving a ready report's download URL
func (s *Server) DownloadReport(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reports {
		if r.ID == id {
			if r.Status != model.ReportReady {
				return c.JSON(http.StatusConflict, echo.Map{
					"error": "Report is not ready",
				})
			}
			return c.JSON(http.StatusOK, echo.Map{"url": r.FileURL})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Report not found",
	})
}

// DeleteReport handles removing a report
func (s *Server) DeleteReport(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.reports {
		if existing.ID == id {
			s.reports = append(s.reports[:i], s.reports[i+1:]...)
			log.Info("Report deleted", zap.String("report_id", id))
			return c.JSON(http.StatusOK, echo.Map{"deleted": id})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Report not found",
	})
}

// ReportTemplates lists the templates available for generation
func (s *Server) ReportTemplates(c echo.Context) error {
	return c.JSON(http.StatusOK, []echo.Map{
		{"id": "tpl-treatments", "name": "Registro trattamenti", "type": "compliance"},
		{"id": "tpl-inventory", "name": "Giacenze magazzino", "type": "inventory"},
		{"id": "tpl-seasonal", "name": "Riepilogo stagionale", "type": "operational"},
	})
}
