package mockapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/enzomar/agrinote/internal/model"
	"github.com/enzomar/agrinote/pkg/logger"
)

// ListTreatments handles retrieving treatments with pagination
func (s *Server) ListTreatments(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.treatments)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	totalPages := (total + pageSize - 1) / pageSize
	return c.JSON(http.StatusOK, model.PaginatedTreatments{
		Items:      append([]model.Treatment{}, s.treatments[start:end]...),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// GetTreatment handles retrieving a single treatment by ID
func (s *Server) GetTreatment(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.treatments {
		if t.ID == id {
			return c.JSON(http.StatusOK, t)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Treatment not found",
	})
}

// CreateTreatment handles creating a new treatment
func (s *Server) CreateTreatment(c echo.Context) error {
	log := logger.FromEcho(c)

	var t model.Treatment
	if err := c.Bind(&t); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	now := time.Now()
	t.ID = "trt-" + uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = model.StatusPlanned
	}

	s.mu.Lock()
	s.treatments = append(s.treatments, t)
	s.mu.Unlock()

	log.Info("Treatment created", zap.String("treatment_id", t.ID), zap.String("crop", t.Crop))
	return c.JSON(http.StatusCreated, t)
}

// UpdateTreatment handles replacing an existing treatment
func (s *Server) UpdateTreatment(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var t model.Treatment
	if err := c.Bind(&t); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.treatments {
		if existing.ID == id {
			t.ID = id
			t.CreatedAt = existing.CreatedAt
			t.UpdatedAt = time.Now()
			s.treatments[i] = t
			log.Info("Treatment updated", zap.String("treatment_id", id))
			return c.JSON(http.StatusOK, t)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Treatment not found",
	})
}

// DeleteTreatment handles removing a treatment
func (s *Server) DeleteTreatment(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.treatments {
		if existing.ID == id {
			s.treatments = append(s.treatments[:i], s.treatments[i+1:]...)
			log.Info("Treatment deleted", zap.String("treatment_id", id))
			return c.JSON(http.StatusOK, echo.Map{"deleted": id})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Treatment not found",
	})
}

// ValidateTreatment returns a canned validation verdict for a draft treatment
func (s *Server) ValidateTreatment(c echo.Context) error {
	var t model.Treatment
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	validation := model.AIValidation{
		Status:     "valid",
		Message:    "Treatment parameters look consistent",
		Confidence: 0.92,
	}
	if t.Dose <= 0 {
		validation = model.AIValidation{
			Status:      "warning",
			Message:     "Dose is missing or zero",
			Confidence:  0.99,
			Suggestions: []string{"Specify a dose greater than zero"},
		}
	}
	return c.JSON(http.StatusOK, validation)
}

// ParseVoice extracts a draft treatment from a spoken transcript. The mock
// picks out crop keywords only; real parsing happens server-side in
// production.
func (s *Server) ParseVoice(c echo.Context) error {
	var req struct {
		Transcript string `json:"transcript"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	draft := model.Treatment{
		Description: req.Transcript,
		Date:        time.Now(),
		Status:      model.StatusPlanned,
		CreatedBy:   model.OriginVoice,
	}
	for _, crop := range []string{"vite", "olivo", "grano", "mais"} {
		if strings.Contains(strings.ToLower(req.Transcript), crop) {
			draft.Crop = strings.ToUpper(crop[:1]) + crop[1:]
			break
		}
	}
	return c.JSON(http.StatusOK, draft)
}
