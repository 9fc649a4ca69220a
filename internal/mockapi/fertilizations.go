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

// ListFertilizations handles retrieving all fertilizations
func (s *Server) ListFertilizations(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, append([]model.Fertilization{}, s.fertilizations...))
}

// CreateFertilization handles creating a new fertilization
func (s *Server) CreateFertilization(c echo.Context) error {
	log := logger.FromEcho(c)

	var f model.Fertilization
	if err := c.Bind(&f); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	now := time.Now()
	f.ID = "frt-" + uuid.New().String()
	f.CreatedAt = now
	f.UpdatedAt = now
	if f.Status == "" {
		f.Status = model.StatusPlanned
	}

	s.mu.Lock()
	s.fertilizations = append(s.fertilizations, f)
	s.mu.Unlock()

	log.Info("Fertilization created", zap.String("fertilization_id", f.ID), zap.String("crop", f.Crop))
	return c.JSON(http.StatusCreated, f)
}

// UpdateFertilization handles replacing an existing fertilization
func (s *Server) UpdateFertilization(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var f model.Fertilization
	if err := c.Bind(&f); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.fertilizations {
		if existing.ID == id {
			f.ID = id
			f.CreatedAt = existing.CreatedAt
			f.UpdatedAt = time.Now()
			s.fertilizations[i] = f
			log.Info("Fertilization updated", zap.String("fertilization_id", id))
			return c.JSON(http.StatusOK, f)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Fertilization not found",
	})
}

// DeleteFertilization handles removing a fertilization
func (s *Server) DeleteFertilization(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.fertilizations {
		if existing.ID == id {
			s.fertilizations = append(s.fertilizations[:i], s.fertilizations[i+1:]...)
			log.Info("Fertilization deleted", zap.String("fertilization_id", id))
			return c.JSON(http.StatusOK, echo.Map{"deleted": id})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Fertilization not found",
	})
}
