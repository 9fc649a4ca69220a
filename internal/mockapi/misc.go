package mockapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/enzomar/agrinote/internal/model"
	"github.com/enzomar/agrinote/pkg/logger"
)

// CurrentWeather returns the current weather snapshot for the farm
func (s *Server) CurrentWeather(c echo.Context) error {
	return c.JSON(http.StatusOK, model.WeatherCondition{
		Temperature: 21.5,
		Humidity:    62,
		WindSpeed:   8.4,
		Pressure:    1014,
		Condition:   "partly cloudy",
		Rainfall:    0,
		Suitable:    true,
	})
}

// WeatherForecast returns a flat forecast for the requested horizon
func (s *Server) WeatherForecast(c echo.Context) error {
	days, err := strconv.Atoi(c.QueryParam("days"))
	if err != nil || days <= 0 {
		days = 7
	}

	out := make([]model.WeatherCondition, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, model.WeatherCondition{
			Temperature: 20 + float64(i%5),
			Humidity:    60,
			WindSpeed:   10,
			Pressure:    1012,
			Condition:   "sunny",
			Suitable:    true,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// WeatherAlerts returns active weather alerts
func (s *Server) WeatherAlerts(c echo.Context) error {
	return c.JSON(http.StatusOK, []echo.Map{})
}

// GetFarm returns the farm master record
func (s *Server) GetFarm(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.farm)
}

// UpdateFarm replaces the farm master record
func (s *Server) UpdateFarm(c echo.Context) error {
	log := logger.FromEcho(c)

	var farm model.Farm
	if err := c.Bind(&farm); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	s.mu.Lock()
	farm.ID = s.farm.ID
	s.farm = farm
	s.mu.Unlock()

	log.Info("Farm updated", zap.String("farm_id", farm.ID))
	return c.JSON(http.StatusOK, farm)
}

// ListCrops returns the cultivated crop areas
func (s *Server) ListCrops(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, append([]model.CropArea{}, s.farm.Crops...))
}

// AddCrop registers a new crop area
func (s *Server) AddCrop(c echo.Context) error {
	log := logger.FromEcho(c)

	var crop model.CropArea
	if err := c.Bind(&crop); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	crop.ID = "crop-" + uuid.New().String()

	s.mu.Lock()
	s.farm.Crops = append(s.farm.Crops, crop)
	s.mu.Unlock()

	log.Info("Crop added", zap.String("crop_id", crop.ID), zap.String("name", crop.Name))
	return c.JSON(http.StatusCreated, crop)
}

// ListNotifications returns all notifications for the operator
func (s *Server) ListNotifications(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, append([]model.Notification{}, s.notifications...))
}

// MarkNotificationRead marks a notification as read
func (s *Server) MarkNotificationRead(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications[i].Read = true
			return c.JSON(http.StatusOK, s.notifications[i])
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Notification not found",
	})
}

// DismissNotification removes a notification
func (s *Server) DismissNotification(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return c.JSON(http.StatusOK, echo.Map{"deleted": id})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Notification not found",
	})
}
