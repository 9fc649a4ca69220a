package service

import (
	"context"
	"fmt"

	"github.com/enzomar/agrinote/internal/api"
	"github.com/enzomar/agrinote/internal/model"
)

// WeatherService wraps the /weather endpoints
type WeatherService struct {
	api *api.Client
}

// NewWeatherService creates a weather service on top of client
func NewWeatherService(client *api.Client) *WeatherService {
	return &WeatherService{api: client}
}

// Current retrieves the current weather snapshot for the farm
func (s *WeatherService) Current(ctx context.Context) (*model.WeatherCondition, *api.Response) {
	resp := s.api.Get(ctx, "/weather/current")
	var out model.WeatherCondition
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Forecast retrieves the weather forecast for the given number of days
func (s *WeatherService) Forecast(ctx context.Context, days int) ([]model.WeatherCondition, *api.Response) {
	resp := s.api.Get(ctx, fmt.Sprintf("/weather/forecast?days=%d", days))
	var out []model.WeatherCondition
	if !resp.Decode(&out) {
		return nil, resp
	}
	return out, resp
}

// Alerts retrieves active weather alerts
func (s *WeatherService) Alerts(ctx context.Context) ([]map[string]interface{}, *api.Response) {
	resp := s.api.Get(ctx, "/weather/alerts")
	var out []map[string]interface{}
	if !resp.Decode(&out) {
		return nil, resp
	}
	return out, resp
}
