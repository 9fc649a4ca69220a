// Package mockapi implements the AgriNote remote API surface over in-memory
// fixtures. It backs local development and integration testing of the sync
// engine when no real backend is reachable.
package mockapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/enzomar/agrinote/internal/model"
	"github.com/enzomar/agrinote/pkg/config"
	"github.com/enzomar/agrinote/pkg/jwtutil"
	"github.com/enzomar/agrinote/pkg/logger"
	"github.com/enzomar/agrinote/pkg/metrics"
)

// Server holds the mock API's in-memory dataset
type Server struct {
	mu sync.Mutex

	treatments     []model.Treatment
	products       []model.Product
	fertilizations []model.Fertilization
	reports        []model.Report
	notifications  []model.Notification
	farm           model.Farm

	jwt *jwtutil.JWTUtil
}

// New creates a mock API server with seed fixtures
func New(cfg *config.Config) *Server {
	return &Server{
		treatments:     seedTreatments(),
		products:       seedProducts(),
		fertilizations: []model.Fertilization{},
		reports:        []model.Report{},
		notifications:  seedNotifications(),
		farm:           seedFarm(),
		jwt:            jwtutil.NewJWTUtil(&cfg.JWT),
	}
}

// Echo builds the routed Echo instance for the server
func (s *Server) Echo(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	httpMetrics := metrics.NewHTTPMetrics(cfg.ServiceName)

	e.Use(middleware.Recover())
	e.Use(RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.HEAD("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// Login issues the bearer token the sync client presents on every call
	e.POST("/auth/login", s.Login)

	api := e.Group("", s.AuthMiddleware)

	api.GET("/treatments", s.ListTreatments)
	api.GET("/treatments/:id", s.GetTreatment)
	api.POST("/treatments", s.CreateTreatment)
	api.PUT("/treatments/:id", s.UpdateTreatment)
	api.DELETE("/treatments/:id", s.DeleteTreatment)
	api.POST("/treatments/validate", s.ValidateTreatment)
	api.POST("/treatments/parse-voice", s.ParseVoice)

	api.GET("/products", s.ListProducts)
	api.GET("/products/low-stock", s.LowStockProducts)
	api.GET("/products/expiring", s.ExpiringProducts)
	api.POST("/products/scan-barcode", s.ScanBarcode)
	api.GET("/products/:id", s.GetProduct)
	api.POST("/products", s.CreateProduct)
	api.PUT("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	api.GET("/fertilizations", s.ListFertilizations)
	api.POST("/fertilizations", s.CreateFertilization)
	api.PUT("/fertilizations/:id", s.UpdateFertilization)
	api.DELETE("/fertilizations/:id", s.DeleteFertilization)

	api.GET("/reports", s.ListReports)
	api.GET("/reports/templates", s.ReportTemplates)
	api.POST("/reports/generate", s.GenerateReport)
	api.GET("/reports/:id/status", s.ReportStatus)
	api.GET("/reports/:id/download", s.DownloadReport)
	api.DELETE("/reports/:id", s.DeleteReport)

	api.GET("/weather/current", s.CurrentWeather)
	api.GET("/weather/forecast", s.WeatherForecast)
	api.GET("/weather/alerts", s.WeatherAlerts)

	api.GET("/farm", s.GetFarm)
	api.PUT("/farm", s.UpdateFarm)
	api.GET("/farm/crops", s.ListCrops)
	api.POST("/farm/crops", s.AddCrop)

	api.GET("/notifications", s.ListNotifications)
	api.PUT("/notifications/:id/read", s.MarkNotificationRead)
	api.DELETE("/notifications/:id", s.DismissNotification)

	return e
}

func seedTreatments() []model.Treatment {
	now := time.Now()
	return []model.Treatment{
		{
			ID:          "trt-001",
			Description: "Trattamento antiperonosporico",
			Date:        now.AddDate(0, 0, -2),
			Crop:        "Vite",
			Product:     "Rame idrossido",
			ProductID:   "prd-001",
			Dose:        2.5,
			Unit:        "kg/ha",
			Area:        3.2,
			Method:      "atomizzatore",
			Status:      model.StatusCompleted,
			CreatedBy:   model.OriginManual,
			CreatedAt:   now.AddDate(0, 0, -3),
			UpdatedAt:   now.AddDate(0, 0, -2),
		},
		{
			ID:          "trt-002",
			Description: "Trattamento oidio",
			Date:        now.AddDate(0, 0, 1),
			Crop:        "Vite",
			Product:     "Zolfo bagnabile",
			ProductID:   "prd-002",
			Dose:        4,
			Unit:        "kg/ha",
			Area:        3.2,
			Method:      "atomizzatore",
			Status:      model.StatusPlanned,
			CreatedBy:   model.OriginManual,
			CreatedAt:   now.AddDate(0, 0, -1),
			UpdatedAt:   now.AddDate(0, 0, -1),
		},
	}
}

func seedProducts() []model.Product {
	now := time.Now()
	expiry := now.AddDate(0, 6, 0)
	return []model.Product{
		{
			ID:        "prd-001",
			Name:      "Rame idrossido",
			Category:  model.CategoryPesticide,
			Quantity:  25,
			Unit:      "kg",
			MinStock:  10,
			Supplier:  "AgriChem Srl",
			Barcode:   "8001234567890",
			CreatedAt: now.AddDate(0, -2, 0),
			UpdatedAt: now,
		},
		{
			ID:         "prd-002",
			Name:       "Zolfo bagnabile",
			Category:   model.CategoryPesticide,
			Quantity:   8,
			Unit:       "kg",
			MinStock:   10,
			Supplier:   "AgriChem Srl",
			ExpiryDate: &expiry,
			Barcode:    "8009876543210",
			CreatedAt:  now.AddDate(0, -1, 0),
			UpdatedAt:  now,
		},
	}
}

func seedNotifications() []model.Notification {
	return []model.Notification{
		{
			ID:        "ntf-001",
			Type:      "inventory",
			Title:     "Scorta bassa",
			Message:   "Zolfo bagnabile sotto la soglia minima",
			CreatedAt: time.Now(),
		},
	}
}

func seedFarm() model.Farm {
	return model.Farm{
		ID:        "farm-001",
		Name:      "Azienda Agricola Demo",
		Owner:     "Mario Rossi",
		Location:  model.GeoCoordinate{Latitude: 44.494, Longitude: 11.342},
		TotalArea: 12.5,
		Crops: []model.CropArea{
			{
				ID:           "crop-001",
				Name:         "Vigneto Nord",
				Variety:      "Sangiovese",
				Area:         3.2,
				PlantingDate: time.Date(2018, 3, 15, 0, 0, 0, 0, time.UTC),
			},
		},
	}
}
