package mockapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/enzomar/agrinote/internal/model"
	"github.com/enzomar/agrinote/pkg/logger"
)

// ListProducts handles retrieving all products with optional category filter
func (s *Server) ListProducts(c echo.Context) error {
	category := c.QueryParam("category")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && string(p.Category) != category {
			continue
		}
		out = append(out, p)
	}
	return c.JSON(http.StatusOK, out)
}

// GetProduct handles retrieving a single product by ID
func (s *Server) GetProduct(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.ID == id {
			return c.JSON(http.StatusOK, p)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Product not found",
	})
}

// CreateProduct handles creating a new product
func (s *Server) CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	var p model.Product
	if err := c.Bind(&p); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	now := time.Now()
	p.ID = "prd-" + uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Quantity < 0 {
		p.Quantity = 0
	}

	s.mu.Lock()
	s.products = append(s.products, p)
	s.mu.Unlock()

	log.Info("Product created", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return c.JSON(http.StatusCreated, p)
}

// UpdateProduct handles replacing an existing product
func (s *Server) UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var p model.Product
	if err := c.Bind(&p); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.products {
		if existing.ID == id {
			p.ID = id
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = time.Now()
			if p.Quantity < 0 {
				p.Quantity = 0
			}
			s.products[i] = p
			log.Info("Product updated", zap.String("product_id", id))
			return c.JSON(http.StatusOK, p)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Product not found",
	})
}

// DeleteProduct handles removing a product
func (s *Server) DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.products {
		if existing.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			log.Info("Product deleted", zap.String("product_id", id))
			return c.JSON(http.StatusOK, echo.Map{"deleted": id})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "Product not found",
	})
}

// ScanBarcode looks up the product matching a scanned barcode
func (s *Server) ScanBarcode(c echo.Context) error {
	var req struct {
		Barcode string `json:"barcode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Barcode == req.Barcode {
			return c.JSON(http.StatusOK, p)
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "No product matches this barcode",
	})
}

// LowStockProducts returns products at or below their minimum stock level
func (s *Server) LowStockProducts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Product, 0)
	for _, p := range s.products {
		if p.Quantity <= p.MinStock {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, out)
}

// ExpiringProducts returns products expiring within the requested horizon
func (s *Server) ExpiringProducts(c echo.Context) error {
	days, err := strconv.Atoi(c.QueryParam("days"))
	if err != nil || days <= 0 {
		days = 90
	}
	cutoff := time.Now().AddDate(0, 0, days)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Product, 0)
	for _, p := range s.products {
		if p.ExpiryDate != nil && !p.ExpiryDate.After(cutoff) {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, out)
}
