package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/enzomar/agrinote/internal/api"
	"github.com/enzomar/agrinote/internal/model"
)

// ProductService wraps the /products endpoints
type ProductService struct {
	api *api.Client
}

// NewProductService creates a product service on top of client
func NewProductService(client *api.Client) *ProductService {
	return &ProductService{api: client}
}

// List retrieves all products, optionally filtered by category
func (s *ProductService) List(ctx context.Context, category string) ([]model.Product, *api.Response) {
	endpoint := "/products"
	if category != "" {
		endpoint += "?category=" + url.QueryEscape(category)
	}
	resp := s.api.Get(ctx, endpoint)
	var out []model.Product
	if !resp.Decode(&out) {
		return nil, resp
	}
	return out, resp
}

// Get retrieves a single product by id
func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, *api.Response) {
	resp := s.api.Get(ctx, "/products/"+id)
	var out model.Product
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Create submits a new product and returns the server-assigned record
func (s *ProductService) Create(ctx context.Context, product model.Product) (*model.Product, *api.Response) {
	resp := s.api.Post(ctx, "/products", product)
	var out model.Product
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Update replaces a product and returns the authoritative record
func (s *ProductService) Update(ctx context.Context, id string, product model.Product) (*model.Product, *api.Response) {
	resp := s.api.Put(ctx, "/products/"+id, product)
	var out model.Product
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id string) *api.Response {
	return s.api.Delete(ctx, "/products/"+id)
}

// ScanBarcode looks up product details for a scanned barcode
func (s *ProductService) ScanBarcode(ctx context.Context, barcode string) (*model.Product, *api.Response) {
	resp := s.api.Post(ctx, "/products/scan-barcode", map[string]string{"barcode": barcode})
	var out model.Product
	if !resp.Decode(&out) {
		return nil, resp
	}
	return &out, resp
}

// LowStock retrieves products at or below their minimum stock level
func (s *ProductService) LowStock(ctx context.Context) ([]model.Product, *api.Response) {
	resp := s.api.Get(ctx, "/products/low-stock")
	var out []model.Product
	if !resp.Decode(&out) {
		return nil, resp
	}
	return out, resp
}

// Expiring retrieves products expiring within the given number of days
func (s *ProductService) Expiring(ctx context.Context, days int) ([]model.Product, *api.Response) {
	resp := s.api.Get(ctx, fmt.Sprintf("/products/expiring?days=%d", days))
	var out []model.Product
	if !resp.Decode(&out) {
		return nil, resp
	}
	return out, resp
}
