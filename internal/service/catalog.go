package service

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/search"
	"github.com/Skotchmaster/shop_backend/internal/transport"
)

// CatalogService reads and mutates products. When an Elasticsearch client is
// configured, mutations keep the product index in sync and Search goes
// through it; otherwise Search falls back to SQL.
type CatalogService struct {
	Repo  *repo.GormRepo
	ES    *elasticsearch.Client
	Index string
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.GetProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}

	prod := models.Product{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Image:    req.Image,
		Stock:    req.Stock,
	}
	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, err
	}

	s.reindex(ctx, &prod)
	return &prod, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		return nil, err
	}

	s.reindex(ctx, prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if s.ES != nil {
		if err := search.DeleteProduct(ctx, s.ES, s.Index, id); err != nil {
			logging.FromContext(ctx).Warn("es_delete_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) Search(ctx context.Context, q string, from, limit int) (int64, []models.Product, error) {
	if s.ES != nil {
		return search.Search(ctx, s.ES, s.Index, q, from, limit)
	}
	return s.Repo.SearchProducts(ctx, q, from, limit)
}

// reindex is best effort: a stale search document is not worth failing a
// catalog write over.
func (s *CatalogService) reindex(ctx context.Context, prod *models.Product) {
	if s.ES == nil {
		return
	}
	if err := search.IndexProduct(ctx, s.ES, s.Index, prod); err != nil {
		logging.FromContext(ctx).Warn("es_index_failed", "product_id", prod.ID, "error", err)
	}
}
