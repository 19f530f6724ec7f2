package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/velorashop/storefront-backend/pkg/db/models"
	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
)

type catalogReader interface {
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	GetByCode(ctx context.Context, code string) (*models.Product, error)
}

// Service exposes catalog reads to the HTTP layer.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	GetByCode(ctx context.Context, code string) (*ProductDTO, error)
}

type service struct {
	repo catalogReader
}

// NewService builds a catalog service over the provided repository.
func NewService(repo catalogReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dtoFromModel(row))
	}
	return out, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*ProductDTO, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product code is required")
	}

	row, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := dtoFromModel(*row)
	return &dto, nil
}
