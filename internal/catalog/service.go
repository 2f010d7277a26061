package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context, filter ListFilter) ([]*Item, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	CompanyID      uuid.UUID
	Kind           Kind
	Name           string
	Unit           string
	SellingPrice   decimal.Decimal
	HSNCode        string
	TaxRatePercent *decimal.Decimal
}

type ListFilter struct {
	CompanyID uuid.UUID
	Kind      *Kind
}

var maxTaxRate = decimal.NewFromInt(100)

func (s *Service) Create(ctx context.Context, params CreateParams) (*Item, error) {
	name := strings.TrimSpace(params.Name)

	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalidItem)
	case params.Kind != KindProduct && params.Kind != KindService:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidItem, params.Kind)
	case params.SellingPrice.IsNegative():
		return nil, fmt.Errorf("%w: selling price must not be negative", ErrInvalidItem)
	case params.TaxRatePercent != nil &&
		(params.TaxRatePercent.IsNegative() || params.TaxRatePercent.GreaterThan(maxTaxRate)):
		return nil, fmt.Errorf("%w: tax rate must be between 0 and 100", ErrInvalidItem)
	}

	unit := strings.TrimSpace(params.Unit)
	if params.Kind == KindService {
		unit = ""
	}

	item := &Item{
		CompanyID:      params.CompanyID,
		Kind:           params.Kind,
		Name:           name,
		Unit:           unit,
		SellingPrice:   params.SellingPrice,
		HSNCode:        strings.TrimSpace(params.HSNCode),
		TaxRatePercent: params.TaxRatePercent,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	return s.repo.ListItems(ctx, filter)
}

// Seed returns the line a form starts from when the item is selected. The
// price only seeds the line; the reconciliation engine owns it afterwards.
func (s *Service) Seed(ctx context.Context, id uuid.UUID) (lineitem.Line, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return lineitem.Line{}, err
	}

	return SeedLine(item), nil
}

// SeedLine builds a default line from item.
func SeedLine(item *Item) lineitem.Line {
	var l lineitem.Line

	switch item.Kind {
	case KindService:
		l = lineitem.NewServiceLine()
		l.ServiceRef = item.ID.String()
		l.Description = item.Name
		l.Amount = item.SellingPrice
	default:
		l = lineitem.NewProductLine()
		l.ProductRef = item.ID.String()
		l.PricePerUnit = item.SellingPrice

		if item.Unit != "" {
			l.UnitType = item.Unit
		}
	}

	if item.TaxRatePercent != nil {
		l.TaxRatePercent = *item.TaxRatePercent
	}

	return l
}
