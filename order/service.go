// Package order stores the orders placed through checkout and summarises them
// for the backoffice dashboard.
package order

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"goflare.io/atelier/models"
)

// Summary 表示儀表板的訂單統計
type Summary struct {
	Orders    int             `json:"orders"`
	ItemsSold int             `json:"items_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ProductSales is how much of one product the orders in a range sold.
type ProductSales struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"product_title"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Dashboard is the backoffice view of a date range. Orders is one page of the
// range; Summary and Products cover all of it.
type Dashboard struct {
	Orders   []*models.Order `json:"orders"`
	Summary  Summary         `json:"summary"`
	Products []ProductSales  `json:"products"`
}

type Service interface {
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]*models.Order, error)
	Dashboard(ctx context.Context, filter ListFilter) (*Dashboard, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

func (s *service) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.repo.GetOrder(ctx, nil, orderID)
}

func (s *service) ListOrders(ctx context.Context, filter ListFilter) ([]*models.Order, error) {
	return s.repo.ListOrders(ctx, nil, filter)
}

func (s *service) Dashboard(ctx context.Context, filter ListFilter) (*Dashboard, error) {
	orders, err := s.repo.ListOrders(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	summary, err := s.repo.Summarize(ctx, nil, filter)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.ProductSales(ctx, nil, filter)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Dashboard loaded",
		zap.Int("orders", summary.Orders),
		zap.Int("page", len(orders)),
		zap.Int("products", len(products)))
	return &Dashboard{Orders: orders, Summary: *summary, Products: products}, nil
}
