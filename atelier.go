// Package atelier is the storefront facade: it ties the catalog, per-session
// carts, checkout and the admin back office together and runs the background
// order-event workers.
package atelier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"goflare.io/atelier/cart"
	"goflare.io/atelier/catalog"
	"goflare.io/atelier/checkout"
	"goflare.io/atelier/driver"
	"goflare.io/atelier/emailtemplate"
	"goflare.io/atelier/event"
	"goflare.io/atelier/models"
	"goflare.io/atelier/models/enum"
	"goflare.io/atelier/order"
	"goflare.io/atelier/testimonial"
)

const defaultWorkerPoolSize = 4

type Service interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)

	GetCart(ctx context.Context, sessionID string) models.Cart
	AddToCart(ctx context.Context, sessionID, productID string) (models.Cart, error)
	AddCustomPiece(ctx context.Context, sessionID, title, description string, price decimal.Decimal) (models.Cart, error)
	UpdateCartQuantity(ctx context.Context, sessionID, productID string, quantity int) models.Cart
	RemoveFromCart(ctx context.Context, sessionID, productID string) models.Cart
	ClearCart(ctx context.Context, sessionID string) models.Cart
	SignOut(ctx context.Context, sessionID string)
	Checkout(ctx context.Context, sessionID string, customer checkout.Customer) (*models.Order, error)

	ListTestimonials(ctx context.Context) ([]*models.Testimonial, error)

	ListAllProducts(ctx context.Context) ([]*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ToggleProduct(ctx context.Context, id string) (*models.Product, error)

	ListAllTestimonials(ctx context.Context) ([]*models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *models.Testimonial) error
	UpdateTestimonial(ctx context.Context, t *models.Testimonial) error
	DeleteTestimonial(ctx context.Context, id string) error
	ToggleTestimonial(ctx context.Context, id string) (*models.Testimonial, error)

	ListEmailTemplates(ctx context.Context) ([]*models.EmailTemplate, error)
	UpdateEmailTemplate(ctx context.Context, template *models.EmailTemplate) error

	Dashboard(ctx context.Context, filter order.ListFilter) (*order.Dashboard, error)

	Shutdown(ctx context.Context) error
}

// Dependencies are the collaborators the storefront is assembled from.
type Dependencies struct {
	Catalog        catalog.Service
	Testimonials   testimonial.Service
	EmailTemplates emailtemplate.Service
	Orders         order.Service
	OrderRepo      order.Repository
	EventRepo      event.Repository
	Carts          *cart.Registry
	Notifier       checkout.Notifier
	Tx             driver.Transactor
	Currency       stripe.Currency
}

type service struct {
	deps      Dependencies
	submitter *checkout.Submitter

	eventManager *EventManager
	workerPool   *WorkerPool

	now    func() time.Time
	logger *zap.Logger
}

// NewService assembles the storefront. natsConn may be nil; customer
// confirmations are then sent inline during checkout.
func NewService(deps Dependencies, natsConn NATSConn, workers int, logger *zap.Logger) Service {
	if workers <= 0 {
		workers = defaultWorkerPoolSize
	}
	s := &service{
		deps:   deps,
		now:    time.Now,
		logger: logger,
	}
	s.workerPool = NewWorkerPool(workers, s, logger)

	var publisher checkout.Publisher
	if natsConn != nil {
		s.eventManager = NewEventManager(natsConn, logger)
		s.registerEventHandlers()
		publisher = s.eventManager

		// 訂閱事件
		if err := s.eventManager.SubscribeToEvents(s.workerPool); err != nil {
			logger.Error("Failed to subscribe to events", zap.Error(err))
		}
	}

	s.submitter = checkout.NewSubmitter(deps.Tx, deps.OrderRepo, deps.EventRepo,
		deps.Notifier, publisher, deps.Currency, logger)

	return s
}

func (s *service) registerEventHandlers() {
	s.eventManager.RegisterHandler(enum.EventTypeOrderPlaced, s.handleOrderPlaced)
}

func (s *service) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.deps.Catalog.ListActive(ctx)
}

func (s *service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.deps.Catalog.GetActiveProduct(ctx, id)
}

func (s *service) GetCart(ctx context.Context, sessionID string) models.Cart {
	return s.deps.Carts.Get(ctx, sessionID).Snapshot()
}

// AddToCart adds one unit of an active catalog product to the session's cart.
func (s *service) AddToCart(ctx context.Context, sessionID, productID string) (models.Cart, error) {
	product, err := s.deps.Catalog.GetActiveProduct(ctx, productID)
	if err != nil {
		return models.Cart{}, err
	}

	store := s.deps.Carts.Get(ctx, sessionID)
	store.AddItem(ctx, *product)
	return store.Snapshot(), nil
}

func (s *service) AddCustomPiece(ctx context.Context, sessionID, title, description string, price decimal.Decimal) (models.Cart, error) {
	piece, err := catalog.NewCustomPiece(title, description, price, s.now())
	if err != nil {
		return models.Cart{}, err
	}

	store := s.deps.Carts.Get(ctx, sessionID)
	store.AddItem(ctx, piece)
	return store.Snapshot(), nil
}

func (s *service) UpdateCartQuantity(ctx context.Context, sessionID, productID string, quantity int) models.Cart {
	store := s.deps.Carts.Get(ctx, sessionID)
	store.UpdateQuantity(ctx, productID, quantity)
	return store.Snapshot()
}

func (s *service) RemoveFromCart(ctx context.Context, sessionID, productID string) models.Cart {
	store := s.deps.Carts.Get(ctx, sessionID)
	store.RemoveItem(ctx, productID)
	return store.Snapshot()
}

func (s *service) ClearCart(ctx context.Context, sessionID string) models.Cart {
	store := s.deps.Carts.Get(ctx, sessionID)
	store.Clear(ctx)
	return store.Snapshot()
}

func (s *service) SignOut(ctx context.Context, sessionID string) {
	s.deps.Carts.Forget(ctx, sessionID)
}

func (s *service) Checkout(ctx context.Context, sessionID string, customer checkout.Customer) (*models.Order, error) {
	return s.submitter.Submit(ctx, s.deps.Carts.Get(ctx, sessionID), customer)
}

func (s *service) ListTestimonials(ctx context.Context) ([]*models.Testimonial, error) {
	return s.deps.Testimonials.ListActive(ctx)
}

func (s *service) ListAllProducts(ctx context.Context) ([]*models.Product, error) {
	return s.deps.Catalog.List(ctx)
}

func (s *service) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.deps.Catalog.CreateProduct(ctx, product)
}

func (s *service) UpdateProduct(ctx context.Context, product *models.Product) error {
	return s.deps.Catalog.UpdateProduct(ctx, product)
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	return s.deps.Catalog.DeleteProduct(ctx, id)
}

func (s *service) ToggleProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.deps.Catalog.ToggleActive(ctx, id)
}

func (s *service) ListAllTestimonials(ctx context.Context) ([]*models.Testimonial, error) {
	return s.deps.Testimonials.List(ctx)
}

func (s *service) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	return s.deps.Testimonials.Create(ctx, t)
}

func (s *service) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	return s.deps.Testimonials.Update(ctx, t)
}

func (s *service) DeleteTestimonial(ctx context.Context, id string) error {
	return s.deps.Testimonials.Delete(ctx, id)
}

func (s *service) ToggleTestimonial(ctx context.Context, id string) (*models.Testimonial, error) {
	return s.deps.Testimonials.ToggleActive(ctx, id)
}

func (s *service) ListEmailTemplates(ctx context.Context) ([]*models.EmailTemplate, error) {
	return s.deps.EmailTemplates.List(ctx)
}

func (s *service) UpdateEmailTemplate(ctx context.Context, template *models.EmailTemplate) error {
	return s.deps.EmailTemplates.Update(ctx, template)
}

func (s *service) Dashboard(ctx context.Context, filter order.ListFilter) (*order.Dashboard, error) {
	return s.deps.Orders.Dashboard(ctx, filter)
}

// ProcessEvent dispatches event to its registered handler.
func (s *service) ProcessEvent(ctx context.Context, evt *models.Event) error {
	if s.eventManager == nil {
		return fmt.Errorf("no event manager configured for event type: %s", evt.Type)
	}
	handler, ok := s.eventManager.GetHandler(evt.Type)
	if !ok {
		return fmt.Errorf("no handler registered for event type: %s", evt.Type)
	}
	return handler(ctx, evt)
}

// handleOrderPlaced sends the customer confirmation for a committed order and
// marks the event processed. Redelivered events are skipped.
func (s *service) handleOrderPlaced(ctx context.Context, evt *models.Event) error {
	logger := s.logger.With(zap.String("event_id", evt.ID), zap.String("order_id", evt.OrderID))

	// 1. 確認事件尚未處理
	stored, err := s.deps.EventRepo.GetByID(ctx, nil, evt.ID)
	switch {
	case errors.Is(err, event.ErrEventNotFound):
		if err := s.deps.EventRepo.Create(ctx, nil, evt); err != nil {
			return fmt.Errorf("failed to record event: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to get event: %w", err)
	case stored.Processed:
		logger.Debug("Event already processed")
		return nil
	}

	// 2. 取得訂單
	o, err := s.deps.OrderRepo.GetOrder(ctx, nil, evt.OrderID)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	// 3. 寄送顧客確認信
	if o.Status != enum.OrderStatusCustomerNotified {
		if err := s.deps.Notifier.NotifyCustomer(ctx, o); err != nil {
			return fmt.Errorf("failed to notify customer: %w", err)
		}
	}

	// 4. 更新訂單狀態並標記事件
	return s.deps.Tx.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.deps.OrderRepo.UpdateOrderStatus(ctx, tx, o.ID, enum.OrderStatusCustomerNotified, s.now().UTC()); err != nil {
			return err
		}
		if err := s.deps.EventRepo.MarkAsProcessed(ctx, tx, evt.ID); err != nil {
			return err
		}
		logger.Info("Customer notified")
		return nil
	})
}

// Shutdown stops consuming events and drains the worker pool.
func (s *service) Shutdown(ctx context.Context) error {
	if s.eventManager != nil {
		if err := s.eventManager.Unsubscribe(); err != nil {
			s.logger.Warn("Failed to unsubscribe from events", zap.Error(err))
		}
	}
	return s.workerPool.Shutdown(ctx)
}
