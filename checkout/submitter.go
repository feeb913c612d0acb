// Package checkout turns a session's cart into an order and notifies the store.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"goflare.io/atelier/driver"
	"goflare.io/atelier/models"
)

var ErrSubmissionFailed = errors.New("order submission failed")

// Cart is the part of cart.Store checkout needs.
type Cart interface {
	Snapshot() models.Cart
	Subtract(ctx context.Context, ordered models.Cart)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, tx pgx.Tx, order *models.Order) error
}

type EventRecorder interface {
	Create(ctx context.Context, tx pgx.Tx, event *models.Event) error
}

type Notifier interface {
	NotifyStore(ctx context.Context, order *models.Order) error
	NotifyCustomer(ctx context.Context, order *models.Order) error
}

// Publisher announces committed orders to the background workers.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.Event) error
}

type Submitter struct {
	tx        driver.Transactor
	orders    OrderCreator
	events    EventRecorder
	notifier  Notifier
	publisher Publisher
	currency  stripe.Currency
	now       func() time.Time
	logger    *zap.Logger
}

// NewSubmitter builds a Submitter. publisher may be nil, in which case the
// customer confirmation is sent inline.
func NewSubmitter(
	tx driver.Transactor, orders OrderCreator, events EventRecorder,
	notifier Notifier, publisher Publisher, currency stripe.Currency,
	logger *zap.Logger) *Submitter {
	return &Submitter{
		tx:        tx,
		orders:    orders,
		events:    events,
		notifier:  notifier,
		publisher: publisher,
		currency:  currency,
		now:       time.Now,
		logger:    logger,
	}
}

// Submit places an order for everything in cart. Invalid input returns a
// *ValidationError; any other failure returns an error wrapping
// ErrSubmissionFailed and leaves the cart as it was. On success the ordered
// lines are taken out of the cart; anything added meanwhile stays.
func (s *Submitter) Submit(ctx context.Context, cart Cart, customer Customer) (*models.Order, error) {
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	customer = customer.Normalize()

	// 1. 取得購物車快照
	snapshot := cart.Snapshot()
	if snapshot.IsEmpty() {
		return nil, &ValidationError{Err: ErrEmptyCart}
	}

	order := models.NewOrder(snapshot, customer.Name, customer.Email, s.currency, s.now().UTC())
	event := models.NewOrderPlacedEvent(order)
	logger := s.logger.With(zap.String("order_id", order.ID))

	// 2. 建立訂單並通知商店，任一失敗則回滾
	err := s.tx.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.orders.CreateOrder(ctx, tx, order); err != nil {
			return err
		}
		if err := s.events.Create(ctx, tx, event); err != nil {
			return err
		}
		return s.notifier.NotifyStore(ctx, order)
	})
	if err != nil {
		logger.Error("Failed to submit order", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	// 3. 通知顧客
	s.confirm(ctx, order, event, logger)

	// 4. 從購物車扣除已下單的商品
	cart.Subtract(ctx, snapshot)

	logger.Info("Order submitted",
		zap.Int("items", order.ItemCount()),
		zap.String("total", order.TotalAmount.StringFixed(2)))
	return order, nil
}

// confirm hands the customer email to the workers, or sends it inline when
// there is no publisher or publishing fails. Failures are only logged.
func (s *Submitter) confirm(ctx context.Context, order *models.Order, event *models.Event, logger *zap.Logger) {
	if s.publisher != nil {
		err := s.publisher.PublishOrderPlaced(ctx, event)
		if err == nil {
			return
		}
		logger.Warn("Failed to publish order event, confirming inline", zap.Error(err))
	}

	if err := s.notifier.NotifyCustomer(ctx, order); err != nil {
		logger.Warn("Failed to send customer confirmation", zap.Error(err))
	}
}
