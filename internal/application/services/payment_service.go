package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mpetrenko/ordermart/internal/application/errs"
	"github.com/mpetrenko/ordermart/internal/application/interfaces"
	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/domain/repositories"
	"github.com/mpetrenko/ordermart/pkg/logger"
	"github.com/shopspring/decimal"
)

// PaymentService owns payment reconciliation: price setting and the
// one-way UNPAID -> PAID transition. Confirmation is a manual admin
// action; there is no automatic verification.
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	notifier    interfaces.Notifier
	logger      logger.Logger
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	notifier interfaces.Notifier,
	logger logger.Logger,
) (*PaymentService, error) {
	if notifier == nil {
		return nil, errors.New("nil dependency: notifier")
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		notifier:    notifier,
		logger:      logger,
	}, nil
}

var _ interfaces.PaymentService = (*PaymentService)(nil)

// SetPrice writes the amount owed for the order. Price must be a
// positive value with at most two decimal places.
func (s *PaymentService) SetPrice(
	ctx context.Context, orderID entities.OrderID, price decimal.Decimal,
) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: price must be positive, got %s", errs.ErrInvalidRequest, price)
	}
	if price.Exponent() < -2 {
		return fmt.Errorf("%w: price must have at most two decimal places, got %s",
			errs.ErrInvalidRequest, price)
	}

	if err := s.paymentRepo.SetPrice(ctx, orderID, price); err != nil {
		return err
	}

	payment, err := s.paymentRepo.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Errorf("set price %s: read back: %s", orderID, err)
		return nil
	}

	s.notify(ctx, payment.ClientID, entities.TemplatePriceSet, map[string]string{
		"order_id": string(orderID),
		"price":    price.StringFixed(2),
	})

	return nil
}

func (s *PaymentService) GetUnpaidOrders(
	ctx context.Context, clientID user.ID,
) ([]*entities.UnpaidOrder, error) {
	return s.paymentRepo.GetUnpaidByClientID(ctx, clientID)
}

// ConfirmPayment performs the guarded UNPAID -> PAID transition.
// Returns false when the payment is already paid or absent, so a
// duplicate confirm is a no-op for the caller, not an error.
func (s *PaymentService) ConfirmPayment(
	ctx context.Context, orderID entities.OrderID,
) (bool, error) {
	confirmed, err := s.paymentRepo.ConfirmPayment(ctx, orderID)
	if err != nil {
		return false, err
	}
	if !confirmed {
		return false, nil
	}

	payment, err := s.paymentRepo.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		s.logger.Errorf("confirm payment %s: read back: %s", orderID, err)
		return true, nil
	}

	s.notify(ctx, payment.ClientID, entities.TemplatePaymentConfirmed, map[string]string{
		"order_id": string(orderID),
		"price":    payment.Price.StringFixed(2),
	})

	return true, nil
}

// RejectPayment asks the client to re-verify their transfer. Purely a
// notification: neither the payment nor the order is mutated, the
// client may resubmit.
func (s *PaymentService) RejectPayment(
	ctx context.Context, orderID entities.OrderID,
) (*entities.Notification, error) {
	payment, err := s.paymentRepo.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	n := entities.NewNotification(payment.ClientID, entities.TemplatePaymentRejected,
		map[string]string{
			"order_id": string(orderID),
			"owed":     payment.Outstanding().StringFixed(2),
		})

	if err := s.notifier.Notify(ctx, n); err != nil {
		return nil, err
	}

	return n, nil
}

func (s *PaymentService) notify(
	ctx context.Context,
	recipient user.ID,
	template entities.NotificationTemplate,
	payload map[string]string,
) {
	n := entities.NewNotification(recipient, template, payload)
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Errorf("notify %s about %s: %s", recipient, template, err)
	}
}
