package services

import (
	"context"
	"errors"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/mpetrenko/ordermart/internal/application/interfaces"
	"github.com/mpetrenko/ordermart/internal/application/params"
	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/domain/repositories"
	"github.com/mpetrenko/ordermart/pkg/logger"
)

// OrderService owns the order lifecycle state machine. All writes go
// through conditional repository updates; the service itself never
// checks-then-writes.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	paymentRepo repositories.PaymentRepository
	trm         trm.Manager
	notifier    interfaces.Notifier
	logger      logger.Logger
	adminID     user.ID
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	paymentRepo repositories.PaymentRepository,
	trm trm.Manager,
	notifier interfaces.Notifier,
	adminID user.ID,
	logger logger.Logger,
) (*OrderService, error) {
	if trm == nil {
		return nil, errors.New("nil dependency: transaction manager")
	}
	if notifier == nil {
		return nil, errors.New("nil dependency: notifier")
	}
	return &OrderService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		trm:         trm,
		notifier:    notifier,
		adminID:     adminID,
		logger:      logger,
	}, nil
}

var _ interfaces.OrderService = (*OrderService)(nil)

// CreateOrder inserts the order and its unpaid companion payment in
// one transaction: neither row is ever visible without the other.
func (s *OrderService) CreateOrder(
	ctx context.Context, p *params.CreateOrder,
) (entities.OrderID, error) {
	order := entities.NewOrder(p.ClientID, p.Subject, p.WorkType, p.Details)

	var id entities.OrderID

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		var err error

		id, err = s.orderRepo.CreateOrder(ctx, order)
		if err != nil {
			return err
		}

		return s.paymentRepo.CreatePayment(ctx, id, p.ClientID)
	})
	if err != nil {
		return "", err
	}

	s.notify(ctx, s.adminID, entities.TemplateOrderCreated, map[string]string{
		"order_id":  string(id),
		"client_id": p.ClientID.String(),
		"subject":   p.Subject,
		"work_type": p.WorkType,
		"details":   p.Details,
	})

	return id, nil
}

// ClaimOrder assigns the order to the worker. Arbitration between
// concurrent claims happens in the repository's conditional update;
// exactly one caller returns nil.
func (s *OrderService) ClaimOrder(
	ctx context.Context, id entities.OrderID, workerID user.ID,
) error {
	if err := s.orderRepo.ClaimOrder(ctx, id, workerID); err != nil {
		return err
	}

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		// The claim itself went through; losing the notification
		// payload read must not fail the command.
		s.logger.Errorf("claim order %s: read back: %s", id, err)
		return nil
	}

	s.notify(ctx, order.ClientID, entities.TemplateOrderClaimed, map[string]string{
		"order_id":  string(id),
		"worker_id": workerID.String(),
		"subject":   order.Subject,
	})

	return nil
}

// CompleteOrder marks an IN_PROGRESS order COMPLETED.
func (s *OrderService) CompleteOrder(ctx context.Context, id entities.OrderID) error {
	if err := s.orderRepo.CompleteOrder(ctx, id); err != nil {
		return err
	}

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		s.logger.Errorf("complete order %s: read back: %s", id, err)
		return nil
	}

	s.notify(ctx, order.ClientID, entities.TemplateOrderCompleted, map[string]string{
		"order_id": string(id),
		"subject":  order.Subject,
	})

	return nil
}

func (s *OrderService) GetOrder(
	ctx context.Context, id entities.OrderID,
) (*entities.Order, error) {
	return s.orderRepo.GetOrderByID(ctx, id)
}

func (s *OrderService) GetOrdersByStatus(
	ctx context.Context, status entities.OrderStatus,
) ([]*entities.Order, error) {
	return s.orderRepo.GetOrdersByStatus(ctx, status)
}

func (s *OrderService) GetActiveOrders(
	ctx context.Context, workerID user.ID,
) ([]*entities.Order, error) {
	return s.orderRepo.GetActiveOrdersByWorkerID(ctx, workerID)
}

// notify hands the intent to the dispatcher. Delivery problems are
// logged, never propagated: the state change already happened.
func (s *OrderService) notify(
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
