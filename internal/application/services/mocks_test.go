package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/mpetrenko/ordermart/internal/application/errs"
	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newTestLogger() logger.Logger {
	return logger.NewWithZap(zap.NewNop())
}

// Lock in case of t.Parallel call.
type mockOrderRepository struct {
	items      map[entities.OrderID]*entities.Order
	mu         sync.RWMutex
	failCreate bool
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{items: make(map[entities.OrderID]*entities.Order)}
}

func (m *mockOrderRepository) CreateOrder(
	_ context.Context, order *entities.Order,
) (entities.OrderID, error) {
	if m.failCreate {
		return "", errors.New("don't panic!")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	maxID := 0
	for id := range m.items {
		var n int
		fmt.Sscanf(string(id), "%d", &n)
		maxID = max(maxID, n)
	}

	id := entities.OrderID(fmt.Sprintf("%06d", maxID+1))

	stored := *order
	stored.ID = id
	stored.CreatedAt = time.Now()
	m.items[id] = &stored

	return id, nil
}

func (m *mockOrderRepository) GetOrderByID(
	_ context.Context, id entities.OrderID,
) (*entities.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.items[id]
	if !ok {
		return nil, errs.ErrNotFound
	}

	copied := *order
	return &copied, nil
}

func (m *mockOrderRepository) ClaimOrder(
	_ context.Context, id entities.OrderID, workerID user.ID,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.items[id]
	if !ok {
		return errs.ErrNotFound
	}
	if order.Status != entities.StatusNew {
		return fmt.Errorf("%w: order %s", errs.ErrOrderTaken, id)
	}

	now := time.Now()
	order.Status = entities.StatusInProgress
	order.WorkerID = &workerID
	order.TakenAt = &now
	order.UpdatedAt = &now

	return nil
}

func (m *mockOrderRepository) CompleteOrder(_ context.Context, id entities.OrderID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.items[id]
	if !ok {
		return errs.ErrNotFound
	}
	if order.Status != entities.StatusInProgress {
		return fmt.Errorf("%w: order %s is %s", errs.ErrInvalidTransition, id, order.Status)
	}

	now := time.Now()
	order.Status = entities.StatusCompleted
	order.CompletedAt = &now
	order.UpdatedAt = &now

	return nil
}

func (m *mockOrderRepository) GetOrdersByStatus(
	_ context.Context, status entities.OrderStatus,
) ([]*entities.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var orders []*entities.Order
	for _, order := range m.items {
		if order.Status == status {
			copied := *order
			orders = append(orders, &copied)
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func (m *mockOrderRepository) GetActiveOrdersByWorkerID(
	_ context.Context, workerID user.ID,
) ([]*entities.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var orders []*entities.Order
	for _, order := range m.items {
		mine := order.Status == entities.StatusInProgress &&
			order.WorkerID != nil && *order.WorkerID == workerID
		if mine || order.Status == entities.StatusNew {
			copied := *order
			orders = append(orders, &copied)
		}
	}

	// Claimed tier first, each tier newest first.
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Status != orders[j].Status {
			return orders[i].Status > orders[j].Status
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func (m *mockOrderRepository) snapshot() map[entities.OrderID]*entities.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := make(map[entities.OrderID]*entities.Order, len(m.items))
	for id, order := range m.items {
		copied := *order
		snap[id] = &copied
	}
	return snap
}

func (m *mockOrderRepository) restore(snap map[entities.OrderID]*entities.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = snap
}

// Lock in case of t.Parallel call.
type mockPaymentRepository struct {
	items      map[entities.OrderID]*entities.Payment
	orders     *mockOrderRepository
	mu         sync.RWMutex
	failCreate bool
}

func newMockPaymentRepository(orders *mockOrderRepository) *mockPaymentRepository {
	return &mockPaymentRepository{
		items:  make(map[entities.OrderID]*entities.Payment),
		orders: orders,
	}
}

func (m *mockPaymentRepository) CreatePayment(
	_ context.Context, orderID entities.OrderID, clientID user.ID,
) error {
	if m.failCreate {
		return errors.New("don't panic!")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[orderID] = &entities.Payment{
		OpID:      int64(len(m.items) + 1),
		OrderID:   orderID,
		ClientID:  clientID,
		Status:    entities.PaymentUnpaid,
		Price:     decimal.Zero,
		Paid:      decimal.Zero,
		CreatedAt: time.Now(),
	}

	return nil
}

func (m *mockPaymentRepository) GetPaymentByOrderID(
	_ context.Context, orderID entities.OrderID,
) (*entities.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payment, ok := m.items[orderID]
	if !ok {
		return nil, errs.ErrNotFound
	}

	copied := *payment
	return &copied, nil
}

func (m *mockPaymentRepository) SetPrice(
	_ context.Context, orderID entities.OrderID, price decimal.Decimal,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	payment, ok := m.items[orderID]
	if !ok {
		return errs.ErrNotFound
	}

	payment.Price = price

	return nil
}

func (m *mockPaymentRepository) ConfirmPayment(
	_ context.Context, orderID entities.OrderID,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payment, ok := m.items[orderID]
	if !ok || payment.Status != entities.PaymentUnpaid {
		return false, nil
	}

	now := time.Now()
	payment.Status = entities.PaymentPaid
	payment.Paid = payment.Price
	payment.PaidAt = &now

	return true, nil
}

func (m *mockPaymentRepository) GetUnpaidByClientID(
	ctx context.Context, clientID user.ID,
) ([]*entities.UnpaidOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var unpaid []*entities.UnpaidOrder
	for _, payment := range m.items {
		if payment.ClientID != clientID || payment.Status != entities.PaymentUnpaid {
			continue
		}

		u := &entities.UnpaidOrder{Payment: *payment}
		if m.orders != nil {
			if order, err := m.orders.GetOrderByID(ctx, payment.OrderID); err == nil {
				u.Subject = order.Subject
				u.WorkType = order.WorkType
				u.OrderCreatedAt = order.CreatedAt
			}
		}
		unpaid = append(unpaid, u)
	}

	sort.Slice(unpaid, func(i, j int) bool {
		return unpaid[i].CreatedAt.After(unpaid[j].CreatedAt)
	})

	return unpaid, nil
}

func (m *mockPaymentRepository) snapshot() map[entities.OrderID]*entities.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := make(map[entities.OrderID]*entities.Payment, len(m.items))
	for id, payment := range m.items {
		copied := *payment
		snap[id] = &copied
	}
	return snap
}

func (m *mockPaymentRepository) restore(snap map[entities.OrderID]*entities.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = snap
}

// mockTrManager restores both repositories to their pre-transaction
// state when the closure fails, mirroring a database rollback.
type mockTrManager struct {
	orders   *mockOrderRepository
	payments *mockPaymentRepository
}

var _ trm.Manager = (*mockTrManager)(nil)

func (m *mockTrManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	orderSnap := m.orders.snapshot()
	paymentSnap := m.payments.snapshot()

	if err := fn(ctx); err != nil {
		m.orders.restore(orderSnap)
		m.payments.restore(paymentSnap)
		return err
	}

	return nil
}

func (m *mockTrManager) DoWithSettings(
	ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error,
) error {
	return m.Do(ctx, fn)
}

// Lock in case of t.Parallel call.
type mockNotifier struct {
	sent []*entities.Notification
	mu   sync.Mutex
	err  error
}

func (m *mockNotifier) Notify(_ context.Context, n *entities.Notification) error {
	if m.err != nil {
		return m.err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)

	return nil
}

func (m *mockNotifier) sentTo(recipient user.ID, template entities.NotificationTemplate,
) []*entities.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*entities.Notification
	for _, n := range m.sent {
		if n.RecipientID == recipient && n.Template == template {
			matched = append(matched, n)
		}
	}
	return matched
}

// mockStatsRepository projects statistics straight from the order mock
// so flow tests observe the same state the lifecycle mutates.
type mockStatsRepository struct {
	orders *mockOrderRepository
	err    error
}

func (m *mockStatsRepository) CountOrdersByWorkerAndStatus(
	_ context.Context, workerID user.ID, status entities.OrderStatus,
) (int, error) {
	if m.err != nil {
		return 0, m.err
	}

	m.orders.mu.RLock()
	defer m.orders.mu.RUnlock()

	count := 0
	for _, order := range m.orders.items {
		if order.Status == status && order.WorkerID != nil && *order.WorkerID == workerID {
			count++
		}
	}
	return count, nil
}

func (m *mockStatsRepository) TopSubjectsByWorkerID(
	_ context.Context, workerID user.ID, limit int,
) ([]entities.SubjectCount, error) {
	if m.err != nil {
		return nil, m.err
	}

	m.orders.mu.RLock()
	defer m.orders.mu.RUnlock()

	counts := make(map[string]int)
	for _, order := range m.orders.items {
		if order.WorkerID != nil && *order.WorkerID == workerID {
			counts[order.Subject]++
		}
	}

	top := make([]entities.SubjectCount, 0, len(counts))
	for subject, count := range counts {
		top = append(top, entities.SubjectCount{Subject: subject, Count: count})
	}

	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Subject < top[j].Subject
	})

	if len(top) > limit {
		top = top[:limit]
	}

	return top, nil
}

// Lock in case of t.Parallel call.
type mockUserRepository struct {
	items []user.User
	mu    sync.RWMutex
}

func (m *mockUserRepository) GetUserByID(_ context.Context, userID user.ID) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ID == userID {
			return &item, nil
		}
	}
	return &user.User{}, errs.ErrNotFound
}

func (m *mockUserRepository) GetUserByLogin(_ context.Context, login string) (*user.User, error) {
	if login == "panic" {
		return &user.User{}, errors.New("don't panic!")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.Login == login {
			return &item, nil
		}
	}
	return &user.User{}, errs.ErrNotFound
}

func (m *mockUserRepository) CreateUser(
	_ context.Context, login, password, displayName, handle string,
) (user.ID, error) {
	if login == "panic" {
		return 0, errors.New("don't panic!")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var maxID user.ID
	for _, item := range m.items {
		if item.Login == login {
			return 0, &errs.AlreadyExistsError{FieldName: "login"}
		}
		maxID = max(maxID, item.ID)
	}
	m.items = append(m.items, user.User{
		ID:          maxID + 1,
		Login:       login,
		Password:    password,
		DisplayName: displayName,
		Handle:      handle,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	return maxID + 1, nil
}
