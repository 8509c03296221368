package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mpetrenko/ordermart/internal/application/params"
	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWorkerStatistics(t *testing.T) {
	t.Parallel()

	orders := newMockOrderRepository()
	payments := newMockPaymentRepository(orders)
	notifier := &mockNotifier{}

	orderService, err := NewOrderService(
		orders, payments,
		&mockTrManager{orders: orders, payments: payments},
		notifier, testAdminID, newTestLogger())
	require.NoError(t, err)

	service, err := NewStatsService(&mockStatsRepository{orders: orders}, newTestLogger())
	require.NoError(t, err)

	ctx := context.Background()

	// Three math and one history for worker 7, two completed.
	subjects := []string{"math", "math", "math", "history"}
	ids := make([]entities.OrderID, len(subjects))
	for i, subject := range subjects {
		ids[i], err = orderService.CreateOrder(ctx,
			params.NewCreateOrder(42, subject, "essay", ""))
		require.NoError(t, err)
		require.NoError(t, orderService.ClaimOrder(ctx, ids[i], 7))
	}
	require.NoError(t, orderService.CompleteOrder(ctx, ids[0]))
	require.NoError(t, orderService.CompleteOrder(ctx, ids[1]))

	// An unrelated worker's order must not leak into the counts.
	other, err := orderService.CreateOrder(ctx,
		params.NewCreateOrder(42, "physics", "lab", ""))
	require.NoError(t, err)
	require.NoError(t, orderService.ClaimOrder(ctx, other, 9))

	stats, err := service.GetWorkerStatistics(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalCompleted)
	assert.Equal(t, 2, stats.ActiveOrders)
	require.NotEmpty(t, stats.TopSubjects)
	assert.Equal(t, "math", stats.TopSubjects[0].Subject)
	assert.Equal(t, 3, stats.TopSubjects[0].Count)
}

func TestGetWorkerStatisticsEmpty(t *testing.T) {
	t.Parallel()

	orders := newMockOrderRepository()

	service, err := NewStatsService(&mockStatsRepository{orders: orders}, newTestLogger())
	require.NoError(t, err)

	stats, err := service.GetWorkerStatistics(context.Background(), 7)
	require.NoError(t, err)

	assert.Zero(t, stats.TotalCompleted)
	assert.Zero(t, stats.ActiveOrders)
	assert.Empty(t, stats.TopSubjects)
}

func TestGetWorkerStatisticsRepositoryError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("don't panic!")

	service, err := NewStatsService(
		&mockStatsRepository{orders: newMockOrderRepository(), err: repoErr},
		newTestLogger())
	require.NoError(t, err)

	_, err = service.GetWorkerStatistics(context.Background(), 7)
	assert.ErrorIs(t, err, repoErr)
}
