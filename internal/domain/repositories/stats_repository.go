package repositories

import (
	"context"

	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

// StatsRepository serves the read-only statistics projections.
type StatsRepository interface {
	CountOrdersByWorkerAndStatus(ctx context.Context, workerID user.ID, status entities.OrderStatus) (int, error)
	TopSubjectsByWorkerID(ctx context.Context, workerID user.ID, limit int) ([]entities.SubjectCount, error)
}
