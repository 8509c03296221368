package interfaces

import (
	"context"

	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

type StatsService interface {
	GetWorkerStatistics(ctx context.Context, workerID user.ID) (*entities.WorkerStatistics, error)
}
