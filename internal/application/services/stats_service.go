package services

import (
	"context"
	"errors"

	"github.com/mpetrenko/ordermart/internal/application/interfaces"
	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/domain/repositories"
	"github.com/mpetrenko/ordermart/pkg/logger"
)

// topSubjectsLimit caps the subjects projection.
const topSubjectsLimit = 5

// StatsService serves read-only projections over a worker's orders.
// No caching: every call recomputes from the store.
type StatsService struct {
	statsRepo repositories.StatsRepository
	logger    logger.Logger
}

func NewStatsService(statsRepo repositories.StatsRepository, logger logger.Logger) (*StatsService, error) {
	if statsRepo == nil {
		return nil, errors.New("nil dependency: stats repository")
	}
	return &StatsService{statsRepo: statsRepo, logger: logger}, nil
}

var _ interfaces.StatsService = (*StatsService)(nil)

func (s *StatsService) GetWorkerStatistics(
	ctx context.Context, workerID user.ID,
) (*entities.WorkerStatistics, error) {
	completed, err := s.statsRepo.CountOrdersByWorkerAndStatus(ctx, workerID, entities.StatusCompleted)
	if err != nil {
		return nil, err
	}

	active, err := s.statsRepo.CountOrdersByWorkerAndStatus(ctx, workerID, entities.StatusInProgress)
	if err != nil {
		return nil, err
	}

	topSubjects, err := s.statsRepo.TopSubjectsByWorkerID(ctx, workerID, topSubjectsLimit)
	if err != nil {
		return nil, err
	}

	return &entities.WorkerStatistics{
		TotalCompleted: completed,
		ActiveOrders:   active,
		TopSubjects:    topSubjects,
	}, nil
}
