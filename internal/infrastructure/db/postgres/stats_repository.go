package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/domain/repositories"
	"github.com/mpetrenko/ordermart/pkg/logger"
)

type StatsRepository struct {
	db     *sql.DB
	logger logger.Logger
}

// NewStatsRepository serves read-only projections: no transaction
// getter, plain connection is enough.
func NewStatsRepository(db *sql.DB, logger logger.Logger) (*StatsRepository, error) {
	if db == nil {
		return nil, errors.New("nil dependency: database")
	}

	return &StatsRepository{db: db, logger: logger}, nil
}

var _ repositories.StatsRepository = (*StatsRepository)(nil)

func (r *StatsRepository) CountOrdersByWorkerAndStatus(
	ctx context.Context, workerID user.ID, status entities.OrderStatus,
) (int, error) {
	const query = "SELECT COUNT(*) FROM orders WHERE worker_id = $1 AND status = $2;"

	var count int

	err := r.db.QueryRowContext(ctx, query, workerID, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}

	return count, nil
}

// TopSubjectsByWorkerID returns the worker's most completed subjects.
// Ties break in database order, which is not semantically significant.
func (r *StatsRepository) TopSubjectsByWorkerID(
	ctx context.Context, workerID user.ID, limit int,
) ([]entities.SubjectCount, error) {
	const query = `
		SELECT subject, COUNT(*) AS count
		FROM orders
		WHERE worker_id = $1 AND status = $2
		GROUP BY subject
		ORDER BY count DESC
		LIMIT $3;
	`

	rows, err := r.db.QueryContext(ctx, query, workerID, entities.StatusCompleted, limit)
	if err != nil {
		return nil, err
	}

	subjects := make([]entities.SubjectCount, 0, limit)

	for rows.Next() {
		var sc entities.SubjectCount
		if err = rows.Scan(&sc.Subject, &sc.Count); err != nil {
			return nil, err
		}

		subjects = append(subjects, sc)
	}

	defer func() {
		if err = rows.Close(); err != nil {
			r.logger.Errorf("close rows: %s", err)
		}
	}()

	// Rows.Err will report the last error encountered by Rows.Scan.
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}
