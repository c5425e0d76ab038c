package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// StatsForUserInRange returns the stats of [from, to] ordered by date.
	StatsForUserInRange(ctx context.Context, userId int, from, to time.Time) ([]Stats, error)
	Upsert(ctx context.Context, stats Stats) error
}

type RepositoryImpl struct {
	db  *pgxpool.Pool
	loc *time.Location
}

func NewRepository(db *pgxpool.Pool, loc *time.Location) *RepositoryImpl {
	return &RepositoryImpl{db: db, loc: loc}
}

func (r *RepositoryImpl) StatsForUserInRange(ctx context.Context, userId int, from, to time.Time) ([]Stats, error) {
	query := `SELECT user_id, date, total, billable, billable_sum FROM stats
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date`
	rows, err := r.db.Query(ctx, query, userId, from, to)
	if err != nil {
		log.Errorf("failed to query stats of user %d: %v", userId, err)
		return nil, err
	}
	defer rows.Close()

	result := make([]Stats, 0, 366)
	for rows.Next() {
		var s Stats
		var total, billable int64
		if err := rows.Scan(&s.UserId, &s.Date, &total, &billable, &s.BillableSum); err != nil {
			err := fmt.Errorf("could not scan stats: %w", err)
			log.Error(err)
			return nil, err
		}
		s.Date = calendar.AsDate(s.Date, r.loc)
		s.Total = time.Duration(total) * time.Second
		s.Billable = time.Duration(billable) * time.Second
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *RepositoryImpl) Upsert(ctx context.Context, stats Stats) error {
	query := `INSERT INTO stats (user_id, date, total, billable, billable_sum)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date) DO UPDATE
		SET total = EXCLUDED.total, billable = EXCLUDED.billable, billable_sum = EXCLUDED.billable_sum`
	_, err := r.db.Exec(ctx, query,
		stats.UserId,
		stats.Date,
		int64(stats.Total/time.Second),
		int64(stats.Billable/time.Second),
		stats.BillableSum,
	)
	if err != nil {
		log.Errorf("failed to store stats of user %d on %s: %v", stats.UserId, stats.Date.Format(time.DateOnly), err)
		return err
	}
	return nil
}
