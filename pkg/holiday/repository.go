package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	BusinessHolidaysInRange(ctx context.Context, from, to time.Time) ([]Day, error)
	PersonalHolidaysInRange(ctx context.Context, userId int, from, to time.Time) ([]Day, error)
	// Upsert stores day, replacing the record with the same user, date and event id.
	Upsert(ctx context.Context, day Day) (Day, error)
}

type RepositoryImpl struct {
	db  *pgxpool.Pool
	loc *time.Location
}

func NewRepository(db *pgxpool.Pool, loc *time.Location) *RepositoryImpl {
	return &RepositoryImpl{db: db, loc: loc}
}

const dayColumns = `id, uuid, type, COALESCE(name, ''), date, user_id, excused, overtime`

func (r *RepositoryImpl) BusinessHolidaysInRange(ctx context.Context, from, to time.Time) ([]Day, error) {
	query := `SELECT ` + dayColumns + ` FROM day WHERE type = $1 AND date BETWEEN $2 AND $3 ORDER BY date`
	return r.query(ctx, query, int16(BusinessHoliday), from, to)
}

func (r *RepositoryImpl) PersonalHolidaysInRange(ctx context.Context, userId int, from, to time.Time) ([]Day, error) {
	query := `SELECT ` + dayColumns + ` FROM day WHERE type = $1 AND user_id = $2 AND date BETWEEN $3 AND $4 ORDER BY date`
	return r.query(ctx, query, int16(PersonalHoliday), userId, from, to)
}

func (r *RepositoryImpl) Upsert(ctx context.Context, day Day) (Day, error) {
	if day.Id == uuid.Nil {
		day.Id = uuid.New()
	}
	var name *string
	if day.Name != "" {
		name = &day.Name
	}
	query := `INSERT INTO day (id, uuid, type, name, date, user_id, excused, overtime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT day_user_date_uuid DO UPDATE
		SET type = EXCLUDED.type, name = EXCLUDED.name, excused = EXCLUDED.excused, overtime = EXCLUDED.overtime
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		day.Id, day.Uuid, int16(day.Type), name, day.Date, day.UserId, day.Excused, day.Overtime,
	).Scan(&day.Id)
	if err != nil {
		log.Errorf("failed to store %s holiday %s: %v", day.Type, day.Date.Format(time.DateOnly), err)
		return Day{}, err
	}
	return day, nil
}

func (r *RepositoryImpl) query(ctx context.Context, query string, args ...any) ([]Day, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Errorf("failed to query holidays: %v", err)
		return nil, err
	}
	defer rows.Close()

	days := make([]Day, 0)
	for rows.Next() {
		var d Day
		var dayType int16
		err := rows.Scan(&d.Id, &d.Uuid, &dayType, &d.Name, &d.Date, &d.UserId, &d.Excused, &d.Overtime)
		if err != nil {
			err := fmt.Errorf("could not scan holiday: %w", err)
			log.Error(err)
			return nil, err
		}
		d.Type = Type(dayType)
		d.Date = calendar.AsDate(d.Date, r.loc)
		days = append(days, d)
	}
	return days, rows.Err()
}

