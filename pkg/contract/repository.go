package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// ContractsForUserInRange returns the contracts effective at some point of [from, to], ascending by date.
	ContractsForUserInRange(ctx context.Context, userId int, from, to time.Time) ([]Contract, error)
	EffectiveContractForDate(ctx context.Context, userId int, date time.Time) (Contract, bool, error)
	CreateContract(ctx context.Context, contract Contract) (Contract, error)
}

type RepositoryImpl struct {
	db  *pgxpool.Pool
	loc *time.Location
}

func NewRepository(db *pgxpool.Pool, loc *time.Location) *RepositoryImpl {
	return &RepositoryImpl{db: db, loc: loc}
}

const contractColumns = `id, user_id, date, working_days, working_hours_per_day, holidays_per_year, costs_per_month, overtime_offset`

func (r *RepositoryImpl) ContractsForUserInRange(ctx context.Context, userId int, from, to time.Time) ([]Contract, error) {
	// the contract already running at "from" plus everything starting inside the range
	query := `SELECT ` + contractColumns + ` FROM contract
		WHERE user_id = $1
		  AND date <= $3
		  AND date >= COALESCE((SELECT MAX(date) FROM contract WHERE user_id = $1 AND date <= $2), $2)
		ORDER BY date`
	rows, err := r.db.Query(ctx, query, userId, from, to)
	if err != nil {
		log.Errorf("failed to query contracts of user %d: %v", userId, err)
		return nil, err
	}
	defer rows.Close()

	contracts := make([]Contract, 0, 2)
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			err := fmt.Errorf("could not scan contract: %w", err)
			log.Error(err)
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (r *RepositoryImpl) EffectiveContractForDate(ctx context.Context, userId int, date time.Time) (Contract, bool, error) {
	query := `SELECT ` + contractColumns + ` FROM contract
		WHERE user_id = $1 AND date <= $2
		ORDER BY date DESC
		LIMIT 1`
	c, err := r.scan(r.db.QueryRow(ctx, query, userId, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contract{}, false, nil
	}
	if err != nil {
		log.Errorf("failed to get effective contract of user %d: %v", userId, err)
		return Contract{}, false, err
	}
	return c, true, nil
}

func (r *RepositoryImpl) CreateContract(ctx context.Context, contract Contract) (Contract, error) {
	query := `INSERT INTO contract (user_id, date, working_days, working_hours_per_day, holidays_per_year, costs_per_month, overtime_offset)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		contract.UserId,
		contract.Date,
		contract.WorkingDays.Mask(),
		contract.WorkingHoursPerDay,
		contract.HolidaysPerYear,
		contract.CostsPerMonth,
		contract.OvertimeOffset,
	).Scan(&contract.Id)
	if err != nil {
		log.Errorf("failed to create contract: %v", err)
		return Contract{}, err
	}
	contract.Date = calendar.AsDate(contract.Date, r.loc)
	return contract, nil
}

func (r *RepositoryImpl) scan(row pgx.Row) (Contract, error) {
	var c Contract
	var mask int16
	err := row.Scan(&c.Id, &c.UserId, &c.Date, &mask, &c.WorkingHoursPerDay, &c.HolidaysPerYear, &c.CostsPerMonth, &c.OvertimeOffset)
	if err != nil {
		return Contract{}, err
	}
	c.WorkingDays = WeekdaySetFromMask(int(mask))
	c.Date = calendar.AsDate(c.Date, r.loc)
	return c, nil
}
