package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrNoEffectiveContract = errors.New("no effective contract")
var ErrContractInvalid = errors.New("invalid contract")

type Service interface {
	EffectiveContract(ctx context.Context, userId int, date time.Time) (Contract, error)
	ContractsForRange(ctx context.Context, userId int, from, to time.Time) ([]Contract, error)
	CreateContract(ctx context.Context, contract Contract) (Contract, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) EffectiveContract(ctx context.Context, userId int, date time.Time) (Contract, error) {
	c, found, err := s.repo.EffectiveContractForDate(ctx, userId, date)
	if err != nil {
		return Contract{}, fmt.Errorf("failed to resolve contract of user %d: %w", userId, err)
	}
	if !found {
		return Contract{}, fmt.Errorf("%w: user %d on %s", ErrNoEffectiveContract, userId, date.Format(time.DateOnly))
	}
	return c, nil
}

func (s *ServiceImpl) ContractsForRange(ctx context.Context, userId int, from, to time.Time) ([]Contract, error) {
	contracts, err := s.repo.ContractsForUserInRange(ctx, userId, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load contracts of user %d: %w", userId, err)
	}
	if len(contracts) == 0 {
		return nil, fmt.Errorf("%w: user %d between %s and %s", ErrNoEffectiveContract, userId,
			from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	SortByDate(contracts)
	log.Tracef("user %d has %d contracts between %s and %s", userId, len(contracts),
		from.Format(time.DateOnly), to.Format(time.DateOnly))
	return contracts, nil
}

func (s *ServiceImpl) CreateContract(ctx context.Context, contract Contract) (Contract, error) {
	switch {
	case contract.UserId == 0:
		return Contract{}, fmt.Errorf("%w: user is required", ErrContractInvalid)
	case contract.Date.IsZero():
		return Contract{}, fmt.Errorf("%w: effective date is required", ErrContractInvalid)
	case contract.WorkingHoursPerDay < 0 || contract.WorkingHoursPerDay > 24:
		return Contract{}, fmt.Errorf("%w: working hours per day must be between 0 and 24", ErrContractInvalid)
	case contract.HolidaysPerYear < 0 || contract.CostsPerMonth < 0:
		return Contract{}, fmt.Errorf("%w: holidays and costs must not be negative", ErrContractInvalid)
	}
	return s.repo.CreateContract(ctx, contract)
}
