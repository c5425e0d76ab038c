package contract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repoStub = NewRepositoryStub()

func setup(t *testing.T) (*ServiceImpl, func()) {
	service := NewService(repoStub)
	return service, func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
	}
}

func createContracts(t *testing.T, service *ServiceImpl, userId int, dates ...time.Time) []Contract {
	t.Helper()
	created := make([]Contract, 0, len(dates))
	for _, d := range dates {
		c, err := service.CreateContract(context.Background(), Contract{
			UserId:             userId,
			Date:               d,
			WorkingDays:        MondayToFriday,
			WorkingHoursPerDay: 8,
			HolidaysPerYear:    24,
			CostsPerMonth:      4000,
		})
		require.NoError(t, err)
		created = append(created, c)
	}
	return created
}

func TestServiceImpl_EffectiveContract(t *testing.T) {
	service, teardown := setup(t)
	defer teardown()
	ctx := context.Background()
	created := createContracts(t, service, 1, date(2016, time.July, 1), date(2015, time.January, 1))

	t.Run("should resolve latest contract not after date", func(t *testing.T) {
		c, err := service.EffectiveContract(ctx, 1, date(2016, time.August, 1))
		require.NoError(t, err)
		assert.Equal(t, created[0].Id, c.Id)
	})

	t.Run("should fail before the first contract", func(t *testing.T) {
		_, err := service.EffectiveContract(ctx, 1, date(2014, time.June, 1))
		assert.ErrorIs(t, err, ErrNoEffectiveContract)
	})

	t.Run("should not see contracts of other users", func(t *testing.T) {
		_, err := service.EffectiveContract(ctx, 2, date(2016, time.August, 1))
		assert.ErrorIs(t, err, ErrNoEffectiveContract)
	})
}

func TestServiceImpl_ContractsForRange(t *testing.T) {
	service, teardown := setup(t)
	defer teardown()
	ctx := context.Background()
	createContracts(t, service, 1,
		date(2014, time.January, 1),
		date(2015, time.January, 1),
		date(2016, time.July, 1),
		date(2017, time.March, 1),
	)

	t.Run("includes the contract running at range start", func(t *testing.T) {
		contracts, err := service.ContractsForRange(ctx, 1, date(2016, time.January, 1), date(2016, time.December, 31))
		require.NoError(t, err)
		require.Len(t, contracts, 2)
		assert.Equal(t, date(2015, time.January, 1), contracts[0].Date)
		assert.Equal(t, date(2016, time.July, 1), contracts[1].Date)
	})

	t.Run("range starting before any contract", func(t *testing.T) {
		contracts, err := service.ContractsForRange(ctx, 1, date(2013, time.June, 1), date(2014, time.June, 1))
		require.NoError(t, err)
		require.Len(t, contracts, 1)
		assert.Equal(t, date(2014, time.January, 1), contracts[0].Date)
	})

	t.Run("fails without contracts", func(t *testing.T) {
		_, err := service.ContractsForRange(ctx, 1, date(2012, time.January, 1), date(2012, time.December, 31))
		assert.ErrorIs(t, err, ErrNoEffectiveContract)
	})

	t.Run("wraps store errors", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		repoStub.Err = storeErr
		defer func() { repoStub.Err = nil }()

		_, err := service.ContractsForRange(ctx, 1, date(2016, time.January, 1), date(2016, time.December, 31))
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, ErrNoEffectiveContract)
	})
}

func TestServiceImpl_CreateContract_Validation(t *testing.T) {
	service, teardown := setup(t)
	defer teardown()

	tests := []struct {
		name     string
		contract Contract
	}{
		{"missing user", Contract{Date: date(2016, time.January, 1)}},
		{"missing date", Contract{UserId: 1}},
		{"too many hours", Contract{UserId: 1, Date: date(2016, time.January, 1), WorkingHoursPerDay: 25}},
		{"negative costs", Contract{UserId: 1, Date: date(2016, time.January, 1), CostsPerMonth: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateContract(context.Background(), tt.contract)
			assert.ErrorIs(t, err, ErrContractInvalid)
		})
	}
}
