package holiday

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceImpl_BusinessHolidayLoader(t *testing.T) {
	repo := NewRepositoryStub()
	service := NewService(repo)
	ctx := context.Background()
	userId := 1
	_, _ = repo.Upsert(ctx, Day{Uuid: "ny", Type: BusinessHoliday, Name: "Neujahr", Date: day(2016, 1, 1)})
	_, _ = repo.Upsert(ctx, Day{Uuid: "v", Type: PersonalHoliday, Date: day(2016, 1, 4), UserId: &userId})
	_, _ = repo.Upsert(ctx, Day{Uuid: "ny17", Type: BusinessHoliday, Name: "Neujahr", Date: day(2017, 1, 1)})

	named, err := service.BusinessHolidayLoader()(ctx, day(2016, 1, 1), day(2016, 12, 31))

	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, "Neujahr", named[0].Name)
	assert.Equal(t, day(2016, 1, 1), named[0].Date)
}

func TestServiceImpl_WrapsStoreErrors(t *testing.T) {
	repo := NewRepositoryStub()
	service := NewService(repo)
	storeErr := errors.New("timeout")
	repo.Err = storeErr

	_, err := service.PersonalHolidays(context.Background(), 1, day(2016, 1, 1), day(2016, 12, 31))

	assert.ErrorIs(t, err, storeErr)
}
