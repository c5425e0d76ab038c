package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	StatsForRange(ctx context.Context, userId int, from, to time.Time) ([]Stats, error)
	Import(ctx context.Context, records []Record, users user.AliasMap) (ImportResult, error)
}

type ImportResult struct {
	Stored  int
	Skipped int
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) StatsForRange(ctx context.Context, userId int, from, to time.Time) ([]Stats, error) {
	result, err := s.repo.StatsForUserInRange(ctx, userId, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats of user %d: %w", userId, err)
	}
	return result, nil
}

// Import stores the records, replacing earlier figures of the same user and day.
// Records of unknown users are skipped.
func (s *ServiceImpl) Import(ctx context.Context, records []Record, users user.AliasMap) (ImportResult, error) {
	var result ImportResult
	for _, record := range records {
		u, ok := users.Resolve(record.Token)
		if !ok {
			log.Warnf("line %d: unknown user token %q", record.Line, record.Token)
			result.Skipped++
			continue
		}
		st := record.Stats
		st.UserId = u.Id
		if err := s.repo.Upsert(ctx, st); err != nil {
			return result, fmt.Errorf("failed to import stats of line %d: %w", record.Line, err)
		}
		result.Stored++
	}
	log.Infof("imported %d stats records, skipped %d", result.Stored, result.Skipped)
	return result, nil
}
