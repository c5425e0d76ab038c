package contract

import (
	"context"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu        sync.RWMutex
	nextId    int
	contracts map[int][]Contract
	Err       error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{contracts: map[int][]Contract{}}
}

func (s *RepositoryStub) ContractsForUserInRange(ctx context.Context, userId int, from, to time.Time) ([]Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]Contract, 0)
	current, hasCurrent := Effective(s.contracts[userId], from)
	for _, c := range s.contracts[userId] {
		if c.Date.After(to) {
			continue
		}
		if hasCurrent && c.Date.Before(current.Date) {
			continue
		}
		if !hasCurrent && c.Date.Before(from) {
			continue
		}
		result = append(result, c)
	}
	SortByDate(result)
	return result, nil
}

func (s *RepositoryStub) EffectiveContractForDate(ctx context.Context, userId int, date time.Time) (Contract, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return Contract{}, false, s.Err
	}
	c, ok := Effective(s.contracts[userId], date)
	return c, ok, nil
}

func (s *RepositoryStub) CreateContract(ctx context.Context, contract Contract) (Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return Contract{}, s.Err
	}
	s.nextId++
	contract.Id = s.nextId
	s.contracts[contract.UserId] = append(s.contracts[contract.UserId], contract)
	SortByDate(s.contracts[contract.UserId])
	return contract, nil
}

func (s *RepositoryStub) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId = 0
	s.contracts = map[int][]Contract{}
	s.Err = nil
}
