package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-otp-api/internal/domain"
	"github.com/go-otp-api/internal/pkg/clock"
)

// Store is a process-lifetime, mutex-guarded passcode table keyed by
// identifier. A restart drops all outstanding codes; that is accepted
// behavior, not a bug. Expiry is lazy: the verification service deletes an
// expired record the moment a read observes it, so Get hands back whatever
// is stored. An optional background sweeper reclaims records nobody reads
// again.
type Store struct {
	mu      sync.Mutex
	records map[string]*domain.Passcode
	clk     clock.Clocker
	done    chan struct{}
	once    sync.Once
}

// New returns an empty Store reading time from clk.
func New(clk clock.Clocker) *Store {
	return &Store{
		records: make(map[string]*domain.Passcode),
		clk:     clk,
		done:    make(chan struct{}),
	}
}

// Put stores the record, overwriting any previous record for the identifier.
func (s *Store) Put(_ context.Context, p *domain.Passcode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.records[p.Identifier] = &cp
	return nil
}

// Get returns the record for identifier, or domain.ErrNotFound when none
// exists. Expired records are returned as stored; expiry judgement belongs
// to the caller, which also deletes on observing it.
func (s *Store) Get(_ context.Context, identifier string) (*domain.Passcode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.records[identifier]
	if !ok {
		return nil, fmt.Errorf("passcode for %q: %w", identifier, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

// Delete removes the record for identifier. Deleting an absent record is a no-op.
func (s *Store) Delete(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, identifier)
	return nil
}

// Len reports the number of live (possibly expired but unswept) records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// StartSweeper launches a goroutine that removes expired records every
// interval, for memory hygiene on abandoned codes. Stopped by Close.
func (s *Store) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.done:
				return
			}
		}
	}()
}

func (s *Store) sweep() {
	now := s.clk.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, p := range s.records {
		if p.Expired(now) {
			delete(s.records, k)
		}
	}
}

// Close stops the sweeper, if one was started. Safe to call more than once.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}
