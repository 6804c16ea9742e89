package state

import (
	"sync"

	"github.com/andresuchdata/intellichain/internal/domain"
)

// Store serializes actions against a single State.
type Store struct {
	mu     sync.RWMutex
	state  State
	tokens uint64
}

func NewStore() *Store {
	return &Store{}
}

// Dispatch applies a and returns a snapshot of the resulting state.
func (st *Store) Dispatch(a Action) State {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.state = Reduce(st.state, a)
	return clone(st.state)
}

// Snapshot returns a copy of the current state that is safe to read
// while other goroutines dispatch.
func (st *Store) Snapshot() State {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return clone(st.state)
}

// BeginBatch issues the next token for storeID and records it as that store's latest.
// Tokens come from one counter, so they are unique across stores.
func (st *Store) BeginBatch(storeID string) uint64 {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.tokens++
	st.state = Reduce(st.state, BatchIssued{StoreID: storeID, Token: st.tokens})
	return st.tokens
}

func clone(s State) State {
	s.Stores = append([]domain.Store(nil), s.Stores...)
	s.Products = append([]domain.Product(nil), s.Products...)
	s.Rejected = append([]string(nil), s.Rejected...)
	s.Alerts = append([]domain.Alert(nil), s.Alerts...)
	s.Insights = append([]domain.AIInsight(nil), s.Insights...)
	s.Filtered = append([]domain.Product(nil), s.Filtered...)
	s.Categories = append([]string(nil), s.Categories...)
	if s.LatestTokens != nil {
		tokens := make(map[string]uint64, len(s.LatestTokens))
		for id, tok := range s.LatestTokens {
			tokens[id] = tok
		}
		s.LatestTokens = tokens
	}
	if s.Session != nil {
		session := *s.Session
		s.Session = &session
	}
	return s
}
