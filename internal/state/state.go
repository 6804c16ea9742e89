// Package state holds the dashboard state and the reducer that evolves it.
package state

import (
	"time"

	"github.com/andresuchdata/intellichain/internal/alerts"
	"github.com/andresuchdata/intellichain/internal/domain"
	"github.com/andresuchdata/intellichain/internal/filter"
)

const (
	BannerStoresFailed    = "Failed to load stores"
	BannerStoreDataFailed = "Failed to load store data"
)

// State is the full dashboard state. Values returned by Reduce and Snapshot
// must be treated as read-only.
type State struct {
	Stores          []domain.Store
	SelectedStoreID string
	Products        []domain.Product
	Rejected        []string
	Alerts          []domain.Alert
	Insights        []domain.AIInsight
	Filters         domain.FilterOptions
	Filtered        []domain.Product
	Categories      []string
	Error           string
	Loading         bool
	LastUpdated     time.Time
	Session         *domain.Session

	// Clock is the latest time seen in an action. Filter date windows use it.
	Clock time.Time

	// LatestTokens is the newest batch token issued per store.
	LatestTokens map[string]uint64
	Discarded    int
}

// LatestToken returns the newest batch token issued for storeID, or 0.
func (s State) LatestToken(storeID string) uint64 {
	return s.LatestTokens[storeID]
}

// SelectedStore returns the active store, if it is in the store list.
func (s State) SelectedStore() (domain.Store, bool) {
	for _, st := range s.Stores {
		if st.ID == s.SelectedStoreID {
			return st, true
		}
	}
	return domain.Store{}, false
}

// HasStore reports whether id is in the store list.
func (s State) HasStore(id string) bool {
	for _, st := range s.Stores {
		if st.ID == id {
			return true
		}
	}
	return false
}

// Reduce returns the state after applying a. It does not mutate s.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case StoresLoaded:
		s.Stores = append([]domain.Store(nil), act.Stores...)
		s.Error = ""
	case StoresLoadFailed:
		s.Error = BannerStoresFailed
	case StoreSelected:
		s.SelectedStoreID = act.StoreID
	case FiltersChanged:
		s.Filters = act.Filters
		s.Clock = latest(s.Clock, act.At)
		s = refilter(s)
	case BatchIssued:
		if act.Token > s.LatestToken(act.StoreID) {
			tokens := make(map[string]uint64, len(s.LatestTokens)+1)
			for id, tok := range s.LatestTokens {
				tokens[id] = tok
			}
			tokens[act.StoreID] = act.Token
			s.LatestTokens = tokens
		}
		if act.StoreID == s.SelectedStoreID {
			s.Loading = true
		}
	case DataLoaded:
		if s.IsStale(act.StoreID, act.Token) {
			s.Discarded++
			return s
		}
		s = applyData(s, act)
	case DataLoadFailed:
		if s.IsStale(act.StoreID, act.Token) {
			s.Discarded++
			return s
		}
		s.Error = BannerStoreDataFailed
		s.Loading = false
	case BatchCancelled:
		if !s.IsStale(act.StoreID, act.Token) {
			s.Loading = false
		}
	case TimerTick:
		s.Clock = latest(s.Clock, act.At)
		s = refilter(s)
	case LoggedIn:
		session := act.Session
		s.Session = &session
	case LoggedOut:
		s.Session = nil
	}
	return s
}

// IsStale reports whether a batch response must be dropped: it is for a store
// that is no longer selected, or a newer batch was issued for that store.
func (s State) IsStale(storeID string, token uint64) bool {
	return storeID != s.SelectedStoreID || token != s.LatestToken(storeID)
}

func applyData(s State, act DataLoaded) State {
	valid := make([]domain.Product, 0, len(act.Products))
	rejected := make([]string, 0)
	for _, p := range act.Products {
		if err := p.Validate(); err != nil {
			rejected = append(rejected, p.ID)
			continue
		}
		valid = append(valid, p)
	}

	synthesized := alerts.Synthesize(act.StoreID, valid, act.At)

	s.Products = valid
	s.Rejected = rejected
	s.Alerts = synthesized
	s.Insights = append([]domain.AIInsight{}, act.Insights...)
	s.Stores = alerts.ApplyAlertCount(s.Stores, act.StoreID, len(synthesized))
	s.Categories = filter.Categories(valid)
	s.Error = ""
	s.Loading = false
	s.LastUpdated = act.At
	s.Clock = latest(s.Clock, act.At)

	return refilter(s)
}

func refilter(s State) State {
	clock := s.Clock
	engine := &filter.Engine{Now: func() time.Time { return clock }}
	s.Filtered = engine.Apply(s.Products, s.Filters)
	return s
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
