package state

import (
	"time"

	"github.com/andresuchdata/intellichain/internal/domain"
)

// Action is a state transition request handled by Reduce.
type Action interface {
	actionName() string
}

// StoresLoaded carries the store list fetched at startup.
type StoresLoaded struct {
	Stores []domain.Store
}

type StoresLoadFailed struct {
	Err error
}

// StoreSelected switches the active store. Data for the store arrives later
// through DataLoaded.
type StoreSelected struct {
	StoreID string
}

type FiltersChanged struct {
	Filters domain.FilterOptions
	At      time.Time
}

// BatchIssued records the token of the newest products/alerts/insights batch.
type BatchIssued struct {
	StoreID string
	Token   uint64
}

// DataLoaded is the joined result of one batch. ServerAlerts is kept only so
// callers can log how many backend alerts were replaced.
type DataLoaded struct {
	StoreID      string
	Token        uint64
	Products     []domain.Product
	ServerAlerts []domain.Alert
	Insights     []domain.AIInsight
	At           time.Time
}

type DataLoadFailed struct {
	StoreID string
	Token   uint64
	Err     error
}

// BatchCancelled ends a batch whose context was cancelled. It clears the
// loading flag without raising the banner.
type BatchCancelled struct {
	StoreID string
	Token   uint64
}

type TimerTick struct {
	At time.Time
}

type LoggedIn struct {
	Session domain.Session
}

type LoggedOut struct{}

func (StoresLoaded) actionName() string     { return "stores_loaded" }
func (StoresLoadFailed) actionName() string { return "stores_load_failed" }
func (StoreSelected) actionName() string    { return "store_selected" }
func (FiltersChanged) actionName() string   { return "filters_changed" }
func (BatchIssued) actionName() string      { return "batch_issued" }
func (DataLoaded) actionName() string       { return "data_loaded" }
func (DataLoadFailed) actionName() string   { return "data_load_failed" }
func (BatchCancelled) actionName() string   { return "batch_cancelled" }
func (TimerTick) actionName() string        { return "timer_tick" }
func (LoggedIn) actionName() string         { return "logged_in" }
func (LoggedOut) actionName() string        { return "logged_out" }

// Name returns the action's label for logs and metrics.
func Name(a Action) string {
	if a == nil {
		return "unknown"
	}
	return a.actionName()
}
