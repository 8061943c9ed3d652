/*
store.go - Record store interface

PURPOSE:
  Defines the interface between the engine's callers and persistence. The
  engine itself never touches a Store: callers load a Snapshot, compute, and
  discard it.

KEY INTERFACES:
  ClientStore:     Client roster keyed by name
  EntryStore:      Append/remove-only time entry log
  InvoiceStore:    Append/remove-only invoice log
  SettingsStore:   The settings singleton
  CalendarStore:   Non-work day markers (unique per date)
  Store:           All of the above

LOG CONTRACT:
  Time entries, invoices and non-work days are never edited in place. A
  correction is a delete followed by an append.

IMPLEMENTATIONS:
  - store/memory: In-memory, for tests and demos
  - store/sqlite: SQLite file database

EXAMPLE:
  snap, err := income.LoadSnapshot(ctx, st)
  stats := engine.ComputeMonthlyStats(2024, time.March, snap)
*/
package income

import (
	"context"
	"fmt"

	"github.com/warp/freelance-engine/generic"
)

// =============================================================================
// STORE - Interfaces for record persistence
// =============================================================================

type ClientStore interface {
	// ListClients returns all clients ordered by name.
	ListClients(ctx context.Context) ([]Client, error)

	// GetClient returns generic.ErrNotFound for an unknown name.
	GetClient(ctx context.Context, name string) (Client, error)

	// CreateClient returns generic.ErrDuplicateClient if the name is taken.
	CreateClient(ctx context.Context, c Client) error

	// UpdateClient replaces the client with the same name.
	UpdateClient(ctx context.Context, c Client) error

	DeleteClient(ctx context.Context, name string) error
}

type EntryStore interface {
	// ListTimeEntries returns entries ordered by date.
	ListTimeEntries(ctx context.Context) ([]TimeEntry, error)
	AppendTimeEntry(ctx context.Context, te TimeEntry) error
	DeleteTimeEntry(ctx context.Context, id string) error
}

type InvoiceStore interface {
	// ListInvoices returns invoices ordered by date.
	ListInvoices(ctx context.Context) ([]Invoice, error)
	AppendInvoice(ctx context.Context, inv Invoice) error
	DeleteInvoice(ctx context.Context, id string) error
}

type SettingsStore interface {
	// GetSettings returns (settings, false, nil) when none were saved yet.
	GetSettings(ctx context.Context) (Settings, bool, error)
	SaveSettings(ctx context.Context, s Settings) error
}

type CalendarStore interface {
	// ListNonWorkDays returns markers ordered by date.
	ListNonWorkDays(ctx context.Context) ([]NonWorkDay, error)

	// AddNonWorkDay returns generic.ErrDuplicateNonWorkDay if the date is
	// already marked.
	AddNonWorkDay(ctx context.Context, d NonWorkDay) error
	RemoveNonWorkDay(ctx context.Context, date generic.TimePoint) error
}

// Store handles persistence of every record kind.
type Store interface {
	ClientStore
	EntryStore
	InvoiceStore
	SettingsStore
	CalendarStore
}

// LoadSnapshot reads every collection from st. Settings fall back to
// defaults when none are stored.
func LoadSnapshot(ctx context.Context, st Store) (Snapshot, error) {
	return LoadSnapshotWithDefaults(ctx, st, DefaultSettings())
}

// LoadSnapshotWithDefaults is LoadSnapshot with caller-supplied defaults.
func LoadSnapshotWithDefaults(ctx context.Context, st Store, defaults Settings) (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Clients, err = st.ListClients(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load clients: %w", err)
	}
	if snap.Entries, err = st.ListTimeEntries(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load time entries: %w", err)
	}
	if snap.Invoices, err = st.ListInvoices(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load invoices: %w", err)
	}
	if snap.NonWorkDays, err = st.ListNonWorkDays(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load non-work days: %w", err)
	}

	settings, ok, err := st.GetSettings(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		settings = defaults
	}
	snap.Settings = settings
	return snap, nil
}
