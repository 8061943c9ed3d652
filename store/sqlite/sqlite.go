/*
Package sqlite provides a SQLite-backed implementation of income.Store.

PURPOSE:
  Persists the freelancer's records in a single SQLite file. The engine
  never sees SQL; callers load a Snapshot and compute on plain values.

LOG SEMANTICS:
  time_entries, invoices and non_work_days are append/remove-only:
  - No UPDATE statements on these tables
  - Corrections are a DELETE followed by an INSERT
  clients and settings are edited in place.

KEY TABLES:
  clients:        Roster keyed by name
  time_entries:   Work log
  invoices:       Retainer / flat fee / bonus income
  settings:       Single row (id = 1)
  non_work_days:  Holiday / vacation markers, unique per date

NUMBERS:
  Rates, hours, amounts and the target are stored as decimal TEXT so that a
  round trip never loses precision.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The process is the only writer.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so report reads do not
  block a concurrent save.

USAGE:
  store, err := sqlite.New("./freelance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  snap, err := income.LoadSnapshot(ctx, store)

MIGRATION:
  Schema is auto-migrated on New(). Columns added later carry defaults so
  older databases load with fully populated records.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/freelance-engine/generic"
	"github.com/warp/freelance-engine/income"
)

// Store implements income.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ income.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		name TEXT PRIMARY KEY,
		hourly_rate TEXT NOT NULL DEFAULT '0',
		billing_type TEXT NOT NULL DEFAULT 'Hourly',
		active INTEGER NOT NULL DEFAULT 1,
		has_hour_limit INTEGER NOT NULL DEFAULT 0,
		limit_type TEXT NOT NULL DEFAULT 'None',
		hour_limit TEXT NOT NULL DEFAULT '0',
		contract_start_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		client_name TEXT NOT NULL,
		hours TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_time_entries_date
		ON time_entries(date);
	CREATE INDEX IF NOT EXISTS idx_time_entries_client_date
		ON time_entries(client_name, date);

	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		client_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'Other',
		description TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_date
		ON invoices(date);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		monthly_target TEXT NOT NULL,
		work_days TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- A date appears at most once
	CREATE TABLE IF NOT EXISTS non_work_days (
		date TEXT PRIMARY KEY,
		reason TEXT,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CLIENTS (income.ClientStore)
// =============================================================================

const clientColumns = `name, hourly_rate, billing_type, active, has_hour_limit,
	limit_type, hour_limit, contract_start_date`

func (s *Store) ListClients(ctx context.Context) ([]income.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []income.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) GetClient(ctx context.Context, name string) (income.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM clients WHERE name = ?", name)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return income.Client{}, generic.ErrNotFound
	}
	return c, err
}

func (s *Store) CreateClient(ctx context.Context, c income.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO clients (` + clientColumns + `, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.Name,
		c.HourlyRate.String(),
		string(c.Billing),
		c.Active,
		c.HasHourLimit,
		string(c.LimitType),
		c.HourLimit.String(),
		nullString(c.ContractStartDate),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.ErrDuplicateClient
		}
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (s *Store) UpdateClient(ctx context.Context, c income.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE clients SET hourly_rate = ?, billing_type = ?, active = ?,
			has_hour_limit = ?, limit_type = ?, hour_limit = ?, contract_start_date = ?
		WHERE name = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		c.HourlyRate.String(),
		string(c.Billing),
		c.Active,
		c.HasHourLimit,
		string(c.LimitType),
		c.HourLimit.String(),
		nullString(c.ContractStartDate),
		c.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) DeleteClient(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return requireAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(row scanner) (income.Client, error) {
	var (
		c             income.Client
		rate          string
		billing       string
		limitType     string
		hourLimit     string
		contractStart sql.NullString
	)
	err := row.Scan(&c.Name, &rate, &billing, &c.Active, &c.HasHourLimit,
		&limitType, &hourLimit, &contractStart)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("failed to scan client: %w", err)
	}

	c.HourlyRate = generic.MustParseDecimal(rate)
	c.HourLimit = generic.MustParseDecimal(hourLimit)
	if bt, ok := income.ParseBillingType(billing); ok {
		c.Billing = bt
	} else {
		c.Billing = income.BillingHourly
	}
	c.LimitType, _ = income.ParseLimitType(limitType)
	c.ContractStartDate = contractStart.String
	return c, nil
}

// =============================================================================
// TIME ENTRIES (income.EntryStore)
// =============================================================================

func (s *Store) ListTimeEntries(ctx context.Context) ([]income.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, client_name, hours, notes
		FROM time_entries
		ORDER BY date ASC, created_at ASC, rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []income.TimeEntry
	for rows.Next() {
		var (
			te    income.TimeEntry
			date  string
			hours string
			notes sql.NullString
		)
		if err := rows.Scan(&te.ID, &date, &te.ClientName, &hours, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		if te.Date, err = generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("time entry %s: %w", te.ID, err)
		}
		te.Hours = generic.MustParseDecimal(hours)
		te.Notes = notes.String
		entries = append(entries, te)
	}
	return entries, rows.Err()
}

func (s *Store) AppendTimeEntry(ctx context.Context, te income.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if te.ID == "" {
		te.ID = income.NewID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_entries (id, date, client_name, hours, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		te.ID,
		te.Date.String(),
		te.ClientName,
		te.Hours.String(),
		nullString(te.Notes),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to append time entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteTimeEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}
	return requireAffected(res)
}

// =============================================================================
// INVOICES (income.InvoiceStore)
// =============================================================================

func (s *Store) ListInvoices(ctx context.Context) ([]income.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, client_name, amount, type, description
		FROM invoices
		ORDER BY date ASC, created_at ASC, rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []income.Invoice
	for rows.Next() {
		var (
			inv         income.Invoice
			date        string
			amount      string
			invType     string
			description sql.NullString
		)
		if err := rows.Scan(&inv.ID, &date, &inv.ClientName, &amount, &invType, &description); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		if inv.Date, err = generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("invoice %s: %w", inv.ID, err)
		}
		inv.Amount = generic.MustParseDecimal(amount)
		if t, ok := income.ParseInvoiceType(invType); ok {
			inv.Type = t
		} else {
			inv.Type = income.InvoiceOther
		}
		inv.Description = description.String
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (s *Store) AppendInvoice(ctx context.Context, inv income.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if inv.ID == "" {
		inv.ID = income.NewID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (id, date, client_name, amount, type, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		inv.ID,
		inv.Date.String(),
		inv.ClientName,
		inv.Amount.String(),
		string(inv.Type),
		nullString(inv.Description),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to append invoice: %w", err)
	}
	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return requireAffected(res)
}

// =============================================================================
// SETTINGS (income.SettingsStore)
// =============================================================================

func (s *Store) GetSettings(ctx context.Context) (income.Settings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var target, workDays string
	err := s.db.QueryRowContext(ctx,
		"SELECT monthly_target, work_days FROM settings WHERE id = 1",
	).Scan(&target, &workDays)
	if errors.Is(err, sql.ErrNoRows) {
		return income.Settings{}, false, nil
	}
	if err != nil {
		return income.Settings{}, false, fmt.Errorf("failed to load settings: %w", err)
	}

	// Unknown names were rejected on save; tolerate hand-edited rows.
	week, _ := income.ParseWorkWeekList(workDays)
	return income.Settings{
		MonthlyTarget: generic.MustParseDecimal(target),
		WorkDays:      week,
	}, true, nil
}

func (s *Store) SaveSettings(ctx context.Context, settings income.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, monthly_target, work_days, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			monthly_target = excluded.monthly_target,
			work_days = excluded.work_days,
			updated_at = excluded.updated_at
	`,
		settings.MonthlyTarget.String(),
		settings.WorkDays.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// =============================================================================
// NON-WORK DAYS (income.CalendarStore)
// =============================================================================

func (s *Store) ListNonWorkDays(ctx context.Context) ([]income.NonWorkDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT date, reason FROM non_work_days ORDER BY date ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query non-work days: %w", err)
	}
	defer rows.Close()

	var days []income.NonWorkDay
	for rows.Next() {
		var (
			d      income.NonWorkDay
			date   string
			reason sql.NullString
		)
		if err := rows.Scan(&date, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan non-work day: %w", err)
		}
		if d.Date, err = generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("non-work day: %w", err)
		}
		d.Reason = reason.String
		days = append(days, d)
	}
	return days, rows.Err()
}

func (s *Store) AddNonWorkDay(ctx context.Context, d income.NonWorkDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO non_work_days (date, reason, created_at) VALUES (?, ?, ?)",
		d.Date.String(),
		nullString(d.Reason),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.ErrDuplicateNonWorkDay
		}
		return fmt.Errorf("failed to add non-work day: %w", err)
	}
	return nil
}

func (s *Store) RemoveNonWorkDay(ctx context.Context, date generic.TimePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM non_work_days WHERE date = ?", date.String())
	if err != nil {
		return fmt.Errorf("failed to remove non-work day: %w", err)
	}
	return requireAffected(res)
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset deletes every record. Used by tests and the demo seeder.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"time_entries", "invoices", "non_work_days", "clients", "settings"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return generic.ErrNotFound
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY"))
}
