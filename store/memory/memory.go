// Package memory provides an in-memory income.Store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/freelance-engine/generic"
	"github.com/warp/freelance-engine/income"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	clients     map[string]income.Client
	entries     []income.TimeEntry
	invoices    []income.Invoice
	nonWorkDays map[generic.DateKey]income.NonWorkDay
	settings    *income.Settings
}

var _ income.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		clients:     make(map[string]income.Client),
		nonWorkDays: make(map[generic.DateKey]income.NonWorkDay),
	}
}

// =============================================================================
// CLIENTS
// =============================================================================

func (m *Memory) ListClients(_ context.Context) ([]income.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]income.Client, 0, len(m.clients))
	for _, c := range m.clients {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) GetClient(_ context.Context, name string) (income.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[name]
	if !ok {
		return income.Client{}, generic.ErrNotFound
	}
	return c, nil
}

func (m *Memory) CreateClient(_ context.Context, c income.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[c.Name]; ok {
		return generic.ErrDuplicateClient
	}
	m.clients[c.Name] = c
	return nil
}

func (m *Memory) UpdateClient(_ context.Context, c income.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[c.Name]; !ok {
		return generic.ErrNotFound
	}
	m.clients[c.Name] = c
	return nil
}

func (m *Memory) DeleteClient(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[name]; !ok {
		return generic.ErrNotFound
	}
	delete(m.clients, name)
	return nil
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

func (m *Memory) ListTimeEntries(_ context.Context) ([]income.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]income.TimeEntry, len(m.entries))
	copy(result, m.entries)
	return result, nil
}

// AppendTimeEntry keeps the log ordered by date; entries on the same date
// stay in insertion order.
func (m *Memory) AppendTimeEntry(_ context.Context, te income.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if te.ID == "" {
		te.ID = income.NewID()
	}
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Date.After(te.Date)
	})
	m.entries = append(m.entries, income.TimeEntry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = te
	return nil
}

func (m *Memory) DeleteTimeEntry(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, te := range m.entries {
		if te.ID == id {
			m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
			return nil
		}
	}
	return generic.ErrNotFound
}

// =============================================================================
// INVOICES
// =============================================================================

func (m *Memory) ListInvoices(_ context.Context) ([]income.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]income.Invoice, len(m.invoices))
	copy(result, m.invoices)
	return result, nil
}

func (m *Memory) AppendInvoice(_ context.Context, inv income.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if inv.ID == "" {
		inv.ID = income.NewID()
	}
	i := sort.Search(len(m.invoices), func(i int) bool {
		return m.invoices[i].Date.After(inv.Date)
	})
	m.invoices = append(m.invoices, income.Invoice{})
	copy(m.invoices[i+1:], m.invoices[i:])
	m.invoices[i] = inv
	return nil
}

func (m *Memory) DeleteInvoice(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, inv := range m.invoices {
		if inv.ID == id {
			m.invoices = append(m.invoices[:i:i], m.invoices[i+1:]...)
			return nil
		}
	}
	return generic.ErrNotFound
}

// =============================================================================
// SETTINGS
// =============================================================================

func (m *Memory) GetSettings(_ context.Context) (income.Settings, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.settings == nil {
		return income.Settings{}, false, nil
	}
	return copySettings(*m.settings), true, nil
}

func (m *Memory) SaveSettings(_ context.Context, s income.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := copySettings(s)
	m.settings = &saved
	return nil
}

// copySettings detaches the WorkWeek map from the caller.
func copySettings(s income.Settings) income.Settings {
	week := make(income.WorkWeek, len(s.WorkDays))
	for d, on := range s.WorkDays {
		week[d] = on
	}
	s.WorkDays = week
	return s
}

// =============================================================================
// NON-WORK DAYS
// =============================================================================

func (m *Memory) ListNonWorkDays(_ context.Context) ([]income.NonWorkDay, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]income.NonWorkDay, 0, len(m.nonWorkDays))
	for _, d := range m.nonWorkDays {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *Memory) AddNonWorkDay(_ context.Context, d income.NonWorkDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.nonWorkDays[d.Date.Key()]; ok {
		return generic.ErrDuplicateNonWorkDay
	}
	m.nonWorkDays[d.Date.Key()] = d
	return nil
}

func (m *Memory) RemoveNonWorkDay(_ context.Context, date generic.TimePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.nonWorkDays[date.Key()]; !ok {
		return generic.ErrNotFound
	}
	delete(m.nonWorkDays, date.Key())
	return nil
}

// Reset drops every record, settings included.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clients = make(map[string]income.Client)
	m.entries = nil
	m.invoices = nil
	m.nonWorkDays = make(map[generic.DateKey]income.NonWorkDay)
	m.settings = nil
	return nil
}
