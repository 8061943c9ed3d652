/*
demo.go - Demo dataset loaders for testing and demonstrations

PURPOSE:

	Populates the store with realistic freelance data so the dashboard has
	something to show. Each dataset is built relative to the engine's
	current month, so the projection always has a past and a future.

AVAILABLE DATASETS:

	starter:      One hourly client, one retainer, a few weeks of entries
	hour-limits:  Monthly and contract-total hour limits in every status
	holidays:     A four-day week pattern plus marked vacation days

HOW DATASETS LOAD:
 1. Reset the store (clear all data)
 2. Save settings
 3. Create clients
 4. Append time entries and invoices
 5. Optionally mark non-work days

USAGE VIA API:

	POST /api/demo/load
	{"demo_id": "hour-limits"}

NOTE:

	Loading resets the store. Only use in development/demo environments.
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/freelance-engine/generic"
	"github.com/warp/freelance-engine/income"
)

// resetter is implemented by stores that can drop every record.
type resetter interface {
	Reset(ctx context.Context) error
}

// =============================================================================
// DATASET DEFINITIONS
// =============================================================================

var demos = []DemoDTO{
	{
		ID:          "starter",
		Name:        "Starter",
		Description: "One hourly client and one retainer client with a few weeks of logged time",
	},
	{
		ID:          "hour-limits",
		Name:        "Hour Limits",
		Description: "Monthly and contract-total hour limits in Good, Warning and Critical state",
	},
	{
		ID:          "holidays",
		Name:        "Holidays",
		Description: "Four-day work week with vacation days marked this month",
	},
}

// ListDemos returns available datasets.
func (h *Handler) ListDemos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, demos)
}

// GetCurrentDemo returns the currently loaded dataset, if any.
func (h *Handler) GetCurrentDemo(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentDemo
	h.mu.Unlock()

	for _, d := range demos {
		if d.ID == current {
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadDemo resets the store and loads a predefined dataset.
func (h *Handler) LoadDemo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DemoID string `json:"demo_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var loader func(context.Context) error
	switch req.DemoID {
	case "starter":
		loader = h.loadStarterDemo
	case "hour-limits":
		loader = h.loadHourLimitsDemo
	case "holidays":
		loader = h.loadHolidaysDemo
	default:
		writeError(w, http.StatusBadRequest, "Unknown demo", nil)
		return
	}

	ctx := r.Context()
	if err := h.reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	if err := loader(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load demo: %v", err), err)
		return
	}

	h.mu.Lock()
	h.currentDemo = req.DemoID
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "demo": req.DemoID})
}

// ResetData clears all records.
func (h *Handler) ResetData(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) reset(ctx context.Context) error {
	rs, ok := h.Store.(resetter)
	if !ok {
		return fmt.Errorf("store does not support reset")
	}
	if err := rs.Reset(ctx); err != nil {
		return err
	}
	h.mu.Lock()
	h.currentDemo = ""
	h.mu.Unlock()
	return nil
}

// =============================================================================
// DATASET LOADERS
// =============================================================================

func (h *Handler) loadStarterDemo(ctx context.Context) error {
	if err := h.Store.SaveSettings(ctx, income.DefaultSettings()); err != nil {
		return err
	}

	clients := []income.Client{
		{Name: "Acme Corp", HourlyRate: decimal.NewFromInt(100), Billing: income.BillingHourly, Active: true, LimitType: income.LimitNone},
		{Name: "Globex", HourlyRate: decimal.NewFromInt(85), Billing: income.BillingHourly, Active: true, LimitType: income.LimitNone},
		{Name: "Initech", Billing: income.BillingRetainer, Active: true, LimitType: income.LimitNone},
	}
	if err := h.createClients(ctx, clients); err != nil {
		return err
	}

	start := generic.StartOfMonth(h.Engine.Today().Year(), h.Engine.Today().Month())
	week := income.DefaultSettings().WorkDays
	if err := h.logWorkDays(ctx, start, week, "Acme Corp", decimal.NewFromInt(5), "Feature work"); err != nil {
		return err
	}
	if err := h.logWorkDays(ctx, start, week, "Globex", decimal.NewFromInt(2), "Support"); err != nil {
		return err
	}

	return h.Store.AppendInvoice(ctx, income.Invoice{
		Date:        start,
		ClientName:  "Initech",
		Amount:      decimal.NewFromInt(2000),
		Type:        income.InvoiceRetainer,
		Description: "Monthly retainer",
	})
}

func (h *Handler) loadHourLimitsDemo(ctx context.Context) error {
	if err := h.Store.SaveSettings(ctx, income.DefaultSettings()); err != nil {
		return err
	}

	today := h.Engine.Today()
	start := generic.StartOfMonth(today.Year(), today.Month())
	contractStart := start.AddMonths(-2)

	clients := []income.Client{
		{
			Name: "Umbrella", HourlyRate: decimal.NewFromInt(120), Billing: income.BillingHourly, Active: true,
			HasHourLimit: true, LimitType: income.LimitMonthly, HourLimit: decimal.NewFromInt(40),
		},
		{
			Name: "Stark Industries", HourlyRate: decimal.NewFromInt(150), Billing: income.BillingHourly, Active: true,
			HasHourLimit: true, LimitType: income.LimitContractTotal, HourLimit: decimal.NewFromInt(100),
			ContractStartDate: contractStart.String(),
		},
		{
			Name: "Wayne Enterprises", HourlyRate: decimal.NewFromInt(90), Billing: income.BillingHourly, Active: true,
			HasHourLimit: true, LimitType: income.LimitMonthly, HourLimit: decimal.NewFromInt(80),
		},
	}
	if err := h.createClients(ctx, clients); err != nil {
		return err
	}

	// Before the contract window: excluded from the contract total.
	if err := h.Store.AppendTimeEntry(ctx, income.TimeEntry{
		Date: contractStart.AddDays(-3), ClientName: "Stark Industries",
		Hours: decimal.NewFromInt(20), Notes: "Pre-contract discovery",
	}); err != nil {
		return err
	}

	entries := []income.TimeEntry{
		// 38 of 40 monthly hours: Critical.
		{Date: start, ClientName: "Umbrella", Hours: decimal.NewFromInt(20), Notes: "Migration"},
		{Date: start.AddDays(1), ClientName: "Umbrella", Hours: decimal.NewFromInt(18), Notes: "Migration"},
		// 80 of 100 contract hours: Warning.
		{Date: contractStart, ClientName: "Stark Industries", Hours: decimal.NewFromInt(40), Notes: "Phase 1"},
		{Date: contractStart.AddMonths(1), ClientName: "Stark Industries", Hours: decimal.NewFromInt(30), Notes: "Phase 2"},
		{Date: start, ClientName: "Stark Industries", Hours: decimal.NewFromInt(10), Notes: "Phase 3"},
		// 16 of 80 monthly hours: Good.
		{Date: start.AddDays(2), ClientName: "Wayne Enterprises", Hours: decimal.NewFromInt(16), Notes: "Audit"},
	}
	for _, te := range entries {
		if err := h.Store.AppendTimeEntry(ctx, te); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadHolidaysDemo(ctx context.Context) error {
	week := income.NewWorkWeek(time.Monday, time.Tuesday, time.Wednesday, time.Thursday)
	if err := h.Store.SaveSettings(ctx, income.Settings{
		MonthlyTarget: decimal.NewFromInt(6000),
		WorkDays:      week,
	}); err != nil {
		return err
	}

	if err := h.createClients(ctx, []income.Client{
		{Name: "Acme Corp", HourlyRate: decimal.NewFromInt(100), Billing: income.BillingHourly, Active: true, LimitType: income.LimitNone},
	}); err != nil {
		return err
	}

	today := h.Engine.Today()
	start := generic.StartOfMonth(today.Year(), today.Month())

	// Mark the second full week's work days as vacation.
	monday := generic.StartOfWeek(start)
	if monday.Before(start) {
		monday = monday.AddDays(7)
	}
	for i := 0; i < 4; i++ {
		if err := h.Store.AddNonWorkDay(ctx, income.NonWorkDay{Date: monday.AddDays(7 + i), Reason: "Vacation"}); err != nil {
			return err
		}
	}

	days, err := h.Store.ListNonWorkDays(ctx)
	if err != nil {
		return err
	}
	return h.logWorkDays(ctx, start, week, "Acme Corp", decimal.NewFromInt(6), "Client work",
		income.NewNonWorkDaySet(days))
}

func (h *Handler) createClients(ctx context.Context, clients []income.Client) error {
	for _, c := range clients {
		if err := h.Store.CreateClient(ctx, c); err != nil {
			return fmt.Errorf("client %s: %w", c.Name, err)
		}
	}
	return nil
}

// logWorkDays appends one entry per work day from start up to yesterday.
func (h *Handler) logWorkDays(
	ctx context.Context,
	start generic.TimePoint,
	week income.WorkWeek,
	client string,
	hours decimal.Decimal,
	notes string,
	nonWork ...income.NonWorkDaySet,
) error {
	var marked income.NonWorkDaySet
	if len(nonWork) > 0 {
		marked = nonWork[0]
	}
	today := h.Engine.Today()
	for day := start; day.Before(today); day = day.AddDays(1) {
		if !income.IsWorkDay(day, week, marked) {
			continue
		}
		te := income.TimeEntry{Date: day, ClientName: client, Hours: hours, Notes: notes}
		if err := h.Store.AppendTimeEntry(ctx, te); err != nil {
			return err
		}
	}
	return nil
}
