/*
handlers.go - HTTP API handlers for the freelance income engine

PURPOSE:
  Exposes the record store and the income engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Clients:
    GET    /api/clients                    List clients
    POST   /api/clients                    Create client
    GET    /api/clients/{name}             Get client
    PUT    /api/clients/{name}             Replace client
    DELETE /api/clients/{name}             Delete client

  Time entries:
    GET    /api/entries                    List entries (?year=&month=&client=)
    POST   /api/entries                    Log hours, reports hour-limit impact
    DELETE /api/entries/{id}               Remove an entry

  Invoices:
    GET    /api/invoices                   List invoices (?year=&month=)
    POST   /api/invoices                   Record retainer / flat fee income
    DELETE /api/invoices/{id}              Remove an invoice

  Settings:
    GET    /api/settings                   Stored settings or defaults
    PUT    /api/settings                   Replace settings

  Calendar:
    GET    /api/calendar/non-work-days     List marked days
    POST   /api/calendar/non-work-days     Mark a day
    DELETE /api/calendar/non-work-days/{date}
    GET    /api/calendar/{year}/{month}    Day-by-day classification

  Reports:
    GET    /api/dashboard/{year}/{month}   Stats, projection, limits, breakdowns
    POST   /api/scenarios/{year}/{month}   What-if with hypothetical entries

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Record persistence
  - Engine: Pure calculations (clock injected)
  - Defaults: Settings used until the user saves their own

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (income.Validate*)
  3. Load a fresh Snapshot and call the engine
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Conflict (duplicate client or non-work day)
  - 500: Internal errors

SECURITY NOTE:
  No authentication. The server is meant to run on the freelancer's machine.

SEE ALSO:
  - dto.go: Request/response data structures
  - demo.go: Demo dataset loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/freelance-engine/generic"
	"github.com/warp/freelance-engine/income"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    income.Store
	Engine   *income.Engine
	Defaults income.Settings

	// Track currently loaded demo dataset
	mu          sync.Mutex
	currentDemo string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store income.Store, engine *income.Engine, defaults income.Settings) *Handler {
	if engine == nil {
		engine = income.NewEngine()
	}
	if len(defaults.WorkDays) == 0 {
		defaults = income.DefaultSettings()
	}
	return &Handler{
		Store:    store,
		Engine:   engine,
		Defaults: defaults,
	}
}

func (h *Handler) snapshot(ctx context.Context) (income.Snapshot, error) {
	return income.LoadSnapshotWithDefaults(ctx, h.Store, h.Defaults)
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toClientDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetClient returns a single client.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	c, err := h.Store.GetClient(r.Context(), name)
	if err != nil {
		writeStoreError(w, "Failed to get client", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(c))
}

// CreateClient adds a client. Names are unique.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req ClientDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	c := req.toClient()
	if err := income.ValidateClient(c); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid client", err)
		return
	}
	if err := h.Store.CreateClient(r.Context(), c); err != nil {
		writeStoreError(w, "Failed to create client", err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientDTO(c))
}

// UpdateClient replaces a client. The name in the URL wins over the body.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req ClientDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.Name = nameParam(r)

	c := req.toClient()
	if err := income.ValidateClient(c); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid client", err)
		return
	}
	if err := h.Store.UpdateClient(r.Context(), c); err != nil {
		writeStoreError(w, "Failed to update client", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(c))
}

// DeleteClient removes a client. Its entries and invoices stay in the log
// and simply stop matching any client.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteClient(r.Context(), nameParam(r)); err != nil {
		writeStoreError(w, "Failed to delete client", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// =============================================================================
// TIME ENTRY HANDLERS
// =============================================================================

// ListTimeEntries returns entries, optionally filtered by month and client.
func (h *Handler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	period, ok, err := optionalMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month filter", err)
		return
	}
	client := r.URL.Query().Get("client")

	entries, err := h.Store.ListTimeEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list time entries", err)
		return
	}

	dtos := make([]TimeEntryDTO, 0, len(entries))
	for _, te := range entries {
		if ok && !period.Contains(te.Date) {
			continue
		}
		if client != "" && te.ClientName != client {
			continue
		}
		dtos = append(dtos, toTimeEntryDTO(te))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTimeEntry logs hours. When the client has an hour limit the response
// reports the limit before and after; exceeding it is a warning, not an error.
func (h *Handler) CreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	var req TimeEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	te, err := req.toTimeEntry()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time entry", err)
		return
	}
	te.ID = income.NewID()
	if err := income.ValidateTimeEntry(te); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time entry", err)
		return
	}

	ctx := r.Context()
	snap, err := h.snapshot(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	resp := CreateTimeEntryResponse{}
	if c, ok := snap.FindClient(te.ClientName); ok && c.HasHourLimit {
		check := h.Engine.CheckEntry(c, snap.Entries, te.Hours, te.Date)
		resp.LimitCheck = &LimitCheckDTO{
			Current:  num(check.Current),
			After:    num(check.After),
			Limit:    num(check.Limit),
			OverBy:   num(check.OverBy),
			Exceeded: check.Exceeded,
		}
		if check.Exceeded {
			resp.Warning = fmt.Sprintf("This entry exceeds the hour limit for %s by %s hours",
				c.Name, check.OverBy.StringFixed(1))
		}
	}

	if err := h.Store.AppendTimeEntry(ctx, te); err != nil {
		writeStoreError(w, "Failed to save time entry", err)
		return
	}
	resp.Entry = toTimeEntryDTO(te)
	writeJSON(w, http.StatusCreated, resp)
}

// DeleteTimeEntry removes a single entry by ID.
func (h *Handler) DeleteTimeEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteTimeEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete time entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// ListInvoices returns invoices, optionally filtered by month.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	period, ok, err := optionalMonth(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month filter", err)
		return
	}

	invoices, err := h.Store.ListInvoices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}

	dtos := make([]InvoiceDTO, 0, len(invoices))
	for _, inv := range invoices {
		if ok && !period.Contains(inv.Date) {
			continue
		}
		dtos = append(dtos, toInvoiceDTO(inv))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateInvoice records non-hourly income.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req InvoiceDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	inv, err := req.toInvoice()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice", err)
		return
	}
	inv.ID = income.NewID()
	if err := income.ValidateInvoice(inv); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice", err)
		return
	}

	if err := h.Store.AppendInvoice(r.Context(), inv); err != nil {
		writeStoreError(w, "Failed to save invoice", err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceDTO(inv))
}

// DeleteInvoice removes a single invoice by ID.
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteInvoice(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete invoice", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the stored settings, or the defaults if none were saved.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, ok, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	if !ok {
		s = h.Defaults
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(s))
}

// UpdateSettings replaces the settings singleton.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := req.toSettings()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return
	}
	if err := income.ValidateSettings(s); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return
	}
	if err := h.Store.SaveSettings(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(s))
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// ListNonWorkDays returns all marked days.
func (h *Handler) ListNonWorkDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.Store.ListNonWorkDays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list non-work days", err)
		return
	}
	writeJSON(w, http.StatusOK, toNonWorkDayDTOs(days))
}

// CreateNonWorkDay marks a date as holiday / vacation. The reason defaults
// to "Holiday".
func (h *Handler) CreateNonWorkDay(w http.ResponseWriter, r *http.Request) {
	var req NonWorkDayDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := parseDateField("date", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid non-work day", err)
		return
	}
	d := income.NonWorkDay{Date: date, Reason: req.Reason}
	if d.Reason == "" {
		d.Reason = "Holiday"
	}
	if err := income.ValidateNonWorkDay(d); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid non-work day", err)
		return
	}

	if err := h.Store.AddNonWorkDay(r.Context(), d); err != nil {
		writeStoreError(w, "Failed to mark non-work day", err)
		return
	}
	writeJSON(w, http.StatusCreated, NonWorkDayDTO{Date: d.Date.String(), Reason: d.Reason})
}

// DeleteNonWorkDay turns a marked date back into a regular day.
func (h *Handler) DeleteNonWorkDay(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateField("date", chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if err := h.Store.RemoveNonWorkDay(r.Context(), date); err != nil {
		writeStoreError(w, "Failed to remove non-work day", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCalendar classifies every day of a month.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	snap, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	nonWork := income.NewNonWorkDaySet(snap.NonWorkDays)
	writeJSON(w, http.StatusOK, CalendarResponse{
		Year:          year,
		Month:         int(month),
		WorkDays:      income.CountWorkDaysInMonth(year, month, snap.Settings.WorkDays, nonWork),
		Days:          toCalendarDTOs(income.MonthCalendar(year, month, snap.Settings.WorkDays, nonWork)),
		MarkedInMonth: toNonWorkDayDTOs(income.NonWorkDaysInMonth(year, month, snap.NonWorkDays)),
	})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetDashboard returns every figure of the month's dashboard in one call.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	snap, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	stats := h.Engine.ComputeMonthlyStats(year, month, snap)
	breakdown := income.MonthlyBreakdown(year, month, snap)
	resp := DashboardResponse{
		Stats:           toStatsDTO(stats),
		Projection:      toProjectionDTOs(h.Engine.Projection(year, month, snap, nil)),
		Limits:          toLimitDTOs(h.Engine.LimitReport(year, month, snap.Clients, snap.Entries)),
		Breakdown:       toBreakdownDTOs(breakdown),
		BreakdownTotal:  num(income.BreakdownTotal(breakdown)),
		WeeklyBreakdown: toWeeklyDTO(income.BuildWeeklyBreakdown(year, month, snap)),
	}
	if today, ok := h.Engine.TodayMarker(year, month); ok {
		resp.TodayMarker = today.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// PlanScenario recomputes the month as if the posted entries had been
// logged. Nothing is written to the store.
func (h *Handler) PlanScenario(w http.ResponseWriter, r *http.Request) {
	year, month, err := monthParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	var req ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	hypothetical := make([]income.TimeEntry, 0, len(req.Entries))
	for i, dto := range req.Entries {
		te, err := dto.toTimeEntry()
		if err == nil {
			err = income.ValidateTimeEntry(te)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid scenario entry %d", i), err)
			return
		}
		hypothetical = append(hypothetical, te)
	}

	snap, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	result := h.Engine.PlanScenario(year, month, snap, hypothetical)
	resp := ScenarioResponse{
		Stats:      toStatsDTO(result.Stats),
		Limits:     toLimitDTOs(result.Limits),
		Projection: toProjectionDTOs(result.Projection),
		VsTarget:   num(result.VsTarget),
	}
	if today, ok := h.Engine.TodayMarker(year, month); ok {
		resp.TodayMarker = today.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func monthParams(r *http.Request) (int, time.Month, error) {
	return parseMonth(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
}

// optionalMonth reads ?year=&month=. Both or neither must be present.
func optionalMonth(r *http.Request) (generic.Period, bool, error) {
	q := r.URL.Query()
	y, m := q.Get("year"), q.Get("month")
	if y == "" && m == "" {
		return generic.Period{}, false, nil
	}
	year, month, err := parseMonth(y, m)
	if err != nil {
		return generic.Period{}, false, err
	}
	return generic.MonthPeriod(year, month), true, nil
}

func parseMonth(y, m string) (int, time.Month, error) {
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: year %q", generic.ErrInvalidPeriod, y)
	}
	mon, err := strconv.Atoi(m)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month %q", generic.ErrInvalidPeriod, m)
	}
	if !generic.ValidMonth(year, time.Month(mon)) {
		return 0, 0, fmt.Errorf("%w: %d-%d", generic.ErrInvalidPeriod, year, mon)
	}
	return year, time.Month(mon), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError picks the status from the error kind.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
