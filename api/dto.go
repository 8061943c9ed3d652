/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The domain keeps money
  and hours as decimals; the wire format uses plain numbers and ISO dates
  (YYYY-MM-DD) so that a browser chart can consume it directly.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Records:
    ClientDTO, TimeEntryDTO, InvoiceDTO, SettingsDTO, NonWorkDayDTO

  Reports:
    StatsDTO, LimitStatusDTO, ProjectionPointDTO, BreakdownRowDTO,
    WeeklyBreakdownDTO, CalendarDayDTO, DashboardResponse

  Scenarios:
    ScenarioRequest, ScenarioResponse

VALIDATION:
  Validation is done by income.Validate* after conversion, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/freelance-engine/generic"
	"github.com/warp/freelance-engine/income"
)

// =============================================================================
// RECORDS
// =============================================================================

// ClientDTO is both the request and response shape of a client.
type ClientDTO struct {
	Name              string  `json:"client_name"`
	HourlyRate        float64 `json:"hourly_rate"`
	BillingType       string  `json:"billing_type"`
	Active            bool    `json:"active"`
	HasHourLimit      bool    `json:"has_hour_limit"`
	LimitType         string  `json:"limit_type"`
	HourLimit         float64 `json:"hour_limit"`
	ContractStartDate string  `json:"contract_start_date,omitempty"`
}

// TimeEntryDTO represents a time entry. ID is ignored on create.
type TimeEntryDTO struct {
	ID         string  `json:"id,omitempty"`
	Date       string  `json:"date"`
	ClientName string  `json:"client_name"`
	Hours      float64 `json:"hours"`
	Notes      string  `json:"notes,omitempty"`
}

// CreateTimeEntryResponse carries the stored entry and, for clients with an
// hour limit, what the entry did to it.
type CreateTimeEntryResponse struct {
	Entry      TimeEntryDTO   `json:"entry"`
	LimitCheck *LimitCheckDTO `json:"limit_check,omitempty"`
	Warning    string         `json:"warning,omitempty"`
}

type LimitCheckDTO struct {
	Current  float64 `json:"current_hours"`
	After    float64 `json:"hours_after"`
	Limit    float64 `json:"hour_limit"`
	OverBy   float64 `json:"over_by"`
	Exceeded bool    `json:"exceeded"`
}

// InvoiceDTO represents an invoice. ID is ignored on create.
type InvoiceDTO struct {
	ID          string  `json:"id,omitempty"`
	Date        string  `json:"date"`
	ClientName  string  `json:"client_name"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"invoice_type"`
	Description string  `json:"description,omitempty"`
}

type SettingsDTO struct {
	MonthlyTarget float64  `json:"monthly_target"`
	WorkDays      []string `json:"work_days"`
}

type NonWorkDayDTO struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// =============================================================================
// REPORTS
// =============================================================================

type StatsDTO struct {
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	TotalIncome      float64 `json:"total_income"`
	HourlyIncome     float64 `json:"hourly_income"`
	RetainerIncome   float64 `json:"retainer_income"`
	MonthlyTarget    float64 `json:"monthly_target"`
	TargetSoFar      float64 `json:"target_so_far"`
	DailyTarget      float64 `json:"daily_target"`
	DailyHoursTarget float64 `json:"daily_hours_target"`
	TotalWorkDays    int     `json:"total_work_days"`
	DaysWorked       int     `json:"days_worked"`
	TotalHours       float64 `json:"total_hours"`
	AvgHourlyRate    float64 `json:"avg_hourly_rate"`
}

type LimitStatusDTO struct {
	ClientName  string  `json:"client_name"`
	LimitType   string  `json:"limit_type"`
	Limit       float64 `json:"hour_limit"`
	Used        float64 `json:"hours_used"`
	Remaining   float64 `json:"hours_remaining"`
	PercentUsed float64 `json:"percent_used"`
	Status      string  `json:"status"`
}

type ProjectionPointDTO struct {
	Date             string  `json:"date"`
	IsWorkDay        bool    `json:"is_work_day"`
	CumulativeTarget float64 `json:"cumulative_target"`
	CumulativeActual float64 `json:"cumulative_actual"`
}

type BreakdownRowDTO struct {
	ClientName  string  `json:"client_name"`
	BillingType string  `json:"billing_type"`
	Hours       float64 `json:"hours"`
	Rate        float64 `json:"rate"`
	Total       float64 `json:"total"`
}

type WeekColumnDTO struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type WeeklyRowDTO struct {
	ClientName string    `json:"client_name"`
	Hours      []float64 `json:"hours"`
	Total      float64   `json:"total"`
}

type WeeklyBreakdownDTO struct {
	Columns []WeekColumnDTO `json:"columns"`
	Rows    []WeeklyRowDTO  `json:"rows"`
}

type CalendarDayDTO struct {
	Date   string `json:"date"`
	Kind   string `json:"kind"`
	Reason string `json:"reason,omitempty"`
}

type CalendarResponse struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	WorkDays      int              `json:"work_days"`
	Days          []CalendarDayDTO `json:"days"`
	MarkedInMonth []NonWorkDayDTO  `json:"marked_in_month"`
}

// DashboardResponse is everything the dashboard page renders for a month.
type DashboardResponse struct {
	Stats           StatsDTO             `json:"stats"`
	Projection      []ProjectionPointDTO `json:"projection"`
	TodayMarker     string               `json:"today_marker,omitempty"`
	Limits          []LimitStatusDTO     `json:"limits"`
	Breakdown       []BreakdownRowDTO    `json:"breakdown"`
	BreakdownTotal  float64              `json:"breakdown_total"`
	WeeklyBreakdown WeeklyBreakdownDTO   `json:"weekly_breakdown"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioRequest lists hypothetical entries. They are never stored.
type ScenarioRequest struct {
	Entries []TimeEntryDTO `json:"entries"`
}

type ScenarioResponse struct {
	Stats       StatsDTO             `json:"stats"`
	Limits      []LimitStatusDTO     `json:"limits"`
	Projection  []ProjectionPointDTO `json:"projection"`
	TodayMarker string               `json:"today_marker,omitempty"`
	VsTarget    float64              `json:"vs_target"`
}

// DemoDTO describes a loadable demo dataset.
type DemoDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func num(d decimal.Decimal) float64 { return d.InexactFloat64() }

func toClientDTO(c income.Client) ClientDTO {
	return ClientDTO{
		Name:              c.Name,
		HourlyRate:        num(c.HourlyRate),
		BillingType:       string(c.Billing),
		Active:            c.Active,
		HasHourLimit:      c.HasHourLimit,
		LimitType:         string(c.LimitType),
		HourLimit:         num(c.HourLimit),
		ContractStartDate: c.ContractStartDate,
	}
}

// toClient converts a request body. Unknown enum labels are kept verbatim
// so that validation can name them; an omitted billing type means Hourly.
func (d ClientDTO) toClient() income.Client {
	billing := income.BillingHourly
	if strings.TrimSpace(d.BillingType) != "" {
		billing, _ = income.ParseBillingType(d.BillingType)
	}
	limitType, _ := income.ParseLimitType(d.LimitType)
	return income.Client{
		Name:              d.Name,
		HourlyRate:        decimal.NewFromFloat(d.HourlyRate),
		Billing:           billing,
		Active:            d.Active,
		HasHourLimit:      d.HasHourLimit,
		LimitType:         limitType,
		HourLimit:         decimal.NewFromFloat(d.HourLimit),
		ContractStartDate: d.ContractStartDate,
	}
}

func toTimeEntryDTO(te income.TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		ID:         te.ID,
		Date:       te.Date.String(),
		ClientName: te.ClientName,
		Hours:      num(te.Hours),
		Notes:      te.Notes,
	}
}

func (d TimeEntryDTO) toTimeEntry() (income.TimeEntry, error) {
	date, err := parseDateField("date", d.Date)
	if err != nil {
		return income.TimeEntry{}, err
	}
	return income.TimeEntry{
		ID:         d.ID,
		Date:       date,
		ClientName: d.ClientName,
		Hours:      decimal.NewFromFloat(d.Hours),
		Notes:      d.Notes,
	}, nil
}

func toInvoiceDTO(inv income.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:          inv.ID,
		Date:        inv.Date.String(),
		ClientName:  inv.ClientName,
		Amount:      num(inv.Amount),
		Type:        string(inv.Type),
		Description: inv.Description,
	}
}

func (d InvoiceDTO) toInvoice() (income.Invoice, error) {
	date, err := parseDateField("date", d.Date)
	if err != nil {
		return income.Invoice{}, err
	}
	invType, _ := income.ParseInvoiceType(d.Type)
	return income.Invoice{
		ID:          d.ID,
		Date:        date,
		ClientName:  d.ClientName,
		Amount:      decimal.NewFromFloat(d.Amount),
		Type:        invType,
		Description: d.Description,
	}, nil
}

func toSettingsDTO(s income.Settings) SettingsDTO {
	names := s.WorkDays.Names()
	if names == nil {
		names = []string{}
	}
	return SettingsDTO{MonthlyTarget: num(s.MonthlyTarget), WorkDays: names}
}

func (d SettingsDTO) toSettings() (income.Settings, error) {
	week, err := income.ParseWorkWeek(d.WorkDays)
	if err != nil {
		return income.Settings{}, &generic.ValidationError{Field: "work_days", Message: err.Error()}
	}
	return income.Settings{
		MonthlyTarget: decimal.NewFromFloat(d.MonthlyTarget),
		WorkDays:      week,
	}, nil
}

func toNonWorkDayDTOs(days []income.NonWorkDay) []NonWorkDayDTO {
	out := make([]NonWorkDayDTO, len(days))
	for i, d := range days {
		out[i] = NonWorkDayDTO{Date: d.Date.String(), Reason: d.Reason}
	}
	return out
}

func toStatsDTO(s income.MonthlyStats) StatsDTO {
	return StatsDTO{
		Year:             s.Year,
		Month:            int(s.Month),
		TotalIncome:      num(s.TotalIncome),
		HourlyIncome:     num(s.HourlyIncome),
		RetainerIncome:   num(s.RetainerIncome),
		MonthlyTarget:    num(s.MonthlyTarget),
		TargetSoFar:      num(s.TargetSoFar),
		DailyTarget:      num(s.DailyTarget),
		DailyHoursTarget: num(s.DailyHoursTarget),
		TotalWorkDays:    s.TotalWorkDays,
		DaysWorked:       s.DaysWorked,
		TotalHours:       num(s.TotalHours),
		AvgHourlyRate:    num(s.AvgHourlyRate),
	}
}

func toLimitDTOs(limits []income.LimitStatus) []LimitStatusDTO {
	out := make([]LimitStatusDTO, len(limits))
	for i, l := range limits {
		out[i] = LimitStatusDTO{
			ClientName:  l.ClientName,
			LimitType:   string(l.LimitType),
			Limit:       num(l.Limit),
			Used:        num(l.Used),
			Remaining:   num(l.Remaining),
			PercentUsed: num(l.PercentUsed),
			Status:      string(l.Level),
		}
	}
	return out
}

func toProjectionDTOs(points []income.ProjectionPoint) []ProjectionPointDTO {
	out := make([]ProjectionPointDTO, len(points))
	for i, p := range points {
		out[i] = ProjectionPointDTO{
			Date:             p.Date.String(),
			IsWorkDay:        p.IsWorkDay,
			CumulativeTarget: num(p.CumulativeTarget),
			CumulativeActual: num(p.CumulativeActual),
		}
	}
	return out
}

func toBreakdownDTOs(rows []income.BreakdownRow) []BreakdownRowDTO {
	out := make([]BreakdownRowDTO, len(rows))
	for i, r := range rows {
		out[i] = BreakdownRowDTO{
			ClientName:  r.ClientName,
			BillingType: string(r.Billing),
			Hours:       num(r.Hours),
			Rate:        num(r.Rate),
			Total:       num(r.Total),
		}
	}
	return out
}

func toWeeklyDTO(wb income.WeeklyBreakdown) WeeklyBreakdownDTO {
	out := WeeklyBreakdownDTO{
		Columns: make([]WeekColumnDTO, len(wb.Columns)),
		Rows:    make([]WeeklyRowDTO, len(wb.Rows)),
	}
	for i, c := range wb.Columns {
		out.Columns[i] = WeekColumnDTO{
			Label: c.Label,
			Start: c.Visible.Start.String(),
			End:   c.Visible.End.String(),
		}
	}
	for i, r := range wb.Rows {
		hours := make([]float64, len(r.Hours))
		for j, h := range r.Hours {
			hours[j] = num(h)
		}
		out.Rows[i] = WeeklyRowDTO{ClientName: r.ClientName, Hours: hours, Total: num(r.Total)}
	}
	return out
}

func toCalendarDTOs(days []income.CalendarDay) []CalendarDayDTO {
	out := make([]CalendarDayDTO, len(days))
	for i, d := range days {
		out[i] = CalendarDayDTO{Date: d.Date.String(), Kind: string(d.Kind), Reason: d.Reason}
	}
	return out
}

func parseDateField(field, s string) (generic.TimePoint, error) {
	if s == "" {
		return generic.TimePoint{}, &generic.ValidationError{Field: field, Message: "is required"}
	}
	tp, err := generic.ParseDate(s)
	if err != nil {
		return generic.TimePoint{}, &generic.ValidationError{Field: field, Message: "must be a date (YYYY-MM-DD)"}
	}
	return tp, nil
}
