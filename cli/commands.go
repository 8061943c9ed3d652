package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/freelance-engine/config"
	"github.com/warp/freelance-engine/generic"
	"github.com/warp/freelance-engine/income"
	"github.com/warp/freelance-engine/store/sqlite"
)

// Options injects dependencies into the command tree. The zero value opens
// the SQLite database named by the configuration.
type Options struct {
	Store  income.Store
	Engine *income.Engine
}

type app struct {
	opts Options

	flagConfig string
	flagDB     string
	flagYear   int
	flagMonth  int

	cfg    config.Config
	store  income.Store
	closer func() error
}

// NewRootCmd builds the freelance command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Engine == nil {
		opts.Engine = income.NewEngine()
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:          "freelance",
		Short:        "Freelance income tracking reports",
		Long:         "Monthly income, targets, hour limits and projections from your time entries.",
		SilenceUsage: true,
		RunE:         a.runStats,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.closer != nil {
				return a.closer()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.flagConfig, "config", "", "Config file (default $FREELANCE_CONFIG or ~/.config/freelance/config.toml)")
	root.PersistentFlags().StringVar(&a.flagDB, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().IntVarP(&a.flagYear, "year", "y", 0, "Report year (default: current)")
	root.PersistentFlags().IntVarP(&a.flagMonth, "month", "m", 0, "Report month 1-12 (default: current)")

	root.AddCommand(
		&cobra.Command{Use: "stats", Short: "Monthly income and target summary", RunE: a.runStats},
		&cobra.Command{Use: "limits", Short: "Client hour-limit usage", RunE: a.runLimits},
		&cobra.Command{Use: "projection", Short: "Cumulative target vs. actual by day", RunE: a.runProjection},
		&cobra.Command{Use: "calendar", Short: "Work days and marked holidays", RunE: a.runCalendar},
		&cobra.Command{Use: "breakdown", Short: "Per-client monthly and weekly breakdown", RunE: a.runBreakdown},
		a.configCmd(),
	)
	return root
}

// Execute is the main entry point called from cmd/freelance.
func Execute() {
	if err := NewRootCmd(Options{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) setup() error {
	var err error
	if a.flagConfig != "" {
		a.cfg, err = config.LoadFile(a.flagConfig)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if a.flagDB != "" {
		a.cfg.Storage.DBPath = a.flagDB
	}
	return nil
}

// openStore is deferred until a report needs data, so `config` works
// without a database.
func (a *app) openStore() (income.Store, error) {
	if a.opts.Store != nil {
		return a.opts.Store, nil
	}
	if a.store != nil {
		return a.store, nil
	}
	st, err := sqlite.New(a.cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	a.store, a.closer = st, st.Close
	return st, nil
}

func (a *app) load(ctx context.Context) (income.Snapshot, int, time.Month, error) {
	year, month, err := a.month()
	if err != nil {
		return income.Snapshot{}, 0, 0, err
	}
	defaults, err := a.cfg.Defaults.Settings()
	if err != nil {
		return income.Snapshot{}, 0, 0, err
	}
	st, err := a.openStore()
	if err != nil {
		return income.Snapshot{}, 0, 0, err
	}
	snap, err := income.LoadSnapshotWithDefaults(ctx, st, defaults)
	if err != nil {
		return income.Snapshot{}, 0, 0, err
	}
	return snap, year, month, nil
}

func (a *app) month() (int, time.Month, error) {
	today := a.opts.Engine.Today()
	year, month := a.flagYear, time.Month(a.flagMonth)
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = today.Month()
	}
	if !generic.ValidMonth(year, month) {
		return 0, 0, fmt.Errorf("%w: %d-%d", generic.ErrInvalidPeriod, year, int(month))
	}
	return year, month, nil
}

// =============================================================================
// REPORTS
// =============================================================================

func (a *app) runStats(cmd *cobra.Command, _ []string) error {
	snap, year, month, err := a.load(cmd.Context())
	if err != nil {
		return err
	}
	s := a.opts.Engine.ComputeMonthlyStats(year, month, snap)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("INCOME  "+FormatMonth(year, month)))
	fmt.Fprintln(out)
	fmt.Fprint(out, RenderTable(Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Income", FormatMoney(s.TotalIncome)},
			{"Hourly Income", FormatMoney(s.HourlyIncome)},
			{"Retainer Income", FormatMoney(s.RetainerIncome)},
			{"---"},
			{"Monthly Target", FormatMoney(s.MonthlyTarget)},
			{"Target So Far", FormatMoney(s.TargetSoFar)},
			{"vs Target So Far", FormatDelta(s.TotalIncome.Sub(s.TargetSoFar))},
			{"Daily Target", FormatMoney(s.DailyTarget)},
			{"Daily Hours Target", FormatHours(s.DailyHoursTarget)},
			{"---"},
			{"Work Days", fmt.Sprintf("%d", s.TotalWorkDays)},
			{"Days Worked", fmt.Sprintf("%d", s.DaysWorked)},
			{"Total Hours", FormatHours(s.TotalHours)},
			{"Avg Hourly Rate", FormatMoney(s.AvgHourlyRate)},
		},
	}))
	return nil
}

func (a *app) runLimits(cmd *cobra.Command, _ []string) error {
	snap, year, month, err := a.load(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	report := a.opts.Engine.LimitReport(year, month, snap.Clients, snap.Entries)

	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("HOUR LIMITS  "+FormatMonth(year, month)))
	fmt.Fprintln(out)
	if len(report) == 0 {
		fmt.Fprintln(out, RenderNote("No active clients have hour limits set."))
		return nil
	}

	rows := make([][]string, 0, len(report))
	for _, l := range report {
		rows = append(rows, []string{
			l.ClientName,
			string(l.LimitType),
			FormatHours(l.Limit),
			FormatHours(l.Used),
			FormatHours(l.Remaining),
			FormatPercent(l.PercentUsed),
			FormatLevel(l.Level),
		})
	}
	fmt.Fprint(out, RenderTable(Table{
		Headers: []string{"Client", "Limit Type", "Limit", "Used", "Remaining", "Usage", "Status"},
		Rows:    rows,
	}))
	return nil
}

func (a *app) runProjection(cmd *cobra.Command, _ []string) error {
	snap, year, month, err := a.load(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	points := a.opts.Engine.Projection(year, month, snap, nil)
	today, hasToday := a.opts.Engine.TodayMarker(year, month)

	rows := make([][]string, 0, len(points))
	for _, p := range points {
		day := p.Date.Time.Format("Mon 02")
		if hasToday && p.Date.Equal(today) {
			day += " <"
		}
		work := ""
		if p.IsWorkDay {
			work = "yes"
		}
		rows = append(rows, []string{
			day,
			work,
			FormatMoney(p.CumulativeTarget),
			FormatMoney(p.CumulativeActual),
			FormatDelta(p.CumulativeActual.Sub(p.CumulativeTarget)),
		})
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("TARGET VS ACTUALS  "+FormatMonth(year, month)))
	fmt.Fprintln(out)
	fmt.Fprint(out, RenderTable(Table{
		Headers: []string{"Day", "Work", "Target", "Actual", "Diff"},
		Rows:    rows,
	}))
	if hasToday {
		fmt.Fprintln(out, RenderNote("< marks today"))
	}
	return nil
}

func (a *app) runCalendar(cmd *cobra.Command, _ []string) error {
	snap, year, month, err := a.load(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	nonWork := income.NewNonWorkDaySet(snap.NonWorkDays)
	days := income.MonthCalendar(year, month, snap.Settings.WorkDays, nonWork)

	// Monday-first grid
	var rows [][]string
	row := make([]string, 7)
	for _, d := range days {
		col := (int(d.Date.Weekday()) + 6) % 7
		label := fmt.Sprintf("%2d", d.Date.Day())
		switch d.Kind {
		case income.DayWork:
			label = goodStyle.Render(label)
		case income.DayHoliday:
			label = mutedStyle.Render(label + "*")
		default:
			label = criticalStyle.Render(label)
		}
		row[col] = label
		if col == 6 {
			rows = append(rows, row)
			row = make([]string, 7)
		}
	}
	if strings.Join(row, "") != "" {
		rows = append(rows, row)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("CALENDAR  "+FormatMonth(year, month)))
	fmt.Fprintln(out)
	fmt.Fprint(out, RenderTable(Table{
		Headers: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Rows:    rows,
	}))
	fmt.Fprintln(out, RenderNote(fmt.Sprintf("%d work days  (* = holiday / vacation)",
		income.CountWorkDaysInMonth(year, month, snap.Settings.WorkDays, nonWork))))

	marked := income.NonWorkDaysInMonth(year, month, snap.NonWorkDays)
	if len(marked) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(marked))
		for _, d := range marked {
			rows = append(rows, []string{d.Date.Time.Format("January 02, 2006 (Monday)"), d.Reason})
		}
		fmt.Fprint(out, RenderTable(Table{
			Title:   "Holidays & Vacation Days",
			Headers: []string{"Date", "Reason"},
			Rows:    rows,
		}))
	}
	return nil
}

func (a *app) runBreakdown(cmd *cobra.Command, _ []string) error {
	snap, year, month, err := a.load(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("BREAKDOWN  "+FormatMonth(year, month)))
	fmt.Fprintln(out)

	monthly := income.MonthlyBreakdown(year, month, snap)
	if len(monthly) == 0 {
		fmt.Fprintln(out, RenderNote("No income recorded this month."))
	} else {
		rows := make([][]string, 0, len(monthly)+2)
		for _, r := range monthly {
			hours, rate := "-", "-"
			if r.Billing == income.BillingHourly {
				hours, rate = FormatHours(r.Hours), FormatMoney(r.Rate)
			}
			rows = append(rows, []string{r.ClientName, string(r.Billing), hours, rate, FormatMoney(r.Total)})
		}
		rows = append(rows, []string{"---"}, []string{"Total", "", "", "", FormatMoney(income.BreakdownTotal(monthly))})
		fmt.Fprint(out, RenderTable(Table{
			Title:   "Monthly",
			Headers: []string{"Client", "Type", "Hours", "Rate", "Total"},
			Rows:    rows,
		}))
	}

	weekly := income.BuildWeeklyBreakdown(year, month, snap)
	if len(weekly.Rows) == 0 {
		return nil
	}
	headers := []string{"Client"}
	for _, c := range weekly.Columns {
		headers = append(headers, c.Label)
	}
	headers = append(headers, "Total")

	rows := make([][]string, 0, len(weekly.Rows))
	for _, r := range weekly.Rows {
		row := []string{r.ClientName}
		for _, h := range r.Hours {
			row = append(row, h.StringFixed(1))
		}
		rows = append(rows, append(row, r.Total.StringFixed(1)))
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, RenderTable(Table{Title: "Weekly Hours", Headers: headers, Rows: rows}))
	return nil
}

// =============================================================================
// CONFIG
// =============================================================================

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printConfig(cmd.OutOrStdout())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to the config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath()
			if err := config.Save(path, a.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  Wrote %s\n", path)
			return nil
		},
	})
	return cmd
}

func (a *app) configPath() string {
	if a.flagConfig != "" {
		return a.flagConfig
	}
	return config.ConfigPath()
}

func (a *app) printConfig(out io.Writer) error {
	fmt.Fprintf(out, "  Config file: %s\n", a.configPath())
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  [server]")
	fmt.Fprintf(out, "    Port:         %d\n", a.cfg.Server.Port)
	fmt.Fprintf(out, "    CORS origins: %s\n", strings.Join(a.cfg.Server.CORSOrigins, ", "))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  [storage]")
	fmt.Fprintf(out, "    Database:     %s\n", a.cfg.Storage.DBPath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  [defaults]")
	fmt.Fprintf(out, "    Monthly target: %.2f\n", a.cfg.Defaults.MonthlyTarget)
	fmt.Fprintf(out, "    Work days:      %s\n", strings.Join(a.cfg.Defaults.WorkDays, ", "))
	return nil
}
