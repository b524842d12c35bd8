package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"personal-ledger/internal/analytics"
	"personal-ledger/internal/export"
	"personal-ledger/internal/logging"
	"personal-ledger/internal/models"
	"personal-ledger/internal/storage"

	"github.com/google/subcommands"
)

// monthFlag resolves -month, defaulting to the current month.
func monthFlag(v string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return time.Now().Format(models.MonthLayout), nil
	}
	return models.ParseYearMonth(v)
}

// snapshot logs in and reads the whole ledger.
func (a *app) snapshot(ctx context.Context) ([]models.Entry, error) {
	store, h, err := a.openLedger()
	if err != nil {
		return nil, err
	}
	return store.ReadAll(ctx, h)
}

type summaryCmd struct {
	month string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "income and expense per category for a month" }
func (*summaryCmd) Usage() string {
	return `ledger -user <username> summary [-month YYYY-MM]

  Prints income, expense and net per category, highest net first.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month (YYYY-MM), defaults to the current month")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := fromArgs(args)
	month, err := monthFlag(c.month)
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitUsageError
	}
	entries, err := a.snapshot(ctx)
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}

	rows := analytics.MonthSummary(entries, month)
	if len(rows) == 0 {
		fmt.Fprintf(a.stdout, "No entries for %s\n", month)
		return subcommands.ExitSuccess
	}

	cur := a.cfg.Currency
	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CATEGORY\tINCOME\tEXPENSE\tNET\t")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", r.Category, formatAmount(r.Income, cur), formatAmount(r.Expense, cur), formatAmount(r.Net, cur))
	}
	t := analytics.MonthTotals(entries, month)
	fmt.Fprintf(w, "TOTAL\t%s\t%s\t%s\t\n", formatAmount(t.Income, cur), formatAmount(t.Expense, cur), formatAmount(t.Net, cur))
	w.Flush()
	fmt.Fprintf(a.stdout, "Expense share: %.1f%%\n", t.ExpenseShare())
	return subcommands.ExitSuccess
}

type dailyCmd struct {
	month string
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "net change per day for a month" }
func (*dailyCmd) Usage() string {
	return `ledger -user <username> daily [-month YYYY-MM]

  Prints income minus expense for every day of the month that has entries.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month (YYYY-MM), defaults to the current month")
}

func (c *dailyCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := fromArgs(args)
	month, err := monthFlag(c.month)
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitUsageError
	}
	entries, err := a.snapshot(ctx)
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}

	series := analytics.DailyNetSeries(entries, month)
	if len(series) == 0 {
		fmt.Fprintf(a.stdout, "No entries for %s\n", month)
		return subcommands.ExitSuccess
	}
	for _, d := range series {
		fmt.Fprintf(a.stdout, "%s  %s\n", d.Date, formatAmount(d.Net, a.cfg.Currency))
	}
	return subcommands.ExitSuccess
}

type exportCmd struct {
	month string
	out   string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the ledger to an Excel workbook" }
func (*exportCmd) Usage() string {
	return `ledger -user <username> export -out <file.xlsx> [-month YYYY-MM]

  Writes every entry to the "Entries" sheet. With -month a "Summary" sheet
  holds that month's category summary.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month to summarise (YYYY-MM)")
	f.StringVar(&c.out, "out", "", "Output file (required)")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := fromArgs(args)
	if c.out == "" {
		a.errorf("missing required flag: -out")
		return subcommands.ExitUsageError
	}
	if c.month != "" {
		if _, err := models.ParseYearMonth(c.month); err != nil {
			a.errorf("%v", err)
			return subcommands.ExitUsageError
		}
	}
	entries, err := a.snapshot(ctx)
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}

	err = storage.WriteFileAtomic(c.out, 0o644, func(w io.Writer) error {
		return export.WriteXLSX(w, entries, c.month)
	})
	if err != nil {
		a.errorf("export failed: %v", err)
		return subcommands.ExitFailure
	}
	logging.For(a.logger, logging.ComponentExport).Info("Ledger exported",
		"username", a.session.Username(),
		"path", c.out,
		"entries", len(entries))
	fmt.Fprintf(a.stdout, "Exported %d entries to %s\n", len(entries), c.out)
	return subcommands.ExitSuccess
}

type categoriesCmd struct{}

func (*categoriesCmd) Name() string             { return "categories" }
func (*categoriesCmd) Synopsis() string         { return "list the configured categories" }
func (*categoriesCmd) Usage() string            { return "ledger categories\n" }
func (*categoriesCmd) SetFlags(_ *flag.FlagSet) {}

func (*categoriesCmd) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := fromArgs(args)
	for _, c := range a.cfg.Categories {
		fmt.Fprintln(a.stdout, c)
	}
	return subcommands.ExitSuccess
}
