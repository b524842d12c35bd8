package main

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"personal-ledger/internal/analytics"
	"personal-ledger/internal/models"
	"personal-ledger/internal/storage"

	"github.com/google/subcommands"
)

type addCmd struct {
	date     string
	kind     string
	category string
	desc     string
	amount   string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "append an income or expense entry" }
func (*addCmd) Usage() string {
	return `ledger -user <username> add [-date YYYY-MM-DD] -type income|expense -category <category> [-desc <text>] -amount <amount>

  Appends one entry to the ledger. The date defaults to today and the amount
  is a whole number; thousands separators are accepted.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Entry date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.kind, "type", "", "Income or Expense (required)")
	f.StringVar(&c.category, "category", "", "Category (required)")
	f.StringVar(&c.desc, "desc", "", "Description")
	f.StringVar(&c.amount, "amount", "", "Amount in whole currency units (required)")
}

func (c *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := fromArgs(args)

	e, err := c.entry()
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitUsageError
	}
	if err := e.Validate(); err != nil {
		a.errorf("%v", err)
		return subcommands.ExitUsageError
	}

	store, h, err := a.openLedger()
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	if !slices.Contains(a.cfg.Categories, e.Category) {
		fmt.Fprintf(a.stderr, "Warning: category %q is not in the configured list\n", e.Category)
	}
	if err := store.Append(ctx, h, e); err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(a.stdout, "Added %s %s %s %s\n", e.Date, e.Kind, e.Category, formatAmount(e.Amount, a.cfg.Currency))
	return subcommands.ExitSuccess
}

func (c *addCmd) entry() (models.Entry, error) {
	date := strings.TrimSpace(c.date)
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}
	kind, err := models.ParseKind(c.kind)
	if err != nil {
		return models.Entry{}, err
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return models.Entry{}, err
	}
	return models.Entry{
		Date:        date,
		Kind:        kind,
		Category:    strings.TrimSpace(c.category),
		Description: strings.TrimSpace(c.desc),
		Amount:      amount,
	}, nil
}

// parseAmount accepts whole numbers with optional thousands separators.
func parseAmount(s string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, &models.ValidationError{Field: "amount", Value: s, Reason: "must be a whole number"}
	}
	return n, nil
}

type listCmd struct {
	month string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list ledger entries" }
func (*listCmd) Usage() string {
	return `ledger -user <username> list [-month YYYY-MM]

  Lists entries in the order they were recorded, with their index for delete.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Only show entries of this month (YYYY-MM)")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := fromArgs(args)
	if c.month != "" {
		if _, err := models.ParseYearMonth(c.month); err != nil {
			a.errorf("%v", err)
			return subcommands.ExitUsageError
		}
	}

	store, h, err := a.openLedger()
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	entries, err := store.ReadAll(ctx, h)
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDATE\tTYPE\tCATEGORY\tDESCRIPTION\tAMOUNT")
	var shown []models.Entry
	for i, e := range entries {
		if c.month != "" && !strings.HasPrefix(e.Date, c.month) {
			continue
		}
		shown = append(shown, e)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i, e.Date, e.Kind, e.Category, e.Description, formatAmount(e.Amount, a.cfg.Currency))
	}
	w.Flush()

	t := analytics.LedgerTotals(shown)
	fmt.Fprintf(a.stdout, "Total: %s (income %s / expense %s)\n",
		formatAmount(t.Net, a.cfg.Currency),
		formatAmount(t.Income, a.cfg.Currency),
		formatAmount(t.Expense, a.cfg.Currency))
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	indexes string
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete entries by index" }
func (*deleteCmd) Usage() string {
	return `ledger -user <username> delete -index <i>[,<j>...]

  Deletes the entries with the given indexes, as shown by list.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.indexes, "index", "", "Comma separated entry indexes (required)")
}

func (c *deleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := fromArgs(args)

	var indexes []int
	for _, part := range strings.Split(c.indexes, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			a.errorf("invalid index %q", part)
			return subcommands.ExitUsageError
		}
		indexes = append(indexes, i)
	}
	slices.Sort(indexes)
	indexes = slices.Compact(indexes)
	if len(indexes) == 0 {
		a.errorf("select at least one entry with -index")
		return subcommands.ExitUsageError
	}

	store, h, err := a.openLedger()
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	kept, err := storage.DeleteAt(ctx, store, h, indexes...)
	if err != nil {
		a.errorf("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(a.stdout, "Deleted %d entries, %d left\n", len(indexes), len(kept))
	return subcommands.ExitSuccess
}
