package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fkhayef/momosplit/internal/currency"
	"github.com/fkhayef/momosplit/internal/expense/split"
	"github.com/fkhayef/momosplit/internal/money"
)

func newSplitCommand(currencyCode *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Compute shares of an amount",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "equal <amount> <member>...",
		Short:   "Split evenly; the first member absorbs any rounding remainder",
		Example: "  momosplit split equal 100 ama kofi esi",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := money.Parse("split equal", args[0])
			if err != nil {
				return err
			}
			names := args[1:]
			ids, err := memberIDs(names)
			if err != nil {
				return err
			}
			shares, err := split.Apply(split.Equal{}, amount, ids)
			if err != nil {
				return err
			}
			return printShares(cmd.OutOrStdout(), names, shares, *currencyCode)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "percentage <amount> <member=percent>...",
		Short:   "Split by percentage of the total",
		Example: "  momosplit split percentage 200 ama=50 kofi=30 esi=20",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := money.Parse("split percentage", args[0])
			if err != nil {
				return err
			}
			names := make([]string, 0, len(args)-1)
			percents := make([]decimal.Decimal, 0, len(args)-1)
			for _, arg := range args[1:] {
				name, value, ok := strings.Cut(arg, "=")
				if !ok || name == "" {
					return fmt.Errorf("expected member=percent, got %q", arg)
				}
				pct, err := decimal.NewFromString(value)
				if err != nil {
					return fmt.Errorf("invalid percentage for %s: %w", name, err)
				}
				names = append(names, name)
				percents = append(percents, pct)
			}
			ids, err := memberIDs(names)
			if err != nil {
				return err
			}
			shares, err := split.Apply(split.Percentage{Percents: percents}, amount, ids)
			if err != nil {
				return err
			}
			if err := printShares(cmd.OutOrStdout(), names, shares, *currencyCode); err != nil {
				return err
			}
			if total := money.Sum(split.Amounts(shares)...); !money.WithinTolerance(total, amount) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: shares add up to %s, not %s\n",
					currency.FormatOrFallback(total, *currencyCode), currency.FormatOrFallback(amount, *currencyCode))
			}
			return nil
		},
	})

	return cmd
}

// memberIDs numbers members by position
func memberIDs(names []string) ([]int64, error) {
	seen := make(map[string]bool, len(names))
	ids := make([]int64, len(names))
	for i, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("%w: %s", split.ErrDuplicateMember, name)
		}
		seen[name] = true
		ids[i] = int64(i + 1)
	}
	return ids, nil
}

func printShares(out io.Writer, names []string, shares []split.Share, code string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, s := range shares {
		line := names[s.UserID-1] + "\t" + currency.FormatOrFallback(s.Amount, code)
		if s.Percentage != nil {
			line += "\t" + s.Percentage.String() + "%"
		}
		fmt.Fprintln(w, line)
	}
	return w.Flush()
}
