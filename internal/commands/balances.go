package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fkhayef/momosplit/internal/balance"
	"github.com/fkhayef/momosplit/internal/currency"
	"github.com/fkhayef/momosplit/internal/expense"
	"github.com/fkhayef/momosplit/internal/money"
	"github.com/fkhayef/momosplit/internal/seed"
)

func newBalancesCommand(currencyCode *string) *cobra.Command {
	return &cobra.Command{
		Use:   "balances <dataset.yaml>",
		Short: "Load a dataset and print each group's balances and settle-up transfers",
		Long: `Loads users, groups and expenses from a YAML dataset (the same format the
API accepts in SEED_FILE), checks every expense the way the API does, then
prints each member's balance and the simplified list of transfers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalances(cmd.Context(), cmd.OutOrStdout(), seed.FileProvider{Path: args[0]}, *currencyCode)
		},
	}
}

func runBalances(ctx context.Context, out io.Writer, provider seed.Provider, defaultCurrency string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	users := &memoryUsers{}
	groups := newMemoryGroups(defaultCurrency)
	store := newMemoryExpenses()
	expenses := expense.NewService(store, groups, nil, nil)

	if _, err := seed.NewSeeder(provider, users, groups, expenses).Seed(ctx); err != nil {
		return err
	}

	names := users.names()
	for i, g := range groups.list() {
		if i > 0 {
			fmt.Fprintln(out)
		}

		all, err := store.ListAllByGroup(ctx, g.ID)
		if err != nil {
			return err
		}
		balances, err := balance.ComputeBalances(g.ID, g.Currency, all)
		if err != nil {
			return err
		}
		if err := printGroup(out, g.Name, g.Currency, balances, names); err != nil {
			return err
		}
	}
	return nil
}

func printGroup(out io.Writer, name, code string, balances []balance.Balance, names map[int64]string) error {
	fmt.Fprintf(out, "%s (%s)\n", name, code)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, b := range balances {
		amount := currency.FormatOrFallback(b.Amount.Abs(), code)
		switch {
		case money.IsNegligible(b.Amount):
			fmt.Fprintf(w, "  %s\tis settled up\n", names[b.UserID])
		case b.Amount.IsPositive():
			fmt.Fprintf(w, "  %s\tis owed\t%s\n", names[b.UserID], amount)
		default:
			fmt.Fprintf(w, "  %s\towes\t%s\n", names[b.UserID], amount)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if balance.Settled(balances) {
		fmt.Fprintln(out, "Everyone is settled up.")
		return nil
	}

	debts := balance.SimplifyDebts(balances)

	fmt.Fprintln(out, "To settle up:")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, d := range debts {
		fmt.Fprintf(w, "  %s\tpays\t%s\t%s\n", names[d.From], names[d.To], currency.FormatOrFallback(d.Amount, code))
	}
	return w.Flush()
}
