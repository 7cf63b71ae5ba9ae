package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fkhayef/momosplit/internal/currency"
	"github.com/fkhayef/momosplit/internal/money"
)

func newFormatCommand(currencyCode *string) *cobra.Command {
	return &cobra.Command{
		Use:     "format <amount>",
		Short:   "Render an amount the way the API displays it",
		Example: "  momosplit format 1234.5 --currency UGX",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := money.Parse("format", args[0])
			if err != nil {
				return err
			}
			formatted, err := currency.Format(amount, *currencyCode)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatted)
			return nil
		},
	}
}
