package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fkhayef/momosplit/pkg/middleware"
)

var errNoSecret = errors.New("no signing secret: pass --secret or set JWT_SECRET")

func newTokenCommand() *cobra.Command {
	var (
		secret string
		email  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:     "token <user-id>",
		Short:   "Issue a bearer token for the API's jwt auth mode",
		Example: "  JWT_SECRET=s3cret momosplit token 2 --ttl 1h",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || userID < 1 {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return errNoSecret
			}

			token, err := middleware.IssueToken([]byte(secret), userID, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "HMAC secret, defaults to $JWT_SECRET")
	cmd.Flags().StringVar(&email, "email", "", "email claim to embed")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
