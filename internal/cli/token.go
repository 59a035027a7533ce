package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/minaret-labs/minaretd/internal/http/middleware"
)

func newTokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator token for the control endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("ADMIN_SECRET")
			if secret == "" {
				return fmt.Errorf("ADMIN_SECRET is required")
			}

			token, err := middleware.GenerateToken(subject, secret, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "Token subject name")
	cmd.Flags().DurationVar(&ttl, "ttl", 72*time.Hour, "Token lifetime")
	return cmd
}
