package cli

import (
	"fmt"

	"francoggm/pagseguro-transparente/internal/app/gateway"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [code...]",
		Short: "Translate gateway status codes into payment statuses",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, code := range args {
				status := string(gateway.TranslateStatus(code))
				if status == "" {
					status = "unknown"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", code, status)
			}
		},
	}
}
