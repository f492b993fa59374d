package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	gatewayclient "francoggm/pagseguro-transparente/internal/app/services/gateway_client"
	"francoggm/pagseguro-transparente/internal/app/syncer"
	"francoggm/pagseguro-transparente/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSearchCmd(configPath *string) *cobra.Command {
	var (
		initialDate string
		finalDate   string
		since       time.Duration
		page        int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search gateway transactions and show their payment statuses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			creds, err := cfg.Credentials()
			if err != nil {
				return err
			}

			if initialDate == "" {
				initialDate = time.Now().UTC().Add(-since).Format(syncer.SearchDateLayout)
			}

			client := gatewayclient.NewGatewayClient(cfg.Endpoints(), cfg.Gateway.Timeout, zap.NewNop())
			resp, err := client.SearchTransactions(cmd.Context(), gateway.SearchQuery{
				InitialDate: initialDate,
				FinalDate:   finalDate,
				Page:        page,
			}, creds, cfg.Gateway.AuthorizationCode)
			if err != nil {
				return err
			}
			result, err := gateway.ParseSearch(resp)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "REFERENCE\tGATEWAY STATUS\tSTATUS")
			for _, order := range result.Orders {
				fmt.Fprintf(w, "%s\t%s\t%s\n", order.Reference, order.Status, gateway.TranslateStatus(order.Status))
			}
			fmt.Fprintf(w, "page %d of %d\n", result.CurrentPage, result.TotalPages)
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&initialDate, "initial", "", "initial date, e.g. 2024-01-31T00:00")
	cmd.Flags().StringVar(&finalDate, "final", "", "final date")
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "search window when no initial date is given")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	return cmd
}
