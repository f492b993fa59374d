package cli

import (
	"fmt"
	"os"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/config"
	"francoggm/pagseguro-transparente/internal/models"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

func newPayloadCmd(configPath *string) *cobra.Command {
	var (
		nextURL string
		asForm  bool
	)

	cmd := &cobra.Command{
		Use:   "payload [order.json]",
		Short: "Render the checkout payload of an order without sending it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read order: %w", err)
			}
			var order models.Order
			if err := sonic.Unmarshal(data, &order); err != nil {
				return fmt.Errorf("decode order: %w", err)
			}
			if err := gateway.ValidateOrder(order); err != nil {
				return err
			}

			// missing credentials still render, so the payload can be inspected
			creds := cfg.Gateway.Applications[cfg.Gateway.Application]
			payload := gateway.Build(order, creds, gateway.BuildContext{
				NotificationBaseURL: gateway.CallbackBase(cfg.App.PublicURL, cfg.App.StoreID),
				NextURL:             nextURL,
			})

			if asForm {
				fmt.Fprintln(cmd.OutOrStdout(), payload.Values().Encode())
				return nil
			}

			out, err := sonic.ConfigStd.MarshalIndent(payload.Render(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&nextURL, "next-url", "", "where the buyer returns after paying")
	cmd.Flags().BoolVar(&asForm, "form", false, "print the urlencoded form instead of JSON")
	return cmd
}
