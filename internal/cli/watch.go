package cli

import (
	"fmt"
	"strconv"
	"time"

	"francoggm/pagseguro-transparente/internal/app/storage"
	"francoggm/pagseguro-transparente/internal/config"
	"francoggm/pagseguro-transparente/internal/models"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newWatchCmd(configPath *string) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch [order-number]",
		Short: "Follow the payment status changes of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderNumber, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid order number %q", args[0])
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.Cache.Addr(),
				Password: cfg.Cache.Password,
			})
			defer rdb.Close()

			ctx := cmd.Context()
			sub := storage.NewStorageService(rdb).SubscribeStatus(ctx, orderNumber)
			defer sub.Close()

			// wait for the subscription before reporting readiness
			if _, err := sub.Receive(ctx); err != nil {
				return fmt.Errorf("subscribe: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watching order %d\n", orderNumber)

			received := 0
			messages := sub.Channel()
			for {
				select {
				case <-ctx.Done():
					return nil
				case msg, ok := <-messages:
					if !ok {
						return nil
					}

					var change models.StatusChange
					if err := sonic.UnmarshalString(msg.Payload, &change); err != nil {
						return fmt.Errorf("decode status change: %w", err)
					}

					from := string(change.From)
					if from == "" {
						from = "unknown"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s -> %s\t%s\n",
						change.ChangedAt.Format(time.RFC3339), from, change.To, change.TransactionID)

					received++
					if count > 0 && received >= count {
						return nil
					}
				}
			}
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "exit after this many changes, 0 keeps watching")
	return cmd
}
