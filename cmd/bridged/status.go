package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastspringexamples/accountbridge/internal/core"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account store status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			store, err := newStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open account store: %w", err)
			}
			defer store.Close()

			service := core.NewAccountService(store, nil)
			stats, err := service.Stats(context.Background())
			if err != nil {
				return err
			}

			fmt.Println("accountbridge status")
			fmt.Println("====================")
			fmt.Printf("Store driver: %s\n", cfg.Store.Driver)
			fmt.Printf("Accounts:     %d\n", stats.Accounts)
			fmt.Printf("Registered:   %d\n", stats.Registered)
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Wipe the account store (test/staging only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			store, err := newStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open account store: %w", err)
			}
			defer store.Close()

			if err := store.Reset(context.Background()); err != nil {
				return err
			}
			fmt.Println("Account store cleared")
			return nil
		},
	}
}
