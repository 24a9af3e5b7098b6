package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fastspringexamples/accountbridge/internal/core"
	"github.com/fastspringexamples/accountbridge/internal/fastspring"
	"github.com/fastspringexamples/accountbridge/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook bridge HTTP server",
	Long: `Start the HTTP server bridging FastSpring webhooks to the account store.

Examples:
  bridged serve
  bridged serve --addr :9000
  BRIDGE_STORE=sqlite bridged serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("bridged version %s starting...", Version)

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open account store: %w", err)
	}
	defer store.Close()

	api := fastspring.NewClient(cfg.FastSpring.URL, cfg.FastSpring.Username, cfg.FastSpring.Password)
	service := core.NewAccountService(store, api)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		store.Close()
		os.Exit(0)
	}()

	server := web.NewServer(service, cfg.StaticDir)
	log.Printf("Starting web server on %s (store: %s)", cfg.Addr, cfg.Store.Driver)
	return server.Run(cfg.Addr)
}
