package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/cardforge/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the collection over a local JSON API",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, cfg := openApp(ctx)
		defer app.Close()

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := server.New(app, server.Config{
			Addr:        addr,
			CORSOrigins: cfg.Server.CORSOrigins,
			Logger:      app.Logger(),
		})
		if err := srv.Run(ctx); err != nil {
			fatal("Server stopped", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}
