package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/thomnico/fiches-mots/internal/handlers"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the card builder interface",
		Long: `Starts the Fiches web interface and API on the specified port.

The interface lets you enter a theme and a word list, pick one image per
word among the candidates found on Pixabay and Unsplash, and download the
printable PDF. The page is served from the static directory (static_dir in
the config, "static" by default, shipped at the repository root).`,
		Example: `  # Start server on default port 8888
  fiches serve

  # Start server on custom port
  fiches serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			gateway, searchCache, err := newGateway(cfg)
			if err != nil {
				return err
			}
			if searchCache != nil {
				defer searchCache.Close()
			}
			assemblers, err := newAssemblers(cfg)
			if err != nil {
				return err
			}
			words, err := newWordGenerator(cfg, "")
			if err != nil {
				return err
			}

			handler := handlers.New(handlers.Options{
				Images:              gateway,
				Words:               words,
				Assemblers:          assemblers,
				DefaultCardsPerPage: cfg.PDF.CardsPerPage,
				PageSize:            cfg.Images.PageSize,
				StaticDir:           cfg.Server.StaticDir,
			})

			// Set up routes
			mux := http.NewServeMux()
			handler.Register(mux)

			corsHandler := cors.Handler(cors.Options{
				AllowedOrigins: cfg.Server.AllowedOrigins,
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type"},
				ExposedHeaders: []string{"Content-Disposition"},
				MaxAge:         300,
			})

			addr := ":" + cfg.Server.Port
			server := &http.Server{
				Addr:    addr,
				Handler: corsHandler(mux),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Fiches interface available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
