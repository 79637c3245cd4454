package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/catalog/internal/client"
	"github.com/groblegark/catalog/internal/session"
	"github.com/groblegark/catalog/internal/ui"
)

var (
	serverURL  string
	jsonOutput bool

	sessions *session.Store
	api      client.CatalogClient
)

func defaultServer() string {
	if s := os.Getenv("CATALOG_HTTP_URL"); s != "" {
		return s
	}
	return "http://localhost:8081"
}

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "CLI client for the product catalog service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		path, err := session.DefaultPath()
		if err != nil {
			return fmt.Errorf("locating session file: %w", err)
		}
		sessions = session.NewStore(path)

		token := ""
		if sess, ok := sessions.Get(); ok {
			token = sess.Token
		}
		api = client.NewHTTPClient(serverURL, token)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if api != nil {
			api.Close()
		}
	},
}

// apiError translates transport errors into actionable messages. An expired
// or revoked token also clears the stored session so the next command starts
// clean.
func apiError(err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		_ = sessions.Clear()
		return errors.New("session expired or invalid, run `catalog login` to sign in again")
	case errors.Is(err, client.ErrUnreachable):
		return fmt.Errorf("server unreachable at %s: %w", serverURL, err)
	default:
		return err
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "catalog server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
