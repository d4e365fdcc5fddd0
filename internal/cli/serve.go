package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmoret/rosterbee/internal/server"
)

var servePort int
var serveHost string
var serveToken string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the command surface over a websocket (no TUI)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (0 for random)")
	serveCmd.Flags().StringVar(&serveHost, "bind", "127.0.0.1", "address to bind to")
	serveCmd.Flags().StringVar(&serveToken, "token", "", "shared token clients must present (empty disables auth)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, _, err := newService()
	if err != nil {
		return err
	}

	srv := server.New(svc, serveHost, servePort, serveToken)
	srv.EnableDiscovery(svc.Store.Dir())
	fmt.Fprintf(os.Stderr, "Starting rosterbee server on %s:%d...\n", serveHost, servePort)
	return srv.Start(ctx)
}
