package cli

import (
	"errors"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alexanderramin/timesplit/internal/httpapi"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Handler == nil {
				return errors.New("HTTP handler is not configured")
			}

			p := app.Port
			if cmd.Flags().Changed("port") {
				p = port
			}

			ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(p)))
			if err != nil {
				return fmt.Errorf("listening on port %d: %w", p, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://localhost:%d (Ctrl+C to stop)\n", p)
			return httpapi.Serve(ctx, ln, app.Handler, app.logger())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from TIMESPLIT_PORT)")
	return cmd
}
