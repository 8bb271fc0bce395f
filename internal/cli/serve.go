package cli

import (
	"github.com/spf13/cobra"

	"github.com/sprite-ai/veloratio/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the veloratio calculator.

Endpoints:
  GET  /health          Health check
  GET  /api/config      Drivetrain, ranges and starting state
  POST /api/telemetry   Report for a gear and rider state
  POST /api/curve       Speed on every cog at the given cadence
  POST /api/advice      Coaching tip for a gear and rider state
  GET  /api/ws          WebSocket for a live ride session`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "address to listen on (default from config)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("addr") {
		appConfig.Server.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("port") {
		appConfig.Server.Port, _ = cmd.Flags().GetInt("port")
	}

	srv := api.New(appConfig.ListenAddr(), appConfig, coach)
	return srv.ListenAndServe(cmd.Context())
}
