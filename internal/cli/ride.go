package cli

import (
	"github.com/spf13/cobra"

	"github.com/sprite-ai/veloratio/internal/ride"
	"github.com/sprite-ai/veloratio/internal/tui"
)

var rideCmd = &cobra.Command{
	Use:   "ride",
	Short: "Open the interactive ride dashboard",
	Long: `Open a terminal dashboard with live speed and power readouts. Shift
gears and drag the cadence, gradient, weight and wind sliders with the
keyboard; press a to ask the coach about the current gear.

Press ? inside the dashboard for all key bindings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd.Context(), ride.FromConfig(appConfig, coach))
	},
}
