package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sprite-ai/veloratio/internal/report"
	"github.com/sprite-ai/veloratio/internal/ride"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute speed and power for one gear (non-interactive)",
	Long: `Compute speed, gear inches and estimated power for a single gear and
rider state, and print a report. Unset flags fall back to the config file.

Examples:
  veloratio calc                                 # configured starting gear
  veloratio calc --front 34 --rear 28 -g 6       # small ring up a 6% climb
  veloratio calc --rear-index 10 --wind -15      # smallest cog, tailwind
  veloratio calc --format json --curve --advice  # everything, as JSON`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().Int("front", 0, "chainring teeth (must exist on the crankset)")
	calcCmd.Flags().Int("rear", 0, "cog teeth (must exist on the cassette)")
	calcCmd.Flags().Int("front-index", 0, "chainring index, 0 is the smallest ring")
	calcCmd.Flags().Int("rear-index", 0, "cassette index, 0 is the largest cog")
	calcCmd.Flags().IntP("cadence", "c", 0, "cadence in RPM")
	calcCmd.Flags().Float64P("weight", "w", 0, "rider mass in kg")
	calcCmd.Flags().Float64P("gradient", "g", 0, "road gradient in percent")
	calcCmd.Flags().Float64("wind", 0, "wind in km/h, positive is a headwind")
	calcCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown, html")
	calcCmd.Flags().Bool("curve", false, "include the speed curve across the cassette")
	calcCmd.Flags().Bool("advice", false, "ask the coach for a riding tip")
}

func runCalc(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	session := ride.FromConfig(appConfig, coach)
	if err := session.Apply(overridesFromFlags(cmd)); err != nil {
		return err
	}

	if withAdvice, _ := cmd.Flags().GetBool("advice"); withAdvice {
		session.RequestAdvice(cmd.Context())
	}

	withCurve, _ := cmd.Flags().GetBool("curve")
	color := !*appConfig.Log.NoColor && term.IsTerminal(int(os.Stdout.Fd()))
	return report.Write(cmd.OutOrStdout(), format, report.FromSession(session, withCurve), report.Options{Color: color})
}

// overridesFromFlags collects only the flags the user actually set.
func overridesFromFlags(cmd *cobra.Command) ride.Overrides {
	var o ride.Overrides
	flags := cmd.Flags()

	if flags.Changed("front") {
		o.FrontTeeth, _ = flags.GetInt("front")
	}
	if flags.Changed("rear") {
		o.RearTeeth, _ = flags.GetInt("rear")
	}
	if flags.Changed("front-index") {
		v, _ := flags.GetInt("front-index")
		o.FrontIndex = &v
	}
	if flags.Changed("rear-index") {
		v, _ := flags.GetInt("rear-index")
		o.RearIndex = &v
	}
	if flags.Changed("cadence") {
		v, _ := flags.GetInt("cadence")
		o.CadenceRPM = &v
	}
	if flags.Changed("weight") {
		v, _ := flags.GetFloat64("weight")
		o.RiderMassKg = &v
	}
	if flags.Changed("gradient") {
		v, _ := flags.GetFloat64("gradient")
		o.GradientPercent = &v
	}
	if flags.Changed("wind") {
		v, _ := flags.GetFloat64("wind")
		o.WindKmh = &v
	}
	return o
}
