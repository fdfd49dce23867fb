package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lander/internal/config"
)

var difficultiesCmd = &cobra.Command{
	Use:   "difficulties",
	Short: "List difficulty profiles",
	Long:  `Shows the flight parameters of every difficulty preset for the current config.`,
	Args:  cobra.NoArgs,
	Run:   runDifficulties,
}

func runDifficulties(_ *cobra.Command, _ []string) {
	lcfg := loadConfig()

	fmt.Println("Difficulty profiles:")
	fmt.Println()

	fmt.Printf("  %-8s  %-8s  %-6s  %-6s  %-8s  %-8s  %s\n", "ID", "Gravity", "Fuel", "Pad", "Max VY", "Max VX", "Max angle")
	fmt.Printf("  %-8s  %-8s  %-6s  %-6s  %-8s  %-8s  %s\n", "--", "-------", "----", "---", "------", "------", "---------")

	for _, d := range config.Difficulties() {
		p := config.ProfileFor(lcfg, d)
		fmt.Printf("  %-8s  %-8.1f  %-6.1f  %-6.1f  %-8.1f  %-8.1f  %.0f°\n",
			d, p.Gravity, p.Fuel, p.PadWidth, p.MaxLandingVY, p.MaxLandingVX, p.MaxLandingAngle)
	}

	fmt.Println()
	fmt.Println("Run 'lander play --difficulty <id>' to fly one.")
}
