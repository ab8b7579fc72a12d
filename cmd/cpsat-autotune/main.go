package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cpsat-autotune",
	Short: "Hyperparameter tuning for CP-SAT models",
	Long: `cpsat-autotune tunes the hyperparameters of a CP-SAT model for a concrete
problem instance. Solves are delegated to an external solver binary that
reads solver parameters as JSON on stdin and reports the outcome as JSON on
stdout; the model file itself is passed through opaquely.

Pick the subcommand matching what you want to optimize:
- time:    minimize the time to a proven optimal solution
- quality: maximize or minimize the objective value within a time limit
- gap:     minimize the remaining optimality gap within a time limit`,
	Version: "0.1.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
