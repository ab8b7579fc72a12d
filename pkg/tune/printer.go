package tune

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/d-krupke/cpsat-autotune/pkg/params"
	"github.com/d-krupke/cpsat-autotune/pkg/scoring"
)

const reportCaveat = `The optimized parameters listed above were obtained based on a sampling
approach and may not fully capture the complexities of the entire problem
space. While statistical reasoning has been applied, these results should be
considered as a suggestion for further evaluation rather than definitive
settings. It is strongly recommended to validate these parameters in larger,
more comprehensive experiments before adopting them in critical applications.`

// WriteReport renders the evaluation result as a human-readable report: the
// surviving parameters with their contribution shares, defaults and
// descriptions, a metric comparison against the default configuration, and
// the sampling caveat.
func WriteReport(w io.Writer, result *EvaluationResult, defaultScore *scoring.MultiResult, metric scoring.Metric) error {
	rule := strings.Repeat("=", 60)
	thinRule := strings.Repeat("-", 60)

	if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n", rule, center("OPTIMIZED PARAMETERS", 60), rule); err != nil {
		return err
	}

	if len(result.OptimizedParams) == 0 {
		if _, err := fmt.Fprintln(w, "No significant parameter changes were identified."); err != nil {
			return err
		}
	} else {
		for i, name := range result.OptimizedParams.Names() {
			value := result.OptimizedParams[name]
			contribution := "<NA>"
			if share, ok := result.Contribution[name]; ok {
				contribution = fmt.Sprintf("%.2f%%", share*100)
			}
			defaultValue := "<NA>"
			description := ""
			if d, err := params.ByName(name); err == nil {
				defaultValue = d.Default().String()
				description = d.Description()
			}
			if _, err := fmt.Fprintf(w, "\n%d. %s: %s\n", i+1, name, value); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "\tContribution: %s\n\tDefault Value: %s\n", contribution, defaultValue); err != nil {
				return err
			}
			if description != "" {
				if _, err := fmt.Fprintf(w, "\tDescription: %s\n", description); err != nil {
					return err
				}
			}
		}
	}

	if _, err := fmt.Fprintln(w, thinRule); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Metric\tMean\tMin\tMax\t#Samples")
	fmt.Fprintf(tw, "%s with Default Parameters\t%.2f\t%.2f\t%.2f\t%d\n",
		metric.Name(), defaultScore.Mean(), defaultScore.Min(), defaultScore.Max(), defaultScore.Len())
	fmt.Fprintf(tw, "%s with Optimized Parameters\t%.2f\t%.2f\t%.2f\t%d\n",
		metric.Name(), result.Result.Mean(), result.Result.Min(), result.Result.Max(), result.Result.Len())
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s\n%s\n", rule, center("WARNING", 60), rule, reportCaveat, rule); err != nil {
		return err
	}
	return nil
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
