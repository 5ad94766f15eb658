package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/pyreview/internal/output"
	"github.com/dshills/pyreview/internal/review"
)

// demoCode has a naming issue and a mutable default argument.
const demoCode = `def calculateSum(a, b=[]):
    # This function calculates the sum of a number and a list
    result = a
    for item in b:
        result = result + item
    return result
`

var flagDemoShowCode bool

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Review a built-in sample with default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := review.DefaultOptions()
		opts.Logger = logger
		reviewer, err := review.New(opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagDemoShowCode {
			fmt.Fprintf(out, "%s\n", demoCode)
		}

		report := review.NewReport(version, []review.FileReport{{Result: reviewer.Review(demoCode)}})
		return (&output.TextWriter{}).Write(out, report)
	},
}

func init() {
	demoCmd.Flags().BoolVar(&flagDemoShowCode, "show-code", false, "Print the sample before the review")
}
