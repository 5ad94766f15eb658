package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dshills/pyreview/internal/config"
	"github.com/dshills/pyreview/internal/output"
	"github.com/dshills/pyreview/internal/review"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List review rules in execution order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		reviewer, err := review.New(cfg.ReviewOptions())
		if err != nil {
			return err
		}

		table := output.Table(cmd.OutOrStdout(), []string{"#", "Rule", "Description"})
		if err := table.Append([]string{"0", review.SyntaxRuleName, "Code must parse; stops the review on failure"}); err != nil {
			return err
		}
		for i, rule := range reviewer.Rules() {
			if err := table.Append([]string{strconv.Itoa(i + 1), rule.Name(), rule.Description()}); err != nil {
				return err
			}
		}
		return table.Render()
	},
}
