package cmd

import (
	"github.com/spf13/cobra"

	"github.com/copperwood-systems/datascout/internal/correlate"
	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/report"
)

var (
	grpLoad      loadFlags
	grpOut       outFlags
	grpTarget    string
	grpMaxGroups int
)

var groupsCmd = &cobra.Command{
	Use:   "groups <file>",
	Short: "Summarize a numeric target per category",
	Long: `Groups splits each categorical column into its values and reports count,
mean, min, and max of the target column per value, highest mean first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lopt, err := grpLoad.options(cmd)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(args[0], lopt)
		if err != nil {
			return err
		}
		copt := correlate.Options{
			MaxGroupKeys: pickInt(cmd.Flags().Changed("max-groups"), grpMaxGroups, cfg.MaxGroupKeys, 50),
		}
		groups, warns, err := correlate.GroupMeans(ds, grpTarget, copt)
		if err != nil {
			return err
		}
		return grpOut.write(report.Assemble(report.Parts{
			Source:   sourceParts(ds),
			Rows:     ds.Rows(),
			Groups:   groups,
			Warnings: append(append([]string(nil), ds.Warnings()...), warns...),
		}))
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	addLoadFlags(groupsCmd, &grpLoad)
	addOutFlags(groupsCmd, &grpOut)
	groupsCmd.Flags().StringVarP(&grpTarget, "target", "t", "", "numeric column to summarize per category (required)")
	_ = groupsCmd.MarkFlagRequired("target")
	groupsCmd.Flags().IntVar(&grpMaxGroups, "max-groups", 50, "skip group summaries for columns with more distinct values")
}
