package cmd

import (
	"github.com/spf13/cobra"

	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/outlier"
	"github.com/copperwood-systems/datascout/internal/report"
)

var (
	outLoad    loadFlags
	outOut     outFlags
	outFence   float64
	outIndices bool
)

var outliersCmd = &cobra.Command{
	Use:   "outliers <file>",
	Short: "Report IQR outliers per numeric column",
	Long: `Outliers computes quartiles per numeric column and flags values strictly
outside [Q1 - f*IQR, Q3 + f*IQR], listing the offending row indices.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lopt, err := outLoad.options(cmd)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(args[0], lopt)
		if err != nil {
			return err
		}
		oopt := outlier.Options{
			Fence: pickFloat(cmd.Flags().Changed("fence"), outFence, cfg.Fence, 1.5),
		}
		found := outlier.Columns(ds, oopt)
		if !outIndices {
			for i := range found {
				found[i].Rows = nil
			}
		}
		return outOut.write(report.Assemble(report.Parts{
			Source:   sourceParts(ds),
			Rows:     ds.Rows(),
			Outliers: found,
			Warnings: ds.Warnings(),
		}))
	},
}

func init() {
	rootCmd.AddCommand(outliersCmd)
	addLoadFlags(outliersCmd, &outLoad)
	addOutFlags(outliersCmd, &outOut)
	outliersCmd.Flags().Float64Var(&outFence, "fence", 1.5, "IQR multiplier for outlier fences")
	outliersCmd.Flags().BoolVar(&outIndices, "indices", false, "include flagged row indices in the report")
}
