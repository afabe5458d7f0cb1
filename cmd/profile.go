package cmd

import (
	"github.com/spf13/cobra"

	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/profile"
	"github.com/copperwood-systems/datascout/internal/report"
)

var (
	proLoad      loadFlags
	proOut       outFlags
	proTopValues int
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Report per-column descriptive statistics only",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lopt, err := proLoad.options(cmd)
		if err != nil {
			return err
		}
		ds, err := dataset.Load(args[0], lopt)
		if err != nil {
			return err
		}
		popt := profile.DefaultOptions()
		popt.TopValues = pickInt(cmd.Flags().Changed("top-values"), proTopValues, cfg.TopValues, 8)
		return proOut.write(report.Assemble(report.Parts{
			Source:   sourceParts(ds),
			Rows:     ds.Rows(),
			Profiles: profile.Columns(ds, popt),
			Warnings: ds.Warnings(),
		}))
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	addLoadFlags(profileCmd, &proLoad)
	addOutFlags(profileCmd, &proOut)
	profileCmd.Flags().IntVar(&proTopValues, "top-values", 8, "top categorical values to keep per column")
}
