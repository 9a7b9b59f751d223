package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"carvebench/cmd/util"
	"carvebench/graph"
)

var profileCmd = &cobra.Command{
	Use:   "profile <cpu.pprof>",
	Short: "Break a CPU profile of the bundled carver down by stage",
	Args:  cobra.ExactArgs(1),
	RunE:  profileStages,
}

var topFunctions int

func init() {
	profileCmd.Flags().IntVar(&topFunctions, "top", 10, "number of carving functions to list")
	RootCmd.AddCommand(profileCmd)
}

func profileStages(cmd *cobra.Command, args []string) error {
	prof, err := util.GetProfileDataFromFile(args[0])
	if err != nil {
		return err
	}
	stages := util.StageTimesFromProfile(prof)
	if len(stages) == 0 {
		logger.Warn("no carving functions in profile", zap.String("path", args[0]))
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	total := stages.Total()
	fmt.Fprintln(w, "stage\tns\t%\t")
	for _, st := range stages {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t\n", st.Stage, st.Time, 100*float64(st.Time)/float64(total))
	}
	fmt.Fprintf(w, "total\t%d\t\t\n", total)
	fmt.Fprintln(w, "\t\t\t")
	fmt.Fprintln(w, "function\tflat\tcum\t")
	for _, n := range util.SeamNodes(prof, topFunctions) {
		fmt.Fprintf(w, "%s\t%d\t%d\t\n", graph.ShortName(n.Info.Name), n.Flat, n.Cum)
	}
	return w.Flush()
}
