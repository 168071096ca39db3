package cmd

import (
	"fmt"

	"github.com/josephgoksu/qutimport/internal/ui"
	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Re-sort every bucket of a converted history tree",
	Long: `Rewrite every bucket under <src>/history with its messages in
chronological order.

Examples:
  qutimport sort --src ~/.config/qutim/profiles/me`,
	RunE: runSort,
}

func init() {
	sortCmd.Flags().String("src", "", "the converted tree to sort")
	_ = sortCmd.MarkFlagRequired("src")
	rootCmd.AddCommand(sortCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("src")
	log := beginRun(cmd, src, src)
	w := out(cmd)

	ui.NewSummary().
		Add("Input Directory", src).
		Print(w)

	s, err := openHistory(src, log)
	if err != nil {
		return err
	}
	res, err := s.Sort()
	if err != nil {
		return fmt.Errorf("sort %s: %w", src, err)
	}
	fmt.Fprintln(w, ui.Done(plainOutput(), "%d buckets sorted", len(res.Sorted)))
	return nil
}
