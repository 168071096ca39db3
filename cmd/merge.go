package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/josephgoksu/qutimport/internal/ui"
	"github.com/josephgoksu/qutimport/models"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge one converted history tree into another",
	Long: `Fold every <src>/history bucket into <dst>/history. Buckets missing in
the destination are copied; existing ones gain the messages they lack and
are re-sorted. Run it only while no other conversion writes to --dst.

Examples:
  qutimport merge --src out-qip --dst ~/.config/qutim/profiles/me`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().String("src", "", "the converted tree to merge from")
	mergeCmd.Flags().String("dst", "", "the tree to merge into")
	_ = mergeCmd.MarkFlagRequired("src")
	_ = mergeCmd.MarkFlagRequired("dst")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("src")
	dst, _ := cmd.Flags().GetString("dst")
	log := beginRun(cmd, src, dst)
	w := out(cmd)

	ui.NewSummary().
		Add("Input Directory", src).
		Add("Output Directory", dst).
		Print(w)

	from, err := openHistory(src, log)
	if err != nil {
		return err
	}
	into, err := openHistory(dst, log)
	if err != nil {
		return err
	}
	res, err := into.Merge(from)
	if err != nil {
		return fmt.Errorf("merge %s into %s: %w", src, dst, err)
	}

	rows := make([][]string, 0, len(res.Copied)+len(res.Merged))
	for _, p := range res.Copied {
		rows = append(rows, []string{bucketProtocol(p), p, "copied"})
	}
	for _, p := range res.Merged {
		rows = append(rows, []string{bucketProtocol(p), p, "merged"})
	}
	if isVerbose() {
		printTable(w, []string{"Protocol", "Bucket", "Action"}, rows)
	}
	fmt.Fprintln(w, ui.Done(plainOutput(), "%d copied, %d merged, %d messages added",
		len(res.Copied), len(res.Merged), res.Added))
	return nil
}

// bucketProtocol names the protocol of a bucket path relative to the archive
// root, e.g. "icq.123/456.201409.json".
func bucketProtocol(rel string) string {
	account, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	tag, _, _ := strings.Cut(account, ".")
	if p, ok := models.ProtocolFromTag(tag); ok {
		return p.String()
	}
	return "?"
}
