package cmd

import (
	"github.com/josephgoksu/qutimport/internal/importer"
	"github.com/josephgoksu/qutimport/internal/ui"
	"github.com/josephgoksu/qutimport/models"
	"github.com/spf13/cobra"
)

var qipCmd = &cobra.Command{
	Use:   "qip",
	Short: "Convert QIP text histories",
	Long: `Convert QIP text histories stored as <src>/<your uin>/<contact uin>.txt.

Examples:
  qutimport qip --src History --dst out --uin 12345678 --encoding windows-1251`,
	RunE: runQIP,
}

func init() {
	qipCmd.Flags().String("src", "", "the QIP history directory")
	qipCmd.Flags().String("dst", "", "the output directory (use an empty directory)")
	qipCmd.Flags().String("uin", "", "your UIN")
	qipCmd.Flags().String("encoding", "", "text encoding of the history files (default from config)")
	_ = qipCmd.MarkFlagRequired("src")
	_ = qipCmd.MarkFlagRequired("dst")
	rootCmd.AddCommand(qipCmd)
}

func runQIP(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("src")
	dst, _ := cmd.Flags().GetString("dst")
	uin, _ := cmd.Flags().GetString("uin")
	log := beginRun(cmd, src, dst)
	opts := importerOptions(cmd, log)

	ui.NewSummary().
		Add("UIN", uin).
		Add("Encoding", opts.Encoding).
		Add("Input Directory", src).
		Add("Output Directory", dst).
		Print(out(cmd))

	accounts := map[models.Protocol]string{models.ProtocolICQ: uin}
	return runImport(cmd, importer.NewQIP(appFs, uin, opts), src, dst, accounts, log)
}
