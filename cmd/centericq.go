package cmd

import (
	"github.com/josephgoksu/qutimport/internal/importer"
	"github.com/josephgoksu/qutimport/internal/ui"
	"github.com/josephgoksu/qutimport/models"
	"github.com/spf13/cobra"
)

var centericqCmd = &cobra.Command{
	Use:   "centericq",
	Short: "Convert a CenterICQ history directory",
	Long: `Convert a CenterICQ profile directory. Numeric subdirectories hold ICQ
contacts and are converted when --uin is given; subdirectories named
j<jid> hold Jabber contacts and are converted when --jid is given.

Examples:
  qutimport centericq --src ~/.centericq --dst out --uin 12345678
  qutimport centericq --src ~/.centericq --dst out --jid me@jabber.org --encoding koi8-r`,
	RunE: runCenterICQ,
}

func init() {
	centericqCmd.Flags().String("src", "", "the CenterICQ history directory")
	centericqCmd.Flags().String("dst", "", "the output directory (use an empty directory)")
	centericqCmd.Flags().String("uin", "", "your UIN, to convert the ICQ history")
	centericqCmd.Flags().String("jid", "", "your JID, to convert the Jabber history")
	centericqCmd.Flags().String("encoding", "", "text encoding of the history files (default from config)")
	_ = centericqCmd.MarkFlagRequired("src")
	_ = centericqCmd.MarkFlagRequired("dst")
	rootCmd.AddCommand(centericqCmd)
}

func runCenterICQ(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("src")
	dst, _ := cmd.Flags().GetString("dst")
	uin, _ := cmd.Flags().GetString("uin")
	jid, _ := cmd.Flags().GetString("jid")
	log := beginRun(cmd, src, dst)
	opts := importerOptions(cmd, log)

	ui.NewSummary().
		Add("UIN", uin).
		Add("JID", jid).
		Add("Encoding", opts.Encoding).
		Add("Input Directory", src).
		Add("Output Directory", dst).
		Print(out(cmd))

	accounts := map[models.Protocol]string{
		models.ProtocolICQ:    uin,
		models.ProtocolJabber: jid,
	}
	return runImport(cmd, importer.NewCenterICQ(appFs, opts), src, dst, accounts, log)
}
