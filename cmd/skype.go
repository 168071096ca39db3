package cmd

import (
	"github.com/josephgoksu/qutimport/internal/importer"
	"github.com/josephgoksu/qutimport/internal/ui"
	"github.com/josephgoksu/qutimport/models"
	"github.com/spf13/cobra"
)

var skypeCmd = &cobra.Command{
	Use:   "skype",
	Short: "Convert a Skype main.db",
	Long: `Convert the Messages table of a Skype main.db. The database is opened
read-only; messages authored by --id are outgoing.

Examples:
  qutimport skype --src main.db --dst out --id my.skype.name`,
	RunE: runSkype,
}

func init() {
	skypeCmd.Flags().String("src", "", "the Skype database")
	skypeCmd.Flags().String("dst", "", "the output directory (use an empty directory)")
	skypeCmd.Flags().String("id", "", "your Skype id")
	_ = skypeCmd.MarkFlagRequired("src")
	_ = skypeCmd.MarkFlagRequired("dst")
	rootCmd.AddCommand(skypeCmd)
}

func runSkype(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("src")
	dst, _ := cmd.Flags().GetString("dst")
	id, _ := cmd.Flags().GetString("id")
	log := beginRun(cmd, src, dst)

	ui.NewSummary().
		Add("Skype ID", id).
		Add("Input Skype Database", src).
		Add("Output Directory", dst).
		Add("Verbose", isVerbose()).
		Print(out(cmd))

	accounts := map[models.Protocol]string{models.ProtocolSkype: id}
	return runImport(cmd, importer.NewSkype(id, importerOptions(cmd, log)), src, dst, accounts, log)
}
