package cmd

import (
	"github.com/josephgoksu/qutimport/internal/importer"
	"github.com/josephgoksu/qutimport/internal/ui"
	"github.com/josephgoksu/qutimport/models"
	"github.com/spf13/cobra"
)

var mirandaXMLCmd = &cobra.Command{
	Use:   "miranda-xml",
	Short: "Convert Miranda XML history exports",
	Long: `Convert Miranda per-contact XML exports named like
"Full History [Name] - [0987654321].xml". Events written by --uin are
outgoing, all others incoming.

Examples:
  qutimport miranda-xml --src exports --dst out --uin 12345678`,
	RunE: runMirandaXML,
}

func init() {
	mirandaXMLCmd.Flags().String("src", "", "the directory with the XML exports")
	mirandaXMLCmd.Flags().String("dst", "", "the output directory (use an empty directory)")
	mirandaXMLCmd.Flags().String("uin", "", "your UIN")
	_ = mirandaXMLCmd.MarkFlagRequired("src")
	_ = mirandaXMLCmd.MarkFlagRequired("dst")
	rootCmd.AddCommand(mirandaXMLCmd)
}

func runMirandaXML(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("src")
	dst, _ := cmd.Flags().GetString("dst")
	uin, _ := cmd.Flags().GetString("uin")
	log := beginRun(cmd, src, dst)

	ui.NewSummary().
		Add("UIN", uin).
		Add("Input Directory", src).
		Add("Output Directory", dst).
		Print(out(cmd))

	accounts := map[models.Protocol]string{models.ProtocolICQ: uin}
	return runImport(cmd, importer.NewMirandaXML(appFs, uin, importerOptions(cmd, log)), src, dst, accounts, log)
}
