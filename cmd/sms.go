package cmd

import (
	"strings"

	"github.com/josephgoksu/qutimport/internal/importer"
	"github.com/josephgoksu/qutimport/internal/ui"
	"github.com/josephgoksu/qutimport/models"
	"github.com/spf13/cobra"
)

var smsCmd = &cobra.Command{
	Use:   "sms",
	Short: "Convert a phone SMS export",
	Long: `Convert a phone SMS export. Messages are grouped per phone number and
filed under the account given by --phone.

Dialects (--format):
  semicolon  date;phone;name;text lines, all messages incoming
  csv        from;to;text;YYYY.MM.DD rows, "Name [+phone]" parties
  mpe        <mpe_messages><sms> with from/to/timestamp/body elements
  smses      <smses><sms address date type body/> backups (default)

Examples:
  qutimport sms --src sms.xml --dst out --phone 79000000000
  qutimport sms --src sms.csv --dst out --phone 79000000000 --format csv --encoding windows-1251`,
	RunE: runSMS,
}

func init() {
	smsCmd.Flags().String("src", "", "the SMS export file")
	smsCmd.Flags().String("dst", "", "the output directory (use an empty directory)")
	smsCmd.Flags().String("phone", "", "your phone number")
	smsCmd.Flags().String("format", importer.DialectSMSes, "export dialect: "+strings.Join(importer.Dialects, ", "))
	smsCmd.Flags().String("encoding", "", "text encoding of semicolon and csv exports (default from config)")
	_ = smsCmd.MarkFlagRequired("src")
	_ = smsCmd.MarkFlagRequired("dst")
	rootCmd.AddCommand(smsCmd)
}

func runSMS(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("src")
	dst, _ := cmd.Flags().GetString("dst")
	phone, _ := cmd.Flags().GetString("phone")
	dialect, _ := cmd.Flags().GetString("format")
	log := beginRun(cmd, src, dst)

	ui.NewSummary().
		Add("Phone", phone).
		Add("SMS File", src).
		Add("Format", dialect).
		Add("Output Directory", dst).
		Add("Verbose", isVerbose()).
		Print(out(cmd))

	imp, err := importer.NewSMS(appFs, dialect, importerOptions(cmd, log))
	if err != nil {
		return err
	}
	accounts := map[models.Protocol]string{models.ProtocolSMS: phone}
	return runImport(cmd, imp, src, dst, accounts, log)
}
