package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/josephgoksu/qutimport/internal/miranda"
	"github.com/josephgoksu/qutimport/internal/ui"
	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Extract the contact list of a Miranda JSON export",
	Long: `Write the accounts and contacts sections of a Miranda JSON export to a
separate file, with sorted keys. The format follows --format, or the
extension of --dst when --format is not given.

Examples:
  qutimport contacts --src miranda.json --dst contacts.json
  qutimport contacts --src miranda.json --dst contacts.yaml`,
	RunE: runContacts,
}

func init() {
	contactsCmd.Flags().String("src", "", "the Miranda JSON export")
	contactsCmd.Flags().String("dst", "", "the output contact list file")
	contactsCmd.Flags().String("format", "", "output format: json or yaml")
	_ = contactsCmd.MarkFlagRequired("src")
	_ = contactsCmd.MarkFlagRequired("dst")
	rootCmd.AddCommand(contactsCmd)
}

func runContacts(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("src")
	dst, _ := cmd.Flags().GetString("dst")
	format, _ := cmd.Flags().GetString("format")
	beginRun(cmd, src, filepath.Dir(dst))
	w := out(cmd)

	if format == "" {
		format = contactsFormat(dst)
	}
	switch format {
	case miranda.FormatJSON, miranda.FormatYAML:
	default:
		return fmt.Errorf("%w: contacts format %q", types.ErrUnknownFormat, format)
	}

	ui.NewSummary().
		Add("Input Miranda Json File", src).
		Add("Output Contact File", dst).
		Add("Format", format).
		Print(w)

	data, err := afero.ReadFile(appFs, src)
	if err != nil {
		return types.NewSourceError(src, err)
	}
	rendered, err := miranda.ExportContacts(data, format)
	if err != nil {
		return fmt.Errorf("export contacts: %w", err)
	}
	if err := afero.WriteFile(appFs, dst, rendered, 0644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	fmt.Fprintln(w, ui.Done(plainOutput(), "contact list written to %s", dst))
	return nil
}

func contactsFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return miranda.FormatYAML
	default:
		return miranda.FormatJSON
	}
}
