package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/josephgoksu/qutimport/internal/importer"
	"github.com/josephgoksu/qutimport/internal/logger"
	"github.com/josephgoksu/qutimport/internal/ui"
	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/store"
	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// appFs is the filesystem every command reads and writes through.
var appFs afero.Fs = afero.NewOsFs()

func isQuiet() bool {
	return viper.GetBool("quiet")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

// plainOutput reports whether styling should be skipped.
func plainOutput() bool {
	return !ui.IsInteractive()
}

// out returns the writer for summaries and reports, discarding them in quiet mode.
func out(cmd *cobra.Command) io.Writer {
	if isQuiet() {
		return io.Discard
	}
	return cmd.OutOrStdout()
}

// beginRun records crash context and returns the run logger.
func beginRun(cmd *cobra.Command, src, dst string) *slog.Logger {
	logger.SetCommand(cmd.Name())
	logger.SetSource(src)
	if dst != "" {
		logger.SetBasePath(filepath.Join(dst, ".qutimport"))
	}
	log, _ := logger.New(cmd.ErrOrStderr(), isVerbose())
	return log
}

// openHistory opens the archive under dst.
func openHistory(dst string, log *slog.Logger) (*store.HistoryStore, error) {
	s := store.NewHistoryStore(appFs)
	if err := s.Initialize(map[string]string{
		"rootDir":    dst,
		"historyDir": GetConfig().History.Dir,
	}); err != nil {
		return nil, fmt.Errorf("open history at %s: %w", dst, err)
	}
	s.SetLogger(log)
	return s, nil
}

// importerOptions builds the shared importer settings from the config.
func importerOptions(cmd *cobra.Command, log *slog.Logger) importer.Options {
	enc := GetConfig().Encoding
	if f := cmd.Flags().Lookup("encoding"); f != nil && f.Changed {
		enc = f.Value.String()
	}
	return importer.Options{
		Location: location(),
		Encoding: enc,
		Log:      log,
	}
}

// runImport reads src with imp and writes every conversation with an
// account identity. A missing identity is reported, not treated as failure.
func runImport(cmd *cobra.Command, imp importer.Importer, src, dst string, accounts map[models.Protocol]string, log *slog.Logger) error {
	w := out(cmd)
	convs, err := imp.Read(src)
	if errors.Is(err, types.ErrNoIdentity) {
		fmt.Fprintln(w, ui.Warn(plainOutput(), "no account identity given, nothing to convert"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s history: %w", imp.Name(), err)
	}

	s, err := openHistory(dst, log)
	if err != nil {
		return err
	}
	report, err := importer.Save(s, accounts, convs, log)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(report.Conversations))
	total := 0
	for _, r := range report.Conversations {
		rows = append(rows, []string{r.Protocol.String(), r.Contact, strconv.Itoa(r.Messages), strconv.Itoa(len(r.Files))})
		total += r.Messages
	}
	printTable(w, []string{"Protocol", "Contact", "Messages", "Files"}, rows)
	if report.Invalid > 0 {
		fmt.Fprintln(w, ui.Warn(plainOutput(), "%d messages skipped with an unreadable date", report.Invalid))
	}
	if report.Unfiled > 0 {
		fmt.Fprintln(w, ui.Warn(plainOutput(), "%d conversations skipped without an account identity", report.Unfiled))
	}
	fmt.Fprintln(w, ui.Done(plainOutput(), "%d messages in %d conversations", total, len(report.Conversations)))
	return nil
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	t := &ui.Table{Headers: headers, Rows: rows, MaxWidth: 48, Plain: plainOutput()}
	fmt.Fprint(w, t.Render())
}
