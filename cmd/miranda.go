package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/josephgoksu/qutimport/internal/miranda"
	"github.com/josephgoksu/qutimport/internal/ui"
	"github.com/josephgoksu/qutimport/models"
	"github.com/spf13/cobra"
)

var mirandaCmd = &cobra.Command{
	Use:   "miranda",
	Short: "Convert a Miranda JSON export",
	Long: `Convert a Miranda JSON export, where all events of all contacts are kept in
one pointer-linked list, into per-contact qutIM histories.

Contacts are rebuilt from their first, first-unread and last event anchors in
the order VKontakte, ICQ, Jabber. Events no contact claims are grouped into
numbered "lost chains", starting at --seq, and written under the account
configured as lostChains.account ("unknow" by default, the spelling existing
qutIM trees use). Lost chains of the protocols listed in lostChains.discard
(IRC by default) are counted but not written. Set lostChains.fixedPoint to
repeat the orphan pass until a lost chain stops growing.

Examples:
  qutimport miranda --json miranda.json --dst out --seq 1
  qutimport miranda --json miranda.json --dst out --seq 500 --verbose`,
	RunE: runMiranda,
}

func init() {
	mirandaCmd.Flags().String("json", "", "the Miranda JSON export")
	mirandaCmd.Flags().String("dst", "", "the output directory (use an empty directory)")
	mirandaCmd.Flags().Int("seq", 0, "number of the first lost chain")
	_ = mirandaCmd.MarkFlagRequired("json")
	_ = mirandaCmd.MarkFlagRequired("dst")
	_ = mirandaCmd.MarkFlagRequired("seq")
	rootCmd.AddCommand(mirandaCmd)
}

func runMiranda(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("json")
	dst, _ := cmd.Flags().GetString("dst")
	seq, _ := cmd.Flags().GetInt("seq")
	cfg := GetConfig()
	log := beginRun(cmd, src, dst)
	w := out(cmd)

	ui.NewSummary().
		Add("Input JSON", src).
		Add("Output Directory", dst).
		Add("Lost Chain Seq", seq).
		Add("Lost Account", cfg.LostChains.Account).
		Add("Verbose", isVerbose()).
		Print(w)

	discard, err := discardProtocols(cfg.LostChains.Discard)
	if err != nil {
		return err
	}
	doc, err := miranda.Load(appFs, src)
	if err != nil {
		return err
	}
	s, err := openHistory(dst, log)
	if err != nil {
		return err
	}

	report, err := miranda.NewConverter(s, log, miranda.Options{
		FirstSeq:    seq,
		Location:    location(),
		LostAccount: cfg.LostChains.Account,
		Discard:     discard,
		FixedPoint:  cfg.LostChains.FixedPoint,
	}).Run(doc)
	if err != nil {
		return err
	}

	printMirandaReport(w, report)
	return nil
}

func printMirandaReport(w io.Writer, r *miranda.Report) {
	rows := make([][]string, 0, len(r.Contacts))
	for _, c := range r.Contacts {
		rows = append(rows, []string{c.Protocol.String(), c.Contact, strconv.Itoa(c.Messages)})
	}
	printTable(w, []string{"Protocol", "Contact", "Messages"}, rows)

	for p := models.ProtocolOther; p <= models.ProtocolSMS; p++ {
		if n := r.Lost[p]; n > 0 {
			fmt.Fprintf(w, "%s LOST: %d\n", p, n)
		}
	}
	fmt.Fprintf(w, "TOTAL LOST: %d\n", r.LostTotal)

	rows = rows[:0]
	for _, c := range r.Chains {
		status := "written"
		if c.Discarded {
			status = "discarded"
		}
		rows = append(rows, []string{strconv.Itoa(c.Seq), c.Module, strconv.Itoa(c.Messages), status})
	}
	printTable(w, []string{"Seq", "Module", "Events", "Status"}, rows)

	if r.Skipped > 0 {
		fmt.Fprintln(w, ui.Warn(plainOutput(), "%d malformed records skipped", r.Skipped))
	}
	fmt.Fprintln(w, ui.Done(plainOutput(), "%d events, %d contacts, %d lost chains", r.Events, len(r.Contacts), len(r.Chains)))
}
