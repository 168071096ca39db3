package miranda

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/josephgoksu/qutimport/internal/chain"
	"github.com/josephgoksu/qutimport/internal/logger"
	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/store"
)

// DefaultLostAccount is the account identity lost chains are filed under.
// Archives written by earlier converters use this spelling.
const DefaultLostAccount = "unknow"

// Options configures a Converter.
type Options struct {
	// FirstSeq numbers the first lost chain.
	FirstSeq int
	// Location renders event timestamps. Defaults to time.Local.
	Location *time.Location
	// LostAccount replaces the account identity for lost chains.
	LostAccount string
	// Discard lists protocols whose lost chains are not written.
	Discard []models.Protocol
	// FixedPoint repeats the lost-chain orphan pass until nothing is absorbed.
	FixedPoint bool
}

// ContactResult describes one converted contact.
type ContactResult struct {
	Protocol models.Protocol
	Contact  string
	Messages int
	Files    []string
}

// ChainResult describes one lost chain.
type ChainResult struct {
	Seq       int
	Protocol  models.Protocol
	Module    string
	Messages  int
	Discarded bool
	Files     []string
}

// Report summarizes a conversion run.
type Report struct {
	Events   int
	Skipped  int
	Contacts []ContactResult
	// Lost counts, per protocol, the events no contact claimed.
	Lost      map[models.Protocol]int
	LostTotal int
	Chains    []ChainResult
}

// Converter rebuilds per-contact histories from a Document and writes them.
type Converter struct {
	writer store.HistoryWriter
	log    *slog.Logger
	opts   Options
}

// NewConverter creates a Converter writing through w.
func NewConverter(w store.HistoryWriter, log *slog.Logger, opts Options) *Converter {
	if log == nil {
		log = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.LostAccount == "" {
		opts.LostAccount = DefaultLostAccount
	}
	return &Converter{writer: w, log: log, opts: opts}
}

// Run converts doc. Contacts are processed per protocol in RegistrationOrder
// and document order within a protocol; whatever remains afterwards becomes
// numbered lost chains. Every event ends up in exactly one contact history or
// lost chain.
func (c *Converter) Run(doc *Document) (*Report, error) {
	pool := chain.NewPool(doc.Events)
	report := &Report{
		Events:  pool.Len(),
		Skipped: doc.Skipped,
		Lost:    make(map[models.Protocol]int),
	}

	for _, proto := range RegistrationOrder {
		account, ok := doc.Accounts[proto]
		contacts := doc.ContactsFor(proto)
		if !ok {
			if len(contacts) > 0 {
				c.log.Warn("no account identity, contacts left for lost chains",
					"protocol", proto, "contacts", len(contacts))
			}
			continue
		}
		for _, contact := range contacts {
			id := contact.Identities[proto]
			logger.SetLastContact(proto.String() + " " + id)

			events := chain.Reconstruct(pool, contact.Anchors)
			msgs := EventsToMessages(events, c.opts.Location)
			files, err := c.writer.Write(proto, account, id, msgs)
			if err != nil {
				return report, fmt.Errorf("write %s contact %s: %w", proto, id, err)
			}
			c.log.Debug("contact converted", "protocol", proto, "contact", id, "messages", len(msgs))
			report.Contacts = append(report.Contacts, ContactResult{
				Protocol: proto,
				Contact:  id,
				Messages: len(msgs),
				Files:    files,
			})
		}
	}

	for _, e := range pool.Remaining() {
		report.Lost[models.ClassifyModule(e.Module)]++
	}
	report.LostTotal = pool.Len()

	x := chain.NewExtractor(pool, chain.ExtractorOptions{
		LostChainOptions: chain.LostChainOptions{FixedPoint: c.opts.FixedPoint},
		FirstSeq:         c.opts.FirstSeq,
		Discard:          c.opts.Discard,
	})
	for {
		lc, ok := x.Next()
		if !ok {
			break
		}
		res := ChainResult{
			Seq:       lc.Seq,
			Protocol:  lc.Protocol,
			Module:    lc.Module,
			Messages:  len(lc.Events),
			Discarded: lc.Discarded,
		}
		if lc.Discarded {
			c.log.Info("lost chain discarded", "seq", lc.Seq, "module", lc.Module, "events", len(lc.Events))
			report.Chains = append(report.Chains, res)
			continue
		}

		seq := strconv.Itoa(lc.Seq)
		logger.SetLastContact("lost chain " + seq)
		msgs := EventsToMessages(lc.Events, c.opts.Location)
		files, err := c.writer.Write(lc.Protocol, c.opts.LostAccount, seq, msgs)
		if err != nil {
			return report, fmt.Errorf("write lost chain %d: %w", lc.Seq, err)
		}
		res.Files = files
		c.log.Info("lost chain written", "seq", lc.Seq, "protocol", lc.Protocol, "events", len(lc.Events))
		report.Chains = append(report.Chains, res)
	}

	return report, nil
}

// EventsToMessages converts events to messages in chronological order.
func EventsToMessages(events []chain.Event, loc *time.Location) []models.Message {
	msgs := make([]models.Message, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, models.NewMessageFromUnix(e.Incoming, e.Timestamp, loc, e.Text))
	}
	models.SortMessages(msgs)
	return msgs
}
