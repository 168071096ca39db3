// Package importer reads the legacy client history formats that keep one
// conversation per contact and hands the normalized messages to the archive.
package importer

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/josephgoksu/qutimport/internal/logger"
	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/store"
)

// Conversation is the history of one contact on one protocol.
type Conversation struct {
	Protocol models.Protocol
	Contact  string
	Messages []models.Message
}

// Importer reads every conversation found at a source path.
type Importer interface {
	Name() string
	Read(src string) ([]Conversation, error)
}

// Options holds settings shared by the importers.
type Options struct {
	// Location renders unix timestamps. Defaults to time.Local.
	Location *time.Location
	// Encoding is the WHATWG label of plain text sources. Defaults to utf-8.
	Encoding string
	Log      *slog.Logger
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o Options) log() *slog.Logger {
	if o.Log == nil {
		return slog.Default()
	}
	return o.Log
}

// Result describes one written conversation.
type Result struct {
	Protocol models.Protocol
	Contact  string
	Messages int
	Files    []string
}

// Report summarizes an import.
type Report struct {
	Conversations []Result
	// Unfiled counts conversations skipped for lack of an account identity.
	Unfiled int
	// Invalid counts messages dropped for a non-canonical datetime.
	Invalid int
}

// Save writes each conversation under the account identity of its protocol.
// Conversations without an identity, or without valid messages, are not written.
func Save(w store.HistoryWriter, accounts map[models.Protocol]string, convs []Conversation, log *slog.Logger) (*Report, error) {
	if log == nil {
		log = slog.Default()
	}
	report := &Report{}
	for _, c := range convs {
		account, ok := accounts[c.Protocol]
		if !ok || account == "" {
			report.Unfiled++
			log.Debug("no account identity, conversation skipped", "protocol", c.Protocol, "contact", c.Contact)
			continue
		}
		msgs := make([]models.Message, 0, len(c.Messages))
		for _, m := range c.Messages {
			if err := m.Validate(); err != nil {
				report.Invalid++
				log.Debug("message skipped", "contact", c.Contact, "error", err)
				continue
			}
			msgs = append(msgs, m)
		}
		if len(msgs) == 0 {
			continue
		}
		logger.SetLastContact(c.Protocol.String() + " " + c.Contact)

		files, err := w.Write(c.Protocol, account, c.Contact, msgs)
		if err != nil {
			return report, fmt.Errorf("write %s contact %s: %w", c.Protocol, c.Contact, err)
		}
		log.Debug("contact converted", "protocol", c.Protocol, "contact", c.Contact, "messages", len(msgs))
		report.Conversations = append(report.Conversations, Result{
			Protocol: c.Protocol,
			Contact:  c.Contact,
			Messages: len(msgs),
			Files:    files,
		})
	}
	return report, nil
}

// group collects messages per contact, in first-seen contact order, each
// list sorted chronologically.
type group struct {
	proto models.Protocol
	order []string
	msgs  map[string][]models.Message
}

func newGroup(proto models.Protocol) *group {
	return &group{proto: proto, msgs: make(map[string][]models.Message)}
}

func (g *group) add(contact string, m models.Message) {
	if _, ok := g.msgs[contact]; !ok {
		g.order = append(g.order, contact)
	}
	g.msgs[contact] = append(g.msgs[contact], m)
}

func (g *group) conversations() []Conversation {
	out := make([]Conversation, 0, len(g.order))
	for _, contact := range g.order {
		msgs := g.msgs[contact]
		models.SortMessages(msgs)
		out = append(out, Conversation{Protocol: g.proto, Contact: contact, Messages: msgs})
	}
	return out
}

func sortedNames(names []string) []string {
	sort.Strings(names)
	return names
}
