// Package miranda reads Miranda JSON history exports, where every event of
// every contact lives in one flat, pointer-linked event list.
package miranda

import (
	"errors"
	"strings"

	"github.com/josephgoksu/qutimport/internal/chain"
	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// ErrInvalidDocument is returned when the input is not a JSON document.
var ErrInvalidDocument = errors.New("invalid miranda json document")

// RegistrationOrder is the order protocols are processed in. Contacts of an
// earlier protocol claim shared fragments first.
var RegistrationOrder = []models.Protocol{models.ProtocolVK, models.ProtocolICQ, models.ProtocolJabber}

// identityPaths locate the user's own identity per protocol.
var identityPaths = map[models.Protocol]string{
	models.ProtocolICQ:    "accounts.icq.uin",
	models.ProtocolJabber: "accounts.jabber.jid",
	models.ProtocolVK:     "accounts.vk.useremail",
}

// contactSettings locate a contact's identity per protocol, relative to the contact.
var contactSettings = map[models.Protocol]string{
	models.ProtocolICQ:    "settings.icq.uin",
	models.ProtocolJabber: "settings.jabber.jid",
	models.ProtocolVK:     "settings.vk.id",
}

// Accounts maps a protocol to the user's identity on it.
type Accounts map[models.Protocol]string

// Contact is one entry of the contact list with its anchors into the event pool.
type Contact struct {
	ID         chain.EventID
	Anchors    chain.Anchors
	Identities map[models.Protocol]string
}

// Document is a decoded export.
type Document struct {
	Accounts Accounts
	Contacts []Contact
	Events   []chain.Event
	// Skipped counts malformed contact and event records.
	Skipped int
}

// ContactsFor returns, in document order, the contacts holding an identity on proto.
func (d *Document) ContactsFor(proto models.Protocol) []Contact {
	var out []Contact
	for _, c := range d.Contacts {
		if _, ok := c.Identities[proto]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Load reads and parses a document from fs.
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, types.NewSourceError(path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, types.NewSourceError(path, err)
	}
	return doc, nil
}

// Parse decodes a document. Records without an id (or events without a
// timestamp) are skipped and counted.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidDocument
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrInvalidDocument
	}

	doc := &Document{Accounts: Accounts{}}
	for proto, path := range identityPaths {
		if v := root.Get(path); present(v) && v.String() != "" {
			doc.Accounts[proto] = v.String()
		}
	}

	root.Get("contacts").ForEach(func(_, item gjson.Result) bool {
		c, ok := parseContact(item)
		if !ok {
			doc.Skipped++
			return true
		}
		doc.Contacts = append(doc.Contacts, c)
		return true
	})

	root.Get("events").ForEach(func(_, item gjson.Result) bool {
		e, ok := parseEvent(item)
		if !ok {
			doc.Skipped++
			return true
		}
		doc.Events = append(doc.Events, e)
		return true
	})

	return doc, nil
}

func present(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

func eventID(v gjson.Result) chain.EventID {
	if !present(v) {
		return chain.NoEvent
	}
	return chain.EventID(v.Int())
}

// first returns the first present field among the given aliases.
func first(item gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := item.Get(p); present(v) {
			return v
		}
	}
	return gjson.Result{}
}

func parseContact(item gjson.Result) (Contact, bool) {
	id := item.Get("id")
	if !present(id) {
		return Contact{}, false
	}
	c := Contact{
		ID: chain.EventID(id.Int()),
		Anchors: chain.Anchors{
			ContactID:   chain.EventID(id.Int()),
			First:       eventID(item.Get("first_event_id")),
			FirstUnread: eventID(item.Get("first_unread_event_id")),
			Last:        eventID(item.Get("last_event_id")),
		},
		Identities: make(map[models.Protocol]string),
	}
	for proto, path := range contactSettings {
		if v := item.Get(path); present(v) && v.String() != "" {
			c.Identities[proto] = v.String()
		}
	}
	return c, true
}

func parseEvent(item gjson.Result) (chain.Event, bool) {
	id := item.Get("id")
	ts := item.Get("timestamp")
	if !present(id) || !present(ts) {
		return chain.Event{}, false
	}
	return chain.Event{
		ID:        chain.EventID(id.Int()),
		PrevID:    eventID(first(item, "prev_id", "previous_id")),
		NextID:    eventID(item.Get("next_id")),
		Module:    item.Get("module_name").String(),
		Incoming:  incoming(item),
		Timestamp: ts.Int(),
		Text:      item.Get("text").String(),
	}, true
}

// dbefSent is the Miranda event flag for messages the user sent.
const dbefSent = 2

func incoming(item gjson.Result) bool {
	if v := first(item, "incomming", "incoming"); present(v) {
		return v.Bool()
	}
	dir := item.Get("direction")
	switch dir.Type {
	case gjson.String:
		switch strings.ToLower(dir.String()) {
		case "in", "incoming", "recv", "received":
			return true
		}
		return false
	case gjson.Number:
		return dir.Int()&dbefSent == 0
	case gjson.True, gjson.False:
		return dir.Bool()
	}
	return false
}
