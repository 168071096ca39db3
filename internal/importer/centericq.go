package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/afero"
)

// centericqFiles are the per-contact history files, read in this order.
var centericqFiles = []string{"history", "_history", "history_"}

// CenterICQ reads a CenterICQ profile directory. Each contact is a
// subdirectory: numeric names are ICQ contacts, names prefixed with "j" are
// Jabber contacts.
type CenterICQ struct {
	Options
	fs afero.Fs
}

// NewCenterICQ creates a CenterICQ importer on fs.
func NewCenterICQ(fs afero.Fs, opts Options) *CenterICQ {
	return &CenterICQ{Options: opts, fs: fs}
}

func (c *CenterICQ) Name() string { return "centericq" }

func (c *CenterICQ) Read(src string) ([]Conversation, error) {
	entries, err := afero.ReadDir(c.fs, src)
	if err != nil {
		return nil, types.NewSourceError(src, err)
	}

	var icq, jabber []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		switch name := e.Name(); {
		case isNumeric(name):
			icq = append(icq, name)
		case len(name) > 1 && name[0] == 'j':
			jabber = append(jabber, name)
		}
	}

	var out []Conversation
	for _, dir := range sortedNames(icq) {
		conv, err := c.readContact(filepath.Join(src, dir), models.ProtocolICQ, dir)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	for _, dir := range sortedNames(jabber) {
		conv, err := c.readContact(filepath.Join(src, dir), models.ProtocolJabber, dir[1:])
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, nil
}

func (c *CenterICQ) readContact(dir string, proto models.Protocol, contact string) (Conversation, error) {
	conv := Conversation{Protocol: proto, Contact: contact}
	for _, name := range centericqFiles {
		path := filepath.Join(dir, name)
		text, err := readText(c.fs, path, c.Encoding)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return conv, types.NewSourceError(path, err)
		}
		conv.Messages = append(conv.Messages, c.parse(text, path)...)
	}
	models.SortMessages(conv.Messages)
	return conv, nil
}

// parse splits a history file into form-feed separated records of the shape
//
//	IN|OUT
//	MSG
//	<ignored>
//	<unix timestamp>
//	<text>
func (c *CenterICQ) parse(text, path string) []models.Message {
	var msgs []models.Message
	for _, record := range strings.Split(text, "\x0c") {
		parts := strings.SplitN(strings.TrimSpace(record), "\n", 5)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) != 5 || !strings.EqualFold(parts[1], "MSG") {
			c.log().Debug("record skipped", "file", path, "head", parts[0])
			continue
		}
		ts, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			c.log().Debug("record skipped", "file", path, "error", fmt.Sprintf("bad timestamp %q", parts[3]))
			continue
		}
		msgs = append(msgs, models.NewMessageFromUnix(strings.EqualFold(parts[0], "IN"), ts, c.location(), parts[4]))
	}
	return msgs
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
