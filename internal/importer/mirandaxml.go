package importer

import (
	"encoding/xml"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/afero"
)

// mirandaXMLName matches export names such as "Full History [Bob] - [0987654321].xml".
var mirandaXMLName = regexp.MustCompile(`- \[([^\]]*)\]$`)

// mirandaXMLDateLayouts are the accepted DATE "T" TIME combinations.
var mirandaXMLDateLayouts = []string{
	models.DatetimeLayout,
	"02.01.2006T15:04:05",
}

type mirandaXMLEvent struct {
	Date    string `xml:"DATE"`
	Time    string `xml:"TIME"`
	ID      string `xml:"ID"`
	Type    string `xml:"TYPE"`
	Message string `xml:"MESSAGE"`
}

// MirandaXML reads per-contact Miranda XML exports for one ICQ account.
type MirandaXML struct {
	Options
	UIN string
	fs  afero.Fs
}

// NewMirandaXML creates a Miranda XML importer for the account uin.
func NewMirandaXML(fs afero.Fs, uin string, opts Options) *MirandaXML {
	return &MirandaXML{Options: opts, UIN: uin, fs: fs}
}

func (m *MirandaXML) Name() string { return "miranda-xml" }

func (m *MirandaXML) Read(src string) ([]Conversation, error) {
	if m.UIN == "" {
		return nil, types.ErrNoIdentity
	}
	entries, err := afero.ReadDir(m.fs, src)
	if err != nil {
		return nil, types.NewSourceError(src, err)
	}

	var out []Conversation
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".xml") {
			continue
		}
		match := mirandaXMLName.FindStringSubmatch(strings.TrimSuffix(name, filepath.Ext(name)))
		if match == nil || !isNumeric(match[1]) {
			continue
		}
		path := filepath.Join(src, name)
		m.log().Debug("reading export", "file", path)

		msgs, err := m.readFile(path)
		if err != nil {
			return nil, types.NewSourceError(path, err)
		}
		models.SortMessages(msgs)
		out = append(out, Conversation{Protocol: models.ProtocolICQ, Contact: match[1], Messages: msgs})
	}
	return out, nil
}

// readFile decodes every EVENT nested in an IMHISTORY element.
func (m *MirandaXML) readFile(path string) ([]models.Message, error) {
	f, err := m.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		msgs  []models.Message
		depth int
	)
	d := newXMLDecoder(f)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return msgs, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "IMHISTORY":
				depth++
			case t.Name.Local == "EVENT" && depth > 0:
				var ev mirandaXMLEvent
				if err := d.DecodeElement(&ev, &t); err != nil {
					return nil, err
				}
				msg, ok := m.message(ev)
				if !ok {
					m.log().Debug("event skipped", "file", path, "date", ev.Date, "time", ev.Time, "id", ev.ID, "type", ev.Type)
					continue
				}
				msgs = append(msgs, msg)
			}
		case xml.EndElement:
			if t.Name.Local == "IMHISTORY" {
				depth--
			}
		}
	}
}

func (m *MirandaXML) message(ev mirandaXMLEvent) (models.Message, bool) {
	if ev.Date == "" || ev.Time == "" || ev.ID == "" || ev.Message == "" {
		return models.Message{}, false
	}
	stamp := strings.TrimSpace(ev.Date) + "T" + strings.TrimSpace(ev.Time)
	for _, layout := range mirandaXMLDateLayouts {
		if at, err := time.Parse(layout, stamp); err == nil {
			return models.NewMessage(strings.TrimSpace(ev.ID) != m.UIN, at, nil, ev.Message), true
		}
	}
	return models.Message{}, false
}
