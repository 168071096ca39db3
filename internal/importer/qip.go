package importer

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/afero"
)

const (
	qipIncoming = "--------------------------------------<-"
	qipOutgoing = "-------------------------------------->-"
	qipLayout   = "15:04:05 02/01/2006"
)

// qipHeader captures the last parenthesized group of "Name (21:57:03 10/12/2006)".
var qipHeader = regexp.MustCompile(`.*\((.*)\)`)

// QIP reads QIP text histories stored as <src>/<uin>/<contact uin>.txt.
type QIP struct {
	Options
	UIN string
	fs  afero.Fs
}

// NewQIP creates a QIP importer for the account uin.
func NewQIP(fs afero.Fs, uin string, opts Options) *QIP {
	return &QIP{Options: opts, UIN: uin, fs: fs}
}

func (q *QIP) Name() string { return "qip" }

func (q *QIP) Read(src string) ([]Conversation, error) {
	if q.UIN == "" {
		return nil, types.ErrNoIdentity
	}
	dir := filepath.Join(src, q.UIN)
	entries, err := afero.ReadDir(q.fs, dir)
	if err != nil {
		return nil, types.NewSourceError(dir, err)
	}

	var out []Conversation
	for _, e := range entries {
		name := e.Name()
		stem := name[:len(name)-len(filepath.Ext(name))]
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".txt") || !isNumeric(stem) {
			continue
		}
		path := filepath.Join(dir, name)
		text, err := readText(q.fs, path, q.Encoding)
		if err != nil {
			return nil, types.NewSourceError(path, err)
		}
		msgs := q.parse(text, path)
		models.SortMessages(msgs)
		out = append(out, Conversation{Protocol: models.ProtocolICQ, Contact: stem, Messages: msgs})
	}
	return out, nil
}

func (q *QIP) parse(text, path string) []models.Message {
	var (
		msgs     []models.Message
		header   string
		body     []string
		incoming bool
	)
	flush := func() {
		if header == "" || len(body) == 0 {
			return
		}
		m, ok := qipMessage(incoming, header, body)
		if !ok {
			q.log().Debug("message skipped", "file", path, "header", header)
			return
		}
		msgs = append(msgs, m)
	}

	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		line = strings.TrimRight(line, " \t\r")
		switch {
		case line == qipIncoming, line == qipOutgoing:
			flush()
			incoming = line == qipIncoming
			header, body = "", nil
		case header == "":
			header = line
		default:
			body = append(body, line)
		}
	}
	flush()
	return msgs
}

func qipMessage(incoming bool, header string, body []string) (models.Message, bool) {
	m := qipHeader.FindStringSubmatch(header)
	if m == nil {
		return models.Message{}, false
	}
	at, err := time.Parse(qipLayout, m[1])
	if err != nil {
		return models.Message{}, false
	}
	return models.NewMessage(incoming, at, nil, strings.Join(body, "\n")), true
}
