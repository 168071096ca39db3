package importer

import (
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/afero"
)

// SMS export dialects.
const (
	DialectSemicolon = "semicolon"
	DialectCSV       = "csv"
	DialectMPE       = "mpe"
	DialectSMSes     = "smses"
)

// Dialects lists the supported SMS dialects.
var Dialects = []string{DialectSemicolon, DialectCSV, DialectMPE, DialectSMSes}

const (
	smsDotLayout = "02.01.2006 15:04:05"
	smsCSVLayout = "2006.01.02"
)

// smsShortYears widens the two-digit years some phones wrote.
var smsShortYears = strings.NewReplacer(
	".04 ", ".2004 ", ".05 ", ".2005 ", ".06 ", ".2006 ",
	".07 ", ".2007 ", ".08 ", ".2008 ", ".09 ", ".2009 ",
)

var phoneNoise = strings.NewReplacer("+", "", " ", "", ">", "", "<", "")

// normalizePhone strips formatting so one number maps to one contact.
func normalizePhone(s string) string {
	return strings.TrimSpace(phoneNoise.Replace(s))
}

// SMS reads a single SMS export file in one of the supported dialects.
type SMS struct {
	Options
	Dialect string
	fs      afero.Fs
}

// NewSMS creates an SMS importer for the given dialect.
func NewSMS(fs afero.Fs, dialect string, opts Options) (*SMS, error) {
	for _, d := range Dialects {
		if d == dialect {
			return &SMS{Options: opts, Dialect: dialect, fs: fs}, nil
		}
	}
	return nil, fmt.Errorf("%w: sms dialect %q", types.ErrUnknownFormat, dialect)
}

func (s *SMS) Name() string { return "sms" }

func (s *SMS) Read(src string) ([]Conversation, error) {
	g := newGroup(models.ProtocolSMS)
	var err error
	switch s.Dialect {
	case DialectSemicolon:
		err = s.readSemicolon(src, g)
	case DialectCSV:
		err = s.readCSV(src, g)
	case DialectMPE:
		err = s.readMPE(src, g)
	case DialectSMSes:
		err = s.readSMSes(src, g)
	}
	if err != nil {
		return nil, types.NewSourceError(src, err)
	}
	return g.conversations(), nil
}

// readSemicolon handles "date;phone;name;text" lines. Every message is incoming.
func (s *SMS) readSemicolon(src string, g *group) error {
	text, err := readText(s.fs, src, s.Encoding)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		parts := strings.SplitN(strings.TrimRight(line, "\r"), ";", 4)
		if len(parts) < 4 {
			s.log().Debug("line skipped", "line", line)
			continue
		}
		at, err := time.Parse(smsDotLayout, smsShortYears.Replace(parts[0]))
		if err != nil {
			at = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		phone := strings.TrimSpace(strings.NewReplacer("'", "", "+", "").Replace(parts[1]))
		g.add(phone, models.NewMessage(true, at, nil, strings.TrimSpace(parts[3])))
	}
	return nil
}

// readCSV handles "from;to;text;YYYY.MM.DD" rows. Only the day is known, so
// each row is offset by its row number in seconds to keep file order.
func (s *SMS) readCSV(src string, g *group) error {
	text, err := readText(s.fs, src, s.Encoding)
	if err != nil {
		return err
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	n := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}
		n++
		if len(row) < 4 {
			s.log().Debug("row skipped", "row", n)
			continue
		}
		day, err := time.Parse(smsCSVLayout, strings.TrimSpace(row[3]))
		if err != nil {
			s.log().Debug("row skipped", "row", n, "date", row[3])
			continue
		}
		incoming := row[0] != ""
		party := row[1]
		if incoming {
			party = row[0]
		}
		phone, ok := bracketPhone(party)
		if !ok {
			s.log().Debug("row skipped", "row", n, "party", party)
			continue
		}
		at := day.Add(time.Duration(n) * time.Second)
		g.add(phone, models.NewMessage(incoming, at, nil, strings.TrimSpace(row[2])))
	}
}

// bracketPhone extracts the number from "Name [+7 900 000-00-00]".
func bracketPhone(s string) (string, bool) {
	i := strings.LastIndex(s, "[")
	if i < 0 {
		return "", false
	}
	inner := strings.TrimSuffix(strings.TrimSpace(s[i+1:]), "]")
	phone := normalizePhone(inner)
	return phone, phone != ""
}

type mpeSMS struct {
	From      *string `xml:"from"`
	To        *string `xml:"to"`
	Timestamp string  `xml:"timestamp"`
	Body      string  `xml:"body"`
}

// readMPE handles <mpe_messages><sms><from|to/><timestamp/><body/></sms>.
func (s *SMS) readMPE(src string, g *group) error {
	return s.eachSMS(src, "mpe_messages", func(d *xml.Decoder, start xml.StartElement) error {
		var m mpeSMS
		if err := d.DecodeElement(&m, &start); err != nil {
			return err
		}
		var phone string
		if m.From != nil {
			phone = normalizePhone(*m.From)
		}
		if m.To != nil {
			phone = normalizePhone(*m.To)
		}
		at, err := time.Parse(smsDotLayout, strings.TrimSpace(m.Timestamp))
		if phone == "" || err != nil {
			s.log().Debug("sms skipped", "timestamp", m.Timestamp)
			return nil
		}
		g.add(phone, models.NewMessage(m.From != nil, at, nil, strings.TrimSpace(m.Body)))
		return nil
	})
}

type smsesSMS struct {
	Address string `xml:"address,attr"`
	Date    string `xml:"date,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:"body,attr"`
}

// readSMSes handles the <smses><sms address date type body/></smses> backup
// format, where date is in unix milliseconds and type 1 marks a received message.
func (s *SMS) readSMSes(src string, g *group) error {
	return s.eachSMS(src, "smses", func(d *xml.Decoder, start xml.StartElement) error {
		var m smsesSMS
		if err := d.DecodeElement(&m, &start); err != nil {
			return err
		}
		ms, err := strconv.ParseInt(m.Date, 10, 64)
		phone := normalizePhone(m.Address)
		if phone == "" || err != nil {
			s.log().Debug("sms skipped", "address", m.Address, "date", m.Date)
			return nil
		}
		at := time.UnixMilli(ms)
		g.add(phone, models.NewMessage(m.Type == "1", at, s.location(), strings.TrimSpace(m.Body)))
		return nil
	})
}

// eachSMS calls fn for every <sms> element nested in a container element.
func (s *SMS) eachSMS(src, container string, fn func(*xml.Decoder, xml.StartElement) error) error {
	f, err := s.fs.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	d := newXMLDecoder(f)
	depth := 0
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == container {
				depth++
			} else if t.Name.Local == "sms" && depth > 0 {
				if err := fn(d, t); err != nil {
					return fmt.Errorf("decode sms: %w", err)
				}
			}
		case xml.EndElement:
			if t.Name.Local == container {
				depth--
			}
		}
	}
}
