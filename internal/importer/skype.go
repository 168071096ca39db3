package importer

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/types"

	_ "modernc.org/sqlite" // SQLite driver
)

const skypeQuery = `SELECT chatname, author, timestamp, body_xml, id FROM Messages`

// Skype reads the Messages table of a Skype main.db.
type Skype struct {
	Options
	ID string
}

// NewSkype creates a Skype importer for the account id.
func NewSkype(id string, opts Options) *Skype {
	return &Skype{Options: opts, ID: id}
}

func (s *Skype) Name() string { return "skype" }

// Read opens the database at src read-only. Rows without a chat name are skipped.
func (s *Skype) Read(src string) ([]Conversation, error) {
	if s.ID == "" {
		return nil, types.ErrNoIdentity
	}
	if _, err := os.Stat(src); err != nil {
		return nil, types.NewSourceError(src, err)
	}

	db, err := sql.Open("sqlite", src)
	if err != nil {
		return nil, types.NewSourceError(src, fmt.Errorf("open database: %w", err))
	}
	defer db.Close()

	if _, err := db.Exec("PRAGMA query_only = ON"); err != nil {
		return nil, types.NewSourceError(src, fmt.Errorf("set query_only: %w", err))
	}

	rows, err := db.Query(skypeQuery)
	if err != nil {
		return nil, types.NewSourceError(src, fmt.Errorf("query messages: %w", err))
	}
	defer rows.Close()

	g := newGroup(models.ProtocolSkype)
	for rows.Next() {
		var (
			chatname, author, body sql.NullString
			ts                     sql.NullInt64
			id                     int64
		)
		if err := rows.Scan(&chatname, &author, &ts, &body, &id); err != nil {
			return nil, types.NewSourceError(src, fmt.Errorf("scan message: %w", err))
		}
		if !chatname.Valid || !ts.Valid {
			s.log().Debug("message skipped", "id", id)
			continue
		}
		contact, ok := s.contact(chatname.String)
		if !ok {
			s.log().Debug("message skipped", "id", id, "chatname", chatname.String)
			continue
		}
		g.add(contact, models.NewMessageFromUnix(author.String != s.ID, ts.Int64, s.location(), body.String))
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewSourceError(src, err)
	}
	return g.conversations(), nil
}

// contact picks the other participant of a chat named "#alice/$bob;<hash>".
func (s *Skype) contact(chatname string) (string, bool) {
	head, _, _ := strings.Cut(chatname, ";")
	a, b, ok := strings.Cut(head, "/")
	if !ok || len(a) < 2 || len(b) < 2 || strings.Contains(b, "/") {
		return "", false
	}
	a, b = a[1:], b[1:]
	if a == s.ID {
		return b, true
	}
	return a, true
}
