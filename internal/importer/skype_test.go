package importer

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSkypeDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE Messages (
		id INTEGER PRIMARY KEY,
		chatname TEXT,
		author TEXT,
		timestamp INTEGER,
		body_xml TEXT
	)`)
	require.NoError(t, err)

	rows := []struct {
		chatname, author any
		ts               int64
		body             any
	}{
		{"#me.skype/$alice;1f2e", "alice", 1412157660, "second"},
		{"#me.skype/$alice;1f2e", "me.skype", 1412157600, "first"},
		{"#bob-b/$me.skype;77aa", "bob-b", 1412157700, nil},
		{nil, "alice", 1412157800, "system"},
		{"broken", "alice", 1412157900, "no participants"},
	}
	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO Messages (chatname, author, timestamp, body_xml) VALUES (?, ?, ?, ?)`,
			r.chatname, r.author, r.ts, r.body)
		require.NoError(t, err)
	}
	return path
}

func TestSkype_Read(t *testing.T) {
	path := setupSkypeDB(t)

	convs, err := NewSkype("me.skype", testOptions()).Read(path)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, Conversation{
		Protocol: models.ProtocolSkype,
		Contact:  "alice",
		Messages: []models.Message{
			{Datetime: "2014-10-01T10:00:00", Incoming: false, Text: "first"},
			{Datetime: "2014-10-01T10:01:00", Incoming: true, Text: "second"},
		},
	}, convs[0])

	assert.Equal(t, "bob-b", convs[1].Contact)
	require.Len(t, convs[1].Messages, 1)
	assert.True(t, convs[1].Messages[0].Incoming)
	assert.Equal(t, "", convs[1].Messages[0].Text)
}

func TestSkype_Errors(t *testing.T) {
	_, err := NewSkype("", testOptions()).Read("main.db")
	assert.ErrorIs(t, err, types.ErrNoIdentity)

	_, err = NewSkype("me", testOptions()).Read(filepath.Join(t.TempDir(), "missing.db"))
	var srcErr *types.SourceError
	assert.ErrorAs(t, err, &srcErr)
}
