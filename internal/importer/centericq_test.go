package importer

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Location: time.UTC,
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func TestCenterICQ_Read(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/cicq/222/history",
		"\x0cIN\nMSG\n1412157600\n1412157600\nhello\nsecond line\n"+
			"\x0cOUT\nmsg\n1412157660\n1412157660\nreply  \n"+
			"\x0cIN\nAUTH\n1412157700\n1412157700\nskipped\n"+
			"\x0cIN\nMSG\n1\n")
	writeFile(t, fs, "/cicq/222/_history", "\x0cIN\nMSG\n0\n1412150000\nolder\n")
	writeFile(t, fs, "/cicq/jfriend@jabber.org/history", "\x0cIN\nMSG\n0\n1412244000\nping\n")
	writeFile(t, fs, "/cicq/config", "not a contact")
	require.NoError(t, fs.MkdirAll("/cicq/empty-dir", 0755))

	convs, err := NewCenterICQ(fs, testOptions()).Read("/cicq")
	require.NoError(t, err)
	require.Len(t, convs, 2)

	icq := convs[0]
	assert.Equal(t, models.ProtocolICQ, icq.Protocol)
	assert.Equal(t, "222", icq.Contact)
	assert.Equal(t, []models.Message{
		{Datetime: "2014-10-01T07:53:20", Incoming: true, Text: "older"},
		{Datetime: "2014-10-01T10:00:00", Incoming: true, Text: "hello\nsecond line"},
		{Datetime: "2014-10-01T10:01:00", Incoming: false, Text: "reply"},
	}, icq.Messages)

	jabber := convs[1]
	assert.Equal(t, models.ProtocolJabber, jabber.Protocol)
	assert.Equal(t, "friend@jabber.org", jabber.Contact)
	require.Len(t, jabber.Messages, 1)
	assert.Equal(t, "2014-10-02T10:00:00", jabber.Messages[0].Datetime)
}

func TestCenterICQ_Encoding(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/cicq/222/history", "\x0cIN\nMSG\n0\n1412157600\n\xef\xf0\xe8\xe2\xe5\xf2\n")

	opts := testOptions()
	opts.Encoding = "windows-1251"
	convs, err := NewCenterICQ(fs, opts).Read("/cicq")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	require.Len(t, convs[0].Messages, 1)
	assert.Equal(t, "привет", convs[0].Messages[0].Text)
}

func TestCenterICQ_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := NewCenterICQ(fs, testOptions()).Read("/missing")
	var srcErr *types.SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "/missing", srcErr.Path)

	writeFile(t, fs, "/cicq/222/history", "x")
	opts := testOptions()
	opts.Encoding = "no-such-charset"
	_, err = NewCenterICQ(fs, opts).Read("/cicq")
	assert.ErrorIs(t, err, types.ErrUnknownEncoding)
}
