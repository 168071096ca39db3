package miranda

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/josephgoksu/qutimport/internal/chain"
	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{
 "accounts": {"icq": {"uin": 111}, "jabber": {"jid": "me@jabber.org"}},
 "contacts": [
  {"id": 10, "first_event_id": 1, "first_unread_event_id": 1, "last_event_id": 2, "settings": {"icq": {"uin": 222}}},
  {"id": 11, "first_event_id": 3, "last_event_id": 3, "settings": {"jabber": {"jid": "friend_1@jabber.org"}}},
  {"id": 12, "settings": {"vk": {"id": 555}}},
  {"settings": {"icq": {"uin": 999}}}
 ],
 "events": [
  {"id": 1, "prev_id": null, "next_id": 2, "module_name": "ICQ", "incomming": true, "timestamp": 1412157600, "text": "hi  "},
  {"id": 2, "previous_id": 1, "module_name": "ICQ", "incoming": false, "timestamp": 1412157660, "text": "hello"},
  {"id": 3, "module_name": "JABBER", "direction": "in", "timestamp": 1412244000, "text": "ping"},
  {"id": 4, "module_name": "IRC", "incomming": true, "timestamp": 1412164800, "text": "irc"},
  {"id": 5, "next_id": 6, "module_name": "ICQ", "incomming": true, "timestamp": 1412164800, "text": "lost a"},
  {"id": 6, "prev_id": 5, "module_name": "ICQ", "incomming": false, "timestamp": 1412164860, "text": "lost b"},
  {"module_name": "ICQ", "timestamp": 1412164860, "text": "no id"},
  {"id": 8, "module_name": "ICQ", "text": "no timestamp"}
 ]
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse_Fixture(t *testing.T) {
	doc, err := Parse([]byte(fixture))
	require.NoError(t, err)

	assert.Equal(t, Accounts{models.ProtocolICQ: "111", models.ProtocolJabber: "me@jabber.org"}, doc.Accounts)
	assert.Len(t, doc.Contacts, 3)
	assert.Len(t, doc.Events, 6)
	assert.Equal(t, 3, doc.Skipped)

	c := doc.Contacts[1]
	assert.Equal(t, chain.EventID(3), c.Anchors.First)
	assert.Equal(t, chain.NoEvent, c.Anchors.FirstUnread)
	assert.Equal(t, "friend_1@jabber.org", c.Identities[models.ProtocolJabber])

	assert.Equal(t, chain.EventID(1), doc.Events[1].PrevID, "previous_id alias")
	assert.Equal(t, chain.NoEvent, doc.Events[0].PrevID)
	assert.True(t, doc.Events[0].Incoming)
	assert.False(t, doc.Events[1].Incoming, "incoming alias")
	assert.True(t, doc.Events[2].Incoming, "direction alias")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`{"events": [`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, err = Parse([]byte(`[1, 2]`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestParse_DirectionFlags(t *testing.T) {
	doc, err := Parse([]byte(`{"events": [
		{"id": 1, "timestamp": 1, "direction": 0},
		{"id": 2, "timestamp": 1, "direction": 2},
		{"id": 3, "timestamp": 1, "direction": "out"}
	]}`))
	require.NoError(t, err)
	require.Len(t, doc.Events, 3)
	assert.True(t, doc.Events[0].Incoming)
	assert.False(t, doc.Events[1].Incoming)
	assert.False(t, doc.Events[2].Incoming)
}

func TestDocument_ContactsFor(t *testing.T) {
	doc, err := Parse([]byte(fixture))
	require.NoError(t, err)

	assert.Len(t, doc.ContactsFor(models.ProtocolICQ), 1)
	assert.Len(t, doc.ContactsFor(models.ProtocolVK), 1)
	assert.Empty(t, doc.ContactsFor(models.ProtocolIRC))
}

func TestConverter_Run(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := store.NewHistoryStore(fs)
	require.NoError(t, s.Initialize(map[string]string{"rootDir": "/out"}))

	doc, err := Parse([]byte(fixture))
	require.NoError(t, err)

	conv := NewConverter(s, quietLogger(), Options{
		FirstSeq:   100,
		Location:   time.UTC,
		Discard:    []models.Protocol{models.ProtocolIRC},
		FixedPoint: true,
	})
	report, err := conv.Run(doc)
	require.NoError(t, err)

	assert.Equal(t, 6, report.Events)
	require.Len(t, report.Contacts, 2)
	assert.Equal(t, ContactResult{
		Protocol: models.ProtocolICQ,
		Contact:  "222",
		Messages: 2,
		Files:    []string{"/out/history/icq.111/222.201410.json"},
	}, report.Contacts[0])
	assert.Equal(t, "friend_1@jabber.org", report.Contacts[1].Contact)

	assert.Equal(t, map[models.Protocol]int{models.ProtocolICQ: 2, models.ProtocolIRC: 1}, report.Lost)
	assert.Equal(t, 3, report.LostTotal)

	require.Len(t, report.Chains, 2)
	assert.Equal(t, 100, report.Chains[0].Seq)
	assert.Equal(t, models.ProtocolICQ, report.Chains[0].Protocol)
	assert.False(t, report.Chains[0].Discarded)
	assert.Equal(t, []string{"/out/history/icq.unknow/100.201410.json"}, report.Chains[0].Files)
	assert.Equal(t, 101, report.Chains[1].Seq)
	assert.True(t, report.Chains[1].Discarded)
	assert.Empty(t, report.Chains[1].Files)

	msgs, err := s.Load("/out/history/icq.111/222.201410.json")
	require.NoError(t, err)
	assert.Equal(t, []models.Message{
		{Datetime: "2014-10-01T10:00:00", Incoming: true, Text: "hi"},
		{Datetime: "2014-10-01T10:01:00", Incoming: false, Text: "hello"},
	}, msgs)

	lost, err := s.Load("/out/history/icq.unknow/100.201410.json")
	require.NoError(t, err)
	require.Len(t, lost, 2)
	assert.Equal(t, "lost a", lost[0].Text)
	assert.Equal(t, "lost b", lost[1].Text)

	exists, err := afero.DirExists(fs, "/out/history/irc.unknow")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestConverter_TwoEventScenario(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := store.NewHistoryStore(fs)
	require.NoError(t, s.Initialize(map[string]string{"rootDir": "/out"}))

	doc, err := Parse([]byte(`{
		"accounts": {"icq": {"uin": 1}},
		"contacts": [{"id": 9, "first_event_id": 1, "first_unread_event_id": 1, "last_event_id": 2, "settings": {"icq": {"uin": 2}}}],
		"events": [
			{"id": 2, "prev_id": 1, "module_name": "ICQ", "incomming": false, "timestamp": 1412157660, "text": "second"},
			{"id": 1, "next_id": 2, "module_name": "ICQ", "incomming": true, "timestamp": 1412157600, "text": "first"}
		]}`))
	require.NoError(t, err)

	report, err := NewConverter(s, quietLogger(), Options{Location: time.UTC}).Run(doc)
	require.NoError(t, err)
	require.Len(t, report.Contacts, 1)
	require.Len(t, report.Contacts[0].Files, 1)
	assert.Zero(t, report.LostTotal)
	assert.Empty(t, report.Chains)

	msgs, err := s.Load(report.Contacts[0].Files[0])
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
}

type recordingWriter struct {
	writes map[string]int
	err    error
}

func (w *recordingWriter) Initialize(map[string]string) error { return nil }

func (w *recordingWriter) Write(proto models.Protocol, account, contact string, msgs []models.Message) ([]string, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.writes == nil {
		w.writes = make(map[string]int)
	}
	w.writes[proto.Tag()+"."+account+"/"+contact] += len(msgs)
	return nil, nil
}

func TestConverter_EveryEventWrittenOnce(t *testing.T) {
	doc, err := Parse([]byte(fixture))
	require.NoError(t, err)

	w := &recordingWriter{}
	report, err := NewConverter(w, quietLogger(), Options{FirstSeq: 1, LostAccount: "lost"}).Run(doc)
	require.NoError(t, err)

	total := 0
	for _, n := range w.writes {
		total += n
	}
	// Nothing is discarded without a policy, so every decoded event is written.
	assert.Equal(t, report.Events, total)
	assert.Equal(t, 1, w.writes["irc.lost/2"])
	assert.Equal(t, 2, w.writes["icq.lost/1"])
}

func TestConverter_WriteErrorAborts(t *testing.T) {
	doc, err := Parse([]byte(fixture))
	require.NoError(t, err)

	_, err = NewConverter(&recordingWriter{err: assert.AnError}, quietLogger(), Options{}).Run(doc)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestEventsToMessages_Sorted(t *testing.T) {
	msgs := EventsToMessages([]chain.Event{
		{ID: 2, Timestamp: 1412157660, Text: "b"},
		{ID: 1, Timestamp: 1412157600, Text: "a", Incoming: true},
	}, time.UTC)
	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].Text)
	assert.True(t, msgs[0].Incoming)
}
