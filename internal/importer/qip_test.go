package importer

import (
	"testing"

	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const qipHistory = `--------------------------------------<-
Bob (21:57:03 10/12/2006)
hi there
how are you?

-------------------------------------->-
Me (21:58:00 10/12/2006)
fine
--------------------------------------<-
Bob (22:00:00 10/12/2006)
-------------------------------------->-
Me (broken)
lost
--------------------------------------<-
Bob (nick) (23:00:00 10/12/2006)
bye
`

func TestQIP_Read(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/qip/111/222.txt", qipHistory)
	writeFile(t, fs, "/qip/111/333.TXT", "")
	writeFile(t, fs, "/qip/111/notes.txt", qipHistory)
	writeFile(t, fs, "/qip/999/444.txt", qipHistory)

	convs, err := NewQIP(fs, "111", testOptions()).Read("/qip")
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, "222", convs[0].Contact)
	assert.Equal(t, models.ProtocolICQ, convs[0].Protocol)
	assert.Equal(t, []models.Message{
		{Datetime: "2006-12-10T21:57:03", Incoming: true, Text: "hi there\nhow are you?"},
		{Datetime: "2006-12-10T21:58:00", Incoming: false, Text: "fine"},
		{Datetime: "2006-12-10T23:00:00", Incoming: true, Text: "bye"},
	}, convs[0].Messages)

	assert.Equal(t, "333", convs[1].Contact)
	assert.Empty(t, convs[1].Messages)
}

func TestQIP_CRLF(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/qip/111/222.txt", "-------------------------------------->-\r\nMe (08:00:00 01/02/2010)\r\nmorning\r\n")

	convs, err := NewQIP(fs, "111", testOptions()).Read("/qip")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, []models.Message{{Datetime: "2010-02-01T08:00:00", Incoming: false, Text: "morning"}}, convs[0].Messages)
}

func TestQIP_RequiresUIN(t *testing.T) {
	_, err := NewQIP(afero.NewMemMapFs(), "", testOptions()).Read("/qip")
	assert.ErrorIs(t, err, types.ErrNoIdentity)
}
