package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyModule(t *testing.T) {
	tests := []struct {
		module string
		want   Protocol
	}{
		{"ICQ", ProtocolICQ},
		{"JABBER", ProtocolJabber},
		{"VKontakte", ProtocolVK},
		{"IRC", ProtocolIRC},
		{"MetaContacts", ProtocolOther},
		{"", ProtocolOther},
	}
	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyModule(tt.module))
		})
	}
}

func TestProtocol_TagRoundTrip(t *testing.T) {
	for _, p := range []Protocol{ProtocolOther, ProtocolICQ, ProtocolJabber, ProtocolVK, ProtocolIRC, ProtocolSkype, ProtocolSMS} {
		got, ok := ProtocolFromTag(p.Tag())
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}
	_, ok := ProtocolFromTag("msn")
	assert.False(t, ok)
}

func TestParseProtocol(t *testing.T) {
	p, err := ParseProtocol("irc")
	assert.NoError(t, err)
	assert.Equal(t, ProtocolIRC, p)

	p, err = ParseProtocol("other")
	assert.NoError(t, err)
	assert.Equal(t, ProtocolOther, p)

	_, err = ParseProtocol("gadu")
	assert.Error(t, err)
}
