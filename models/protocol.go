package models

import (
	"fmt"
	"strings"
)

// Protocol identifies the network a piece of history belongs to.
type Protocol int

const (
	// ProtocolOther is the unclassified fallback.
	ProtocolOther Protocol = iota
	ProtocolICQ
	ProtocolJabber
	ProtocolVK
	ProtocolIRC
	ProtocolSkype
	ProtocolSMS
)

var protocolTags = map[Protocol]string{
	ProtocolOther:  "other",
	ProtocolICQ:    "icq",
	ProtocolJabber: "jabber",
	ProtocolVK:     "vk",
	ProtocolIRC:    "irc",
	ProtocolSkype:  "skype",
	ProtocolSMS:    "sms",
}

// Tag is the archive directory prefix, e.g. "icq" in history/icq.123456.
func (p Protocol) Tag() string {
	if tag, ok := protocolTags[p]; ok {
		return tag
	}
	return protocolTags[ProtocolOther]
}

func (p Protocol) String() string {
	return strings.ToUpper(p.Tag())
}

// ClassifyModule maps a source module tag (ICQ, JABBER, VKontakte, IRC, ...) to a Protocol.
// Unknown tags fall back to ProtocolOther.
func ClassifyModule(module string) Protocol {
	switch strings.ToUpper(strings.TrimSpace(module)) {
	case "ICQ":
		return ProtocolICQ
	case "JABBER", "XMPP":
		return ProtocolJabber
	case "VK", "VKONTAKTE":
		return ProtocolVK
	case "IRC":
		return ProtocolIRC
	case "SKYPE":
		return ProtocolSkype
	case "SMS":
		return ProtocolSMS
	default:
		return ProtocolOther
	}
}

// ParseProtocol resolves a tag or module name, rejecting anything unknown.
func ParseProtocol(name string) (Protocol, error) {
	p := ClassifyModule(name)
	if p == ProtocolOther && !strings.EqualFold(strings.TrimSpace(name), "other") {
		return ProtocolOther, fmt.Errorf("unknown protocol %q", name)
	}
	return p, nil
}

// ProtocolFromTag resolves an archive directory prefix back to a Protocol.
func ProtocolFromTag(tag string) (Protocol, bool) {
	for p, t := range protocolTags {
		if t == tag {
			return p, true
		}
	}
	return ProtocolOther, false
}
