package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DatetimeLayout is the canonical second-precision local timestamp format.
const DatetimeLayout = "2006-01-02T15:04:05"

// Message is the normalized record every source converts into.
// Field order matches the sorted JSON key order of the archive files.
type Message struct {
	Datetime string `json:"datetime" validate:"required,datetime=2006-01-02T15:04:05"`
	Incoming bool   `json:"in"`
	Text     string `json:"text"`
}

// NewMessage builds a Message from a point in time rendered in loc.
// Trailing whitespace of text is stripped.
func NewMessage(incoming bool, at time.Time, loc *time.Location, text string) Message {
	if loc != nil {
		at = at.In(loc)
	}
	return Message{
		Datetime: at.Format(DatetimeLayout),
		Incoming: incoming,
		Text:     strings.TrimRight(text, " \t\r\n\v\f"),
	}
}

// NewMessageFromUnix is NewMessage for a unix timestamp in seconds.
func NewMessageFromUnix(incoming bool, unix int64, loc *time.Location, text string) Message {
	return NewMessage(incoming, time.Unix(unix, 0), loc, text)
}

// NewMessageFromDatetime builds a Message from an already formatted datetime string.
func NewMessageFromDatetime(incoming bool, datetime string, text string) Message {
	return Message{
		Datetime: datetime,
		Incoming: incoming,
		Text:     strings.TrimRight(text, " \t\r\n\v\f"),
	}
}

var messageValidate = validator.New()

// Validate checks that the datetime is in canonical form.
func (m Message) Validate() error {
	if err := messageValidate.Struct(m); err != nil {
		return fmt.Errorf("invalid message %q: %w", m.Datetime, err)
	}
	return nil
}

// Bucket returns the YYYYMM partition key of the message.
func (m Message) Bucket() string {
	if len(m.Datetime) < 7 {
		return ""
	}
	return m.Datetime[0:4] + m.Datetime[5:7]
}

// SortMessages orders messages by datetime, keeping the relative order of equal timestamps.
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Datetime < msgs[j].Datetime })
}

// ContainsMessage reports whether msgs holds a message equal to m in every field.
func ContainsMessage(msgs []Message, m Message) bool {
	for _, x := range msgs {
		if x == m {
			return true
		}
	}
	return false
}

// BucketMessages partitions messages by year-month. Each bucket is sorted.
func BucketMessages(msgs []Message) map[string][]Message {
	buckets := make(map[string][]Message)
	for _, m := range msgs {
		key := m.Bucket()
		buckets[key] = append(buckets[key], m)
	}
	for _, b := range buckets {
		SortMessages(b)
	}
	return buckets
}
