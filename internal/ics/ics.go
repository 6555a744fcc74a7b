// Package ics writes RFC 5545 calendar objects for booked calls.
package ics

import (
	"bytes"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MethodRequest = "REQUEST"
	MethodCancel  = "CANCEL"

	prodID        = "-//ZhenGrowth//Booking//EN"
	maxLineOctets = 75
	utcStamp      = "20060102T150405Z"
)

type Event struct {
	UID         string
	Sequence    int
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Stamp       time.Time
	Organizer   Person
	Attendee    Person
	Canceled    bool
}

type Person struct {
	Name  string
	Email string
}

// Write renders a single-event VCALENDAR with CRLF line endings.
func Write(method string, ev Event) []byte {
	var buf bytes.Buffer
	w := func(name, value string) {
		writeFolded(&buf, name+":"+value)
	}

	w("BEGIN", "VCALENDAR")
	w("VERSION", "2.0")
	w("PRODID", prodID)
	w("CALSCALE", "GREGORIAN")
	w("METHOD", method)
	w("BEGIN", "VEVENT")
	w("UID", ev.UID)
	w("SEQUENCE", strconv.Itoa(ev.Sequence))
	w("DTSTAMP", ev.Stamp.UTC().Format(utcStamp))
	w("DTSTART", ev.Start.UTC().Format(utcStamp))
	w("DTEND", ev.End.UTC().Format(utcStamp))
	w("SUMMARY", EscapeText(ev.Summary))
	if ev.Description != "" {
		w("DESCRIPTION", EscapeText(ev.Description))
	}
	if ev.Location != "" {
		w("LOCATION", EscapeText(ev.Location))
	}
	if ev.Organizer.Email != "" {
		writeFolded(&buf, "ORGANIZER"+cnParam(ev.Organizer.Name)+":mailto:"+ev.Organizer.Email)
	}
	if ev.Attendee.Email != "" {
		writeFolded(&buf, "ATTENDEE"+cnParam(ev.Attendee.Name)+";ROLE=REQ-PARTICIPANT;RSVP=TRUE:mailto:"+ev.Attendee.Email)
	}
	if ev.Canceled {
		w("STATUS", "CANCELLED")
	} else {
		w("STATUS", "CONFIRMED")
	}
	w("END", "VEVENT")
	w("END", "VCALENDAR")
	return buf.Bytes()
}

// EscapeText escapes a TEXT property value.
func EscapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
		"\r", `\n`,
	)
	return r.Replace(s)
}

func cnParam(name string) string {
	if name == "" {
		return ""
	}
	// quoted param values admit neither DQUOTE nor control characters
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '"':
			return '\''
		case r < 0x20 || r == 0x7f:
			return ' '
		}
		return r
	}, name)
	return `;CN="` + clean + `"`
}

// writeFolded splits a content line into chunks of at most 75 octets,
// continuation lines starting with a single space, never splitting a rune.
func writeFolded(buf *bytes.Buffer, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		buf.WriteString(line[:cut])
		buf.WriteString("\r\n ")
		line = line[cut:]
		// the leading space counts toward the next line
		limit = maxLineOctets - 1
	}
	buf.WriteString(line)
	buf.WriteString("\r\n")
}
