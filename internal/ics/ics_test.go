package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhengrowth/growth-api/internal/entity"
)

func TestEscapeText(t *testing.T) {
	assert.Equal(t, `a\, b\; c\\d\ne`, EscapeText("a, b; c\\d\ne"))
	assert.Equal(t, `line\nline`, EscapeText("line\r\nline"))
}

func TestWriteFoldsLongLines(t *testing.T) {
	ev := Event{
		UID:     "x@zhengrowth.com",
		Summary: strings.Repeat("长", 60), // 3 octets per rune
		Start:   time.Date(2026, 11, 2, 15, 0, 0, 0, time.UTC),
		End:     time.Date(2026, 11, 2, 16, 0, 0, 0, time.UTC),
		Stamp:   time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
	}
	out := string(Write(MethodRequest, ev))

	require.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 75, "line too long: %q", l)
		assert.True(t, strings.ToValidUTF8(l, "?") == l, "rune split in %q", l)
	}

	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	assert.Contains(t, unfolded, "SUMMARY:"+strings.Repeat("长", 60)+"\r\n")
}

func TestBookingInvite(t *testing.T) {
	b := &entity.Booking{
		ID:       "b-1",
		Name:     "Mei Lin",
		Email:    "mei@example.com",
		Topic:    "Career clarity",
		StartsAt: time.Date(2026, 11, 2, 23, 30, 0, 0, time.FixedZone("CST", 8*3600)),
		EndsAt:   time.Date(2026, 11, 3, 0, 30, 0, 0, time.FixedZone("CST", 8*3600)),
		Timezone: "Asia/Shanghai",
		Status:   entity.BookingConfirmed,
	}
	org := Organizer{Name: "ZhenGrowth", Email: "coach@zhengrowth.com", Domain: "zhengrowth.com"}
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	out := string(BookingInvite(b, org, now))
	assert.Contains(t, out, "METHOD:REQUEST\r\n")
	assert.Contains(t, out, "UID:b-1@zhengrowth.com\r\n")
	assert.Contains(t, out, "DTSTART:20261102T153000Z\r\n")
	assert.Contains(t, out, "DTEND:20261102T163000Z\r\n")
	assert.Contains(t, out, "SEQUENCE:0\r\n")
	assert.Contains(t, out, "STATUS:CONFIRMED\r\n")
	assert.Contains(t, out, `ATTENDEE;CN="Mei Lin";ROLE=REQ-PARTICIPANT;RSVP=TRUE:mailto:mei@example.com`)

	b.Status = entity.BookingCanceled
	out = string(BookingInvite(b, org, now))
	assert.Contains(t, out, "METHOD:CANCEL\r\n")
	assert.Contains(t, out, "STATUS:CANCELLED\r\n")
	assert.Contains(t, out, "SEQUENCE:1\r\n")
}

func TestCNParamCannotBreakContentLines(t *testing.T) {
	b := &entity.Booking{
		ID:       "b-2",
		Name:     "Ana\r\nATTENDEE;ROLE=CHAIR:mailto:evil@attacker.test\r\nX-INJECTED:1",
		Email:    "ana@example.com",
		Topic:    "Discovery call",
		StartsAt: time.Date(2026, 11, 2, 15, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 11, 2, 15, 30, 0, 0, time.UTC),
		Timezone: "UTC",
		Status:   entity.BookingConfirmed,
	}
	org := Organizer{Name: "Zhen \"Coach\"\x7f", Email: "coach@zhengrowth.com", Domain: "zhengrowth.com"}

	out := string(BookingInvite(b, org, time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)))

	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	for _, l := range strings.Split(strings.TrimSuffix(unfolded, "\r\n"), "\r\n") {
		assert.False(t, strings.HasPrefix(l, "X-INJECTED"), "injected line %q", l)
		assert.NotEqual(t, "ATTENDEE;ROLE=CHAIR:mailto:evil@attacker.test", l)
		assert.NotContains(t, l, "\r")
		assert.NotContains(t, l, "\n")
	}
	assert.Equal(t, 1, strings.Count(unfolded, "\r\nATTENDEE"))
	assert.Contains(t, unfolded, `ORGANIZER;CN="Zhen 'Coach' ":mailto:coach@zhengrowth.com`)

	for _, l := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(l), 75, "line too long: %q", l)
	}
}
