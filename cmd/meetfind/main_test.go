package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klokku/meetingfinder/pkg/meeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//meetingfinder//test//EN
BEGIN:VEVENT
UID:standup
DTSTART:20260310T090000Z
DTEND:20260310T093000Z
ATTENDEE:mailto:alice@example.com
END:VEVENT
BEGIN:VEVENT
UID:review
DTSTART:20260310T100000Z
DTEND:20260310T110000Z
ATTENDEE:mailto:bob@example.com
END:VEVENT
END:VCALENDAR
`

func TestFormatRange(t *testing.T) {
	assert.Equal(t, "00:00-09:00)", formatRange(meeting.FromStartEnd(0, 540, false)))
	assert.Equal(t, "17:05-24:00]", formatRange(meeting.FromStartEnd(1025, 1440, true)))
}

func TestSlotsCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "team.ics")
	require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(feed, "\n", "\r\n")), 0o600))

	var out bytes.Buffer
	err := newApp(&out).Run([]string{"meetfind",
		"--config", filepath.Join(dir, "missing.yaml"),
		"slots",
		"--ics", path,
		"--attendee", "alice@example.com",
		"--attendee", "bob@example.com",
		"--duration", "30",
		"--date", "2026-03-10",
		"--timezone", "UTC",
	})

	require.NoError(t, err)
	assert.Equal(t, "00:00-09:00)\n09:30-10:00)\n11:00-24:00]\n", out.String())
}

func TestSlotsCommand_RequiresAttendee(t *testing.T) {
	var out bytes.Buffer
	err := newApp(&out).Run([]string{"meetfind", "slots", "--duration", "30"})

	assert.Error(t, err)
}
