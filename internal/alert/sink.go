// Package alert delivers tile-tracker actions to a notification channel.
// No real Discord delivery is wired up; the console sink logs exactly what
// an outbound webhook call would have carried.
package alert

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Color mirrors a Discord embed color as a packed 0xRRGGBB integer.
type Color int

const (
	ColorSuspicion   Color = 0xF5A623 // amber
	ColorDegradation Color = 0xD0021B // red
)

// Sink delivers or updates an alert. Send opens a new incident and returns
// an opaque message reference the caller should keep for Update of the
// same incident; Update uses that reference to edit the existing message
// rather than spamming a new one per tick.
type Sink interface {
	Send(title, description string, color Color) (ref string, err error)
	Update(ref, title, description string, color Color) error
}

// ConsoleSink logs every call at info level instead of calling a webhook.
// It is the only Sink implementation bluescan ships; wiring a real webhook
// client is out of scope (no outbound network delivery is implemented).
type ConsoleSink struct {
	Log zerolog.Logger

	nextRef int
}

func NewConsoleSink(log zerolog.Logger) *ConsoleSink {
	return &ConsoleSink{Log: log}
}

func (s *ConsoleSink) Send(title, description string, color Color) (string, error) {
	s.nextRef++
	ref := formatRef(s.nextRef)
	s.Log.Info().
		Str("ref", ref).
		Str("title", title).
		Str("description", description).
		Str("color", formatColor(color)).
		Msg("alert: send")
	return ref, nil
}

func (s *ConsoleSink) Update(ref, title, description string, color Color) error {
	s.Log.Info().
		Str("ref", ref).
		Str("title", title).
		Str("description", description).
		Str("color", formatColor(color)).
		Msg("alert: update")
	return nil
}

func formatRef(n int) string {
	return fmt.Sprintf("msg-%x", n)
}

func formatColor(c Color) string {
	return fmt.Sprintf("#%06x", int(c))
}
