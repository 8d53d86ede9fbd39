package minicodelab

import (
	"context"
	"fmt"

	"github.com/eringen/minicodelab/calendar"
)

// CalendarSource fetches the Notion calendar database.
type CalendarSource = calendar.Querier

// CoverMirror copies a remote cover somewhere it will not expire and returns
// the new URL.
type CoverMirror interface {
	Mirror(ctx context.Context, owner, rawURL string) (string, error)
}

// CalendarProps feeds the calendar page.
type CalendarProps struct {
	Entries []calendar.Calendar
}

func generateCalendar(src CalendarSource, m CoverMirror) GenerateFunc[CalendarProps] {
	return func(ctx context.Context) (CalendarProps, error) {
		entries, err := calendar.Load(ctx, src)
		if err != nil {
			return CalendarProps{}, err
		}
		if m != nil {
			for i := range entries {
				u, err := m.Mirror(ctx, entries[i].ID, entries[i].Cover)
				if err != nil {
					return CalendarProps{}, fmt.Errorf("mirror cover of %s: %w", entries[i].ID, err)
				}
				entries[i].Cover = u
			}
		}
		return CalendarProps{Entries: entries}, nil
	}
}
