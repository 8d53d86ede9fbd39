package minicodelab

import (
	"context"
	"slices"
	"time"
)

// CoverSource lists the covers of published posts.
type CoverSource interface {
	ListCovers(ctx context.Context) ([]PostCover, error)
}

// RecentCovers returns the n most recently dated covers, newest first.
// Covers with equal dates keep their input order; covers whose date does
// not parse come after every dated one. The input is not modified.
func RecentCovers(covers []PostCover, n int) []PostCover {
	if n <= 0 {
		return []PostCover{}
	}
	sorted := slices.Clone(covers)
	slices.SortStableFunc(sorted, func(a, b PostCover) int {
		ta, oka := publishedAt(a)
		tb, okb := publishedAt(b)
		switch {
		case oka && okb:
			return tb.Compare(ta)
		case oka:
			return -1
		case okb:
			return 1
		default:
			return 0
		}
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []PostCover{}
	}
	return sorted
}

func publishedAt(c PostCover) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", c.Date)
	return t, err == nil
}

// NotFoundProps feeds the 404 page.
type NotFoundProps struct {
	Covers []PostCover
}

// recommendedCount is how many posts the 404 page recommends.
const recommendedCount = 2

func generateNotFound(src CoverSource) GenerateFunc[NotFoundProps] {
	return func(ctx context.Context) (NotFoundProps, error) {
		covers, err := src.ListCovers(ctx)
		if err != nil {
			return NotFoundProps{}, err
		}
		return NotFoundProps{Covers: RecentCovers(covers, recommendedCount)}, nil
	}
}
