// Package calendar turns rows of the Notion calendar database into the
// entries rendered on the calendar page.
package calendar

import (
	"context"
	"fmt"

	"github.com/eringen/minicodelab/notion"
)

// Property keys of the calendar database.
const (
	PropTitle       = "title"
	PropCover       = "cover"
	PropDescription = "description"
	PropTags        = "tags"
	PropDate        = "date"
)

// Tag is a multi-select option attached to an entry.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Calendar is one entry of the calendar page.
type Calendar struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Cover       string `json:"cover"`
	Description string `json:"description"`
	Tags        []Tag  `json:"tags"`
	Date        string `json:"date"`
}

// Querier fetches the calendar database.
type Querier interface {
	QueryDatabase(ctx context.Context) (notion.DatabaseResponse, error)
}

// FromRow maps a database row into an entry. Every field is required; the
// first missing one is reported as a *notion.MissingPropertyError.
func FromRow(row notion.Row) (Calendar, error) {
	title, err := row.TitleText(PropTitle)
	if err != nil {
		return Calendar{}, err
	}
	cover, err := row.FileURL(PropCover)
	if err != nil {
		return Calendar{}, err
	}
	description, err := row.RichPlainText(PropDescription)
	if err != nil {
		return Calendar{}, err
	}
	options, err := row.MultiSelect(PropTags)
	if err != nil {
		return Calendar{}, err
	}
	date, err := row.DateStart(PropDate)
	if err != nil {
		return Calendar{}, err
	}
	tags := make([]Tag, len(options))
	for i, o := range options {
		tags[i] = Tag{ID: o.ID, Name: o.Name, Color: o.Color}
	}
	return Calendar{
		ID:          row.ID,
		Title:       title,
		Cover:       cover,
		Description: description,
		Tags:        tags,
		Date:        date,
	}, nil
}

// FromResponse maps every row in query order and stops at the first row
// that cannot be mapped.
func FromResponse(resp notion.DatabaseResponse) ([]Calendar, error) {
	entries := make([]Calendar, 0, len(resp.Results))
	for i, row := range resp.Results {
		entry, err := FromRow(row)
		if err != nil {
			return nil, fmt.Errorf("calendar row %d (%s): %w", i, row.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Load queries the database and maps the result.
func Load(ctx context.Context, q Querier) ([]Calendar, error) {
	resp, err := q.QueryDatabase(ctx)
	if err != nil {
		return nil, fmt.Errorf("query calendar database: %w", err)
	}
	return FromResponse(resp)
}
