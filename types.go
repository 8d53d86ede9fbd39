package minicodelab

// BlogPost is the core content type stored in SQLite and rendered by templates.
type BlogPost struct {
	Title     string
	Date      string // YYYY-MM-DD
	Tags      []string
	Summary   string
	Link      string
	Slug      string
	Content   string // markdown
	CoverURL  string // optional image shown on cards
	Published bool
}

// Cover returns the summary of the post used on recommendation cards.
func (p BlogPost) Cover() PostCover {
	return PostCover{
		Title:   p.Title,
		Slug:    p.Slug,
		Link:    p.Link,
		Cover:   p.CoverURL,
		Summary: p.Summary,
		Date:    p.Date,
	}
}

// PostCover is the card-sized summary of a published post.
type PostCover struct {
	Title   string
	Slug    string
	Link    string
	Cover   string
	Summary string
	Date    string // YYYY-MM-DD
}

// Image is an uploaded image stored under the static uploads directory.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string // RFC3339
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
