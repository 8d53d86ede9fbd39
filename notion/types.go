// Package notion queries a Notion database and describes the JSON shape of
// the rows it returns.
package notion

// Annotations holds the inline styling Notion attaches to a rich text run.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// Text is the content of a "text" rich text run.
type Text struct {
	Content string `json:"content"`
	Link    *Link  `json:"link"`
}

// Link is an inline hyperlink inside a text run.
type Link struct {
	URL string `json:"url"`
}

// TitleProperty is one run of a title property. Type is always "text".
type TitleProperty struct {
	Type        string      `json:"type"`
	Text        Text        `json:"text"`
	Annotations Annotations `json:"annotations"`
	PlainText   string      `json:"plain_text"`
	Href        *string     `json:"href"`
}

// RichTextProperty is one run of a rich_text property. Type is always "text".
type RichTextProperty struct {
	Type        string      `json:"type"`
	Text        Text        `json:"text"`
	Annotations Annotations `json:"annotations"`
	PlainText   string      `json:"plain_text"`
	Href        *string     `json:"href"`
}

// FileObject is the location of a file. Notion-hosted files carry an expiry.
type FileObject struct {
	URL        string `json:"url"`
	ExpiryTime string `json:"expiry_time,omitempty"`
}

// FileProperty is one entry of a files property. Type is "file" for uploads
// hosted by Notion and "external" for linked files.
type FileProperty struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	File     *FileObject `json:"file,omitempty"`
	External *FileObject `json:"external,omitempty"`
}

// MultiSelectProperty is one selected option of a multi_select property.
type MultiSelectProperty struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DateProperty is the value of a date property.
type DateProperty struct {
	Start    string  `json:"start"`
	End      *string `json:"end"`
	TimeZone *string `json:"time_zone"`
}

// Property type discriminators.
const (
	TypeTitle       = "title"
	TypeFiles       = "files"
	TypeRichText    = "rich_text"
	TypeMultiSelect = "multi_select"
	TypeDate        = "date"

	FileTypeFile     = "file"
	FileTypeExternal = "external"
)

// TableProperty is a single named property of a database row. Only the field
// matching Type is populated.
type TableProperty struct {
	ID          string                `json:"id"`
	Type        string                `json:"type"`
	Title       []TitleProperty       `json:"title,omitempty"`
	RichText    []RichTextProperty    `json:"rich_text,omitempty"`
	Files       []FileProperty        `json:"files,omitempty"`
	MultiSelect []MultiSelectProperty `json:"multi_select,omitempty"`
	Date        *DateProperty         `json:"date,omitempty"`
}

// Parent identifies the database a row belongs to.
type Parent struct {
	Type       string `json:"type"`
	DatabaseID string `json:"database_id"`
}

// Icon is the page icon of a row.
type Icon struct {
	Type     string      `json:"type"`
	Emoji    string      `json:"emoji,omitempty"`
	File     *FileObject `json:"file,omitempty"`
	External *FileObject `json:"external,omitempty"`
}

// Row is one page of a database query result.
type Row struct {
	Object     string                   `json:"object"`
	ID         string                   `json:"id"`
	Cover      *FileProperty            `json:"cover"`
	Icon       *Icon                    `json:"icon"`
	Parent     Parent                   `json:"parent"`
	Archived   bool                     `json:"archived"`
	Properties map[string]TableProperty `json:"properties"`
}

// DatabaseResponse is the body of a database query.
type DatabaseResponse struct {
	Object     string  `json:"object"`
	Results    []Row   `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}
