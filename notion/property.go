package notion

import (
	"errors"
	"fmt"
)

// ErrMissingProperty matches every *MissingPropertyError.
var ErrMissingProperty = errors.New("notion: missing property")

// MissingPropertyError reports a row that lacks a value the caller expects to
// be present exactly where the database schema puts it.
type MissingPropertyError struct {
	Property string // key in Row.Properties
	Field    string // what was expected, e.g. "title[0]"
}

func (e *MissingPropertyError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("notion: missing %s", e.Field)
	}
	return fmt.Sprintf("notion: property %q: missing %s", e.Property, e.Field)
}

// Is reports whether target is ErrMissingProperty.
func (e *MissingPropertyError) Is(target error) bool {
	return target == ErrMissingProperty
}

func missing(field string) error {
	return &MissingPropertyError{Field: field}
}

// checkType fails when the property carries a different discriminator.
// An empty Type is accepted so hand-built rows only need the value field.
func (p TableProperty) checkType(want string) error {
	if p.Type != "" && p.Type != want {
		return missing(fmt.Sprintf("%s value (property has type %q)", want, p.Type))
	}
	return nil
}

// FirstTitle returns the first run of a title property.
func (p TableProperty) FirstTitle() (TitleProperty, error) {
	if err := p.checkType(TypeTitle); err != nil {
		return TitleProperty{}, err
	}
	if len(p.Title) == 0 {
		return TitleProperty{}, missing("title[0]")
	}
	return p.Title[0], nil
}

// FirstRichText returns the first run of a rich_text property.
func (p TableProperty) FirstRichText() (RichTextProperty, error) {
	if err := p.checkType(TypeRichText); err != nil {
		return RichTextProperty{}, err
	}
	if len(p.RichText) == 0 {
		return RichTextProperty{}, missing("rich_text[0]")
	}
	return p.RichText[0], nil
}

// FirstFile returns the first entry of a files property.
func (p TableProperty) FirstFile() (FileProperty, error) {
	if err := p.checkType(TypeFiles); err != nil {
		return FileProperty{}, err
	}
	if len(p.Files) == 0 {
		return FileProperty{}, missing("files[0]")
	}
	return p.Files[0], nil
}

// Options returns the selected options of a multi_select property. An empty
// selection is valid and yields an empty, non-nil slice.
func (p TableProperty) Options() ([]MultiSelectProperty, error) {
	if err := p.checkType(TypeMultiSelect); err != nil {
		return nil, err
	}
	if p.MultiSelect == nil {
		return []MultiSelectProperty{}, nil
	}
	return p.MultiSelect, nil
}

// DateStart returns the start of a date property.
func (p TableProperty) DateStart() (string, error) {
	if err := p.checkType(TypeDate); err != nil {
		return "", err
	}
	if p.Date == nil {
		return "", missing("date")
	}
	if p.Date.Start == "" {
		return "", missing("date.start")
	}
	return p.Date.Start, nil
}

// URL returns the location of the file as selected by its type.
func (f FileProperty) URL() (string, error) {
	var obj *FileObject
	switch f.Type {
	case FileTypeFile, "":
		obj = f.File
	case FileTypeExternal:
		obj = f.External
	default:
		return "", missing(fmt.Sprintf("file url (unknown file type %q)", f.Type))
	}
	if obj == nil || obj.URL == "" {
		kind := f.Type
		if kind == "" {
			kind = FileTypeFile
		}
		return "", missing(kind + ".url")
	}
	return obj.URL, nil
}

// Property returns the named property of the row.
func (r Row) Property(name string) (TableProperty, error) {
	p, ok := r.Properties[name]
	if !ok {
		return TableProperty{}, &MissingPropertyError{Property: name, Field: "property"}
	}
	return p, nil
}

// lookup resolves a named property and applies get, attributing any
// MissingPropertyError to the property name.
func lookup[T any](r Row, name string, get func(TableProperty) (T, error)) (T, error) {
	var zero T
	p, err := r.Property(name)
	if err != nil {
		return zero, err
	}
	v, err := get(p)
	if err != nil {
		var mpe *MissingPropertyError
		if errors.As(err, &mpe) && mpe.Property == "" {
			mpe.Property = name
		}
		return zero, err
	}
	return v, nil
}

// TitleText returns the text content of the first run of the named title property.
func (r Row) TitleText(name string) (string, error) {
	t, err := lookup(r, name, TableProperty.FirstTitle)
	if err != nil {
		return "", err
	}
	return t.Text.Content, nil
}

// RichPlainText returns the plain text of the first run of the named rich_text property.
func (r Row) RichPlainText(name string) (string, error) {
	t, err := lookup(r, name, TableProperty.FirstRichText)
	if err != nil {
		return "", err
	}
	return t.PlainText, nil
}

// FileURL returns the URL of the first file of the named files property.
func (r Row) FileURL(name string) (string, error) {
	return lookup(r, name, func(p TableProperty) (string, error) {
		f, err := p.FirstFile()
		if err != nil {
			return "", err
		}
		return f.URL()
	})
}

// MultiSelect returns the selected options of the named multi_select property.
func (r Row) MultiSelect(name string) ([]MultiSelectProperty, error) {
	return lookup(r, name, TableProperty.Options)
}

// DateStart returns the start of the named date property.
func (r Row) DateStart(name string) (string, error) {
	return lookup(r, name, TableProperty.DateStart)
}
