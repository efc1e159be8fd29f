package posts

import (
	"fmt"
	"strings"
)

const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldAuthor  = "author"
	FieldDate    = "date"

	DirectionAsc  = "asc"
	DirectionDesc = "desc"

	// DateLayout is the ISO-8601 calendar date accepted for the date field.
	DateLayout = "2006-01-02"
)

type Post struct {
	ID      uint64 `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
	Date    string `json:"date,omitempty"`
}

// Field reads a schema attribute by name. Unknown names read as empty.
func (p *Post) Field(name string) string {
	switch name {
	case FieldTitle:
		return p.Title
	case FieldContent:
		return p.Content
	case FieldAuthor:
		return p.Author
	case FieldDate:
		return p.Date
	}
	return ""
}

func (p *Post) setField(name, value string) {
	switch name {
	case FieldTitle:
		p.Title = value
	case FieldContent:
		p.Content = value
	case FieldAuthor:
		p.Author = value
	case FieldDate:
		p.Date = value
	}
}

// Schema is the ordered set of text attributes a post revision carries.
// Every schema field is required on create, sortable, and searchable.
// Title and content are part of every revision.
type Schema struct {
	fields []string
}

// NewSchema parses a comma-separated field list. An empty spec selects
// the extended revision (title, content, author, date).
func NewSchema(spec string) (Schema, error) {
	if strings.TrimSpace(spec) == "" {
		return Schema{fields: []string{FieldTitle, FieldContent, FieldAuthor, FieldDate}}, nil
	}
	seen := map[string]bool{}
	var fields []string
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		switch f {
		case FieldTitle, FieldContent, FieldAuthor, FieldDate:
		case "":
			continue
		default:
			return Schema{}, fmt.Errorf("unknown schema field %q", f)
		}
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}
	if !seen[FieldTitle] || !seen[FieldContent] {
		return Schema{}, fmt.Errorf("schema must include %s and %s", FieldTitle, FieldContent)
	}
	return Schema{fields: fields}, nil
}

func (s Schema) Fields() []string { return s.fields }

func (s Schema) Has(name string) bool {
	for _, f := range s.fields {
		if f == name {
			return true
		}
	}
	return false
}
