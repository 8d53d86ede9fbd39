package minicodelab

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/eringen/minicodelab/calendar"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":        "hello-world",
		"  Go 1.24 notes  ":  "go-1-24-notes",
		"Ünïcode & symbols!": "n-code-symbols",
		"---":                "",
		"":                   "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"http://example.com", nil, "http://example.com/"},
		{"http://example.com/", []string{"blog", "post"}, "http://example.com/blog/post/"},
		{"https://example.com/sub", []string{"calendar"}, "https://example.com/sub/calendar/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	if got := AbsoluteURL("https://example.com", "/public/uploads/a.jpg"); got != "https://example.com/public/uploads/a.jpg" {
		t.Errorf("relative: %q", got)
	}
	if got := AbsoluteURL("https://example.com", "https://cdn.example/a.jpg"); got != "https://cdn.example/a.jpg" {
		t.Errorf("absolute: %q", got)
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{" go", "", "  ", "web "})
	if len(got) != 2 || got[0] != "go" || got[1] != "web" {
		t.Errorf("FilterEmpty = %v", got)
	}
}

func TestFilterRelatedPosts(t *testing.T) {
	current := BlogPost{Slug: "a", Tags: []string{"Go"}}
	posts := []BlogPost{
		current,
		{Slug: "b", Tags: []string{"go"}},
		{Slug: "c", Tags: []string{"rust"}},
	}
	if got := postSlugs(FilterRelatedPosts(current, posts)); got != "b" {
		t.Errorf("related = %q, want b", got)
	}
}

func TestFilterByTagAndCollectTags(t *testing.T) {
	posts := []BlogPost{
		{Slug: "a", Tags: []string{"Go", "web"}},
		{Slug: "b", Tags: []string{"rust"}},
	}
	if got := postSlugs(FilterByTag(posts, "GO")); got != "a" {
		t.Errorf("FilterByTag = %q", got)
	}
	if got := postSlugs(FilterByTag(posts, "")); got != "a,b" {
		t.Errorf("FilterByTag empty = %q", got)
	}
	if got := strings.Join(CollectTags(posts), ","); got != "go,rust,web" {
		t.Errorf("CollectTags = %q", got)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "Lab", URL: "https://example.com", Author: "Cody"}
	post := BlogPost{Title: "Hi", Slug: "hi", Date: "2024-01-01", CoverURL: "/public/uploads/hi.jpg", Tags: []string{"go"}}

	var data map[string]any
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(post, cfg)), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if data["url"] != "https://example.com/blog/hi/" {
		t.Errorf("url = %v", data["url"])
	}
	if data["image"] != "https://example.com/public/uploads/hi.jpg" {
		t.Errorf("image = %v", data["image"])
	}
}

func TestCalendarJsonLD(t *testing.T) {
	entries := []calendar.Calendar{{ID: "r1", Title: "Launch", Date: "2024-01-01", Tags: []calendar.Tag{{Name: "go"}, {Name: "web"}}}}

	var data struct {
		Type  string `json:"@type"`
		Items []struct {
			Position int `json:"position"`
			Item     struct {
				Name      string `json:"name"`
				StartDate string `json:"startDate"`
				Keywords  string `json:"keywords"`
			} `json:"item"`
		} `json:"itemListElement"`
	}
	if err := json.Unmarshal([]byte(CalendarJsonLD(entries, SiteConfig{URL: "https://example.com"})), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if data.Type != "ItemList" || len(data.Items) != 1 {
		t.Fatalf("data = %+v", data)
	}
	it := data.Items[0]
	if it.Position != 1 || it.Item.Name != "Launch" || it.Item.StartDate != "2024-01-01" || it.Item.Keywords != "go, web" {
		t.Errorf("item = %+v", it)
	}
}
