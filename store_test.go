package minicodelab

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "blog.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func savePosts(t *testing.T, s *Store, posts ...BlogPost) {
	t.Helper()
	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost(%s): %v", p.Slug, err)
		}
	}
}

func TestNewStoreIsReopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	savePosts(t, s, BlogPost{Slug: "kept", Title: "Kept", Date: "2024-01-01", Published: true})
	s.Close()

	s, err = NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.GetPost("kept"); err != nil {
		t.Fatalf("post lost across reopen: %v", err)
	}
}

func TestSaveAndGetPost(t *testing.T) {
	s := newTestStore(t)

	post := BlogPost{
		Slug:      "test-post",
		Title:     "Test Post",
		Date:      "2024-01-15",
		Tags:      []string{"go", "testing"},
		Summary:   "A test post summary",
		Content:   "# Test Content\n\nThis is test content.",
		CoverURL:  "/public/uploads/test.jpg",
		Published: true,
	}
	savePosts(t, s, post)

	got, err := s.GetPost("test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != post.Title || got.Date != post.Date || got.Summary != post.Summary || got.Content != post.Content {
		t.Errorf("GetPost = %+v, want fields of %+v", got, post)
	}
	if got.CoverURL != post.CoverURL {
		t.Errorf("CoverURL = %q, want %q", got.CoverURL, post.CoverURL)
	}
	if got.Link != "/blog/test-post/" {
		t.Errorf("Link = %q, want %q", got.Link, "/blog/test-post/")
	}
	if !got.Published {
		t.Error("Published should be true")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
}

func TestSavePostUpdate(t *testing.T) {
	s := newTestStore(t)

	post := BlogPost{Slug: "update-test", Title: "Original Title", Date: "2024-01-01", Tags: []string{"original"}, Published: true}
	savePosts(t, s, post)

	post.Title = "Updated Title"
	post.Tags = []string{"updated", "modified"}
	savePosts(t, s, post)

	got, err := s.GetPost("update-test")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q, want %q", got.Title, "Updated Title")
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags count = %d, want 2", len(got.Tags))
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetPost("nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPostUnpublished(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s, BlogPost{Slug: "draft", Title: "Draft", Date: "2024-01-01", Published: false})

	if _, err := s.GetPost("draft"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost should not return drafts, got %v", err)
	}
	got, err := s.GetPostAny("draft")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if got.Published {
		t.Error("Published should be false")
	}
}

func TestListPosts(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "post-1", Title: "Post 1", Date: "2024-01-01", Tags: []string{"go"}, Published: true},
		BlogPost{Slug: "post-2", Title: "Post 2", Date: "2024-01-02", Tags: []string{"go", "web"}, Published: true},
		BlogPost{Slug: "post-3", Title: "Post 3", Date: "2024-01-03", Tags: []string{"rust"}, Published: true},
		BlogPost{Slug: "post-4", Title: "Post 4", Date: "2024-01-04", Tags: []string{"go"}, Published: false},
	)

	got, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListPosts count = %d, want 3 (excluding drafts)", len(got))
	}
	if got[0].Slug != "post-3" {
		t.Errorf("first post = %s, want post-3 (latest)", got[0].Slug)
	}
}

func TestListPostsByTag(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "go-post-1", Title: "Go Post 1", Date: "2024-01-01", Tags: []string{"go", "tutorial"}, Published: true},
		BlogPost{Slug: "go-post-2", Title: "Go Post 2", Date: "2024-01-02", Tags: []string{"GoLang", "go"}, Published: true},
		BlogPost{Slug: "rust-post", Title: "Rust Post", Date: "2024-01-03", Tags: []string{"rust"}, Published: true},
	)

	tests := []struct {
		tag  string
		want int
	}{
		{"go", 2},
		{"GO", 2},
		{"golang", 1},
		{"rust", 1},
		{"nonexistent", 0},
	}
	for _, tt := range tests {
		got, err := s.ListPosts(tt.tag)
		if err != nil {
			t.Fatalf("ListPosts(%q): %v", tt.tag, err)
		}
		if len(got) != tt.want {
			t.Errorf("ListPosts(%q) count = %d, want %d", tt.tag, len(got), tt.want)
		}
	}
}

func TestListAllPosts(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "published", Title: "Published", Date: "2024-01-01", Published: true},
		BlogPost{Slug: "unpublished", Title: "Unpublished", Date: "2024-01-02", Published: false},
	)

	got, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListAllPosts count = %d, want 2 (including drafts)", len(got))
	}
}

func TestListCoversSkipsDrafts(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "a", Title: "A", Date: "2024-01-01", Summary: "first", CoverURL: "/public/uploads/a.jpg", Published: true},
		BlogPost{Slug: "b", Title: "B", Date: "2024-02-01", Published: false},
	)

	covers, err := s.ListCovers(context.Background())
	if err != nil {
		t.Fatalf("ListCovers: %v", err)
	}
	if len(covers) != 1 {
		t.Fatalf("ListCovers = %+v, want only the published post", covers)
	}
	want := PostCover{Title: "A", Slug: "a", Link: "/blog/a/", Cover: "/public/uploads/a.jpg", Summary: "first", Date: "2024-01-01"}
	if covers[0] != want {
		t.Errorf("cover = %+v, want %+v", covers[0], want)
	}
}

func TestListTags(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s,
		BlogPost{Slug: "p1", Title: "P1", Date: "2024-01-01", Tags: []string{"Go", "Web"}, Published: true},
		BlogPost{Slug: "p2", Title: "P2", Date: "2024-01-02", Tags: []string{"go", "api"}, Published: true},
		BlogPost{Slug: "p3", Title: "P3", Date: "2024-01-03", Tags: []string{"rust"}, Published: false},
	)

	got, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	expected := []string{"api", "go", "web"}
	if len(got) != len(expected) {
		t.Fatalf("ListTags = %v, want %v", got, expected)
	}
	for i, tag := range expected {
		if got[i] != tag {
			t.Errorf("ListTags[%d] = %q, want %q", i, got[i], tag)
		}
	}
}

func TestDeletePost(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s, BlogPost{Slug: "to-delete", Title: "To Delete", Date: "2024-01-01", Published: true})

	if err := s.DeletePost("to-delete"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPost("to-delete"); !errors.Is(err, ErrNotFound) {
		t.Errorf("post should be gone after delete, got err: %v", err)
	}
	if err := s.DeletePost("nonexistent"); err != nil {
		t.Errorf("DeletePost on nonexistent should not error, got: %v", err)
	}
}

func TestImages(t *testing.T) {
	s := newTestStore(t)

	older := Image{Filename: "a.jpg", OriginalName: "A.png", Width: 800, Height: 600, Size: 1234, UploadedAt: "2024-01-01T00:00:00Z"}
	newer := Image{Filename: "b.jpg", OriginalName: "B.png", Width: 10, Height: 10, Size: 99, UploadedAt: "2024-02-01T00:00:00Z"}
	for _, img := range []Image{older, newer} {
		if err := s.SaveImage(img); err != nil {
			t.Fatalf("SaveImage: %v", err)
		}
	}

	images, err := s.ListImages()
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(images) != 2 || images[0] != newer || images[1] != older {
		t.Fatalf("ListImages = %+v, want newest first", images)
	}

	ok, err := s.ImageExists("a.jpg")
	if err != nil || !ok {
		t.Errorf("ImageExists(a.jpg) = %v, %v", ok, err)
	}
	if err := s.DeleteImage("a.jpg"); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	ok, err = s.ImageExists("a.jpg")
	if err != nil || ok {
		t.Errorf("ImageExists after delete = %v, %v", ok, err)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",", nil},
		{",,", nil},
		{",go,", []string{"go"}},
		{",go,web,", []string{"go", "web"}},
		{",go, web ,rust,", []string{"go", "web", "rust"}},
	}

	for _, tt := range tests {
		got := ParseTags(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTags(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestEmptyTags(t *testing.T) {
	s := newTestStore(t)
	savePosts(t, s, BlogPost{Slug: "no-tags", Title: "No Tags", Date: "2024-01-01", Tags: []string{}, Published: true})

	got, err := s.GetPost("no-tags")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", got.Tags)
	}
}
