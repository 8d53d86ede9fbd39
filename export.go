package minicodelab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Export generates every page once and writes the site as static files
// under dir: the home page, each post, the 404 page, the calendar page
// with its JSON twin when enabled, the feed, and the sitemap.
func (a *App) Export(ctx context.Context, dir string) error {
	if a.Posts == nil {
		if err := a.Init(ctx); err != nil {
			return err
		}
	}

	posts, err := a.Posts.Regenerate(ctx)
	if err != nil {
		return fmt.Errorf("export posts: %w", err)
	}
	tags := CollectTags(posts)
	if err := renderFile(ctx, filepath.Join(dir, "index.html"), a.Views.Home(posts, "", tags, a.Config)); err != nil {
		return fmt.Errorf("export home: %w", err)
	}
	for _, p := range posts {
		if !filepath.IsLocal(p.Slug) || strings.ContainsAny(p.Slug, `/\`) {
			return fmt.Errorf("export post %q: slug is not a single path segment", p.Slug)
		}
		path := filepath.Join(dir, "blog", p.Slug, "index.html")
		if err := renderFile(ctx, path, a.Views.Post(p, FilterRelatedPosts(p, posts), a.Config)); err != nil {
			return fmt.Errorf("export post %s: %w", p.Slug, err)
		}
	}

	notFound, err := a.NotFound.Regenerate(ctx)
	if err != nil {
		return fmt.Errorf("export 404: %w", err)
	}
	if err := renderFile(ctx, filepath.Join(dir, "404.html"), a.Views.NotFound(notFound, a.Config)); err != nil {
		return fmt.Errorf("export 404: %w", err)
	}

	if a.Calendar != nil {
		props, err := a.Calendar.Regenerate(ctx)
		if err != nil {
			return fmt.Errorf("export calendar: %w", err)
		}
		if err := renderFile(ctx, filepath.Join(dir, "calendar", "index.html"), a.Views.Calendar(props, a.Config)); err != nil {
			return fmt.Errorf("export calendar: %w", err)
		}
		err = writeFile(filepath.Join(dir, "calendar.json"), func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(props.Entries)
		})
		if err != nil {
			return fmt.Errorf("export calendar.json: %w", err)
		}
	}

	err = writeFile(filepath.Join(dir, "feed.xml"), func(w io.Writer) error {
		return writeRSS(w, a.Config, posts)
	})
	if err != nil {
		return fmt.Errorf("export feed: %w", err)
	}
	err = writeFile(filepath.Join(dir, "sitemap.xml"), func(w io.Writer) error {
		return writeSitemap(w, a.Config.URL, posts, a.Calendar != nil)
	})
	if err != nil {
		return fmt.Errorf("export sitemap: %w", err)
	}

	a.logger.Info("site exported", "dir", dir, "posts", len(posts), "calendar", a.Calendar != nil)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
