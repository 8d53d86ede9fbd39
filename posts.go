package minicodelab

import (
	"context"
	"sort"
)

// GetPost returns a single published post by slug from the generated listing.
func (a *App) GetPost(ctx context.Context, slug string) (BlogPost, error) {
	posts, err := a.Posts.Props(ctx)
	if err != nil {
		return BlogPost{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// FilterByTag returns the posts carrying tag, compared case-insensitively.
// An empty tag returns posts unchanged.
func FilterByTag(posts []BlogPost, tag string) []BlogPost {
	if tag == "" {
		return posts
	}
	normalized := normalizeTag(tag)
	var filtered []BlogPost
	for _, p := range posts {
		for _, t := range p.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

// CollectTags returns the sorted, deduplicated lowercase tags of posts.
func CollectTags(posts []BlogPost) []string {
	set := make(map[string]struct{})
	for _, p := range posts {
		for _, t := range p.Tags {
			if n := normalizeTag(t); n != "" {
				set[n] = struct{}{}
			}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
