// Package views is the default set of page templates. Pages are html/template
// files embedded in the binary and handed to the engine as templ components.
package views

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"

	"github.com/eringen/minicodelab"
	"github.com/eringen/minicodelab/calendar"
)

//go:embed templates/*.html
var files embed.FS

var base = template.Must(template.New("layout").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/partials.html"))

var pages = map[string]*template.Template{
	"home":            page("home"),
	"post":            page("post"),
	"notfound":        page("notfound"),
	"calendar":        page("calendar"),
	"error":           page("error"),
	"admin_login":     page("admin_login"),
	"admin_dashboard": page("admin_dashboard"),
	"admin_form":      page("admin_form"),
	"admin_images":    page("admin_images"),
}

func page(name string) *template.Template {
	t := template.Must(base.Clone())
	return template.Must(t.ParseFS(files, "templates/"+name+".html"))
}

// pageData is the value every template executes against. Each page fills
// the fields it renders.
type pageData struct {
	Site    minicodelab.SiteConfig
	Meta    minicodelab.PageMeta
	JSONLD  template.JS
	NoIndex bool

	Covers    []minicodelab.PostCover
	Tags      []string
	ActiveTag string
	Post      minicodelab.BlogPost
	Entries   []calendar.Calendar

	Posts     []minicodelab.BlogPost
	Images    []minicodelab.Image
	CSRF      string
	Message   string
	ShowError bool
}

func render(name string, data pageData) templ.Component {
	return templ.FromGoHTML(pages[name], data)
}

func covers(posts []minicodelab.BlogPost) []minicodelab.PostCover {
	out := make([]minicodelab.PostCover, len(posts))
	for i, p := range posts {
		out[i] = p.Cover()
	}
	return out
}

// Default returns the view functions backed by the embedded templates.
func Default() minicodelab.ViewFuncs {
	return minicodelab.ViewFuncs{
		Home:           Home,
		Post:           Post,
		Calendar:       Calendar,
		NotFound:       NotFound,
		ServerError:    ServerError,
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		AdminForm:      AdminForm,
		AdminImages:    AdminImages,
	}
}

// Home lists posts, optionally filtered by activeTag.
func Home(posts []minicodelab.BlogPost, activeTag string, tags []string, cfg minicodelab.SiteConfig) templ.Component {
	return render("home", pageData{
		Site: cfg,
		Meta: minicodelab.PageMeta{
			Title:       cfg.Name,
			Description: cfg.Description,
			URL:         minicodelab.BuildURL(cfg.URL),
			OGType:      "website",
		},
		JSONLD:    template.JS(minicodelab.WebsiteJsonLD(cfg)),
		Covers:    covers(posts),
		Tags:      tags,
		ActiveTag: activeTag,
	})
}

// Post renders a single post with the posts sharing a tag with it.
func Post(post minicodelab.BlogPost, related []minicodelab.BlogPost, cfg minicodelab.SiteConfig) templ.Component {
	return render("post", pageData{
		Site: cfg,
		Meta: minicodelab.PageMeta{
			Title:       post.Title + " | " + cfg.Name,
			Description: post.Summary,
			URL:         minicodelab.BuildURL(cfg.URL, "blog", post.Slug),
			OGType:      "article",
		},
		JSONLD: template.JS(minicodelab.BlogPostingJsonLD(post, cfg)),
		Post:   post,
		Covers: covers(related),
	})
}

// Calendar renders one card per calendar entry.
func Calendar(props minicodelab.CalendarProps, cfg minicodelab.SiteConfig) templ.Component {
	return render("calendar", pageData{
		Site: cfg,
		Meta: minicodelab.PageMeta{
			Title:       "Calendar | " + cfg.Name,
			Description: "Upcoming events and dates from " + cfg.Name + ".",
			URL:         minicodelab.BuildURL(cfg.URL, "calendar"),
			OGType:      "website",
		},
		JSONLD:  template.JS(minicodelab.CalendarJsonLD(props.Entries, cfg)),
		Entries: props.Entries,
	})
}

// NotFound is the fallback page recommending the latest posts.
func NotFound(props minicodelab.NotFoundProps, cfg minicodelab.SiteConfig) templ.Component {
	return render("notfound", pageData{
		Site: cfg,
		Meta: minicodelab.PageMeta{
			Title:       cfg.Name + " /> Not found",
			Description: "We could not find what you were looking for and MiniCody got sad.",
		},
		NoIndex: true,
		Covers:  props.Covers,
	})
}

func ServerError(cfg minicodelab.SiteConfig) templ.Component {
	return render("error", pageData{
		Site:    cfg,
		Meta:    minicodelab.PageMeta{Title: "Error | " + cfg.Name},
		NoIndex: true,
	})
}

func AdminLogin(showError bool, csrfToken string) templ.Component {
	return render("admin_login", pageData{
		Meta:      minicodelab.PageMeta{Title: "Admin"},
		NoIndex:   true,
		CSRF:      csrfToken,
		ShowError: showError,
	})
}

func AdminDashboard(posts []minicodelab.BlogPost, message string, csrfToken string) templ.Component {
	return render("admin_dashboard", pageData{
		Meta:    minicodelab.PageMeta{Title: "Posts | Admin"},
		NoIndex: true,
		Posts:   posts,
		Message: message,
		CSRF:    csrfToken,
	})
}

func AdminForm(post minicodelab.BlogPost, csrfToken string) templ.Component {
	return render("admin_form", pageData{
		Meta:    minicodelab.PageMeta{Title: "Edit " + post.Title + " | Admin"},
		NoIndex: true,
		Post:    post,
		CSRF:    csrfToken,
	})
}

func AdminImages(images []minicodelab.Image, csrfToken string) templ.Component {
	return render("admin_images", pageData{
		Meta:    minicodelab.PageMeta{Title: "Images | Admin"},
		NoIndex: true,
		Images:  images,
		CSRF:    csrfToken,
	})
}
