package minicodelab

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	tag := c.QueryParam("tag")
	all, err := a.Posts.Props(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(FilterByTag(all, tag), tag, CollectTags(all), a.Config))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.GetPost(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return a.renderNotFound(c)
		}
		return err
	}
	posts, err := a.Posts.Props(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Post(post, FilterRelatedPosts(post, posts), a.Config))
}

func (a *App) handleCalendar(c echo.Context) error {
	props, err := a.Calendar.Props(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.Calendar(props, a.Config))
}

func (a *App) handleCalendarJSON(c echo.Context) error {
	props, err := a.Calendar.Props(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, props.Entries)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Posts.Props(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return writeSitemap(c.Response(), a.Config.URL, posts, a.Calendar != nil)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Posts.Props(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return writeRSS(c.Response(), a.Config, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", strings.TrimRight(a.Config.URL, "/"))
	return c.String(http.StatusOK, body)
}

// renderNotFound renders the 404 page with its recommended posts.
func (a *App) renderNotFound(c echo.Context) error {
	props, err := a.NotFound.Props(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", maxAge(a.NotFound.Revalidate()))
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(props, a.Config))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		rerr := a.renderNotFound(c)
		if rerr == nil || c.Response().Committed {
			return
		}
		err, ok = rerr, false
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		c.Response().Header().Set("Cache-Control", "no-store")
		_ = RenderStatus(c, code, a.Views.ServerError(a.Config))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
