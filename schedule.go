package minicodelab

import (
	"context"
	"log/slog"

	"github.com/robfig/cron"
)

// scheduleRegeneration registers a job that regenerates p every revalidation
// interval, so visitors rarely wait on a generation pass.
func scheduleRegeneration[T any](c *cron.Cron, p *StaticPage[T], logger *slog.Logger) error {
	return c.AddFunc("@every "+p.Revalidate().String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()
		if _, err := p.Regenerate(ctx); err != nil {
			logger.Error("scheduled regeneration failed", "page", p.Name(), "error", err)
		}
	})
}

func (a *App) startScheduler() (*cron.Cron, error) {
	c := cron.New()
	if err := scheduleRegeneration(c, a.NotFound, a.logger); err != nil {
		return nil, err
	}
	if a.Calendar != nil {
		if err := scheduleRegeneration(c, a.Calendar, a.logger); err != nil {
			return nil, err
		}
	}
	c.Start()
	return c, nil
}
