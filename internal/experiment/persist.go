package experiment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/raygun/raygun-tui/internal/model"
	"github.com/raygun/raygun-tui/internal/store"
)

const storeTimeout = 5 * time.Second

// save stamps and persists the session. Failures leave the in-memory
// session intact. Caller holds c.mu.
func (c *Controller) save() {
	c.sess.Timestamp = c.now()

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := c.store.Save(ctx, c.sess); err != nil {
		c.logger.Error("failed to save experiment", zap.Error(err))
		return
	}
	c.logger.Debug("saved experiment", zap.String("state", string(c.sess.CurrentState)))
}

// load restores a saved session if it is recent and valid. Caller holds c.mu.
func (c *Controller) load() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	saved, found, err := c.store.Load(ctx)
	if errors.Is(err, store.ErrCorrupt) {
		c.logger.Info("saved experiment unreadable, starting fresh", zap.Error(err))
		return
	}
	if err != nil {
		c.logger.Error("failed to load experiment", zap.Error(err))
		return
	}
	if !found {
		return
	}
	if !saved.CurrentState.Valid() {
		c.logger.Info("saved experiment has an unknown state, starting fresh",
			zap.String("state", string(saved.CurrentState)))
		return
	}
	if !saved.FreshAt(c.now(), c.timings.FreshnessWindow) {
		c.logger.Info("saved experiment too old, starting fresh",
			zap.Time("saved_at", saved.Timestamp))
		return
	}

	c.sess = saved
	for _, f := range model.AllFields() {
		if v := saved.Field(f); v != "" {
			c.view.SetInputValue(f, v)
		}
	}
	c.logger.Info("loaded saved experiment",
		zap.String("state", string(saved.CurrentState)),
		zap.Time("saved_at", saved.Timestamp))
}
