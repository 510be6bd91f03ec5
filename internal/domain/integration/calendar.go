package integration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mbecker/lumen/internal/kvstore"
)

// Calendar is the stub scheduler behind meeting captures. It records the
// would-be event in the store instead of calling a real calendar API.
type Calendar struct {
	kv     kvstore.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewCalendar creates the stub calendar scheduler.
func NewCalendar(kv kvstore.Store, logger *slog.Logger) *Calendar {
	return &Calendar{kv: kv, logger: logger, now: time.Now}
}

// CalendarEvent is a stored stand-in for a real calendar entry.
type CalendarEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Dates     []string  `json:"dates"`
	CreatedAt time.Time `json:"created"`
}

// ScheduleEvent stores a synthetic calendar event for the given dates.
func (c *Calendar) ScheduleEvent(ctx context.Context, userID, title string, dates []string) error {
	ev := CalendarEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Dates:     dates,
		CreatedAt: c.now(),
	}
	if err := c.kv.Put(ctx, kvstore.UserKey(userID, "calendarevent", ev.ID), ev); err != nil {
		return fmt.Errorf("storing calendar event: %w", err)
	}
	c.logger.Debug("calendar event scheduled", "user", userID, "title", title, "dates", len(dates))
	return nil
}
