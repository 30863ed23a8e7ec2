package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"site-lock-system/internal/service"

	"github.com/gofiber/fiber/v2"
)

// heartbeatInterval paces the SSE comment frames that detect dead
// connections on quiet keys.
const heartbeatInterval = 15 * time.Second

// LogHandler serves the activity feed: per-key pages, a user-wide page,
// and a live per-key event stream.
type LogHandler struct {
	keys     *service.KeyService
	activity *service.ActivityService
	feed     *service.Feed
}

func NewLogHandler(keys *service.KeyService, activity *service.ActivityService, feed *service.Feed) *LogHandler {
	return &LogHandler{keys: keys, activity: activity, feed: feed}
}

func pageParams(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func (h *LogHandler) HandleKeyLogs(c *fiber.Ctx) error {
	// Ownership check: the feed is visible only to the key's owner.
	key, err := h.keys.Get(callerID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	page, pageSize := pageParams(c)
	logs, total, err := h.activity.ListByKey(key.ID, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load activity log",
		})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"total": total,
		"page":  page,
	})
}

// HandleUserLogs returns the caller's entries across all of their keys,
// newest first. This backs the dashboard's recent-activity view.
func (h *LogHandler) HandleUserLogs(c *fiber.Ctx) error {
	page, pageSize := pageParams(c)
	logs, total, err := h.activity.ListByUser(callerID(c), page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load activity log",
		})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"total": total,
		"page":  page,
	})
}

// HandleKeyLogStream streams appended entries for one key as server-sent
// events. Heartbeat comments are written between entries so a client
// that went away on a quiet key is noticed within one interval and the
// subscription is released.
func (h *LogHandler) HandleKeyLogStream(c *fiber.Ctx) error {
	key, err := h.keys.Get(callerID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	sub := h.feed.Watch(key.ID)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		streamEntries(w, sub, heartbeatInterval)
	})
	return nil
}

// streamEntries writes the subscription to an SSE body until the channel
// closes or a write fails. The heartbeat keeps a quiet stream flushing,
// so a dead connection fails a write within one interval instead of
// leaving the subscription parked forever.
func streamEntries(w *bufio.Writer, sub *service.Subscription, heartbeat time.Duration) {
	defer sub.Unsubscribe()

	// Flush the headers right away so the client sees the stream open
	// before the first entry arrives.
	fmt.Fprint(w, ": connected\n\n")
	if err := w.Flush(); err != nil {
		return
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-sub.C():
			if !ok {
				return
			}
			data, err := json.Marshal(entry)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			if err := w.Flush(); err != nil {
				// Client went away.
				return
			}
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}
