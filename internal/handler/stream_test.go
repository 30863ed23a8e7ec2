package handler

import (
	"bufio"
	"bytes"
	"testing"
	"time"

	"site-lock-system/internal/model"
	"site-lock-system/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestStreamEntriesHeartbeatAndClose(t *testing.T) {
	feed := service.NewFeed()
	sub := feed.Watch("key-1")

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	done := make(chan struct{})
	go func() {
		streamEntries(w, sub, 5*time.Millisecond)
		close(done)
	}()

	feed.Publish(model.ActivityLog{ID: "e1", KeyID: "key-1", EventType: model.EventLocked})

	// Let a few heartbeat ticks pass, then close the subscription; the
	// writer must return rather than stay parked on the channel.
	time.Sleep(30 * time.Millisecond)
	sub.Unsubscribe()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream writer did not stop after unsubscribe")
	}

	out := buf.String()
	assert.Contains(t, out, ": connected\n\n")
	assert.Contains(t, out, ": ping\n\n")
	assert.Contains(t, out, `"event_type":"LOCKED"`)
}
