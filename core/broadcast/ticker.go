package broadcast

import (
	"context"
	"time"

	"tracklist/logger"
	"tracklist/model"
)

// TickData is the payload of a heartbeat event.
type TickData struct {
	Seq       uint64 `json:"seq"`
	Listeners int    `json:"listeners"`
}

// RunTicker publishes a tick event every interval until ctx is cancelled.
func RunTicker(ctx context.Context, b *Broadcaster, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("heartbeat producer started", logger.Duration("interval", interval))
	var seq uint64
	for {
		select {
		case <-ctx.Done():
			logger.Info("heartbeat producer stopped", logger.Uint64("published", seq))
			return
		case <-ticker.C:
			seq++
			b.Publish(model.NewEvent(model.EventTick, TickData{Seq: seq, Listeners: b.Count()}))
		}
	}
}
