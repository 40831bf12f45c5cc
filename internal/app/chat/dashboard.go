/*
Package chat contains the real-time messaging core.

This file defines the dashboard Broadcaster: a separate, lower-guarantee
publish channel that fans out periodic metric snapshots and discrete alert
events to every dashboard-tagged connection. Pushes are fire-and-forget:
no delivery tracking, no queueing for offline subscribers, no acks. This
at-most-once path is kept independent of the router's at-least-once chat
path; the two share only the connection registry.
*/
package chat

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"shutterchat/internal/pkg/logx"
	"shutterchat/internal/pkg/metrics"
)

// Snapshot is the periodic dashboard payload: a timestamp plus named numeric
// metrics. Ephemeral; rebuilt from the current pushed values on every tick.
type Snapshot struct {
	Timestamp int64              `json:"timestamp"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Alert is a discrete operational event, timestamped at broadcast time.
type Alert struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// MetricSink accepts named numeric values from metric sources. Sources push
// on their own cadence; the broadcaster never pulls.
type MetricSink interface {
	SetMetric(name string, value float64)
}

// Broadcaster runs the dashboard broadcast channel.
type Broadcaster struct {
	registry *Registry
	interval time.Duration

	mu     sync.RWMutex
	values map[string]float64

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	logger zerolog.Logger
}

// NewBroadcaster constructs a Broadcaster ticking at the given interval.
func NewBroadcaster(registry *Registry, interval time.Duration) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		interval: interval,
		values:   make(map[string]float64),
		stop:     make(chan struct{}),
		logger:   logx.Logger().With().Str("component", "Broadcaster").Logger(),
	}
}

// Start launches the snapshot tick loop.
func (b *Broadcaster) Start() {
	b.wg.Add(1)
	go b.run()
}

func (b *Broadcaster) run() {
	defer b.wg.Done()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.logger.Info().Dur("interval", b.interval).Msg("Dashboard broadcast loop started.")

	for {
		select {
		case <-ticker.C:
			b.broadcastSnapshot()
		case <-b.stop:
			b.logger.Info().Msg("Dashboard broadcast loop stopped.")
			return
		}
	}
}

// Shutdown stops the tick loop and waits for it to exit. Idempotent.
func (b *Broadcaster) Shutdown() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
	b.wg.Wait()
}

// SetMetric records a named numeric value for the next snapshot.
func (b *Broadcaster) SetMetric(name string, value float64) {
	b.mu.Lock()
	b.values[name] = value
	b.mu.Unlock()
}

// BuildSnapshot assembles a snapshot from the currently pushed values.
func (b *Broadcaster) BuildSnapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	values := make(map[string]float64, len(b.values))
	for name, value := range b.values {
		values[name] = value
	}

	return Snapshot{
		Timestamp: time.Now().UnixMilli(),
		Metrics:   values,
	}
}

func (b *Broadcaster) broadcastSnapshot() {
	snapshot := b.BuildSnapshot()

	frame, err := encodeFrame(FrameSnapshot, snapshot)
	if err != nil {
		b.logger.Error().Err(err).Msg("Failed to encode dashboard snapshot.")
		return
	}

	subscribers := b.fanOut(frame)
	metrics.DashboardBroadcasts.WithLabelValues("snapshot").Inc()

	b.logger.Debug().Int("subscribers", subscribers).Msg("Dashboard snapshot broadcast.")
}

// PublishAlert pushes an alert to all dashboard subscribers immediately,
// independent of the snapshot timer.
func (b *Broadcaster) PublishAlert(kind, message string) {
	alert := Alert{
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
	}

	frame, err := encodeFrame(FrameAlert, alert)
	if err != nil {
		b.logger.Error().Err(err).Str("kind", kind).Msg("Failed to encode dashboard alert.")
		return
	}

	subscribers := b.fanOut(frame)
	metrics.DashboardBroadcasts.WithLabelValues("alert").Inc()

	b.logger.Info().
		Str("kind", kind).
		Str("message", message).
		Int("subscribers", subscribers).
		Msg("Dashboard alert broadcast.")
}

// fanOut pushes a frame to every dashboard-tagged connection, best effort.
// Failed sends are dropped, not queued.
func (b *Broadcaster) fanOut(frame []byte) int {
	subscribers := b.registry.Tagged(TagDashboard)

	for _, conn := range subscribers {
		if err := conn.Send(frame); err != nil {
			b.logger.Debug().Err(err).
				Str("identity", conn.Identity).
				Msg("Dropped dashboard frame for slow subscriber.")
		}
	}

	return len(subscribers)
}
