package chat

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"shutterchat/internal/pkg/logx"
)

// SystemMetricsSource samples host CPU and memory usage on its own cadence
// and pushes the values into a MetricSink (the dashboard broadcaster). One of
// the external metric sources the dashboard channel consumes.
type SystemMetricsSource struct {
	sink     MetricSink
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	logger zerolog.Logger
}

// NewSystemMetricsSource constructs a source pushing into sink every interval.
func NewSystemMetricsSource(sink MetricSink, interval time.Duration) *SystemMetricsSource {
	return &SystemMetricsSource{
		sink:     sink,
		interval: interval,
		stop:     make(chan struct{}),
		logger:   logx.Logger().With().Str("component", "SystemMetricsSource").Logger(),
	}
}

// Start launches the sampling loop.
func (s *SystemMetricsSource) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *SystemMetricsSource) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sample()

	for {
		select {
		case <-ticker.C:
			s.sample()
		case <-s.stop:
			return
		}
	}
}

// Shutdown stops the sampling loop. Idempotent.
func (s *SystemMetricsSource) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
}

func (s *SystemMetricsSource) sample() {
	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		s.sink.SetMetric("system.cpu_percent", percentages[0])
	} else if err != nil {
		s.logger.Debug().Err(err).Msg("CPU sample failed.")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		s.sink.SetMetric("system.memory_used_percent", vm.UsedPercent)
	} else {
		s.logger.Debug().Err(err).Msg("Memory sample failed.")
	}

	s.sink.SetMetric("system.goroutines", float64(runtime.NumGoroutine()))
}
