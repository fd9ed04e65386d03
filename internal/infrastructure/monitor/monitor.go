package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/todo/pkg/metrics"
)

// Probe checks a single dependency.
type Probe func(ctx context.Context) error

type namedProbe struct {
	name  string
	probe Probe
}

// Monitor periodically probes dependencies on a cron schedule and caches the result.
type Monitor struct {
	probes   []namedProbe
	timeout  time.Duration
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger

	mu     sync.RWMutex
	status Status
}

func New(interval time.Duration, logger *zap.Logger) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		timeout:  3 * time.Second,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}
}

// Register adds a named probe. Call before Start.
func (m *Monitor) Register(name string, probe Probe) {
	if probe == nil {
		return
	}
	m.probes = append(m.probes, namedProbe{name: name, probe: probe})
}

// Start runs one probe round synchronously and schedules the rest.
func (m *Monitor) Start() error {
	m.Refresh(context.Background())
	schedule := fmt.Sprintf("@every %ds", int(m.interval.Seconds()))
	if _, err := m.cron.AddFunc(schedule, func() { m.Refresh(context.Background()) }); err != nil {
		return err
	}
	m.cron.Start()
	m.logger.Info("dependency monitor started", zap.Duration("interval", m.interval))
	return nil
}

// Stop halts the schedule and waits for a running round to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	components := make(map[string]bool, len(m.status.Components))
	for k, v := range m.status.Components {
		components[k] = v
	}
	return Status{Components: components, LastCheck: m.status.LastCheck}
}

// Refresh probes every dependency once.
func (m *Monitor) Refresh(ctx context.Context) {
	components := make(map[string]bool, len(m.probes))
	for _, p := range m.probes {
		probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := p.probe(probeCtx)
		cancel()

		up := err == nil
		if !up {
			m.logger.Warn("dependency probe failed", zap.String("dependency", p.name), zap.Error(err))
		}
		components[p.name] = up
		metrics.SetDependencyUp(p.name, up)
	}

	m.mu.Lock()
	m.status = Status{Components: components, LastCheck: time.Now()}
	m.mu.Unlock()
}
