package simulation

import (
	"context"
	"sync"
	"time"

	"github.com/ecohub-labs/ecohub-core/internal/device"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/config"
)

// Manager runs one task per device and supervises them.
//
// A task that returns an error (a recovered panic) is restarted
// according to the configured policy: RestartOnFailure enables restarts,
// RestartDelay spaces the attempts and MaxRestartAttempts caps them per
// task (0 means unlimited). Context cancellation always stops
// supervision; a task that exhausts its restart budget is left failed
// without affecting the rest of the fleet.
type Manager struct {
	tasks  []*Task
	cfg    *config.Config
	logger Logger

	mu       sync.Mutex
	restarts int
}

// NewManager creates a manager with one task per roster device.
//
// Parameters:
//   - roster: Devices to simulate, one task each
//   - queue: Destination for snapshot pushes, shared by all tasks
//   - cfg: Simulation settings
//
// Returns:
//   - *Manager: Manager ready for Run
func NewManager(roster *device.Roster, queue Pusher, cfg *config.Config) *Manager {
	devices := roster.List()
	tasks := make([]*Task, 0, len(devices))

	// Distinct seeds per task; the offset keeps two tasks created in the
	// same nanosecond from sharing a sequence.
	base := time.Now().UnixNano()
	for i, dev := range devices {
		tasks = append(tasks, NewTask(dev, queue, cfg, base+int64(i)))
	}

	return &Manager{
		tasks:  tasks,
		cfg:    cfg,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the manager and all its tasks.
func (m *Manager) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	m.logger = logger
	for _, t := range m.tasks {
		t.SetLogger(logger)
	}
}

// Tasks returns the supervised tasks.
func (m *Manager) Tasks() []*Task {
	return m.tasks
}

// Restarts returns the total number of restart attempts across all tasks.
func (m *Manager) Restarts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restarts
}

// Run starts every task in its own goroutine and blocks until all of
// them have stopped. It always returns nil: individual task failures are
// contained by the restart policy and must not tear down the fleet.
func (m *Manager) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, t := range m.tasks {
		wg.Add(1)
		go func(t *Task) {
			defer wg.Done()
			m.supervise(ctx, t)
		}(t)
	}
	wg.Wait()
	return nil
}

// supervise runs one task, applying the restart policy on failure.
func (m *Manager) supervise(ctx context.Context, t *Task) {
	simCfg := m.cfg.Simulation
	attempts := 0

	for {
		err := t.Run(ctx)
		if err == nil {
			return
		}

		m.logger.Error("device task failed",
			"device_id", t.DeviceID(),
			"error", err,
			"attempts", attempts)

		if !simCfg.RestartOnFailure {
			return
		}
		if simCfg.MaxRestartAttempts > 0 && attempts >= simCfg.MaxRestartAttempts {
			m.logger.Error("device task restart budget exhausted",
				"device_id", t.DeviceID(),
				"attempts", attempts)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.cfg.GetRestartDelay()):
		}

		attempts++
		m.mu.Lock()
		m.restarts++
		m.mu.Unlock()

		m.logger.Info("restarting device task",
			"device_id", t.DeviceID(),
			"attempt", attempts)
	}
}
