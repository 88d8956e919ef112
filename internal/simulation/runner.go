package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ecohub-labs/ecohub-core/internal/device"
	"github.com/ecohub-labs/ecohub-core/internal/infrastructure/config"
	"github.com/ecohub-labs/ecohub-core/internal/telemetry"
)

// Status represents the current state of a device task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConnecting Status = "connecting"
	StatusRunning    Status = "running"
	StatusStopped    Status = "stopped"
	StatusFailed     Status = "failed"
)

// Logger defines the logging interface used by the simulation package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Pusher accepts snapshots for persistence. Satisfied by telemetry.Queue.
type Pusher interface {
	Push(snap device.Snapshot) error
}

// Task drives one device through its simulated life:
//
//	connecting (randomised latency) -> connected -> tick loop
//
// Each tick waits a randomised interval, applies the variant's ambient
// behaviour (camera motion and battery drain, thermostat temperature
// drift, nothing for bulbs), then pushes a snapshot onto the telemetry
// queue. The loop runs until the context is cancelled.
//
// The task mutates its device only through the device's own atomic
// methods, so it can run alongside the analytics pipeline issuing
// commands to the same device.
type Task struct {
	dev    device.Device
	queue  Pusher
	cfg    *config.Config
	rng    *rand.Rand
	logger Logger

	mu     sync.Mutex
	status Status
	ticks  int64
}

// NewTask creates a task for one device.
//
// Parameters:
//   - dev: Device to simulate
//   - queue: Destination for per-tick snapshots
//   - cfg: Simulation timing and behaviour settings
//   - seed: Seed for this task's private random source
//
// Returns:
//   - *Task: Task ready for Run
func NewTask(dev device.Device, queue Pusher, cfg *config.Config, seed int64) *Task {
	return &Task{
		dev:    dev,
		queue:  queue,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		logger: noopLogger{},
		status: StatusPending,
	}
}

// SetLogger sets the logger used for lifecycle and tick events.
func (t *Task) SetLogger(logger Logger) {
	if logger != nil {
		t.logger = logger
	}
}

// DeviceID returns the simulated device's identifier.
func (t *Task) DeviceID() string {
	return t.dev.ID()
}

// Status returns the task's current lifecycle state.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Ticks returns the number of completed tick cycles.
func (t *Task) Ticks() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticks
}

func (t *Task) setStatus(s Status) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Run executes the task until the context is cancelled.
//
// Cancellation is the normal way to stop a task and yields a nil error;
// the device is disconnected on the way out. A panic in the tick loop is
// recovered and returned as an error so the manager can apply its
// restart policy.
func (t *Task) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			t.setStatus(StatusFailed)
			err = fmt.Errorf("device task panic: %v", r)
		}
	}()

	t.setStatus(StatusConnecting)
	t.logger.Info("device connecting", "device_id", t.dev.ID(), "type", t.dev.Type())

	minLat, maxLat := t.cfg.GetConnectLatencyRange()
	if !t.sleep(ctx, t.randDuration(minLat, maxLat)) {
		t.setStatus(StatusStopped)
		return nil
	}

	t.dev.Connect()
	t.setStatus(StatusRunning)
	t.logger.Info("device connected", "device_id", t.dev.ID(), "type", t.dev.Type())

	defer func() {
		t.dev.Disconnect()
		if t.Status() != StatusFailed {
			t.setStatus(StatusStopped)
		}
		t.logger.Info("device disconnected", "device_id", t.dev.ID(), "ticks", t.Ticks())
	}()

	minTick, maxTick := t.cfg.GetTickRange()
	for {
		if !t.sleep(ctx, t.randDuration(minTick, maxTick)) {
			return nil
		}

		if ok := t.tick(ctx); !ok {
			return nil
		}

		t.mu.Lock()
		t.ticks++
		t.mu.Unlock()
	}
}

// tick applies one cycle of ambient behaviour and queues a snapshot.
// Returns false when the tick detected shutdown and the loop should end.
func (t *Task) tick(ctx context.Context) bool {
	switch d := t.dev.(type) {
	case *device.Camera:
		if !t.tickCamera(ctx, d) {
			return false
		}
	case *device.Thermostat:
		t.tickThermostat(d)
	}
	// Bulbs change only in response to commands.

	if err := t.queue.Push(t.dev.Snapshot()); err != nil {
		if errors.Is(err, telemetry.ErrQueueClosed) {
			// Shutdown closed the queue before this task observed
			// cancellation.
			return false
		}
		t.logger.Warn("snapshot push failed", "device_id", t.dev.ID(), "error", err)
	}
	return true
}

// tickCamera rolls for motion, drains the battery and inserts the low
// battery pause when the level falls below the configured threshold.
func (t *Task) tickCamera(ctx context.Context, cam *device.Camera) bool {
	camCfg := t.cfg.Simulation.Camera

	motion := t.rng.Float64() < camCfg.MotionProbability
	drain := t.rng.Intn(camCfg.BaselineDrainMax + 1)
	if motion {
		drain += t.rng.Intn(camCfg.MotionDrainMax + 1)
	}

	level := cam.ObserveMotion(motion, drain)
	if motion {
		t.logger.Debug("motion event", "device_id", cam.ID(), "battery_level", level)
	}

	if level < camCfg.LowBatteryThreshold {
		t.logger.Debug("battery low, slowing tick", "device_id", cam.ID(), "battery_level", level)
		return t.sleep(ctx, t.cfg.GetLowBatteryPause())
	}
	return true
}

// tickThermostat perturbs the current temperature by a uniform value in
// [-DriftRange, +DriftRange].
func (t *Task) tickThermostat(th *device.Thermostat) {
	driftRange := t.cfg.Simulation.Thermostat.DriftRange
	delta := (t.rng.Float64()*2 - 1) * driftRange
	th.Drift(delta)
}

// randDuration returns a uniform duration in [minWait, maxWait].
func (t *Task) randDuration(minWait, maxWait time.Duration) time.Duration {
	if maxWait <= minWait {
		return minWait
	}
	return minWait + time.Duration(t.rng.Int63n(int64(maxWait-minWait)))
}

// sleep waits for the duration or until the context is cancelled.
// Returns false on cancellation.
func (t *Task) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
