package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/tandem/internal/logger"
)

const DefaultGeneratorInterval = 24 * time.Hour

type ActiveRoutineGenerator interface {
	GenerateForAllActiveRoutines(ctx context.Context, windowDays int) (GenerationResult, error)
}

// GeneratorJob runs one generation pass at Start, the next at the following
// local midnight, and then every interval. Passes never overlap.
type GeneratorJob struct {
	generator  ActiveRoutineGenerator
	clock      Clock
	location   *time.Location
	interval   time.Duration
	windowDays int

	tickMu sync.Mutex
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewGeneratorJob(generator ActiveRoutineGenerator, clock Clock, location *time.Location, interval time.Duration, windowDays int) *GeneratorJob {
	if clock == nil {
		clock = SystemClock{}
	}
	if location == nil {
		location = time.Local
	}
	if interval <= 0 {
		interval = DefaultGeneratorInterval
	}
	if windowDays <= 0 {
		windowDays = MaterializationWindowDays
	}
	return &GeneratorJob{
		generator:  generator,
		clock:      clock,
		location:   location,
		interval:   interval,
		windowDays: windowDays,
	}
}

func (job *GeneratorJob) Start(ctx context.Context) {
	job.mu.Lock()
	defer job.mu.Unlock()
	if job.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	job.cancel = cancel
	job.done = done
	go job.loop(runCtx, done)
}

// Stop cancels the loop and waits for an in-flight pass to return.
func (job *GeneratorJob) Stop() {
	job.mu.Lock()
	cancel := job.cancel
	done := job.done
	job.cancel = nil
	job.done = nil
	job.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (job *GeneratorJob) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	job.Tick(ctx)
	wait := job.untilNextMidnight()
	for {
		select {
		case <-ctx.Done():
			return
		case <-job.clock.After(wait):
			job.Tick(ctx)
			wait = job.interval
		}
	}
}

// Tick runs a single generation pass synchronously.
func (job *GeneratorJob) Tick(ctx context.Context) (GenerationResult, error) {
	job.tickMu.Lock()
	defer job.tickMu.Unlock()

	runID := uuid.NewString()
	started := job.clock.Now()
	result, err := job.generator.GenerateForAllActiveRoutines(ctx, job.windowDays)
	if err != nil {
		logger.Error("routine generation run failed", "run_id", runID, "err", err)
		return result, err
	}

	logger.Info("routine generation run finished",
		"run_id", runID,
		"routines", result.RoutinesProcessed,
		"occurrences", result.OccurrencesGenerated,
		"failed", result.RoutinesFailed,
		"elapsed", job.clock.Now().Sub(started),
	)
	return result, nil
}

func (job *GeneratorJob) untilNextMidnight() time.Duration {
	now := job.clock.Now()
	tomorrow := CalendarDay(now, job.location).AddDate(0, 0, 1)
	return StartOfDay(tomorrow, job.location).Sub(now)
}
