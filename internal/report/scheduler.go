package report

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// FileWriter receives the finished report artifact.
type FileWriter interface {
	WriteReport(filename string, data []byte) error
}

// DirWriter writes reports into a directory on disk.
type DirWriter struct {
	Dir string
}

func (w DirWriter) WriteReport(filename string, data []byte) error {
	return os.WriteFile(filepath.Join(w.Dir, filename), data, 0o644)
}

// Scheduler checks once per minute whether the daily report is due and, when
// the local clock reads exactly 23:59, generates yesterday's CSV and records
// the run. It is an explicit dependency with a Start/Stop lifecycle owned by
// the composition root; at most one per process.
type Scheduler struct {
	gen      *Generator
	schedule ScheduleRepository
	writer   FileWriter
	loc      *time.Location

	now      func() time.Time
	interval time.Duration

	// Advisory reentrancy guard for overlapping ticks, not a cross-process
	// lock.
	busy atomic.Bool

	stop chan struct{}
	done chan struct{}
}

func NewScheduler(gen *Generator, schedule ScheduleRepository, writer FileWriter, loc *time.Location) *Scheduler {
	return &Scheduler{
		gen:      gen,
		schedule: schedule,
		writer:   writer,
		loc:      loc,
		now:      time.Now,
		interval: time.Minute,
	}
}

// Start launches the minute ticker. Call Stop to shut it down.
func (s *Scheduler) Start() {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		log.Info().Dur("interval", s.interval).Msg("Daily report scheduler started")
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.Tick(context.Background())
			}
		}
	}()
}

// Stop terminates the ticker and waits for the loop to exit. Stopping an
// already stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	log.Info().Msg("Daily report scheduler stopped")
}

// Tick runs one scheduler check. Errors are logged, never propagated: a
// failed run is retried on a later tick because last_run stays untouched.
func (s *Scheduler) Tick(ctx context.Context) {
	if !s.busy.CompareAndSwap(false, true) {
		return
	}
	defer s.busy.Store(false)

	schedule, err := s.schedule.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: failed to read report schedule")
		return
	}
	if schedule != nil && !schedule.Enabled {
		return
	}

	now := s.now().In(s.loc)

	// Due when no run is recorded yet, or the last run was on another day.
	if schedule != nil && sameDay(schedule.LastRun.In(s.loc), now) {
		return
	}

	if now.Hour() != 23 || now.Minute() != 59 {
		return
	}

	yesterday := now.AddDate(0, 0, -1)
	csvData, err := s.gen.GenerateDailyCSV(ctx, yesterday)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: failed to generate daily report")
		return
	}

	filename := Filename(yesterday)
	if err := s.writer.WriteReport(filename, []byte(csvData)); err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("scheduler: failed to write daily report")
		return
	}

	if err := s.schedule.UpdateLastRun(ctx, s.now()); err != nil {
		log.Error().Err(err).Msg("scheduler: failed to record report run")
		return
	}

	log.Info().Str("filename", filename).Msg("Daily report generated")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
