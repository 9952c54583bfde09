// Package jobs runs functions on a fixed interval.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs fn every d until the returned stop func is called. Stopping
// does not interrupt a run already in progress.
type Scheduler interface {
	Every(d time.Duration, fn func()) (stop func())
}

type CronScheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func NewCronScheduler(log zerolog.Logger) *CronScheduler {
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger{log: log}),
		cron.WithChain(cron.Recover(cronLogger{log: log})),
	)
	return &CronScheduler{cron: c, log: log}
}

func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop removes every schedule and waits for running jobs, or for ctx.
func (s *CronScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Every schedules fn with cron's constant-delay schedule, which rounds d
// down to whole seconds with a one second minimum.
func (s *CronScheduler) Every(d time.Duration, fn func()) func() {
	id := s.cron.Schedule(cron.Every(d), cron.FuncJob(fn))
	s.log.Debug().Dur("interval", d).Int("entry", int(id)).Msg("schedule added")

	var once sync.Once
	return func() {
		once.Do(func() {
			s.cron.Remove(id)
			s.log.Debug().Int("entry", int(id)).Msg("schedule removed")
		})
	}
}

type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
