package scheduler

import (
	"log"
	"sync"
	"time"
)

// Job is one recurring task. Run receives the tick time so tests can invoke
// it synchronously with a chosen clock.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(now time.Time)
}

// Scheduler drives each job on its own ticker. It replaces ad-hoc cron
// wiring: jobs stay plain functions and the timer is the only moving part.
type Scheduler struct {
	jobs []Job
	quit chan struct{}
	wg   sync.WaitGroup
}

func New(jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs: jobs,
		quit: make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runLoop(job)
	}
	log.Printf("Scheduler started with %d job(s)", len(s.jobs))
}

func (s *Scheduler) runLoop(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			job.Run(now)
		case <-s.quit:
			return
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}
