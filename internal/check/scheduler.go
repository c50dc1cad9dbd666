package check

import (
	"context"

	"domaincheck/internal/utils"

	"github.com/robfig/cron/v3"
)

// Scheduler re-runs the suite on a cron spec. Nothing is kept between runs
// besides the metrics of the latest one.
type Scheduler struct {
	Cron   *cron.Cron
	Runner *Runner
	Spec   string
}

func NewScheduler(r *Runner, spec string) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Runner: r,
		Spec:   spec,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.Cron.AddFunc(s.Spec, s.RunSuiteJob); err != nil {
		return err
	}
	s.Cron.Start()
	utils.Log.Info("scheduler started", utils.Field("spec", s.Spec))
	return nil
}

func (s *Scheduler) RunSuiteJob() {
	report := s.Runner.Run(context.Background())
	if !report.OK() {
		utils.Log.Warn("scheduled suite has failures",
			utils.Field("failed", report.Failed),
			utils.Field("errored", report.Errored),
		)
	}
}

// Stop waits for a running suite to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
}
