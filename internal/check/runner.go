package check

import (
	"context"
	"sync"
	"time"

	"domaincheck/internal/model"
	"domaincheck/internal/utils"
)

// Runner executes checks one after another. Overlapping calls to Run wait
// for each other.
type Runner struct {
	Probes  *Probes
	Checks  []Check
	Timeout time.Duration

	mu sync.Mutex
}

func NewRunner(p *Probes, checks []Check, timeout time.Duration) *Runner {
	return &Runner{Probes: p, Checks: checks, Timeout: timeout}
}

func (r *Runner) Run(ctx context.Context) *model.Report {
	return r.RunChecks(ctx, r.Checks)
}

// RunChecks runs the given subset with the runner's probes.
func (r *Runner) RunChecks(ctx context.Context, checks []Check) *model.Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	report := &model.Report{StartedAt: time.Now().UTC()}
	utils.Log.Info("starting suite", utils.Field("checks", len(checks)))

	for _, c := range checks {
		if ctx.Err() != nil {
			utils.Log.Warn("suite cancelled", utils.Field("error", ctx.Err().Error()))
			break
		}
		res := r.runOne(ctx, c)
		report.Add(res)
		utils.ObserveCheck(res.Name, string(res.Status), string(res.Kind), res.Duration.Seconds())
	}

	report.Elapsed = time.Since(report.StartedAt)
	utils.ObserveRun()
	utils.Log.Info("finished suite",
		utils.Field("passed", report.Passed),
		utils.Field("failed", report.Failed),
		utils.Field("errored", report.Errored),
		utils.Field("elapsed", report.Elapsed.String()),
	)
	return report
}

func (r *Runner) runOne(ctx context.Context, c Check) model.CheckResult {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := c.Run(ctx, r.Probes)
	status, kind := Classify(err)

	res := model.CheckResult{
		Name:     c.Name,
		Target:   c.Target,
		Status:   status,
		Kind:     kind,
		Duration: time.Since(start),
	}
	if err != nil {
		res.Message = err.Error()
	}

	switch status {
	case model.StatusPass:
		utils.Log.Debug("check passed", utils.Field("check", c.Name), utils.Field("duration", res.Duration.String()))
	case model.StatusFail:
		utils.Log.Warn("check failed", utils.Field("check", c.Name), utils.Field("kind", kind), utils.Field("message", res.Message))
	default:
		utils.Log.Error("check errored", utils.Field("check", c.Name), utils.Field("target", c.Target), utils.Field("error", res.Message))
	}
	return res
}
