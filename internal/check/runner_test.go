package check

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"domaincheck/internal/model"
	"domaincheck/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(name string, err error) Check {
	return Check{
		Name:   name,
		Target: "test://" + name,
		Run: func(ctx context.Context, p *Probes) error {
			return err
		},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status model.Status
		kind   model.FailureKind
	}{
		{"nil", nil, model.StatusPass, model.KindNone},
		{"assertion", failf("wrong"), model.StatusFail, model.KindAssertion},
		{"wrapped assertion", fmt.Errorf("outer: %w", failf("wrong")), model.StatusFail, model.KindAssertion},
		{"redirect limit", fmt.Errorf("http://a: %w", service.ErrTooManyRedirects), model.StatusFail, model.KindRedirectLimit},
		{"missing location", service.ErrMissingLocation, model.StatusFail, model.KindAssertion},
		{"port open", service.ErrReachable, model.StatusFail, model.KindAssertion},
		{"network", errNoRoute, model.StatusError, model.KindNetwork},
		{"deadline", context.DeadlineExceeded, model.StatusError, model.KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, kind := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestFilter(t *testing.T) {
	checks := []Check{
		stub("mail/mx/a.com", nil),
		stub("mail/cname/mail.a.com", nil),
		stub("shortcut/pm.a.com", nil),
	}

	assert.Len(t, Filter(checks, nil), 3)
	assert.Len(t, Filter(checks, []string{"mail/"}), 2)
	assert.Len(t, Filter(checks, []string{"mail/mx", "shortcut/"}), 2)
	assert.Empty(t, Filter(checks, []string{"canonical/"}))
}

func TestRunner_Report(t *testing.T) {
	r := NewRunner(&Probes{}, []Check{
		stub("a", nil),
		stub("b", failf("b is wrong")),
		stub("c", errNoRoute),
		stub("d", nil),
	}, time.Second)

	report := r.Run(context.Background())
	require.Len(t, report.Results, 4)
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Errored)
	assert.False(t, report.OK())

	// Results come back in catalog order.
	for i, name := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, name, report.Results[i].Name)
	}
	assert.Equal(t, "b is wrong", report.Results[1].Message)
	assert.Equal(t, "test://c", report.Results[2].Target)
}

func TestRunner_OneFailureDoesNotStopTheSuite(t *testing.T) {
	var ran []string
	record := func(name string, err error) Check {
		return Check{Name: name, Run: func(ctx context.Context, p *Probes) error {
			ran = append(ran, name)
			return err
		}}
	}

	r := NewRunner(&Probes{}, []Check{
		record("first", errNoRoute),
		record("second", failf("nope")),
		record("third", nil),
	}, time.Second)
	r.Run(context.Background())

	assert.Equal(t, []string{"first", "second", "third"}, ran)
}

func TestRunner_PerCheckTimeout(t *testing.T) {
	hang := Check{Name: "hang", Run: func(ctx context.Context, p *Probes) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	r := NewRunner(&Probes{}, []Check{hang, stub("after", nil)}, 50*time.Millisecond)
	report := r.Run(context.Background())

	require.Len(t, report.Results, 2)
	assert.Equal(t, model.StatusError, report.Results[0].Status)
	assert.Equal(t, model.StatusPass, report.Results[1].Status, "a timed-out check must not poison the next one")
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stop := Check{Name: "stop", Run: func(context.Context, *Probes) error {
		cancel()
		return nil
	}}

	r := NewRunner(&Probes{}, []Check{stop, stub("never", nil)}, time.Second)
	report := r.Run(ctx)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "stop", report.Results[0].Name)
}

func TestRunner_Serialized(t *testing.T) {
	var mu sync.Mutex
	active, peak := 0, 0
	track := Check{Name: "track", Run: func(context.Context, *Probes) error {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return nil
	}}

	r := NewRunner(&Probes{}, []Check{track, track}, time.Second)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Run(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, peak, "overlapping runs must not probe concurrently")
}

func TestRunner_RunChecksSubset(t *testing.T) {
	r := NewRunner(&Probes{}, []Check{stub("mail/mx/a.com", nil), stub("shortcut/x", failf("x"))}, time.Second)

	report := r.RunChecks(context.Background(), Filter(r.Checks, []string{"mail/"}))
	assert.True(t, report.OK())
	assert.Len(t, report.Results, 1)
}
