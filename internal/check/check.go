package check

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"domaincheck/internal/model"
	"domaincheck/internal/service"
)

type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]service.MXRecord, error)
	LookupTXT(ctx context.Context, name string) ([]service.TXTRecord, error)
	LookupCNAME(ctx context.Context, name string) ([]service.CNAMERecord, error)
}

type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*service.Response, error)
	Follow(ctx context.Context, startURL string, maxHops int) (string, *service.RedirectChain, error)
}

type CertProber interface {
	GetSSLInfo(ctx context.Context, host, addr string) (*service.SSLInfo, error)
}

// PortProber succeeds only if host:port cannot be connected to.
type PortProber func(ctx context.Context, host string, port int, timeout time.Duration) (service.Refusal, error)

// Probes bundles the network collaborators a check may use.
type Probes struct {
	DNS            Resolver
	HTTP           Fetcher
	TLS            CertProber
	ExpectClosed   PortProber
	ConnectTimeout time.Duration
}

// Check is one independent assertion against live infrastructure.
type Check struct {
	Name   string
	Target string
	Run    func(ctx context.Context, p *Probes) error
}

// AssertionError means the probe worked and the answer was wrong.
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string {
	return e.Msg
}

func failf(format string, args ...interface{}) error {
	return &AssertionError{Msg: fmt.Sprintf(format, args...)}
}

// Classify maps a check error onto the report taxonomy.
func Classify(err error) (model.Status, model.FailureKind) {
	var ae *AssertionError
	switch {
	case err == nil:
		return model.StatusPass, model.KindNone
	case errors.As(err, &ae):
		return model.StatusFail, model.KindAssertion
	case errors.Is(err, service.ErrTooManyRedirects):
		return model.StatusFail, model.KindRedirectLimit
	case errors.Is(err, service.ErrMissingLocation), errors.Is(err, service.ErrReachable):
		return model.StatusFail, model.KindAssertion
	default:
		return model.StatusError, model.KindNetwork
	}
}

// Filter keeps the checks whose name starts with any of the prefixes. No
// prefixes keeps everything.
func Filter(checks []Check, prefixes []string) []Check {
	if len(prefixes) == 0 {
		return checks
	}
	var out []Check
	for _, c := range checks {
		for _, p := range prefixes {
			if strings.HasPrefix(c.Name, p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
