package check

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"domaincheck/internal/service"
	"domaincheck/internal/utils"
)

func init() {
	utils.TestInitLogger()
}

var errNoRoute = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("no route to host")}

type fakeDNS struct {
	mx    map[string][]service.MXRecord
	txt   map[string][]service.TXTRecord
	cname map[string][]service.CNAMERecord
	err   error
}

func (f *fakeDNS) LookupMX(ctx context.Context, name string) ([]service.MXRecord, error) {
	return f.mx[name], f.err
}

func (f *fakeDNS) LookupTXT(ctx context.Context, name string) ([]service.TXTRecord, error) {
	return f.txt[name], f.err
}

func (f *fakeDNS) LookupCNAME(ctx context.Context, name string) ([]service.CNAMERecord, error) {
	return f.cname[name], f.err
}

// fakeWeb maps a URL to a single response; Follow walks the same map.
type fakeWeb struct {
	responses map[string]service.Response
	calls     []string
}

func (f *fakeWeb) Get(ctx context.Context, rawURL string) (*service.Response, error) {
	f.calls = append(f.calls, rawURL)
	resp, ok := f.responses[rawURL]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", rawURL, errNoRoute)
	}
	resp.URL = rawURL
	return &resp, nil
}

func (f *fakeWeb) Follow(ctx context.Context, startURL string, maxHops int) (string, *service.RedirectChain, error) {
	chain := &service.RedirectChain{}
	current := startURL
	for {
		resp, err := f.Get(ctx, current)
		if err != nil {
			return "", chain, err
		}
		chain.Hops = append(chain.Hops, *resp)
		if !resp.IsRedirect() {
			return current, chain, nil
		}
		if chain.Redirects() > maxHops {
			return "", chain, service.ErrTooManyRedirects
		}
		current = resp.Location
	}
}

type fakeTLS struct {
	info *service.SSLInfo
	err  error
}

func (f *fakeTLS) GetSSLInfo(ctx context.Context, host, addr string) (*service.SSLInfo, error) {
	return f.info, f.err
}

// closedPorts answers ExpectClosed from a host set.
func closedPorts(open map[string]bool) PortProber {
	return func(ctx context.Context, host string, port int, timeout time.Duration) (service.Refusal, error) {
		if open[host] {
			return "", fmt.Errorf("%s:%d: %w", host, port, service.ErrReachable)
		}
		return service.RefusalTimeout, nil
	}
}

func moved(location string) service.Response {
	return service.Response{StatusCode: 301, Status: "301 Moved Permanently", Location: location}
}

func found(location string) service.Response {
	return service.Response{StatusCode: 302, Status: "302 Found", Location: location}
}

func ok() service.Response {
	return service.Response{StatusCode: 200, Status: "200 OK"}
}
