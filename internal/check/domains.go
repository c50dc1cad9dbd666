package check

import (
	"context"
	"crypto/tls"
	"errors"

	"domaincheck/internal/inventory"
	"domaincheck/internal/model"
	"domaincheck/internal/service"
	"domaincheck/internal/urlutil"
)

const (
	statusMovedPermanently = "301 Moved Permanently"
	httpsPort              = 443
)

func alternateChecks(inv *inventory.Inventory) []Check {
	var checks []Check
	for _, d := range inventory.WithWWW(inv.WithRole(model.RoleAlternate)) {
		checks = append(checks,
			permanentRedirect("alternate/http-301/"+d.Name, "http://"+d.Name),
			reachesCanonical("alternate/reaches-canonical/"+d.Name, "http://"+d.Name, inv.CanonicalURL, inv.Hops(d)),
		)
		if d.Authority == model.AuthorityRegistrar {
			checks = append(checks, httpsClosed("alternate/https-closed/"+d.Name, d.Name))
		}
	}
	return checks
}

func canonicalChecks(inv *inventory.Inventory, certMinDays int) []Check {
	canonical := inv.Canonical()
	www := "www." + canonical.Name
	return []Check{
		oneHopTo("canonical/www-redirect/http://"+www, "http://"+www, inv.CanonicalURL),
		oneHopTo("canonical/www-redirect/https://"+www, "https://"+www, inv.CanonicalURL),
		reachesCanonical("canonical/http-upgrade/"+canonical.Name, "http://"+canonical.Name, inv.CanonicalURL, inv.Hops(canonical)),
		certificate("canonical/certificate/"+canonical.Name, canonical.Name, certMinDays),
	}
}

// permanentRedirect requires the very first answer to be a 301.
func permanentRedirect(name, target string) Check {
	return Check{
		Name:   name,
		Target: target,
		Run: func(ctx context.Context, p *Probes) error {
			resp, err := p.HTTP.Get(ctx, target)
			if err != nil {
				return err
			}
			if resp.Status != statusMovedPermanently {
				return failf("%s had the wrong response code: want %q, got %q", target, statusMovedPermanently, resp.Status)
			}
			return nil
		},
	}
}

// oneHopTo requires a 301 whose Location is want, without following it.
func oneHopTo(name, target, want string) Check {
	return Check{
		Name:   name,
		Target: target,
		Run: func(ctx context.Context, p *Probes) error {
			resp, err := p.HTTP.Get(ctx, target)
			if err != nil {
				return err
			}
			if resp.Status != statusMovedPermanently {
				return failf("%s had the wrong response code: want %q, got %q", target, statusMovedPermanently, resp.Status)
			}
			if resp.Location == "" {
				return failf("%s answered %s without a Location", target, resp.Status)
			}
			if !urlutil.Same(resp.Location, want) {
				return failf("%s redirected to the wrong place: want %s, got %s", target, want, resp.Location)
			}
			return nil
		},
	}
}

// reachesCanonical follows up to hops redirects and requires the chain to
// arrive at want. Whatever want itself answers is not held against target.
func reachesCanonical(name, target, want string, hops int) Check {
	return Check{
		Name:   name,
		Target: target,
		Run: func(ctx context.Context, p *Probes) error {
			final, chain, err := p.HTTP.Follow(ctx, target, hops)
			if arrived(chain, want, hops) {
				return nil
			}
			if err != nil {
				return err
			}
			if !urlutil.Same(final, want) {
				return failf("%s redirected to the wrong place after %d hop(s): want %s, got %s", target, chain.Redirects(), want, final)
			}
			return nil
		},
	}
}

// arrived reports whether some request within the hop budget was for want.
// Hop i of a chain was reached through i redirects.
func arrived(chain *service.RedirectChain, want string, hops int) bool {
	if chain == nil {
		return false
	}
	for i, h := range chain.Hops {
		if i > 0 && i <= hops && urlutil.Same(h.URL, want) {
			return true
		}
	}
	return false
}

func httpsClosed(name, host string) Check {
	return Check{
		Name:   name,
		Target: "https://" + host,
		Run: func(ctx context.Context, p *Probes) error {
			_, err := p.ExpectClosed(ctx, host, httpsPort, p.ConnectTimeout)
			return err
		},
	}
}

func certificate(name, host string, minDays int) Check {
	return Check{
		Name:   name,
		Target: "https://" + host,
		Run: func(ctx context.Context, p *Probes) error {
			info, err := p.TLS.GetSSLInfo(ctx, host, host+":443")
			var verr *tls.CertificateVerificationError
			if errors.As(err, &verr) {
				return failf("certificate for %s does not verify: %v", host, verr.Err)
			}
			if err != nil {
				return err
			}
			if info.DaysLeft < minDays {
				return failf("certificate for %s expires in %d days (at %s), want at least %d", host, info.DaysLeft, info.Expiry.Format("2006-01-02"), minDays)
			}
			return nil
		},
	}
}
