package check

import (
	"context"
	"regexp"

	"domaincheck/internal/inventory"
	"domaincheck/internal/model"
)

func shortcutChecks(inv *inventory.Inventory) []Check {
	var checks []Check
	for _, s := range inv.Shortcuts {
		checks = append(checks, shortcut("shortcut/"+s.Host, s))
	}
	return checks
}

// shortcut compares the Location literally: these point at third-party
// URLs whose exact form matters.
func shortcut(name string, want model.Shortcut) Check {
	target := "http://" + want.Host
	var pattern *regexp.Regexp
	if want.LocationPattern != "" {
		pattern = regexp.MustCompile(want.LocationPattern)
	}

	return Check{
		Name:   name,
		Target: target,
		Run: func(ctx context.Context, p *Probes) error {
			resp, err := p.HTTP.Get(ctx, target)
			if err != nil {
				return err
			}
			switch {
			case pattern != nil && !pattern.MatchString(resp.Location):
				return failf("%s redirected to the wrong place: %q does not match %s", target, resp.Location, want.LocationPattern)
			case pattern == nil && resp.Location != want.Location:
				return failf("%s redirected to the wrong place: want %q, got %q", target, want.Location, resp.Location)
			}
			if resp.Status != want.Status {
				return failf("%s had the wrong response code: want %q, got %q", target, want.Status, resp.Status)
			}
			return nil
		},
	}
}
