package check

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"domaincheck/internal/inventory"
	"domaincheck/internal/model"
	"domaincheck/internal/service"
)

func mailChecks(inv *inventory.Inventory, ttl service.TTLPolicy) []Check {
	var checks []Check
	for _, d := range inv.WithRole(model.RoleMail) {
		checks = append(checks, mxSet("mail/mx/"+d.Name, d.Name, inv.MailMX, ttl))
		for _, c := range inv.MailCNAMEs {
			c.Name = inventory.Expand(c.Name, d.Name)
			checks = append(checks, cnameTarget("mail/cname/"+c.Name, c))
		}
		for _, t := range inv.MailTXT {
			t.Name = inventory.Expand(t.Name, d.Name)
			checks = append(checks, txtRecord("mail/txt/"+t.Name+"/"+strings.TrimSpace(t.Prefix), t))
		}
	}
	for _, d := range inv.NonMailAlternates() {
		checks = append(checks, noMX("mail/no-mx/"+d.Name, d.Name))
	}
	return checks
}

func verificationChecks(inv *inventory.Inventory) []Check {
	var checks []Check
	for _, t := range inv.TXT {
		checks = append(checks, txtRecord("verification/txt/"+t.Name+"/"+strings.TrimSpace(t.Prefix), t))
	}
	return checks
}

func formatMX(records []service.MXRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, fmt.Sprintf("%d %s", r.Preference, r.Exchange))
	}
	return out
}

// mxSet compares the MX set as a whole, then holds every record's TTL to
// the policy.
func mxSet(name, domain string, want []model.ExpectedMX, ttl service.TTLPolicy) Check {
	expected := make([]service.MXRecord, 0, len(want))
	for _, w := range want {
		expected = append(expected, service.MXRecord{Preference: w.Preference, Exchange: w.Exchange})
	}

	return Check{
		Name:   name,
		Target: domain,
		Run: func(ctx context.Context, p *Probes) error {
			records, err := p.DNS.LookupMX(ctx, domain)
			if err != nil {
				return err
			}
			actual := service.SortMX(records)
			if ok, diff := service.CompareSet(formatMX(service.SortMX(expected)), formatMX(actual)); !ok {
				return failf("%s has the wrong MX records:\n%s", domain, diff)
			}
			for _, r := range actual {
				if err := ttl.Check(r.TTL); err != nil {
					return failf("%s MX %d %s: %v", domain, r.Preference, r.Exchange, err)
				}
			}
			return nil
		},
	}
}

func noMX(name, domain string) Check {
	return Check{
		Name:   name,
		Target: domain,
		Run: func(ctx context.Context, p *Probes) error {
			records, err := p.DNS.LookupMX(ctx, domain)
			if err != nil {
				return err
			}
			if len(records) != 0 {
				return failf("%s should not publish MX records, found %s", domain, strings.Join(formatMX(service.SortMX(records)), ", "))
			}
			return nil
		},
	}
}

func cnameTarget(name string, want model.ExpectedCNAME) Check {
	var pattern *regexp.Regexp
	if want.TargetPattern != "" {
		pattern = regexp.MustCompile(want.TargetPattern)
	}

	return Check{
		Name:   name,
		Target: want.Name,
		Run: func(ctx context.Context, p *Probes) error {
			records, err := p.DNS.LookupCNAME(ctx, want.Name)
			if err != nil {
				return err
			}
			if len(records) != 1 {
				return failf("%s should have exactly one CNAME record, found %d", want.Name, len(records))
			}
			got := records[0].Target
			switch {
			case pattern != nil && !pattern.MatchString(got):
				return failf("%s has a CNAME pointing to %s, want a match for %s", want.Name, got, want.TargetPattern)
			case pattern == nil && got != want.Target:
				return failf("%s has a CNAME pointing to %s, want %s", want.Name, got, want.Target)
			}
			return nil
		},
	}
}

// txtRecord narrows the TXT set on a name to the records sharing a prefix
// and requires exactly one, matching every constraint given.
func txtRecord(name string, want model.ExpectedTXT) Check {
	var pattern *regexp.Regexp
	if want.Pattern != "" {
		pattern = regexp.MustCompile(want.Pattern)
	}

	return Check{
		Name:   name,
		Target: want.Name,
		Run: func(ctx context.Context, p *Probes) error {
			records, err := p.DNS.LookupTXT(ctx, want.Name)
			if err != nil {
				return err
			}
			matching := service.FilterTXTPrefix(records, want.Prefix)
			if len(matching) != 1 {
				return failf("%s should have one TXT record starting with %q, found %d", want.Name, want.Prefix, len(matching))
			}
			got := matching[0].Text

			if want.Value != "" && got != want.Value {
				return failf("%s TXT %q: want %q", want.Name, got, want.Value)
			}
			if pattern != nil && !pattern.MatchString(got) {
				return failf("%s TXT %q does not match %s", want.Name, got, want.Pattern)
			}
			if want.Suffix != "" && !strings.HasSuffix(got, want.Suffix) {
				return failf("%s TXT %q does not end with %q", want.Name, got, want.Suffix)
			}
			var missing []string
			for _, c := range want.Contains {
				if !containsTerm(got, c) {
					missing = append(missing, c)
				}
			}
			if len(missing) > 0 {
				return failf("%s TXT %q is missing %s", want.Name, got, strings.Join(missing, ", "))
			}
			return nil
		},
	}
}

// containsTerm matches whole space-separated terms so that
// include:_spf.google.com is not satisfied by include:_spf.google.com.evil.
func containsTerm(record, term string) bool {
	for _, f := range strings.Fields(record) {
		if f == term {
			return true
		}
	}
	return false
}
