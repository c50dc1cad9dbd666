package check

import (
	"domaincheck/internal/inventory"
	"domaincheck/internal/service"
)

type Options struct {
	TTL         service.TTLPolicy
	CertMinDays int
}

// Catalog expands the inventory into the full ordered list of checks.
func Catalog(inv *inventory.Inventory, opts Options) []Check {
	var checks []Check
	checks = append(checks, alternateChecks(inv)...)
	checks = append(checks, canonicalChecks(inv, opts.CertMinDays)...)
	checks = append(checks, mailChecks(inv, opts.TTL)...)
	checks = append(checks, verificationChecks(inv)...)
	checks = append(checks, shortcutChecks(inv)...)
	return checks
}
