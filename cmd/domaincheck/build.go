package main

import (
	"domaincheck/internal/check"
	"domaincheck/internal/inventory"
	"domaincheck/internal/service"
)

func (a *app) probes() *check.Probes {
	return &check.Probes{
		DNS:            service.NewDNSService(a.cfg.DNSResolver, a.cfg.DNSTimeout),
		HTTP:           service.NewRedirectResolver(a.cfg.HTTPTimeout),
		TLS:            service.NewSSLService(a.cfg.HTTPTimeout),
		ExpectClosed:   service.ExpectClosed,
		ConnectTimeout: a.cfg.ConnectTimeout,
	}
}

func (a *app) catalog() ([]check.Check, error) {
	inv, err := inventory.Load(a.cfg.InventoryPath)
	if err != nil {
		return nil, err
	}
	return check.Catalog(inv, check.Options{
		TTL: service.TTLPolicy{
			Nominal:   uint32(a.cfg.TTLNominal),
			Tolerance: a.cfg.TTLTolerance,
		},
		CertMinDays: a.cfg.CertMinDays,
	}), nil
}

func (a *app) runner() (*check.Runner, error) {
	checks, err := a.catalog()
	if err != nil {
		return nil, err
	}
	return check.NewRunner(a.probes(), checks, a.cfg.CheckTimeout), nil
}
