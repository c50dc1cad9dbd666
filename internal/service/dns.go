package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"
)

type MXRecord struct {
	Preference uint16 `json:"preference"`
	Exchange   string `json:"exchange"`
	TTL        uint32 `json:"ttl"`
}

type TXTRecord struct {
	Text string `json:"text"`
	TTL  uint32 `json:"ttl"`
}

type CNAMERecord struct {
	Name   string `json:"name"`
	Target string `json:"target"`
	TTL    uint32 `json:"ttl"`
}

// DNSService asks a single recursive resolver. It never retries; a failed
// exchange is returned to the caller as is.
type DNSService struct {
	Resolver string
	Timeout  time.Duration
}

func NewDNSService(resolver string, timeout time.Duration) *DNSService {
	if resolver == "" {
		resolver = "8.8.8.8:53"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DNSService{
		Resolver: resolver,
		Timeout:  timeout,
	}
}

// Lookup returns the answer records of type qtype for name, in resolver
// order. NXDOMAIN and NODATA both yield an empty slice.
func (s *DNSService) Lookup(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = true

	c := &dns.Client{Timeout: s.Timeout}
	in, _, err := c.ExchangeContext(ctx, m, s.Resolver)
	if err != nil {
		return nil, fmt.Errorf("%s %s via %s: %w", dns.TypeToString[qtype], name, s.Resolver, err)
	}
	// Large TXT sets (SPF plus DKIM keys) do not fit in a UDP answer.
	if in.Truncated {
		c.Net = "tcp"
		in, _, err = c.ExchangeContext(ctx, m, s.Resolver)
		if err != nil {
			return nil, fmt.Errorf("%s %s via %s/tcp: %w", dns.TypeToString[qtype], name, s.Resolver, err)
		}
	}

	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return []dns.RR{}, nil
	default:
		return nil, fmt.Errorf("%s %s via %s: %s", dns.TypeToString[qtype], name, s.Resolver, dns.RcodeToString[in.Rcode])
	}

	records := make([]dns.RR, 0, len(in.Answer))
	for _, rr := range in.Answer {
		if rr.Header().Rrtype == qtype {
			records = append(records, rr)
		}
	}
	return records, nil
}

func (s *DNSService) LookupMX(ctx context.Context, name string) ([]MXRecord, error) {
	rrs, err := s.Lookup(ctx, name, dns.TypeMX)
	if err != nil {
		return nil, err
	}
	out := make([]MXRecord, 0, len(rrs))
	for _, rr := range rrs {
		if mx, ok := rr.(*dns.MX); ok {
			out = append(out, MXRecord{
				Preference: mx.Preference,
				Exchange:   hostname(mx.Mx),
				TTL:        mx.Hdr.Ttl,
			})
		}
	}
	return out, nil
}

func (s *DNSService) LookupTXT(ctx context.Context, name string) ([]TXTRecord, error) {
	rrs, err := s.Lookup(ctx, name, dns.TypeTXT)
	if err != nil {
		return nil, err
	}
	out := make([]TXTRecord, 0, len(rrs))
	for _, rr := range rrs {
		if txt, ok := rr.(*dns.TXT); ok {
			// TXT strings are often split at 255 bytes
			out = append(out, TXTRecord{Text: strings.Join(txt.Txt, ""), TTL: txt.Hdr.Ttl})
		}
	}
	return out, nil
}

func (s *DNSService) LookupCNAME(ctx context.Context, name string) ([]CNAMERecord, error) {
	rrs, err := s.Lookup(ctx, name, dns.TypeCNAME)
	if err != nil {
		return nil, err
	}
	out := make([]CNAMERecord, 0, len(rrs))
	for _, rr := range rrs {
		if c, ok := rr.(*dns.CNAME); ok {
			out = append(out, CNAMERecord{
				Name:   hostname(c.Hdr.Name),
				Target: hostname(c.Target),
				TTL:    c.Hdr.Ttl,
			})
		}
	}
	return out, nil
}

func (s *DNSService) LookupNS(ctx context.Context, name string) ([]string, error) {
	rrs, err := s.Lookup(ctx, name, dns.TypeNS)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rrs))
	for _, rr := range rrs {
		if ns, ok := rr.(*dns.NS); ok {
			out = append(out, hostname(ns.Ns))
		}
	}
	return out, nil
}

func hostname(fqdn string) string {
	return strings.ToLower(strings.TrimSuffix(fqdn, "."))
}
