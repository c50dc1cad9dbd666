package service

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"domaincheck/internal/utils"

	"github.com/miekg/dns"
)

func init() {
	utils.TestInitLogger()
}

// startDNS serves zone (keyed by lowercased FQDN and type) on a local UDP
// port. Names not in the zone answer NXDOMAIN; names listed in fail answer
// SERVFAIL.
func startDNS(t *testing.T, records []string, fail ...string) string {
	t.Helper()

	zone := make(map[string][]dns.RR)
	for _, r := range records {
		rr, err := dns.NewRR(r)
		if err != nil {
			t.Fatalf("bad test record %q: %v", r, err)
		}
		name := strings.ToLower(rr.Header().Name)
		zone[name] = append(zone[name], rr)
	}
	failing := make(map[string]bool)
	for _, f := range fail {
		failing[dns.Fqdn(f)] = true
	}

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
			m := new(dns.Msg)
			m.SetReply(req)
			q := req.Question[0]
			name := strings.ToLower(q.Name)
			switch {
			case failing[name]:
				m.Rcode = dns.RcodeServerFailure
			case zone[name] == nil:
				m.Rcode = dns.RcodeNameError
			default:
				for _, rr := range zone[name] {
					// Like a real resolver, answer the CNAME for any type.
					if rr.Header().Rrtype == q.Qtype || rr.Header().Rrtype == dns.TypeCNAME {
						m.Answer = append(m.Answer, rr)
					}
				}
			}
			_ = w.WriteMsg(m)
		}),
	}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

var testZone = []string{
	"cfcarts.com. 3600 IN MX 10 alt4.aspmx.l.google.com.",
	"cfcarts.com. 3600 IN MX 1 ASPMX.L.GOOGLE.COM.",
	"cfcarts.com. 3000 IN MX 5 alt1.aspmx.l.google.com.",
	`cfcarts.com. 300 IN TXT "v=spf1 a include:_spf.google.com " "~all"`,
	`cfcarts.com. 300 IN TXT "google-site-verification=abc"`,
	"cfcarts.com. 300 IN NS ns1.example.net.",
	"mail.cfcarts.com. 300 IN CNAME ghs.googlehosted.com.",
}

func TestDNSService_LookupMX(t *testing.T) {
	s := NewDNSService(startDNS(t, testZone), 2*time.Second)

	mx, err := s.LookupMX(context.Background(), "cfcarts.com")
	if err != nil {
		t.Fatalf("LookupMX failed: %v", err)
	}
	if len(mx) != 3 {
		t.Fatalf("Expected 3 MX records, got %d", len(mx))
	}
	sorted := SortMX(mx)
	if sorted[0].Preference != 1 || sorted[0].Exchange != "aspmx.l.google.com" {
		t.Errorf("Expected normalized first exchange, got %+v", sorted[0])
	}
	if sorted[1].TTL != 3000 {
		t.Errorf("Expected TTL 3000 on alt1, got %d", sorted[1].TTL)
	}
}

func TestDNSService_LookupTXT(t *testing.T) {
	s := NewDNSService(startDNS(t, testZone), 2*time.Second)

	txt, err := s.LookupTXT(context.Background(), "cfcarts.com.")
	if err != nil {
		t.Fatalf("LookupTXT failed: %v", err)
	}
	spf := FilterTXTPrefix(txt, "v=spf1 ")
	if len(spf) != 1 {
		t.Fatalf("Expected one SPF record, got %d", len(spf))
	}
	if spf[0].Text != "v=spf1 a include:_spf.google.com ~all" {
		t.Errorf("Expected split strings to be joined, got %q", spf[0].Text)
	}
}

func TestDNSService_LookupCNAME(t *testing.T) {
	s := NewDNSService(startDNS(t, testZone), 2*time.Second)

	cn, err := s.LookupCNAME(context.Background(), "mail.cfcarts.com")
	if err != nil {
		t.Fatalf("LookupCNAME failed: %v", err)
	}
	if len(cn) != 1 || cn[0].Target != "ghs.googlehosted.com" {
		t.Errorf("Unexpected CNAME answer: %+v", cn)
	}

	// An MX query on an alias must not report the CNAME as an MX.
	mx, err := s.LookupMX(context.Background(), "mail.cfcarts.com")
	if err != nil {
		t.Fatalf("LookupMX failed: %v", err)
	}
	if len(mx) != 0 {
		t.Errorf("Expected no MX records, got %+v", mx)
	}
}

func TestDNSService_LookupNS(t *testing.T) {
	s := NewDNSService(startDNS(t, testZone), 2*time.Second)

	ns, err := s.LookupNS(context.Background(), "cfcarts.com")
	if err != nil {
		t.Fatalf("LookupNS failed: %v", err)
	}
	if len(ns) != 1 || ns[0] != "ns1.example.net" {
		t.Errorf("Unexpected NS answer: %v", ns)
	}
}

func TestDNSService_NXDOMAIN(t *testing.T) {
	s := NewDNSService(startDNS(t, testZone), 2*time.Second)

	rrs, err := s.Lookup(context.Background(), "nope.cfcarts.com", dns.TypeMX)
	if err != nil {
		t.Fatalf("NXDOMAIN should not be an error: %v", err)
	}
	if len(rrs) != 0 {
		t.Errorf("Expected empty set, got %v", rrs)
	}
}

func TestDNSService_ServFail(t *testing.T) {
	s := NewDNSService(startDNS(t, testZone, "broken.cfcarts.com"), 2*time.Second)

	_, err := s.LookupMX(context.Background(), "broken.cfcarts.com")
	if err == nil || !strings.Contains(err.Error(), "SERVFAIL") {
		t.Errorf("Expected SERVFAIL error, got %v", err)
	}
}

func TestDNSService_Unreachable(t *testing.T) {
	// Nothing listens here; the read times out.
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := pc.LocalAddr().String()
	_ = pc.Close()

	s := NewDNSService(addr, 300*time.Millisecond)
	if _, err := s.LookupMX(context.Background(), "cfcarts.com"); err == nil {
		t.Error("Expected error from unreachable resolver")
	}
}

func TestNewDNSService_Defaults(t *testing.T) {
	s := NewDNSService("", 0)
	if s.Resolver != "8.8.8.8:53" {
		t.Errorf("Expected default resolver, got %s", s.Resolver)
	}
	if s.Timeout != 5*time.Second {
		t.Errorf("Expected default timeout, got %v", s.Timeout)
	}
}
