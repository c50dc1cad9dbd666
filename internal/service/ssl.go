package service

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"time"
)

type SSLInfo struct {
	Issuer      string    `json:"issuer"`
	Subject     string    `json:"subject"`
	DNSNames    []string  `json:"dns_names"`
	Expiry      time.Time `json:"expiry"`
	DaysLeft    int       `json:"days_left"`
	Protocol    string    `json:"protocol"`
	CipherSuite string    `json:"cipher_suite"`
}

// SSLService performs verified handshakes. A nil RootCAs uses the system
// pool.
type SSLService struct {
	Timeout time.Duration
	RootCAs *x509.CertPool
}

func NewSSLService(timeout time.Duration) *SSLService {
	return &SSLService{Timeout: timeout}
}

// GetSSLInfo handshakes with addr (host:port) presenting host as SNI and
// describes the leaf certificate. Verification failures are errors.
func (s *SSLService) GetSSLInfo(ctx context.Context, host, addr string) (*SSLInfo, error) {
	d := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: s.Timeout},
		Config:    &tls.Config{ServerName: host, RootCAs: s.RootCAs},
	}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = conn.Close()
	}()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil, errors.New("no certificates found")
	}
	cert := state.PeerCertificates[0]

	return &SSLInfo{
		Issuer:      cert.Issuer.CommonName,
		Subject:     cert.Subject.CommonName,
		DNSNames:    cert.DNSNames,
		Expiry:      cert.NotAfter,
		DaysLeft:    int(time.Until(cert.NotAfter).Hours() / 24),
		Protocol:    tls.VersionName(state.Version),
		CipherSuite: tls.CipherSuiteName(state.CipherSuite),
	}, nil
}
