package service

import (
	"fmt"
	"strings"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

type WhoisInfo struct {
	Registrar   string   `json:"registrar,omitempty"`
	NameServers []string `json:"name_servers,omitempty"`
	Expiry      string   `json:"expiry,omitempty"`
	Created     string   `json:"created,omitempty"`
	Raw         string   `json:"raw"`
}

// WhoisService tells who registered a domain and which nameservers the
// registry delegates to; inspect uses it to explain registrar vs. webhost
// authority.
type WhoisService struct {
	Query func(domain string, servers ...string) (string, error)
}

func NewWhoisService() *WhoisService {
	return &WhoisService{Query: whois.Whois}
}

func (s *WhoisService) Whois(domain string) (*WhoisInfo, error) {
	raw, err := s.Query(domain)
	if err != nil {
		return nil, fmt.Errorf("whois %s: %w", domain, err)
	}

	// Thin registries point at the registrar's own server.
	if ref := referral(raw); ref != "" {
		if refRaw, refErr := s.Query(domain, ref); refErr == nil && len(refRaw) > len(raw)/2 {
			raw = refRaw
		}
	}
	raw = stripComments(raw)

	info := &WhoisInfo{Raw: raw}
	result, err := whoisparser.Parse(raw)
	if err != nil {
		return info, nil
	}
	if result.Registrar != nil {
		info.Registrar = result.Registrar.Name
	}
	if result.Domain != nil {
		info.Expiry = result.Domain.ExpirationDate
		info.Created = result.Domain.CreatedDate
		for _, ns := range result.Domain.NameServers {
			info.NameServers = append(info.NameServers, strings.ToLower(strings.TrimSuffix(ns, ".")))
		}
	}
	return info, nil
}

func referral(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if ok && strings.EqualFold(key, "Registrar WHOIS Server") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// stripComments drops %/# comment lines and collapses blank runs.
func stripComments(raw string) string {
	var filtered []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "%") || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if trimmed == "" && (len(filtered) == 0 || filtered[len(filtered)-1] == "") {
			continue
		}
		filtered = append(filtered, line)
	}
	return strings.Join(filtered, "\n")
}
