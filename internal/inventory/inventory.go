package inventory

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"domaincheck/internal/model"

	"golang.org/x/net/idna"
	"gopkg.in/yaml.v3"
)

//go:embed inventory.yaml
var defaultInventory []byte

const domainPlaceholder = "{domain}"

type RedirectHops struct {
	Registrar int `yaml:"registrar"`
	Webhost   int `yaml:"webhost"`
}

// Inventory is the static description of every domain under test and the
// records and redirects each one is expected to serve.
type Inventory struct {
	CanonicalURL string                `yaml:"canonical_url"`
	RedirectHops RedirectHops          `yaml:"redirect_hops"`
	Domains      []model.Domain        `yaml:"domains"`
	MailMX       []model.ExpectedMX    `yaml:"mail_mx"`
	MailCNAMEs   []model.ExpectedCNAME `yaml:"mail_cnames"`
	MailTXT      []model.ExpectedTXT   `yaml:"mail_txt"`
	TXT          []model.ExpectedTXT   `yaml:"txt"`
	Shortcuts    []model.Shortcut      `yaml:"shortcuts"`
}

// Load reads the inventory at path, or the embedded default when path is
// empty.
func Load(path string) (*Inventory, error) {
	data := defaultInventory
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read inventory: %w", err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (*Inventory, error) {
	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}
	if err := inv.normalize(); err != nil {
		return nil, err
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (inv *Inventory) normalize() error {
	for i := range inv.Domains {
		name, err := normalizeName(inv.Domains[i].Name)
		if err != nil {
			return err
		}
		inv.Domains[i].Name = name
	}
	// Live answers come back lowercased without the root dot.
	for i := range inv.MailMX {
		inv.MailMX[i].Exchange = recordName(inv.MailMX[i].Exchange)
	}
	for i := range inv.MailCNAMEs {
		inv.MailCNAMEs[i].Name = recordName(inv.MailCNAMEs[i].Name)
		inv.MailCNAMEs[i].Target = recordName(inv.MailCNAMEs[i].Target)
	}
	for i := range inv.MailTXT {
		inv.MailTXT[i].Name = recordName(inv.MailTXT[i].Name)
	}
	for i := range inv.TXT {
		inv.TXT[i].Name = recordName(inv.TXT[i].Name)
	}
	for i := range inv.Shortcuts {
		host, err := normalizeName(inv.Shortcuts[i].Host)
		if err != nil {
			return err
		}
		inv.Shortcuts[i].Host = host
	}
	return nil
}

// recordName keeps the {domain} placeholder intact.
func recordName(name string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
}

func normalizeName(name string) (string, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(name), ".")
	ascii, err := idna.Lookup.ToASCII(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid domain name %q: %w", name, err)
	}
	if !strings.Contains(ascii, ".") {
		return "", fmt.Errorf("invalid domain name %q: not fully qualified", name)
	}
	return ascii, nil
}

func (inv *Inventory) Validate() error {
	canonical := 0
	seen := make(map[string]bool)
	for _, d := range inv.Domains {
		if seen[d.Name] {
			return fmt.Errorf("domain %s listed twice", d.Name)
		}
		seen[d.Name] = true
		if len(d.Roles) == 0 {
			return fmt.Errorf("domain %s has no roles", d.Name)
		}
		for _, r := range d.Roles {
			switch r {
			case model.RoleCanonical:
				canonical++
			case model.RoleAlternate, model.RoleMail:
			default:
				return fmt.Errorf("domain %s has unknown role %q", d.Name, r)
			}
		}
		switch d.Authority {
		case model.AuthorityRegistrar, model.AuthorityWebhost:
		default:
			return fmt.Errorf("domain %s has unknown authority %q", d.Name, d.Authority)
		}
	}
	if canonical != 1 {
		return fmt.Errorf("expected exactly one canonical domain, found %d", canonical)
	}

	u, err := url.Parse(inv.CanonicalURL)
	if err != nil || u.Scheme != "https" {
		return fmt.Errorf("canonical_url must be an https url, got %q", inv.CanonicalURL)
	}
	if u.Hostname() != inv.Canonical().Name {
		return fmt.Errorf("canonical_url host %s does not match canonical domain %s", u.Hostname(), inv.Canonical().Name)
	}

	if inv.RedirectHops.Registrar < 0 || inv.RedirectHops.Webhost < 0 {
		return fmt.Errorf("redirect_hops must not be negative")
	}

	for _, c := range inv.MailCNAMEs {
		if (c.Target == "") == (c.TargetPattern == "") {
			return fmt.Errorf("cname %s needs exactly one of target or target_pattern", c.Name)
		}
		if err := compile(c.TargetPattern); err != nil {
			return fmt.Errorf("cname %s: %w", c.Name, err)
		}
	}
	for _, t := range append(append([]model.ExpectedTXT{}, inv.MailTXT...), inv.TXT...) {
		if t.Prefix == "" {
			return fmt.Errorf("txt %s needs a prefix", t.Name)
		}
		if err := compile(t.Pattern); err != nil {
			return fmt.Errorf("txt %s: %w", t.Name, err)
		}
	}
	for _, s := range inv.Shortcuts {
		if (s.Location == "") == (s.LocationPattern == "") {
			return fmt.Errorf("shortcut %s needs exactly one of location or location_pattern", s.Host)
		}
		if err := compile(s.LocationPattern); err != nil {
			return fmt.Errorf("shortcut %s: %w", s.Host, err)
		}
	}
	return nil
}

func compile(pattern string) error {
	if pattern == "" {
		return nil
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	return nil
}

func (inv *Inventory) Canonical() model.Domain {
	for _, d := range inv.Domains {
		if d.Has(model.RoleCanonical) {
			return d
		}
	}
	return model.Domain{}
}

func (inv *Inventory) WithRole(r model.Role) []model.Domain {
	var out []model.Domain
	for _, d := range inv.Domains {
		if d.Has(r) {
			out = append(out, d)
		}
	}
	return out
}

// NonMailAlternates are the alternates that must publish no MX records.
func (inv *Inventory) NonMailAlternates() []model.Domain {
	var out []model.Domain
	for _, d := range inv.WithRole(model.RoleAlternate) {
		if !d.Has(model.RoleMail) {
			out = append(out, d)
		}
	}
	return out
}

// Hops is the redirect budget allowed for a domain's authority.
func (inv *Inventory) Hops(d model.Domain) int {
	if d.Authority == model.AuthorityWebhost {
		return inv.RedirectHops.Webhost
	}
	return inv.RedirectHops.Registrar
}

// WithWWW returns each domain followed by its www. twin.
func WithWWW(domains []model.Domain) []model.Domain {
	out := make([]model.Domain, 0, len(domains)*2)
	for _, d := range domains {
		www := d
		www.Name = "www." + d.Name
		out = append(out, d, www)
	}
	return out
}

// Expand substitutes a mail domain into a templated record name.
func Expand(name, domain string) string {
	return strings.ReplaceAll(name, domainPlaceholder, domain)
}
