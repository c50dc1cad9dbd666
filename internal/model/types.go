package model

import "time"

type Role string

const (
	RoleCanonical Role = "canonical"
	RoleAlternate Role = "alternate"
	RoleMail      Role = "mail"
)

// Authority is who serves a domain's DNS. Registrar-managed domains redirect
// in one hop and do not listen on 443; webhost-managed ones may take a chain.
type Authority string

const (
	AuthorityRegistrar Authority = "registrar"
	AuthorityWebhost   Authority = "webhost"
)

type Domain struct {
	Name      string    `yaml:"name" json:"name"`
	Roles     []Role    `yaml:"roles" json:"roles"`
	Authority Authority `yaml:"authority" json:"authority"`
}

func (d Domain) Has(r Role) bool {
	for _, role := range d.Roles {
		if role == r {
			return true
		}
	}
	return false
}

type ExpectedMX struct {
	Preference uint16 `yaml:"preference" json:"preference"`
	Exchange   string `yaml:"exchange" json:"exchange"`
}

// ExpectedCNAME matches either an exact Target or a TargetPattern regexp.
// Name may contain {domain}, expanded per mail domain.
type ExpectedCNAME struct {
	Name          string `yaml:"name" json:"name"`
	Target        string `yaml:"target,omitempty" json:"target,omitempty"`
	TargetPattern string `yaml:"target_pattern,omitempty" json:"target_pattern,omitempty"`
}

// ExpectedTXT selects the TXT records on Name starting with Prefix and
// requires exactly one of them to satisfy every non-empty field.
type ExpectedTXT struct {
	Name     string   `yaml:"name" json:"name"`
	Prefix   string   `yaml:"prefix" json:"prefix"`
	Value    string   `yaml:"value,omitempty" json:"value,omitempty"`
	Pattern  string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Suffix   string   `yaml:"suffix,omitempty" json:"suffix,omitempty"`
	Contains []string `yaml:"contains,omitempty" json:"contains,omitempty"`
}

// Shortcut is a subdomain that answers plain HTTP with a fixed redirect.
type Shortcut struct {
	Host            string `yaml:"host" json:"host"`
	Status          string `yaml:"status" json:"status"`
	Location        string `yaml:"location,omitempty" json:"location,omitempty"`
	LocationPattern string `yaml:"location_pattern,omitempty" json:"location_pattern,omitempty"`
}

type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusError Status = "error"
)

// FailureKind separates a wrong answer from an unreachable target and from
// an exhausted redirect budget.
type FailureKind string

const (
	KindNone          FailureKind = ""
	KindAssertion     FailureKind = "assertion"
	KindNetwork       FailureKind = "network"
	KindRedirectLimit FailureKind = "redirect-limit"
)

type CheckResult struct {
	Name     string        `json:"name"`
	Target   string        `json:"target"`
	Status   Status        `json:"status"`
	Kind     FailureKind   `json:"kind,omitempty"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

type Report struct {
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
	Results   []CheckResult `json:"results"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Errored   int           `json:"errored"`
}

func (r *Report) Add(res CheckResult) {
	r.Results = append(r.Results, res)
	switch res.Status {
	case StatusPass:
		r.Passed++
	case StatusFail:
		r.Failed++
	default:
		r.Errored++
	}
}

func (r *Report) OK() bool {
	return r.Failed == 0 && r.Errored == 0
}
