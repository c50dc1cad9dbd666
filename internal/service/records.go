package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// SortMX returns a copy ordered by (preference, exchange).
func SortMX(records []MXRecord) []MXRecord {
	out := append([]MXRecord(nil), records...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Preference != out[j].Preference {
			return out[i].Preference < out[j].Preference
		}
		return out[i].Exchange < out[j].Exchange
	})
	return out
}

func FilterTXTPrefix(records []TXTRecord, prefix string) []TXTRecord {
	var out []TXTRecord
	for _, r := range records {
		if strings.HasPrefix(r.Text, prefix) {
			out = append(out, r)
		}
	}
	return out
}

// CompareSet compares two record sets rendered one per line, ignoring order.
// On mismatch it returns a unified diff from expected to actual.
func CompareSet(expected, actual []string) (bool, string) {
	e := append([]string(nil), expected...)
	a := append([]string(nil), actual...)
	sort.Strings(e)
	sort.Strings(a)

	if strings.Join(e, "\n") == strings.Join(a, "\n") {
		return true, ""
	}

	before := lines(e)
	after := lines(a)
	edits := myers.ComputeEdits(span.URIFromPath("expected"), before, after)
	return false, fmt.Sprint(gotextdiff.ToUnified("expected", "actual", before, edits))
}

func lines(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, "\n") + "\n"
}

// TTLPolicy accepts any TTL at or above Nominal less Tolerance. Caching
// resolvers only ever count a TTL down, so there is no upper band.
type TTLPolicy struct {
	Nominal   uint32
	Tolerance float64
}

func (p TTLPolicy) Floor() uint32 {
	return uint32(math.Round(float64(p.Nominal) * (1 - p.Tolerance)))
}

func (p TTLPolicy) Check(ttl uint32) error {
	if floor := p.Floor(); ttl < floor {
		return fmt.Errorf("ttl %ds is below %ds (%ds - %.0f%%)", ttl, floor, p.Nominal, p.Tolerance*100)
	}
	return nil
}
