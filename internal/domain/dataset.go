package domain

import "fmt"

// SourceKind is one of the four CSV sources of a dataset.
type SourceKind string

const (
	SourceExpense  SourceKind = "expense"
	SourceReceipts SourceKind = "receipts"
	SourceContra   SourceKind = "contra"
	SourceOB       SourceKind = "ob"
)

// SourceKinds lists the sources in reload order.
var SourceKinds = []SourceKind{SourceExpense, SourceReceipts, SourceContra, SourceOB}

// ValidSourceKind reports whether k names a known source.
func ValidSourceKind(k string) bool {
	for _, s := range SourceKinds {
		if string(s) == k {
			return true
		}
	}
	return false
}

// Dataset describes one account/region and where its CSV sources live.
type Dataset struct {
	Key      string                `json:"key"`
	Name     string                `json:"name"`
	Currency string                `json:"currency"`
	Locale   string                `json:"locale"`
	Sources  map[SourceKind]string `json:"sources"`
}

// SourcePath returns the proxy path for kind.
func (d Dataset) SourcePath(kind SourceKind) string {
	if p, ok := d.Sources[kind]; ok && p != "" {
		return p
	}
	return ProxyPath(d.Key, kind)
}

// ProxyPath is the proxy route for a (region, kind) pair.
func ProxyPath(region string, kind SourceKind) string {
	return fmt.Sprintf("/api/csv/%s/%s", region, kind)
}
