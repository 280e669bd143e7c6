// Package validate filters raw collection items down to ones safe to submit
// to the remote index. Invalid items are dropped, never errored: the
// collection belongs to the host and a bad entry is not our problem to fix.
package validate

import (
	"log/slog"
	"strings"

	"github.com/seelkers/favsearch/internal/collection"
)

// Limits for submitted items. Anything over these is dropped.
const (
	MaxIDLength      = 512
	MaxLocatorLength = 2000
	MaxDomainLength  = 256
)

// Item is the subset of a collection item that passed validation and is
// eligible for remote indexing. Derived, never persisted.
type Item struct {
	ID      string
	Locator string
}

// Rules configures which media hosts are acceptable locator targets.
type Rules struct {
	// AllowedSuffixes accepts any domain ending with one of these suffixes,
	// e.g. ".tenor.co" for CDN subdomains.
	AllowedSuffixes []string

	// AllowedHosts accepts these exact domains.
	AllowedHosts []string
}

// DefaultRules returns the rules for the stock media CDNs.
func DefaultRules() Rules {
	return Rules{
		AllowedSuffixes: []string{".tenor.co", ".giphy.com"},
		AllowedHosts:    []string{"media.discordapp.net", "cdn.discordapp.com"},
	}
}

// Validate filters items to ones safe to submit, preserving input order.
// Rules are applied per item in order; the first failing rule rejects the
// item. Duplicate IDs are not deduplicated here.
func Validate(items []collection.Item, rules Rules) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if reason := check(it, rules); reason != "" {
			slog.Debug("dropping invalid item",
				slog.String("id", truncate(it.ID, 64)),
				slog.String("reason", reason))
			continue
		}
		out = append(out, Item{ID: it.ID, Locator: it.Locator})
	}
	return out
}

// check returns an empty string if the item is valid, otherwise the reason
// for rejection.
func check(it collection.Item, rules Rules) string {
	if len(it.ID) > MaxIDLength {
		return "id too long"
	}
	if len(it.Locator) > MaxLocatorLength {
		return "locator too long"
	}
	domain, ok := locatorDomain(it.Locator)
	if !ok {
		return "locator not http(s)"
	}
	if domain == "" || len(domain) > MaxDomainLength {
		return "bad domain"
	}
	if !domainAllowed(domain, rules) {
		return "domain not allowed"
	}
	return ""
}

// locatorDomain extracts the domain between the scheme and the first slash
// (or end of string). ok is false when the locator has no http(s) scheme.
func locatorDomain(locator string) (domain string, ok bool) {
	rest, found := strings.CutPrefix(locator, "https://")
	if !found {
		rest, found = strings.CutPrefix(locator, "http://")
	}
	if !found {
		return "", false
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest, true
}

func domainAllowed(domain string, rules Rules) bool {
	for _, suffix := range rules.AllowedSuffixes {
		if strings.HasSuffix(domain, suffix) {
			return true
		}
	}
	for _, host := range rules.AllowedHosts {
		if domain == host {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
