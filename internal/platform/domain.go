package platform

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var domainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)

// NormalizeDomain reduces a submitted vanity name to its fully-qualified
// domain and the derived short organization name (the second-level
// label). A scheme prefix and a leading www. are both stripped, so
// "https://www.mail.example.com" and "mail.example.com" normalize to
// the same pair ("mail.example.com", "example").
func NormalizeDomain(raw string) (fqdn, orgName string, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", "", fmt.Errorf("empty domain name")
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}

	parsed, err := url.Parse(s)
	if err != nil || parsed.Hostname() == "" {
		return "", "", fmt.Errorf("invalid domain name %q", raw)
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")

	if !domainRegex.MatchString(host) {
		return "", "", fmt.Errorf("invalid domain name %q", host)
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return "", "", fmt.Errorf("domain %q is not fully qualified", host)
	}

	return host, labels[len(labels)-2], nil
}
