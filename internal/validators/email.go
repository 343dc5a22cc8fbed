package validators

import (
	"context"
	"net"
	"net/mail"
	"strings"
	"time"
)

const lookupTimeout = 3 * time.Second

// DomainChecker reports whether an email's domain looks deliverable.
type DomainChecker func(ctx context.Context, email string) bool

// IsEmailFormatValid accepts a bare address, no display name.
func IsEmailFormatValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(emailDomain(email), ".")
}

// IsEmailDomainValid does an MX lookup, falling back to A/AAAA.
func IsEmailDomainValid(ctx context.Context, email string) bool {
	domain := emailDomain(email)
	if domain == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var r net.Resolver
	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := r.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}

// AcceptAnyDomain is used when domain checks are switched off.
func AcceptAnyDomain(context.Context, string) bool { return true }

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}
