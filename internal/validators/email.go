package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const lookupTimeout = 2 * time.Second

// Resolver is the subset of *net.Resolver used for the domain check.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// IsEmailDomainValid reports whether the domain of email has an MX or an
// address record, using the system resolver.
func IsEmailDomainValid(email string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	return CheckEmailDomain(ctx, net.DefaultResolver, email)
}

func CheckEmailDomain(ctx context.Context, r Resolver, email string) bool {
	domain, ok := emailDomain(email)
	if !ok {
		return false
	}

	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := r.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}

func emailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", false
	}
	return strings.ToLower(email[at+1:]), true
}
