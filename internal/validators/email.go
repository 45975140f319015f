package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// DomainResolver is the part of *net.Resolver the email check needs.
type DomainResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

type EmailDomainChecker struct {
	resolver DomainResolver
	timeout  time.Duration
}

func NewEmailDomainChecker(r DomainResolver, timeout time.Duration) *EmailDomainChecker {
	if r == nil {
		r = net.DefaultResolver
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &EmailDomainChecker{resolver: r, timeout: timeout}
}

// Valid reports whether the domain of email can receive mail: it has an MX
// record or at least resolves to a host. Lookup errors count as invalid.
func (c *EmailDomainChecker) Valid(ctx context.Context, email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if mx, err := c.resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	hosts, err := c.resolver.LookupHost(ctx, domain)
	return err == nil && len(hosts) > 0
}
