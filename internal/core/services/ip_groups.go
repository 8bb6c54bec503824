package services

import (
	"fmt"
	"net/netip"
	"strings"
)

// ipGroupPrefix namespaces IP-derived group names so they can never collide
// with stored role groups.
const ipGroupPrefix = "ip_manager:"

// IPGroupResolver maps client addresses to virtual group memberships based on
// named CIDR allow-lists (campus networks, library reading rooms and the
// like). The resolver is immutable after construction and safe for
// concurrent use.
type IPGroupResolver struct {
	groups []ipGroup
}

type ipGroup struct {
	name     string
	prefixes []netip.Prefix
}

// NewIPGroupResolver parses a spec of the form
// "campus=10.0.0.0/8,172.16.0.0/12;library=192.168.10.0/24". An empty spec
// yields a resolver that grants no groups.
func NewIPGroupResolver(spec string) (*IPGroupResolver, error) {
	resolver := &IPGroupResolver{}
	if strings.TrimSpace(spec) == "" {
		return resolver, nil
	}
	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, cidrs, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid ip group entry %q: expected name=cidr[,cidr...]", entry)
		}
		group := ipGroup{name: strings.TrimSpace(name)}
		if group.name == "" {
			return nil, fmt.Errorf("invalid ip group entry %q: empty group name", entry)
		}
		for _, cidr := range strings.Split(cidrs, ",") {
			prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
			if err != nil {
				return nil, fmt.Errorf("invalid cidr %q in ip group %q: %w", cidr, group.name, err)
			}
			group.prefixes = append(group.prefixes, prefix)
		}
		resolver.groups = append(resolver.groups, group)
	}
	return resolver, nil
}

// GroupsForIP returns the prefixed group names whose CIDR ranges contain the
// address. An unparseable or empty address yields no groups.
func (r *IPGroupResolver) GroupsForIP(ip string) []string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return nil
	}
	var names []string
	for _, group := range r.groups {
		for _, prefix := range group.prefixes {
			if prefix.Contains(addr) {
				names = append(names, ipGroupPrefix+group.name)
				break
			}
		}
	}
	return names
}
