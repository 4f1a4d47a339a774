package signing

import (
	"fmt"
	"sort"

	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/schemes"
)

// DefaultScheme is used when no scheme is configured.
const DefaultScheme = "Ed25519"

// LookupScheme returns the circl scheme registered under name
// (case-insensitive).
func LookupScheme(name string) (sign.Scheme, error) {
	if name == "" {
		name = DefaultScheme
	}
	s := schemes.ByName(name)
	if s == nil {
		return nil, fmt.Errorf("unknown signature scheme %q (available: %v)", name, SchemeNames())
	}
	return s, nil
}

// SchemeNames lists the names of every available scheme, sorted.
func SchemeNames() []string {
	all := schemes.All()
	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.Name())
	}
	sort.Strings(names)
	return names
}
