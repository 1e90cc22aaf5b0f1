package catalog

import (
	"net"
	"os"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/zjrosen/wavtouch/internal/log"
)

const serverAddrKey = "server-addr"

// Discoverer guesses the local-network catalog server: this host's IPv4
// address with the last octet replaced by 1. Results, including misses,
// are cached for the configured TTL so repeated menu reloads stay fast.
type Discoverer struct {
	cache  *cache.Cache
	lookup func() (string, error)
}

// NewDiscoverer creates a Discoverer that resolves the local hostname.
func NewDiscoverer(ttl time.Duration) *Discoverer {
	return NewDiscovererWithLookup(ttl, hostAddr)
}

// NewDiscovererWithLookup creates a Discoverer with a custom address lookup.
func NewDiscovererWithLookup(ttl time.Duration, lookup func() (string, error)) *Discoverer {
	return &Discoverer{
		cache:  cache.New(ttl, 2*ttl),
		lookup: lookup,
	}
}

// ServerAddr returns the guessed server address, or false when this host
// only has a loopback address or cannot be resolved.
func (d *Discoverer) ServerAddr() (string, bool) {
	if v, ok := d.cache.Get(serverAddrKey); ok {
		addr := v.(string)
		return addr, addr != ""
	}

	addr := ""
	host, err := d.lookup()
	switch {
	case err != nil:
		log.Debug(log.CatCatalog, "Host address lookup failed", "error", err)
	default:
		addr = gatewayFor(host)
	}
	d.cache.SetDefault(serverAddrKey, addr)
	return addr, addr != ""
}

// Forget drops the cached address.
func (d *Discoverer) Forget() {
	d.cache.Delete(serverAddrKey)
}

// gatewayFor maps a dotted IPv4 address to the same network's .1 host.
// Loopback and non-IPv4 addresses yield "".
func gatewayFor(addr string) string {
	parts := strings.Split(addr, ".")
	if len(parts) != 4 || parts[0] == "127" {
		return ""
	}
	parts[3] = "1"
	return strings.Join(parts, ".")
}

func hostAddr() (string, error) {
	name, err := os.Hostname()
	if err != nil {
		return "", err
	}
	addrs, err := net.LookupHost(name)
	if err != nil {
		return "", err
	}
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil && ip.To4() != nil {
			return ip.To4().String(), nil
		}
	}
	return "", &net.AddrError{Err: "no IPv4 address", Addr: name}
}
