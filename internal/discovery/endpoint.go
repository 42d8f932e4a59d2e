package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Endpoint is a contacts API advertised on the local network.
type Endpoint struct {
	// Instance is the advertised service instance name (e.g. "Office contacts")
	Instance string

	// Hostname is the mDNS hostname (e.g. "nas.local.")
	Hostname string

	// IP is the preferred address, IPv4 when available
	IP string

	Port int

	// Path is the contacts collection path from the "path" TXT record
	Path string

	// Metadata holds all TXT records
	Metadata map[string]string

	DiscoveredAt time.Time
}

func (e *Endpoint) String() string {
	return fmt.Sprintf("%s (%s) at %s", e.Instance, e.Hostname, e.BaseURL())
}

// BaseURL returns the HTTP base URL for the endpoint. IPv6 addresses are
// bracketed.
func (e *Endpoint) BaseURL() string {
	return "http://" + net.JoinHostPort(e.IP, strconv.Itoa(e.Port))
}

// GetMetadata returns a TXT record value, or "" when absent.
func (e *Endpoint) GetMetadata(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}
