package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/contactdesk/internal/logging"
)

const (
	// DefaultService is the mDNS service type contacts APIs advertise
	DefaultService = "_contacts._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	DefaultScanTimeout = 5 * time.Second

	DefaultPort = 80

	// DefaultPath is used when the TXT records carry no "path"
	DefaultPath = "/contacts"
)

// Scanner browses the local network for contacts APIs.
type Scanner struct {
	// Service is the mDNS service type to browse
	Service string

	// Timeout bounds a scan
	Timeout time.Duration
}

// NewScanner creates a scanner with the default service and timeout.
func NewScanner() *Scanner {
	return &Scanner{
		Service: DefaultService,
		Timeout: DefaultScanTimeout,
	}
}

// browse runs one mDNS browse until ctx ends or found returns true, feeding
// each parsed endpoint to found.
func (s *Scanner) browse(ctx context.Context, found func(*Endpoint) bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	service := s.Service
	if service == "" {
		service = DefaultService
	}

	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			ep := parseServiceEntry(entry)
			if ep == nil {
				continue
			}
			logging.Debug("Discovered contacts API",
				zap.String("instance", ep.Instance),
				zap.String("url", ep.BaseURL()))
			if found(ep) {
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, service, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	// The resolver closes entries once it has shut down.
	<-done
	return nil
}

// Scan returns every endpoint seen before the timeout, one per instance,
// sorted by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var mu sync.Mutex
	byInstance := make(map[string]*Endpoint)

	err := s.browse(ctx, func(ep *Endpoint) bool {
		mu.Lock()
		defer mu.Unlock()
		byInstance[ep.Instance] = ep
		return false
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return sortEndpoints(byInstance), nil
}

// Find waits for the named instance to appear.
func (s *Scanner) Find(ctx context.Context, instance string) (*Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	result := make(chan *Endpoint, 1)
	err := s.browse(ctx, func(ep *Endpoint) bool {
		if !strings.EqualFold(ep.Instance, instance) {
			return false
		}
		select {
		case result <- ep:
		default:
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	select {
	case ep := <-result:
		return ep, nil
	default:
		return nil, fmt.Errorf("contacts API %q not found within %s", instance, s.Timeout)
	}
}

func sortEndpoints(m map[string]*Endpoint) []*Endpoint {
	out := make([]*Endpoint, 0, len(m))
	for _, ep := range m {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instance < out[j].Instance })
	return out
}

// parseServiceEntry converts a zeroconf entry to an Endpoint. Entries with
// no usable address are dropped.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Endpoint {
	if entry == nil {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	path := metadata["path"]
	if path == "" || path == "/" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	instance := unescapeInstance(entry.Instance)
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}

	return &Endpoint{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Path:         path,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// unescapeInstance undoes DNS-SD escaping of spaces and dots in instance
// names ("Office\ contacts" -> "Office contacts").
func unescapeInstance(s string) string {
	return strings.NewReplacer(`\ `, " ", `\.`, ".", `\\`, `\`).Replace(s)
}
