package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func entry(instance, host string, port int, v4, v6 []net.IP, txt ...string) *zeroconf.ServiceEntry {
	return &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: instance, Service: DefaultService, Domain: ServiceDomain},
		HostName:      host,
		Port:          port,
		Text:          txt,
		AddrIPv4:      v4,
		AddrIPv6:      v6,
	}
}

func ips(s ...string) []net.IP {
	out := make([]net.IP, len(s))
	for i, v := range s {
		out[i] = net.ParseIP(v)
	}
	return out
}

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantInstance string
		wantURL      string
		wantPath     string
	}{
		{
			name:         "IPv4 with path record",
			entry:        entry("Office contacts", "nas.local.", 8080, ips("192.168.1.20"), nil, "path=/api/contacts", "version=2"),
			wantInstance: "Office contacts",
			wantURL:      "http://192.168.1.20:8080",
			wantPath:     "/api/contacts",
		},
		{
			name:         "no path record uses default",
			entry:        entry("home", "pi.local.", 3000, ips("10.0.0.5"), nil),
			wantInstance: "home",
			wantURL:      "http://10.0.0.5:3000",
			wantPath:     DefaultPath,
		},
		{
			name:         "relative path gets a slash",
			entry:        entry("lab", "lab.local.", 80, ips("10.0.0.6"), nil, "path=people"),
			wantInstance: "lab",
			wantURL:      "http://10.0.0.6:80",
			wantPath:     "/people",
		},
		{
			name:         "port zero defaults to 80",
			entry:        entry("zero", "zero.local.", 0, ips("172.16.0.1"), nil),
			wantInstance: "zero",
			wantURL:      "http://172.16.0.1:80",
			wantPath:     DefaultPath,
		},
		{
			name:         "IPv6 only is bracketed",
			entry:        entry("v6", "v6.local.", 8080, nil, ips("fe80::1")),
			wantInstance: "v6",
			wantURL:      "http://[fe80::1]:8080",
			wantPath:     DefaultPath,
		},
		{
			name:         "prefers IPv4",
			entry:        entry("dual", "dual.local.", 8080, ips("192.168.1.50"), ips("fe80::2")),
			wantInstance: "dual",
			wantURL:      "http://192.168.1.50:8080",
			wantPath:     DefaultPath,
		},
		{
			name:         "escaped instance name",
			entry:        entry(`Front\ desk`, "fd.local.", 8080, ips("192.168.1.9"), nil),
			wantInstance: "Front desk",
			wantURL:      "http://192.168.1.9:8080",
			wantPath:     DefaultPath,
		},
		{
			name:         "no instance falls back to hostname",
			entry:        entry("", "box.local.", 8080, ips("192.168.1.10"), nil),
			wantInstance: "box.local",
			wantURL:      "http://192.168.1.10:8080",
			wantPath:     DefaultPath,
		},
		{
			name:    "no address",
			entry:   entry("ghost", "ghost.local.", 8080, nil, nil),
			wantNil: true,
		},
		{
			name:    "nil entry",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if ep != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", ep)
				}
				return
			}
			if ep == nil {
				t.Fatal("parseServiceEntry() = nil, want endpoint")
			}

			if ep.Instance != tt.wantInstance {
				t.Errorf("Instance = %q, want %q", ep.Instance, tt.wantInstance)
			}
			if got := ep.BaseURL(); got != tt.wantURL {
				t.Errorf("BaseURL() = %q, want %q", got, tt.wantURL)
			}
			if ep.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", ep.Path, tt.wantPath)
			}
			if time.Since(ep.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", ep.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	ep := parseServiceEntry(entry("x", "x.local.", 80, ips("10.1.1.1"), nil,
		"path=/contacts", "version=2", "readonly", "note=a=b"))
	if ep == nil {
		t.Fatal("expected endpoint")
	}

	checks := map[string]string{
		"path":     "/contacts",
		"version":  "2",
		"readonly": "",
		"note":     "a=b",
		"missing":  "",
	}
	for key, want := range checks {
		if got := ep.GetMetadata(key); got != want {
			t.Errorf("GetMetadata(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestEndpoint_String(t *testing.T) {
	ep := &Endpoint{Instance: "Office", Hostname: "nas.local.", IP: "192.168.1.20", Port: 8080}
	want := "Office (nas.local.) at http://192.168.1.20:8080"
	if got := ep.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	var empty Endpoint
	if empty.GetMetadata("path") != "" {
		t.Error("nil metadata should read as empty")
	}
}

func TestSortEndpoints(t *testing.T) {
	got := sortEndpoints(map[string]*Endpoint{
		"b": {Instance: "b"},
		"a": {Instance: "a"},
		"c": {Instance: "c"},
	})
	if len(got) != 3 || got[0].Instance != "a" || got[2].Instance != "c" {
		t.Errorf("sortEndpoints() order = %v", got)
	}
}

func TestNewScanner(t *testing.T) {
	s := NewScanner()
	if s.Service != DefaultService || s.Timeout != DefaultScanTimeout {
		t.Errorf("NewScanner() = %+v", s)
	}
}
