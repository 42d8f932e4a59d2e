package config

import (
	"sort"
	"time"
)

// CurrentVersion is the config file format version written by Save.
const CurrentVersion = 1

const (
	DefaultBaseURL          = "http://localhost:8080"
	DefaultContactsPath     = "/contacts"
	DefaultTimeoutSeconds   = 10
	DefaultDiscoveryService = "_contacts._tcp"
	DefaultDiscoverySeconds = 5
)

// Config is the whole user configuration file.
type Config struct {
	Version   int                  `json:"version" yaml:"version"`
	API       APIConfig            `json:"api" yaml:"api"`
	Logging   LoggingConfig        `json:"logging" yaml:"logging"`
	Discovery DiscoveryConfig      `json:"discovery" yaml:"discovery"`
	Endpoints map[string]*Endpoint `json:"endpoints,omitempty" yaml:"endpoints,omitempty"` // keyed by a user-chosen or discovered name
}

// APIConfig locates the contacts API.
type APIConfig struct {
	BaseURL        string `json:"base_url" yaml:"base_url"`
	ContactsPath   string `json:"contacts_path" yaml:"contacts_path"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoggingConfig mirrors the --log-level and --log-file flags.
// An empty level keeps logging silent.
type LoggingConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// DiscoveryConfig controls the mDNS scan.
type DiscoveryConfig struct {
	Service        string `json:"service" yaml:"service"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// Endpoint is a contacts API the user has connected to or discovered.
type Endpoint struct {
	BaseURL string `json:"base_url" yaml:"base_url"`

	// ContactsPath overrides api.contacts_path for this endpoint, as
	// advertised by the "path" TXT record of a discovered API.
	ContactsPath string `json:"contacts_path,omitempty" yaml:"contacts_path,omitempty"`

	LastUsed time.Time `json:"last_used,omitempty" yaml:"last_used,omitempty"`
}

// Default returns a configuration with every field at its default.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			ContactsPath:   DefaultContactsPath,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Discovery: DiscoveryConfig{
			Service:        DefaultDiscoveryService,
			TimeoutSeconds: DefaultDiscoverySeconds,
		},
		Endpoints: make(map[string]*Endpoint),
	}
}

// Timeout returns the API request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Timeout returns the discovery scan duration.
func (d DiscoveryConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// RememberEndpoint records ep under name with the current time, replacing
// any previous entry of that name.
func (c *Config) RememberEndpoint(name string, ep Endpoint) {
	if c.Endpoints == nil {
		c.Endpoints = make(map[string]*Endpoint)
	}
	ep.LastUsed = time.Now().UTC().Truncate(time.Second)
	c.Endpoints[name] = &ep
}

// UseEndpoint points the API settings at ep. An empty ContactsPath keeps
// the configured one.
func (c *Config) UseEndpoint(ep Endpoint) {
	c.API.BaseURL = ep.BaseURL
	if ep.ContactsPath != "" {
		c.API.ContactsPath = ep.ContactsPath
	}
}

// Endpoint returns the named endpoint, or nil.
func (c *Config) Endpoint(name string) *Endpoint {
	return c.Endpoints[name]
}

// EndpointNames returns the remembered endpoint names, most recently used
// first.
func (c *Config) EndpointNames() []string {
	names := make([]string, 0, len(c.Endpoints))
	for name := range c.Endpoints {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := c.Endpoints[names[i]], c.Endpoints[names[j]]
		if !a.LastUsed.Equal(b.LastUsed) {
			return a.LastUsed.After(b.LastUsed)
		}
		return names[i] < names[j]
	})
	return names
}

// Overrides carries values given on the command line. Zero values leave the
// configuration untouched.
type Overrides struct {
	BaseURL  string
	Timeout  time.Duration
	LogLevel string
	LogFile  string
}

// Apply copies the non-zero overrides into c.
func (c *Config) Apply(o Overrides) {
	if o.BaseURL != "" {
		c.API.BaseURL = o.BaseURL
	}
	if o.Timeout > 0 {
		secs := int(o.Timeout.Round(time.Second) / time.Second)
		if secs < 1 {
			secs = 1
		}
		c.API.TimeoutSeconds = secs
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFile != "" {
		c.Logging.File = o.LogFile
	}
}
