package config

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	pathPattern    = regexp.MustCompile(`^/[A-Za-z0-9._~/-]*$`)
	servicePattern = regexp.MustCompile(`^_[a-z0-9-]+\._(tcp|udp)$`)
)

var logLevels = []interface{}{"debug", "info", "warn", "warning", "error"}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Version, validation.Required, validation.In(CurrentVersion).Error("unsupported config version")),
		validation.Field(&c.API),
		validation.Field(&c.Logging),
		validation.Field(&c.Discovery),
		validation.Field(&c.Endpoints),
	)
}

func (a APIConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.BaseURL, validation.Required, is.URL),
		validation.Field(&a.ContactsPath, validation.Required, validation.Match(pathPattern).Error("must be an absolute URL path")),
		validation.Field(&a.TimeoutSeconds, validation.Required, validation.Min(1), validation.Max(600)),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In(logLevels...).Error("must be one of debug, info, warn, error")),
	)
}

func (d DiscoveryConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Service, validation.Required, validation.Match(servicePattern).Error("must look like _name._tcp")),
		validation.Field(&d.TimeoutSeconds, validation.Required, validation.Min(1), validation.Max(120)),
	)
}

func (e *Endpoint) Validate() error {
	if e == nil {
		return nil
	}
	return validation.ValidateStruct(e,
		validation.Field(&e.BaseURL, validation.Required, is.URL),
	)
}
