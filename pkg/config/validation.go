package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// Struct tag validation is declarative via go-playground/validator; rules
// that cannot be expressed in tags are checked explicitly afterwards.
//
// Returns an error describing the first validation failure.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// The redis backends need an address to connect to.
	if cfg.RateLimit.Store == "redis" {
		if addr, _ := cfg.RateLimit.Redis["addr"].(string); addr == "" {
			return fmt.Errorf("rate_limit.redis.addr is required when rate_limit.store is \"redis\"")
		}
	}
	if cfg.Visitors.Store == "redis" {
		if addr, _ := cfg.Visitors.Redis["addr"].(string); addr == "" {
			return fmt.Errorf("visitors.redis.addr is required when visitors.store is \"redis\"")
		}
	}

	// The admin port must not collide with the main listener.
	if cfg.Metrics.Enabled && cfg.Metrics.Port == cfg.Server.Port {
		return fmt.Errorf("metrics.port must differ from server.port (both are %d)", cfg.Server.Port)
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
