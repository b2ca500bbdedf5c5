package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/gravity/pkg/cache"
	"github.com/matzehuels/gravity/pkg/core/gravity"
	"github.com/matzehuels/gravity/pkg/errors"
)

// configValidate checks struct tags on Config and on the embedded engine
// tuning. Initialized in init() with the struct-level cache rule.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	configValidate.RegisterStructValidation(validateCacheConfig, CacheConfig{})
}

// validateCacheConfig requires a connection string for network backends.
func validateCacheConfig(sl validator.StructLevel) {
	c := sl.Current().Interface().(CacheConfig)
	if (c.Backend == cache.BackendRedis || c.Backend == cache.BackendMongo) && c.URL == "" {
		sl.ReportError(c.URL, "URL", "url", "required_for_backend", c.Backend)
	}
}

// Validate checks cfg and reports every failing field in one
// INVALID_CONFIG error.
func Validate(cfg Config) error {
	return wrap(configValidate.Struct(cfg))
}

// ValidateEngine checks engine tuning on its own, as supplied in API
// request overrides.
func ValidateEngine(cfg gravity.Config) error {
	return wrap(configValidate.Struct(cfg))
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = describe(fe)
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "gtefield":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "required_for_backend":
		return fmt.Sprintf("%s is required for the %s backend", field, fe.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port, got %q", field, fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", field)
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s must satisfy %s=%s, got %v", field, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}
