package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Every missing or malformed variable is reported, not just the first.
func Load() (*Config, error) {
	cfg := &Config{}

	var errs []error
	walkFields(reflect.ValueOf(cfg).Elem(), func(tag fieldTag, field reflect.Value) {
		if err := tag.load(field); err != nil {
			errs = append(errs, err)
		}
	})
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// fieldTag is the parsed set of struct tags on a config field.
//
//	env      primary variable name
//	envAlt   fallback variable name
//	default  value used when neither variable is set
//	required fail when no value (and no default) is available
//	oneof    comma-separated allowed values, case-insensitive
//	format   "layout" (Go time layout) or "cidr" (CIDR or bare IP list)
type fieldTag struct {
	env      string
	alt      string
	def      string
	required bool
	oneOf    []string
	format   string
}

func parseFieldTag(f reflect.StructField) (fieldTag, bool) {
	tag := fieldTag{
		env:      f.Tag.Get("env"),
		alt:      f.Tag.Get("envAlt"),
		def:      f.Tag.Get("default"),
		required: f.Tag.Get("required") == "true",
		format:   f.Tag.Get("format"),
	}
	if v := f.Tag.Get("oneof"); v != "" {
		tag.oneOf = strings.Split(v, ",")
	}
	return tag, tag.env != ""
}

// walkFields calls fn for every settable, env-tagged field, recursing into
// nested sections.
func walkFields(v reflect.Value, fn func(tag fieldTag, field reflect.Value)) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Time{}) {
			walkFields(field, fn)
			continue
		}
		if tag, ok := parseFieldTag(t.Field(i)); ok {
			fn(tag, field)
		}
	}
}

// load sets field from the environment, falling back to the default.
func (t fieldTag) load(field reflect.Value) error {
	value := os.Getenv(t.env)
	if value == "" && t.alt != "" {
		value = os.Getenv(t.alt)
	}
	if value == "" {
		if t.required {
			return fmt.Errorf("required environment variable %s is not set", t.env)
		}
		value = t.def
	}
	if value == "" {
		return nil
	}
	if err := setField(field, value); err != nil {
		return fmt.Errorf("invalid value for %s=%q: %w", t.env, value, err)
	}
	return nil
}

// check applies the oneof and format constraints to a loaded value.
func (t fieldTag) check(field reflect.Value) error {
	if len(t.oneOf) > 0 {
		got := field.String()
		for _, allowed := range t.oneOf {
			if strings.EqualFold(got, allowed) {
				return nil
			}
		}
		return fmt.Errorf("%s (%q) must be one of: %s", t.env, got, strings.Join(t.oneOf, ", "))
	}

	switch t.format {
	case "layout":
		return checkLayout(t.env, field.String())
	case "cidr":
		for _, raw := range field.Interface().([]string) {
			if _, err := netip.ParsePrefix(raw); err == nil {
				continue
			}
			if _, err := netip.ParseAddr(raw); err != nil {
				return fmt.Errorf("%s entry %q is not a CIDR or IP address", t.env, raw)
			}
		}
	}
	return nil
}

// layoutProbe is formatted with a candidate layout; a layout with no date
// or time elements comes back unchanged. It must differ from the reference
// time in every field.
var layoutProbe = time.Date(2011, time.March, 4, 9, 7, 8, 0, time.UTC)

func checkLayout(name, layout string) error {
	if strings.TrimSpace(layout) == "" {
		return fmt.Errorf("%s must not be empty", name)
	}
	if layoutProbe.Format(layout) == layout {
		return fmt.Errorf("%s (%q) has no date or time elements", name, layout)
	}
	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		field.Set(reflect.ValueOf(splitList(value)))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	walkFields(reflect.ValueOf(c).Elem(), func(tag fieldTag, field reflect.Value) {
		if err := tag.check(field); err != nil {
			errs = append(errs, err.Error())
		}
	})

	// Database validation
	if c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns))
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		errs = append(errs, "DB_MIN_CONNS must be non-negative")
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Report validation
	if c.Report.SurveyCacheTTL < 0 {
		errs = append(errs, "REPORT_SURVEY_CACHE_TTL must be non-negative")
	}
	if c.Report.MaxConcurrent <= 0 {
		errs = append(errs, "REPORT_MAX_CONCURRENT must be positive")
	}
	if c.Report.MaxWait <= 0 {
		errs = append(errs, "REPORT_MAX_WAIT must be positive")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Rate.Enabled && c.Rate.ExportLimit <= 0 {
		errs = append(errs, "RATE_LIMIT_EXPORT must be positive when rate limiting is enabled")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Database: {URL: [MASKED], MaxConns: %d, MinConns: %d}, ",
		c.Database.MaxConns, c.Database.MinConns))
	b.WriteString(fmt.Sprintf("Report: {StaticProperties: %d, CSVEscape: %v, SurveyCacheTTL: %s, MaxConcurrent: %d}, ",
		len(c.Report.StaticProperties), c.Report.CSVEscape, c.Report.SurveyCacheTTL, c.Report.MaxConcurrent))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Security: {RequireAPIKey: %v, APIKeys: %d}, ",
		c.Security.RequireAPIKey, len(c.Security.APIKeys)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
