package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with config-aware field names
type Validator struct {
	validate *validator.Validate
}

// NewValidator reports fields by their config key (e.g. "aggregation.window_days")
// instead of the Go field name, and registers the cross-field config rules
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateMetrics, MetricsConfig{})
	v.RegisterStructValidation(validateAggregation, AggregationConfig{})

	return &Validator{validate: v}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError lists every failing key on its own line
func (v *Validator) formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		// drop the root struct name: "Config.cache.soil_ttl" -> "cache.soil_ttl"
		key := e.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		messages = append(messages, fmt.Sprintf("%s failed '%s' (value: '%v')", key, e.Tag(), e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// metrics must be served from an absolute path outside the API tree
func validateMetrics(sl validator.StructLevel) {
	m := sl.Current().Interface().(MetricsConfig)
	if !m.Enabled {
		return
	}
	if !strings.HasPrefix(m.Path, "/") || strings.HasPrefix(m.Path, "/api/") {
		sl.ReportError(m.Path, "path", "Path", "metrics_path", "")
	}
}

// concurrency may not exceed max_markets
func validateAggregation(sl validator.StructLevel) {
	a := sl.Current().Interface().(AggregationConfig)
	if a.Concurrency > 0 && a.MaxMarkets > 0 && a.Concurrency > a.MaxMarkets {
		sl.ReportError(a.Concurrency, "concurrency", "Concurrency", "lte_max_markets", "")
	}
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
