// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"

	"github.com/iwvelando/emi-compare/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variables overriding config keys,
// e.g. EMI_COMPARE_OUTPUT_FORMAT=csv.
const EnvPrefix = "EMI_COMPARE"

// ErrInvalidConfig is returned when a configuration cannot be read or decoded.
var ErrInvalidConfig = errors.New("invalid configuration")

// Configuration holds all configuration for emi-compare.
type Configuration struct {
	Loans   []Loan        `yaml:"loans" json:"loans"`
	Logging LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty" json:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // pretty, csv, json
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: error reading config file, %s", ErrInvalidConfig, err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("%w: error reading config data, %s", ErrInvalidConfig, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		wholeNumberHook,
	))
	if err := v.Unmarshal(&configuration, hooks); err != nil {
		return nil, fmt.Errorf("%w: unable to decode into struct, %s", ErrInvalidConfig, err)
	}

	configuration.ApplyDefaults()
	return &configuration, nil
}

// wholeNumberHook rejects fractional values bound for integer fields, which
// mapstructure would otherwise truncate.
func wholeNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not a whole number", data)
	}
	return data, nil
}

// ApplyDefaults fills in the two default loans when none are configured and
// names any unnamed loans by position.
func (conf *Configuration) ApplyDefaults() {
	if len(conf.Loans) == 0 {
		conf.Loans = DefaultLoans()
	}
	for i := range conf.Loans {
		if strings.TrimSpace(conf.Loans[i].Name) == "" {
			conf.Loans[i].Name = DefaultLoanName(i)
		}
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	validator := validation.ConfigValidator{}
	for _, loan := range conf.Loans {
		validator.Loans = append(validator.Loans, loan.ToValidationConfig())
	}
	return validator.ValidateAll()
}
