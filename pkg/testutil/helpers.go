// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/emi-compare/internal/comparison"
	"github.com/iwvelando/emi-compare/internal/config"
)

// FindResult finds a loan by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []comparison.Result, name string) *comparison.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// DefaultConfiguration returns a configuration holding the two default loans.
func DefaultConfiguration() config.Configuration {
	conf := config.Configuration{}
	conf.ApplyDefaults()
	return conf
}
