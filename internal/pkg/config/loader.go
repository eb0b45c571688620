// Package config holds the environment loaders, validators and metrics
// shared by long-running components. A loader never fails: a value that
// does not parse or validate is replaced by its default and reported as a
// warning so the component can log it and count it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadResult is the outcome of loading one configuration value.
type LoadResult[T any] struct {
	Value T
	// Warning explains why the default was used. Empty unless FallbackApplied.
	Warning         string
	FallbackApplied bool
}

// LoadEnv reads envKey, converts it with parse and checks it with validate
// (which may be nil). Unset or blank variables yield the default silently.
//
//	res := LoadEnv("PUBLISH_TIMEOUT", 2*time.Minute, time.ParseDuration, nil)
func LoadEnv[T any](envKey string, defaultValue T, parse func(string) (T, error), validate func(T) error) LoadResult[T] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return LoadResult[T]{Value: defaultValue}
	}

	value, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(value)
	}
	if err != nil {
		return LoadResult[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", envKey, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}
	return LoadResult[T]{Value: value}
}

// LoadEnvString loads a string validated by validate.
func LoadEnvString(envKey, defaultValue string, validate func(string) error) LoadResult[string] {
	return LoadEnv(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validate)
}

// LoadEnvDuration loads a duration in time.ParseDuration syntax.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validate func(time.Duration) error) LoadResult[time.Duration] {
	return LoadEnv(envKey, defaultValue, time.ParseDuration, validate)
}

// LoadEnvInt loads a base-10 integer.
func LoadEnvInt(envKey string, defaultValue int, validate func(int) error) LoadResult[int] {
	return LoadEnv(envKey, defaultValue, strconv.Atoi, validate)
}

// LoadEnvBool loads a boolean in strconv.ParseBool syntax.
func LoadEnvBool(envKey string, defaultValue bool) LoadResult[bool] {
	return LoadEnv(envKey, defaultValue, strconv.ParseBool, nil)
}
