// © 2026 danielgzd. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package envflag provides a wrapper around the standard flag package, allowing
// flags to be overridden by environment variables.
//
// Environment variables are applied by [Resolve] after the command line has
// been parsed, so a flag given on the command line always wins over the
// environment, and the environment wins over the default value.
package envflag

import (
	"flag"
	"fmt"
	"strconv"
	"time"
)

// Type is a constraint that permits only types supported by envflag package.
type Type interface {
	int | int64 | float64 | bool | string | time.Duration
}

// Value sets up a flag with the given name, default value, and usage
// information. The environment variable envName overrides the default once
// [Resolve] is called.
func Value[T Type](name, envName string, value T, usage string, fs *flag.FlagSet) *T {
	var result T
	usage += " Can be overridden by " + envName + " environment variable."
	fs.Var(newFlagValue(value, &result, envName), name, usage)
	return &result
}

// Resolve sets every flag of fs registered with [Value] that wasn't given on
// the command line from its environment variable, if that is set and not
// empty. It must be called after fs has been parsed.
func Resolve(fs *flag.FlagSet, getenv func(string) string) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var err error
	fs.VisitAll(func(f *flag.Flag) {
		ev, ok := f.Value.(envValue)
		if !ok || set[f.Name] || err != nil {
			return
		}
		v := getenv(ev.envName())
		if v == "" {
			return
		}
		if serr := f.Value.Set(v); serr != nil {
			err = fmt.Errorf("invalid value %q for environment variable %s: %w", v, ev.envName(), serr)
		}
	})
	return err
}

type envValue interface {
	flag.Value
	envName() string
}

type flagValue[T any] struct {
	value *T
	env   string
}

func newFlagValue[T any](defaultValue T, value *T, env string) *flagValue[T] {
	*value = defaultValue
	return &flagValue[T]{value: value, env: env}
}

func (f *flagValue[T]) envName() string { return f.env }

func (f *flagValue[T]) String() string {
	if f.value == nil {
		return ""
	}
	return toString(*f.value)
}

// IsBoolFlag reports whether the flag can be set without a value, like
// -dry instead of -dry=true.
func (f *flagValue[T]) IsBoolFlag() bool {
	_, ok := any(f.value).(*bool)
	return ok
}

func (f *flagValue[T]) Set(s string) error {
	switch any(f.value).(type) {
	case *int:
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*f.value = any(v).(T)
	case *int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*f.value = any(v).(T)
	case *float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f.value = any(v).(T)
	case *bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		*f.value = any(v).(T)
	case *string:
		*f.value = any(s).(T)
	case *time.Duration:
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*f.value = any(v).(T)
	default:
		return nil
	}
	return nil
}

func toString[T any](value T) string {
	switch v := any(value).(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	case time.Duration:
		return v.String()
	default:
		return ""
	}
}
