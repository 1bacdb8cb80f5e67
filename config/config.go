// Package config loads environment-backed configuration structs through
// Viper and binds them into a container.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	container "github.com/technically-php/cascade-container"
	"github.com/technically-php/cascade-container/option"
)

type (
	// Options holds the loading options.
	Options struct {
		prefix string
	}

	// WithDefault lets a config struct fill in its own defaults after
	// unmarshalling.
	WithDefault interface {
		ApplyDefault()
	}
)

// WithEnvPrefix prefixes every environment variable lookup, so a field
// Host of struct DB becomes PREFIX_DB_HOST.
func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// Load unmarshals a T from environment variables.
func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.Build(&Options{}, opts...)

	v := viper.New()
	v.SetEnvPrefix(options.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var conf T
	bindEnvs(v, options.prefix, reflect.New(reflect.TypeOf(conf)).Elem().Interface())

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	applyDefaults(&conf)

	return &conf, nil
}

// Install binds a deferred T under id; the environment is read on first Get,
// not at bind time.
func Install[T any](c *container.Container, id string, opts ...option.Option[Options]) {
	c.Deferred(id, func() (*T, error) {
		return Load[T](opts...)
	})
}

// bindEnvs declares every leaf field to viper explicitly; AutomaticEnv alone
// does not surface env-only keys through Unmarshal.
func bindEnvs(v *viper.Viper, envPrefix string, node any, parts ...string) {
	val := reflect.ValueOf(node)
	typ := reflect.TypeOf(node)
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name, ok := field.Tag.Lookup("mapstructure")
		if !ok {
			name = field.Name
		}
		switch val.Field(i).Kind() {
		case reflect.Struct:
			bindEnvs(v, envPrefix, val.Field(i).Interface(), append(parts, name)...)
		case reflect.Pointer:
			if field.Type.Elem().Kind() == reflect.Struct {
				bindEnvs(v, envPrefix, reflect.Zero(field.Type.Elem()).Interface(), append(parts, name)...)
			}
		default:
			key := strings.Join(append(parts, name), ".")
			envKey := strings.Join(append(parts, toScreamingSnake(name)), "_")
			if envPrefix != "" {
				envKey = envPrefix + "_" + envKey
			}
			_ = v.BindEnv(key, strings.ToUpper(envKey))
		}
	}
}

// applyDefaults invokes ApplyDefault on the loaded struct and on any
// non-nil struct-pointer fields it holds.
func applyDefaults(conf any) {
	if withDefault, ok := conf.(WithDefault); ok {
		withDefault.ApplyDefault()
	}

	val := reflect.ValueOf(conf).Elem()
	if val.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if field.Kind() == reflect.Pointer && !field.IsNil() {
			if withDefault, ok := field.Interface().(WithDefault); ok {
				withDefault.ApplyDefault()
			}
		}
	}
}

// toScreamingSnake converts a CamelCase field name to SCREAMING_SNAKE_CASE.
func toScreamingSnake(in string) string {
	var sb strings.Builder
	sb.Grow(len(in) + len(in)/3)

	for i, r := range in {
		switch {
		case r >= 'a' && r <= 'z':
			r -= 'a' - 'A'
		case r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			if i > 0 {
				sb.WriteByte('_')
			}
		case r == '_' || r == '-':
			sb.WriteByte('_')
			continue
		}
		sb.WriteRune(r)
	}

	return sb.String()
}
