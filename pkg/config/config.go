// Package config loads typed configuration structs from environment
// variables. A .env file in the working directory is applied once before the
// first load, so local development does not require exporting variables.
//
// Each configuration type is parsed once per process and cached; repeated
// Load calls for the same type return the cached copy.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilPointer    = errors.New("config: nil pointer passed to Load")
	ErrParsingConfig = errors.New("config: failed to parse environment")
)

var (
	mu     sync.Mutex
	loaded = make(map[string]any)

	dotenvOnce sync.Once
)

// Load parses environment variables into cfg based on `env` struct tags.
// The first call in the process also loads a .env file if one exists.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		// A missing .env file is not an error.
		_ = godotenv.Load()
	})
	if cfg == nil {
		return ErrNilPointer
	}

	key := typeName[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := loaded[key]; ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	loaded[key] = *cfg
	return nil
}

// MustLoad is Load that panics on failure. Use it for configuration the
// process cannot start without.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
