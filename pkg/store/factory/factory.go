package factory

import (
	"errors"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store"
)

type StoreType string

var (
	ErrTypeNotSupported = errors.New("cache store type not supported")
	ErrWrongCreator     = errors.New("cache store wrong creator")
)

type Creator[ImplOpt any] func([]store.Option, []ImplOpt) (store.Store, error)

var registry = map[StoreType]any{}

// Register a new implementation generically
func Register[ImplOpt any](key StoreType, creator Creator[ImplOpt]) {
	registry[key] = creator
}

// Create a new instance
//
//nolint:whitespace //editor/linter issue
func New[ImplOpt any](
	key StoreType,
	common []store.Option,
	specific []ImplOpt,
) (store.Store, error) {
	entry, ok := registry[key]
	if !ok {
		return nil, ErrTypeNotSupported
	}
	creator, ok := entry.(Creator[ImplOpt])
	if !ok {
		return nil, ErrWrongCreator
	}
	return creator(common, specific)
}

// Registered returns true if an implementation for key is available
func Registered(key StoreType) bool {
	_, ok := registry[key]
	return ok
}
