package config

import (
	"errors"

	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var (
	// Configuration errors
	ErrValueType  = errors.New(f("wrong type"))
	ErrValueRange = errors.New(f("out of range"))
)

// ErrConfig indicates a configuration file that could not be evaluated.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}

// ErrKey indicates a configuration setting with a bad value.
type ErrKey struct {
	Key string
	Err error
}

func (err *ErrKey) Error() string {
	return f("'%v' %v", err.Key, err.Err)
}

func (err *ErrKey) Unwrap() error {
	return err.Err
}
