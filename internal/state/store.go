// Package state is the persisted key/value store shared by the tracker and
// the user interface. Values are JSON encoded so every backend stores the
// same bytes.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	KeyDebugMode      = "isDebugMode"
	KeyLogging        = "isLogging"
	KeyLogs           = "logs"
	KeyLatitude       = "currentLatitude"
	KeyLongitude      = "currentLongitude"
	KeyConsumerKey    = "consumerKey"
	KeyConsumerSecret = "consumerSecret"
	KeyAccessKey      = "accessKey"
	KeyAccessSecret   = "accessSecret"
)

var (
	ErrClosed    = errors.New("state store closed")
	ErrNotFinite = errors.New("value is not a finite number")
)

// UpdateFunc receives the current raw value (ok is false when absent) and
// returns the replacement. Returning a nil slice deletes the key.
type UpdateFunc func(current []byte, ok bool) ([]byte, error)

type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Update applies fn atomically with respect to other writers of the
	// same store.
	Update(key string, fn UpdateFunc) error
	// Observe calls fn with the key after every change to it. The returned
	// func stops observation.
	Observe(key string, fn func(key string)) func()
	Close() error
}

func Bool(s Store, key string) (bool, error) {
	var v bool
	ok, err := getJSON(s, key, &v)
	if err != nil || !ok {
		return false, err
	}
	return v, nil
}

func SetBool(s Store, key string, v bool) error {
	return setJSON(s, key, v)
}

// String returns "" for an absent key.
func String(s Store, key string) (string, error) {
	var v string
	ok, err := getJSON(s, key, &v)
	if err != nil || !ok {
		return "", err
	}
	return v, nil
}

func SetString(s Store, key string, v string) error {
	return setJSON(s, key, v)
}

// Strings distinguishes an absent key (ok false) from an empty list.
func Strings(s Store, key string) ([]string, bool, error) {
	var v []string
	ok, err := getJSON(s, key, &v)
	if err != nil || !ok {
		return nil, false, err
	}
	if v == nil {
		v = []string{}
	}
	return v, true, nil
}

func SetStrings(s Store, key string, v []string) error {
	if v == nil {
		v = []string{}
	}
	return setJSON(s, key, v)
}

// Float reads a number persisted as a decimal string. JSON numbers are
// accepted too.
func Float(s Store, key string) (float64, bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return 0, false, err
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		var n float64
		if numErr := json.Unmarshal(raw, &n); numErr != nil {
			return 0, false, fmt.Errorf("decode %s: %w", key, err)
		}
		return n, true, nil
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, fmt.Errorf("decode %s: %w", key, err)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false, fmt.Errorf("decode %s: %w: %q", key, ErrNotFinite, text)
	}
	return n, true, nil
}

func SetFloat(s Store, key string, v float64) error {
	return setJSON(s, key, strconv.FormatFloat(v, 'f', -1, 64))
}

// AppendStrings appends entries to the list under key, keeping at most max
// of the newest entries when max is positive.
func AppendStrings(s Store, key string, max int, entries ...string) error {
	return s.Update(key, func(current []byte, ok bool) ([]byte, error) {
		var list []string
		if ok {
			if err := json.Unmarshal(current, &list); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
		}
		list = append(list, entries...)
		if max > 0 && len(list) > max {
			list = list[len(list)-max:]
		}
		return json.Marshal(list)
	})
}

func getJSON(s Store, key string, out any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func setJSON(s Store, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(key, payload)
}
