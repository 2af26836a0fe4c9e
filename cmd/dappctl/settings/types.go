// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package settings

import (
	"errors"
	"fmt"
	"strings"
)

const (
	KeyPath         = "path"
	KeyOrchestrator = "orchestrator"
	KeyKubeconfig   = "kubeconfig"
	KeyOverrides    = "overrides"
	KeyNamespace    = "namespace"
	KeyName         = "name"

	DefaultOrchestrator = "swarm"
)

// Keys is the fixed schema, in display order.
var Keys = []string{KeyPath, KeyOrchestrator, KeyKubeconfig, KeyOverrides, KeyNamespace, KeyName}

var (
	ErrUnknownKey = errors.New("Unknown settings key")
	ErrStoreIO    = errors.New("Settings store failure")
)

// Record is the per-scope snapshot of the six settings. It is passed by value:
// callers edit a copy and hand it back to Store.Save.
type Record struct {
	Path         string
	Orchestrator string
	Kubeconfig   string
	Overrides    string
	Namespace    string
	Name         string
}

type Store interface {
	// Load never fails on a scope that was never saved: it returns Default().
	Load(scope string) (Record, error)
	// Save replaces all six keys of the scope at once.
	Save(scope string, record Record) error
	Close() error
}

func Default() Record {
	return Record{Orchestrator: DefaultOrchestrator}
}

func (r *Record) field(key string) (*string, error) {
	switch key {
	case KeyPath:
		return &r.Path, nil
	case KeyOrchestrator:
		return &r.Orchestrator, nil
	case KeyKubeconfig:
		return &r.Kubeconfig, nil
	case KeyOverrides:
		return &r.Overrides, nil
	case KeyNamespace:
		return &r.Namespace, nil
	case KeyName:
		return &r.Name, nil
	}
	return nil, fmt.Errorf("%w `%s`; known keys are: %s", ErrUnknownKey, key, strings.Join(Keys, ", "))
}

func (r Record) Get(key string) (string, error) {
	ptr, err := r.field(key)
	if err != nil {
		return "", err
	}
	return *ptr, nil
}

func (r *Record) Set(key, value string) error {
	ptr, err := r.field(key)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

// Map returns all six keys, including empty values.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(Keys))
	for _, key := range Keys {
		m[key], _ = r.Get(key)
	}
	return m
}

// FromMap builds a record from persisted key/value pairs. Keys absent from m
// take their defaults; unknown keys are returned so the caller may warn.
func FromMap(m map[string]string) (Record, []string) {
	record := Default()
	var unknown []string
	for key, value := range m {
		if err := record.Set(key, value); err != nil {
			unknown = append(unknown, key)
		}
	}
	return record, unknown
}

func storeError(format string, v ...interface{}) error {
	return fmt.Errorf("%w: %w", ErrStoreIO, fmt.Errorf(format, v...))
}
