// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package settings

import "fmt"

const (
	BackendYaml   = "yaml"
	BackendSqlite = "sqlite"
)

// Lister is implemented by stores that can enumerate saved scopes.
type Lister interface {
	Scopes() ([]string, error)
}

// Open returns the store for backend. An empty path selects the backend's
// default location under $HOME.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendYaml:
		store, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendSqlite:
		store, err := NewSQLStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("Unknown settings backend `%s`; expected %s or %s", backend, BackendYaml, BackendSqlite)
}
