// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package settings

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/epam/dappctl/cmd/dappctl/config"
	"github.com/epam/dappctl/cmd/dappctl/util"
)

const defaultDatabaseName = ".dappctl-settings.db"

const schemaSql = `
CREATE TABLE IF NOT EXISTS settings (
	scope TEXT NOT NULL,
	key   TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (scope, key)
)`

// SQLStore keeps settings in a SQLite database, one row per scope and key.
// Save rewrites the scope rows in a single transaction.
type SQLStore struct {
	path string
	db   *sql.DB
}

func DefaultDatabasePath() (string, error) {
	path, err := DefaultFilePath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), defaultDatabaseName), nil
}

func NewSQLStore(path string) (*SQLStore, error) {
	if path == "" {
		var err error
		path, err = DefaultDatabasePath()
		if err != nil {
			return nil, storeError("%w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, storeError("Unable to create `%s`: %w", filepath.Dir(path), err)
	}
	if config.Trace {
		log.Printf("Opening settings database `%s`", path)
	}
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, storeError("Unable to open `%s`: %w", path, err)
	}
	// single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storeError("Unable to open `%s`: %w", path, err)
	}
	if _, err := db.Exec(schemaSql); err != nil {
		db.Close()
		return nil, storeError("Unable to initialize schema in `%s`: %w", path, err)
	}
	return &SQLStore{path: path, db: db}, nil
}

func (s *SQLStore) Path() string {
	return s.path
}

func (s *SQLStore) Load(scope string) (Record, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings WHERE scope = ?`, scope)
	if err != nil {
		return Record{}, storeError("Unable to query `%s`: %w", s.path, err)
	}
	defer rows.Close()

	values := make(map[string]string, len(Keys))
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Record{}, storeError("Unable to read `%s`: %w", s.path, err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return Record{}, storeError("Unable to read `%s`: %w", s.path, err)
	}

	record, unknown := FromMap(values)
	if len(unknown) > 0 {
		sort.Strings(unknown)
		util.WarnOnce("Ignoring unknown %s %v for `%s` in `%s`",
			util.Plural(len(unknown), "key"), unknown, scope, s.path)
	}
	return record, nil
}

func (s *SQLStore) Save(scope string, record Record) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return storeError("Unable to begin transaction on `%s`: %w", s.path, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM settings WHERE scope = ?`, scope); err != nil {
		return storeError("Unable to clear scope `%s`: %w", scope, err)
	}
	values := record.Map()
	for _, key := range Keys {
		if _, err = tx.Exec(`INSERT INTO settings (scope, key, value) VALUES (?, ?, ?)`,
			scope, key, values[key]); err != nil {
			return storeError("Unable to write `%s` for scope `%s`: %w", key, scope, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return storeError("Unable to commit `%s`: %w", s.path, err)
	}
	if config.Trace {
		log.Printf("Wrote `%s` scope `%s`", s.path, scope)
	}
	return nil
}

func (s *SQLStore) Scopes() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT scope FROM settings ORDER BY scope`)
	if err != nil {
		return nil, storeError("Unable to query `%s`: %w", s.path, err)
	}
	defer rows.Close()
	var scopes []string
	for rows.Next() {
		var scope string
		if err := rows.Scan(&scope); err != nil {
			return nil, storeError("Unable to read `%s`: %w", s.path, err)
		}
		scopes = append(scopes, scope)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("Unable to read `%s`: %w", s.path, err)
	}
	return scopes, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
