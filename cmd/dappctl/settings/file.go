// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package settings

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/epam/dappctl/cmd/dappctl/config"
	"github.com/epam/dappctl/cmd/dappctl/util"
)

const (
	defaultFileName = ".dappctl-settings.yaml"
	documentVersion = 1
)

type document struct {
	Version int                          `yaml:"version"`
	Scopes  map[string]map[string]string `yaml:"scopes,omitempty"`
}

// FileStore keeps all scopes in one YAML document. Save replaces the file via
// rename so a concurrent Load reads either the old or the new document.
type FileStore struct {
	path  string
	mutex sync.RWMutex
}

func DefaultFilePath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("Unable to determine HOME directory: %w", err)
	}
	return filepath.Join(home, defaultFileName), nil
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		var err error
		path, err = DefaultFilePath()
		if err != nil {
			return nil, storeError("%w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(scope string) (Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	doc, err := s.read()
	if err != nil {
		return Record{}, err
	}
	record, unknown := FromMap(doc.Scopes[scope])
	if len(unknown) > 0 {
		sort.Strings(unknown)
		util.WarnOnce("Ignoring unknown %s %v for `%s` in `%s`",
			util.Plural(len(unknown), "key"), unknown, scope, s.path)
	}
	return record, nil
}

func (s *FileStore) Save(scope string, record Record) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if doc.Scopes == nil {
		doc.Scopes = make(map[string]map[string]string)
	}
	doc.Scopes[scope] = record.Map()
	doc.Version = documentVersion

	yamlBytes, err := yaml.Marshal(doc)
	if err != nil {
		return storeError("Unable to marshal settings: %w", err)
	}
	if config.Trace {
		log.Printf("Writing `%s` scope `%s`", s.path, scope)
	}
	return writeFileAtomic(s.path, yamlBytes)
}

func (s *FileStore) Close() error {
	return nil
}

// Scopes lists saved scopes, sorted.
func (s *FileStore) Scopes() ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	scopes := make([]string, 0, len(doc.Scopes))
	for scope := range doc.Scopes {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	return scopes, nil
}

func (s *FileStore) read() (*document, error) {
	if config.Trace {
		log.Printf("Reading `%s`", s.path)
	}
	yamlBytes, err := os.ReadFile(s.path)
	if err != nil {
		if util.NoSuchFile(err) {
			return &document{}, nil
		}
		return nil, storeError("Unable to read `%s`: %w", s.path, err)
	}
	if len(yamlBytes) == 0 {
		return &document{}, nil
	}

	violations, err := validate(s.path, yamlBytes)
	if err != nil {
		return nil, storeError("Unable to parse `%s`: %w", s.path, err)
	}
	if len(violations) > 0 {
		util.WarnOnce("`%s` schema is not valid:%s", s.path, formatViolations(violations))
	}

	var doc document
	err = yaml.Unmarshal(yamlBytes, &doc)
	if err != nil {
		return nil, storeError("Unable to parse `%s`: %w", s.path, err)
	}
	if doc.Version > documentVersion {
		util.WarnOnce("`%s` version %d is newer than supported version %d", s.path, doc.Version, documentVersion)
	}
	return &doc, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return storeError("Unable to create `%s`: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return storeError("Unable to create temporary file in `%s`: %w", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	wrote, err := tmp.Write(data)
	if err != nil {
		return cleanup(storeError("Unable to write `%s`: %w", tmpName, err))
	}
	if wrote != len(data) {
		return cleanup(storeError("Wrote %d out of %d bytes to `%s`", wrote, len(data), tmpName))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(storeError("Unable to sync `%s`: %w", tmpName, err))
	}
	if err := tmp.Chmod(0640); err != nil && !errors.Is(err, os.ErrInvalid) {
		return cleanup(storeError("Unable to chmod `%s`: %w", tmpName, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return storeError("Unable to close `%s`: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return storeError("Unable to replace `%s`: %w", path, err)
	}
	return nil
}
