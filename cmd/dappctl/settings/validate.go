// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package settings

import (
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v2"

	"github.com/epam/dappctl/cmd/dappctl/config"
)

//go:embed settings.schema.json
var schemaJson []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJson)

// validate checks the settings document against the embedded schema and
// returns violations as human-readable strings. A document that cannot be
// checked at all is an error.
func validate(name string, yamlDocument []byte) ([]string, error) {
	var document interface{}
	err := yaml.Unmarshal(yamlDocument, &document)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil
	}
	converted, err := convertToStringKeysRecursive(document, "")
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(converted))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		if config.Trace {
			log.Printf("`%s` schema is valid", name)
		}
		return nil, nil
	}
	var errs []string
	for _, jserr := range result.Errors() {
		errs = append(errs, jserr.String())
	}
	return errs, nil
}

func formatViolations(errs []string) string {
	sep := "\n\t- "
	return sep + strings.Join(errs, sep)
}

func convertToStringKeysRecursive(value interface{}, keyPrefix string) (interface{}, error) {
	if mapping, ok := value.(map[interface{}]interface{}); ok {
		dict := make(map[string]interface{})
		for key, entry := range mapping {
			str, ok := key.(string)
			if !ok {
				return nil, formatInvalidKeyError(keyPrefix, key)
			}
			newKeyPrefix := str
			if keyPrefix != "" {
				newKeyPrefix = fmt.Sprintf("%s.%s", keyPrefix, str)
			}
			convertedEntry, err := convertToStringKeysRecursive(entry, newKeyPrefix)
			if err != nil {
				return nil, err
			}
			dict[str] = convertedEntry
		}
		return dict, nil
	}
	if list, ok := value.([]interface{}); ok {
		convertedList := make([]interface{}, 0, len(list))
		for index, entry := range list {
			convertedEntry, err := convertToStringKeysRecursive(entry, fmt.Sprintf("%s[%d]", keyPrefix, index))
			if err != nil {
				return nil, err
			}
			convertedList = append(convertedList, convertedEntry)
		}
		return convertedList, nil
	}
	return value, nil
}

func formatInvalidKeyError(keyPrefix string, key interface{}) error {
	location := "at top level"
	if keyPrefix != "" {
		location = fmt.Sprintf("in %s", keyPrefix)
	}
	return fmt.Errorf("Non-string key %s: %#v", location, key)
}
