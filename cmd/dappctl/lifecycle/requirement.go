// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package lifecycle

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/epam/dappctl/cmd/dappctl/config"
)

var (
	labelledVersionRegexp = regexp.MustCompile(`(?mi)^\s*version:\s*v?(\d+\.\d+(?:\.\d+)?(?:[-+][0-9A-Za-z.\-+]*)?)`)
	bareVersionRegexp     = regexp.MustCompile(`\bv?(\d+\.\d+\.\d+(?:[-+][0-9A-Za-z.\-+]*)?)`)
)

type Requirement struct {
	Program    string
	Args       []string
	MinVersion *version.Version
}

func DockerAppRequirement(program, minVersion string) (Requirement, error) {
	req := Requirement{Program: program, Args: []string{"version"}}
	if minVersion != "" {
		min, err := version.NewVersion(minVersion)
		if err != nil {
			return req, fmt.Errorf("Unable to parse minimal version `%s`: %w", minVersion, err)
		}
		req.MinVersion = min
	}
	return req, nil
}

// CheckRequirement runs `<program> version` in dir and verifies the reported
// version is at least the minimum. It returns the detected version.
func CheckRequirement(ctx context.Context, req Requirement, dir string) (*version.Version, error) {
	argv := append([]string{req.Program}, req.Args...)
	if config.Trace {
		log.Printf("Checking %v", argv)
	}
	result, err := Invoke(ctx, argv, Options{Dir: dir})
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("`%s` exited with code %d: %s", strings.Join(argv, " "), result.ExitCode,
			strings.TrimSpace(string(result.Stderr)))
	}
	return checkRequiresBinVersion(req, result.Stdout)
}

func parseVersion(output []byte) (*version.Version, error) {
	match := labelledVersionRegexp.FindSubmatch(output)
	if match == nil {
		match = bareVersionRegexp.FindSubmatch(output)
	}
	if match == nil {
		return nil, fmt.Errorf("No version found in output: %q", firstLine(output))
	}
	return version.NewVersion(string(match[1]))
}

func checkRequiresBinVersion(req Requirement, output []byte) (*version.Version, error) {
	detected, err := parseVersion(output)
	if err != nil {
		return nil, fmt.Errorf("Unable to determine `%s` version: %w", req.Program, err)
	}
	if config.Debug {
		log.Printf("Found `%s` version %s", req.Program, detected)
	}
	if req.MinVersion != nil && detected.LessThan(req.MinVersion) {
		return detected, fmt.Errorf("`%s` version %s is less than required %s", req.Program, detected, req.MinVersion)
	}
	return detected, nil
}

func firstLine(output []byte) string {
	str := strings.TrimSpace(string(output))
	if i := strings.IndexByte(str, '\n'); i >= 0 {
		str = str[:i]
	}
	return str
}
