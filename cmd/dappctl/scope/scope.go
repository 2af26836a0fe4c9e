// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package scope

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/epam/dappctl/cmd/dappctl/config"
)

// Scope is the persistence boundary for settings: one project.
// Root doubles as the working directory of docker-app invocations.
type Scope struct {
	ID   string
	Root string
	Git  bool
}

// Resolve maps a directory to its project scope. Inside a git worktree the
// project is the worktree root, so every subdirectory shares one set of
// settings; elsewhere the directory itself is the project.
func Resolve(dir string) (Scope, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return Scope{}, fmt.Errorf("Unable to determine current working directory: %w", err)
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Scope{}, fmt.Errorf("Unable to convert `%s` to absolute pathname: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Scope{}, fmt.Errorf("Unable to access project directory `%s`: %w", abs, err)
	}
	if !info.IsDir() {
		return Scope{}, fmt.Errorf("Project `%s` is not a directory", abs)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	root, isGit, err := worktreeRoot(abs)
	if err != nil {
		return Scope{}, err
	}
	root = filepath.Clean(root)
	if config.Debug {
		kind := "directory"
		if isGit {
			kind = "git worktree"
		}
		log.Printf("Project scope `%s` (%s)", root, kind)
	}
	return Scope{ID: root, Root: root, Git: isGit}, nil
}

func worktreeRoot(dir string) (string, bool, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return dir, false, nil
		}
		if config.Debug {
			log.Printf("Unable to open git repository at `%s`: %v; using directory as project", dir, err)
		}
		return dir, false, nil
	}
	worktree, err := repo.Worktree()
	if err != nil {
		// bare repository
		if errors.Is(err, git.ErrIsBareRepository) {
			return dir, false, nil
		}
		return "", false, fmt.Errorf("Unable to open git worktree at `%s`: %w", dir, err)
	}
	root := worktree.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return root, true, nil
}
