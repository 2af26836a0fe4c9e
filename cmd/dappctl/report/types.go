// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package report

import (
	"fmt"
	"time"
)

type Severity string

const (
	Info  Severity = "info"
	Error Severity = "error"
)

// Kind is the classification of one invocation outcome.
type Kind int

const (
	Success Kind = iota
	NonZeroExit
	SpawnFailure
	Timeout
	Interrupted
	Failure
)

var kindNames = map[Kind]string{
	Success:      "success",
	NonZeroExit:  "non-zero-exit",
	SpawnFailure: "spawn-failure",
	Timeout:      "timeout",
	Interrupted:  "interrupted",
	Failure:      "failure",
}

func (k Kind) String() string {
	if name, exist := kindNames[k]; exist {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Message is the single composed report of an aggregate invocation.
type Message struct {
	Title    string
	Text     string
	Severity Severity
	Kind     Kind
}

// Event is one line of output in streaming mode, or the terminal summary when
// Final is set. ExitCode and Kind are meaningful on the final event only;
// ExitCode is -1 when the program did not run to completion.
type Event struct {
	Time     time.Time
	Text     string
	Severity Severity
	Final    bool
	ExitCode int
	Kind     Kind
}

// Presenter receives the one message of an aggregate invocation.
type Presenter interface {
	Present(Message)
}

// Notifier receives streaming events in order, final event last.
type Notifier interface {
	Notify(Event)
}
