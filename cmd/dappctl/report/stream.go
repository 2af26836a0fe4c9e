// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package report

import (
	"time"

	"github.com/epam/dappctl/cmd/dappctl/lifecycle"
)

// Streamer forwards output lines as events and closes the sequence with one
// summary event. Line must not be called after Finish.
type Streamer struct {
	Notifier Notifier
	Titles   Titles

	now func() time.Time
}

func NewStreamer(notifier Notifier, t Titles) *Streamer {
	return &Streamer{Notifier: notifier, Titles: t, now: time.Now}
}

func (s *Streamer) Line(line lifecycle.Line) {
	severity := Info
	if line.Stream == lifecycle.Stderr {
		severity = Error
	}
	s.Notifier.Notify(Event{Time: s.now(), Text: line.Text, Severity: severity})
}

func (s *Streamer) Finish(res *lifecycle.Result, err error) Kind {
	kind, _, summary, severity := summarize(s.Titles, res, err)
	if summary == "" {
		summary = s.Titles.Success
	}
	exitCode := -1
	if res != nil {
		exitCode = res.ExitCode
	}
	s.Notifier.Notify(Event{
		Time:     s.now(),
		Text:     summary,
		Severity: severity,
		Final:    true,
		ExitCode: exitCode,
		Kind:     kind,
	})
	return kind
}
