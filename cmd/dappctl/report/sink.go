// Copyright (c) 2022 EPAM Systems, Inc.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"

	"github.com/epam/dappctl/cmd/dappctl/config"
	"github.com/epam/dappctl/cmd/dappctl/util"
)

// Console prints messages and events for a human. Informational text goes to
// Out, errors to Err. Colours are used when the target is a terminal.
type Console struct {
	Out io.Writer
	Err io.Writer

	mutex sync.Mutex
}

func NewConsole(out, err io.Writer) *Console {
	return &Console{Out: out, Err: err}
}

func (c *Console) colors(w io.Writer) aurora.Aurora {
	return aurora.NewAurora(config.Tty && (config.TtyForced || util.IsTerminal(w)))
}

func (c *Console) writer(severity Severity) io.Writer {
	if severity == Error && c.Err != nil {
		return c.Err
	}
	return c.Out
}

func (c *Console) Present(msg Message) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	w := c.writer(msg.Severity)
	au := c.colors(w)
	title := au.BrightGreen(msg.Title)
	if msg.Severity == Error {
		title = au.BrightRed(msg.Title)
	}
	if msg.Title != "" {
		fmt.Fprintf(w, "%s\n", au.Bold(title))
	}
	if msg.Text != "" {
		fmt.Fprintf(w, "%s\n", msg.Text)
	}
}

func (c *Console) Notify(event Event) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	w := c.writer(event.Severity)
	if !event.Final {
		if event.Severity == Error {
			fmt.Fprintf(w, "%s\n", c.colors(w).Red(event.Text))
		} else {
			fmt.Fprintf(w, "%s\n", event.Text)
		}
		return
	}
	au := c.colors(w)
	if event.Severity == Error {
		fmt.Fprintf(w, "%s\n", au.Bold(au.BrightRed(event.Text)))
	} else {
		fmt.Fprintf(w, "%s\n", au.Bold(au.BrightGreen(event.Text)))
	}
}

// JSON writes one object per line, for IDE front-ends reading the output.
type JSON struct {
	mutex   sync.Mutex
	encoder *json.Encoder
}

type jsonRecord struct {
	Type     string     `json:"type"`
	Time     *time.Time `json:"time,omitempty"`
	Title    string     `json:"title,omitempty"`
	Text     string     `json:"text"`
	Severity Severity   `json:"severity"`
	Kind     *Kind      `json:"kind,omitempty"`
	ExitCode *int       `json:"exitCode,omitempty"`
}

func NewJSON(w io.Writer) *JSON {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return &JSON{encoder: encoder}
}

func (j *JSON) Present(msg Message) {
	kind := msg.Kind
	j.encode(jsonRecord{Type: "message", Title: msg.Title, Text: msg.Text, Severity: msg.Severity, Kind: &kind})
}

func (j *JSON) Notify(event Event) {
	at := event.Time
	record := jsonRecord{Type: "line", Time: &at, Text: event.Text, Severity: event.Severity}
	if event.Final {
		kind, exitCode := event.Kind, event.ExitCode
		record.Type = "status"
		record.Kind = &kind
		record.ExitCode = &exitCode
	}
	j.encode(record)
}

func (j *JSON) encode(record jsonRecord) {
	j.mutex.Lock()
	defer j.mutex.Unlock()
	if err := j.encoder.Encode(record); err != nil {
		log.Printf("Unable to write JSON report: %v", err)
	}
}
