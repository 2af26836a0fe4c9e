package util_test

import (
	"errors"
	"testing"

	. "github.com/epam/dappctl/cmd/dappctl/util"
	"github.com/stretchr/testify/assert"
)

func TestNonEmptyLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"Should return nothing for empty text", "", []string{}},
		{"Should return single line", "a=1", []string{"a=1"}},
		{"Should drop blank lines", "a=1\n\nb=2\n", []string{"a=1", "b=2"}},
		{"Should strip carriage returns", "a=1\r\nb=2\r\n\r\n", []string{"a=1", "b=2"}},
		{"Should keep whitespace-only lines", "a=1\n \nb=2", []string{"a=1", " ", "b=2"}},
		{"Should preserve order", "z\ny\nx", []string{"z", "y", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NonEmptyLines(tt.text))
		})
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"Should return empty string for no values", nil, ""},
		{"Should return first non-empty", []string{"", "b", "c"}, "b"},
		{"Should return empty for all empty", []string{"", ""}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Coalesce(tt.values...); got != tt.want {
				t.Errorf("Coalesce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name        string
		sep         string
		maybeErrors []error
		want        string
	}{
		{"Should return (no errors)", "", nil, "(no errors)"},
		{"Should skip nil errors", "", []error{nil, errors.New("error1"), nil}, "error1"},
		{"Should join with default separator", "", []error{errors.New("error1"), errors.New("error2")}, "error1, error2"},
		{"Should dedup", "; ", []error{errors.New("e"), errors.New("e"), errors.New("f")}, "e; f"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Errors(tt.sep, tt.maybeErrors...))
		})
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "line", Plural(1, "line"))
	assert.Equal(t, "lines", Plural(2, "line"))
	assert.Equal(t, "lines", Plural(0, "line"))
	assert.Equal(t, "entries", Plural(3, "entry", "entries"))
	assert.Equal(t, "", Plural(3))
}

func TestWarnOnce(t *testing.T) {
	assert.NotPanics(t, func() {
		WarnOnce("duplicate %s", "warning")
		WarnOnce("duplicate %s", "warning")
		PrintAllWarnings()
	})
}
