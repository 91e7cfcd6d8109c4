package config

import (
	"testing"

	"bactool/internal/directive"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError_DetailedError(t *testing.T) {
	ce := NewConfigurationErrorWithDetails("/etc/bacula/bacula-dir.conf", "parse",
		"unknown directive", "Flavour = mint", []string{"Accepted keys: Name"})
	ce.LineNumber = 12

	assert.Equal(t, "bacula-dir.conf:12: unknown directive", ce.Error())
	detailed := ce.DetailedError()
	assert.Contains(t, detailed, "  File: /etc/bacula/bacula-dir.conf")
	assert.Contains(t, detailed, "  Line: 12")
	assert.Contains(t, detailed, "  Details: Flavour = mint")
	assert.Contains(t, detailed, "    - Accepted keys: Name")
}

func TestConfigurationErrorCollection(t *testing.T) {
	cec := NewConfigurationErrorCollection()
	assert.False(t, cec.HasErrors())
	assert.Equal(t, "No configuration errors to report", cec.GetDetailedReport())

	cec.Add(NewConfigurationError("/a.conf", "parse", "bad"))
	cec.Add(NewConfigurationError("/b.conf", "io", "missing"))
	assert.Equal(t, 2, cec.Count())
	assert.Equal(t, "2 configuration errors: a.conf: bad (and 1 more)", cec.Error())
	assert.Contains(t, cec.GetDetailedReport(), "Error 2:")
}

func TestFromParseError(t *testing.T) {
	pe := &directive.ParseError{Line: 3, Text: "Flavour = mint", Key: "Flavour", Reason: `"Flavour"`, Err: directive.ErrUnknownDirective}
	ce := FromParseError("/etc/bacula/bacula-dir.conf", 10, pe, []string{"Name", "db name"})

	assert.Equal(t, 13, ce.LineNumber)
	assert.Equal(t, `unknown directive: "Flavour"`, ce.Message)
	assert.Equal(t, "Flavour = mint", ce.Details)
	assert.Equal(t, []string{"Accepted keys: Name, db name"}, ce.Suggestions)

	ce = FromParseError("x.conf", 10, &directive.ParseError{Err: directive.ErrMissingName}, nil)
	assert.Zero(t, ce.LineNumber)
	assert.Len(t, ce.Suggestions, 1)

	ce = FromParseError("x.conf", 0, &directive.ParseError{Line: 4, Key: "Name", Err: directive.ErrRepeatedName}, nil)
	assert.Equal(t, 4, ce.LineNumber)
	assert.Equal(t, []string{`Keep a single "Name = ..." line per resource`}, ce.Suggestions)
}
