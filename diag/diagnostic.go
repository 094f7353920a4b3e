// Package diag holds resolver diagnostics and the adapters that carry them to the
// editor surface and the terminal.
package diag

import (
	"fmt"
	"sort"

	"github.com/lucasefe/dbdiagram/model"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevWarning marks problems that leave the model usable.
	SevWarning Severity = iota + 1
	// SevError marks problems that make the document invalid.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// MarshalText encodes s by name, so JSON output reads "error" or "warning".
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name written by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "warning":
		*s = SevWarning
	case "error":
		*s = SevError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Code classifies a diagnostic.
type Code string

// Diagnostic codes.
const (
	// CodeSyntax is a parse error.
	CodeSyntax              Code = "syntax"
	// CodeDuplicate marks a second definition of a table, field or enum.
	CodeDuplicate           Code = "duplicate"
	// CodeUnresolvedReference marks a ref endpoint naming no table or field.
	CodeUnresolvedReference Code = "unresolved-reference"
	// CodeEmptyRef marks a ref with no resolvable endpoint.
	CodeEmptyRef            Code = "empty-ref"
	// CodeEndpointMismatch marks composite endpoints of different lengths.
	CodeEndpointMismatch    Code = "endpoint-mismatch"
	// CodeUnknownGroupTable marks a table group member that does not exist.
	CodeUnknownGroupTable   Code = "unknown-group-table"
)

// Diagnostic is a problem found while parsing or resolving, located by a token span.
type Diagnostic struct {
	Severity Severity    `json:"severity"`
	Code     Code        `json:"code"`
	Message  string      `json:"message"`
	Token    model.Token `json:"token"`
}

// Sort orders diagnostics by start offset, then end offset, then severity with
// errors first.
func Sort(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		di, dj := ds[i], ds[j]
		if di.Token.Start.Offset != dj.Token.Start.Offset {
			return di.Token.Start.Offset < dj.Token.Start.Offset
		}
		if di.Token.End.Offset != dj.Token.End.Offset {
			return di.Token.End.Offset < dj.Token.End.Offset
		}
		return di.Severity > dj.Severity
	})
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(ds []Diagnostic) bool {
	for i := range ds {
		if ds[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Count returns the number of errors and warnings.
func Count(ds []Diagnostic) (errors, warnings int) {
	for i := range ds {
		switch ds[i].Severity {
		case SevError:
			errors++
		case SevWarning:
			warnings++
		}
	}
	return errors, warnings
}
