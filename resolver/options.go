package resolver

import (
	"log/slog"

	"github.com/lucasefe/dbdiagram/parser"
)

// Parser is the parser collaborator: it turns source text into a raw tree and must
// report malformed input through Database.Errors instead of failing.
type Parser interface {
	Parse(src string) *parser.Database
}

// Option configures resolution behavior.
type Option func(*options)

type options struct {
	parser         Parser
	maxDiagnostics int
	logger         *slog.Logger
}

func defaultOptions() *options {
	return &options{
		parser:         parser.New(),
		maxDiagnostics: 100,
		logger:         slog.New(slog.DiscardHandler),
	}
}

// WithParser replaces the built-in DBML parser.
func WithParser(p Parser) Option {
	return func(o *options) {
		o.parser = p
	}
}

// WithMaxDiagnostics caps the number of diagnostics returned. Values below one
// disable the cap.
func WithMaxDiagnostics(n int) Option {
	return func(o *options) {
		o.maxDiagnostics = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
