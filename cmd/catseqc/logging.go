package main

import "go.uber.org/zap"

// newLogger builds a zap.Logger the way this tool's teacher built its
// ad hoc verbosity around log.Printf — but with structured fields instead
// of formatted strings: a development logger (human-readable, colourised
// level, caller info) in verbose mode, a quiet no-op logger otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
