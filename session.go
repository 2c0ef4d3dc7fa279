// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfxref

import "github.com/ScriptRock/pdfxref/filter"

// Option configures a Session. See spec §6.1 Configure.
type Option func(*Session)

// WithIgnoreFilterErrors makes stream decoding swallow filter failures
// into a residual-filters marker (spec §4.3 step 4, §7) instead of
// surfacing a FilterError.
func WithIgnoreFilterErrors(ignore bool) Option {
	return func(s *Session) { s.ignoreFilterErrors = ignore }
}

// WithFilter overrides the §6.2 Filter collaborator used to decode stream
// payloads. The default is filter.Default(), the reference implementation
// in this repository's filter package.
func WithFilter(f filter.Filter) Option {
	return func(s *Session) {
		if f != nil {
			s.filter = f
		}
	}
}

// Session owns everything a single parse call touches: the borrowed byte
// buffer, the accumulating Xref, and the lazily-populated Objects map. The
// xref visited-offsets guard is not a field: Parse creates one per call and
// passes it down through resolveXref. Bundling this state explicitly (rather than
// as mutable fields on a package-wide singleton, as the ported original
// does) is spec §9's "Global state" design note: one parse session, no
// process-wide state, trivially safe to run concurrently with another.
type Session struct {
	src *source

	xref    *Xref
	objects map[string][]RawValue

	ignoreFilterErrors bool
	filter             filter.Filter
}

// NewSession creates a parse session over data. The buffer is borrowed for
// the session's lifetime (spec §3.5); nothing here copies it.
func NewSession(data []byte, opts ...Option) *Session {
	s := &Session{
		src:     newSource(data),
		xref:    newXref(),
		objects: make(map[string][]RawValue),
		filter:  filter.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Xref returns the session's cross-reference index.
func (s *Session) Xref() *Xref { return s.xref }

// Objects returns the lazily-populated object table.
func (s *Session) Objects() map[string][]RawValue { return s.objects }
