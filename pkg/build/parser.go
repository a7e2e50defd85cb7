// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package build

import (
	"strings"

	"github.com/mr-tron/base58"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/encoding"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/hash"
)

type Errors []error

func (e Errors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var errs []string
	for _, e := range e {
		errs = append(errs, e.Error())
	}
	return strings.Join(errs, "; ")
}

func (e Errors) Unwrap() []error { return e }

type parser struct {
	errs []error
}

func (p *parser) ok() bool {
	return len(p.errs) == 0
}

func (p *parser) err() error {
	switch len(p.errs) {
	case 0:
		return nil
	case 1:
		return p.errs[0]
	default:
		return Errors(p.errs)
	}
}

func (p *parser) record(err ...error) {
	errs := make([]error, 0, len(p.errs)+len(err))
	errs = append(errs, p.errs...)
	errs = append(errs, err...)
	p.errs = errs
}

func (p *parser) errorf(code errors.Status, format string, args ...interface{}) {
	p.record(code.Skip(1).WithFormat(format, args...))
}

// parseContract returns nil for an empty string, otherwise the hash the
// string encodes.
func (p *parser) parseContract(s string) *hash.Hash {
	if s == "" {
		return nil
	}
	h, err := hash.FromHex(s)
	if err != nil {
		p.record(errors.DecodeFailed.WithCauseAndFormat(err, "invalid contract %q", s))
		return nil
	}
	return &h
}

// parseBase58 decodes a base58 string. An empty string is an empty byte
// string.
func (p *parser) parseBase58(code errors.Status, what, s string) []byte {
	if s == "" {
		return []byte{}
	}
	b, err := base58.Decode(s)
	if err != nil {
		p.errorf(code, "invalid %s: %v", what, err)
		return nil
	}
	return b
}

func (p *parser) parseArgs(v encoding.Value) []byte {
	b, err := encoding.Marshal(v)
	if err != nil {
		p.record(errors.SerializeFailed.WithCauseAndFormat(err, "encode args"))
		return nil
	}
	return b
}
