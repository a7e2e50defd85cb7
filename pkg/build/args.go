// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package build

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mr-tron/base58"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/encoding"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/hash"
)

// UnitTxArgs are the user supplied parameters of a unit transaction.
type UnitTxArgs struct {
	Target  string `json:"target"`
	Network string `json:"network"`
	// Nonce is the base58 encoding of the nonce. If it is nil a random nonce
	// is generated.
	Nonce *string `json:"nonce,omitempty" validate:"omitempty,base58"`
	Fuel  uint64  `json:"fuel"`
	// Contract is the hex encoded multihash of the contract, or empty.
	Contract string         `json:"contract" validate:"omitempty,multihash"`
	Method   string         `json:"method"`
	Args     encoding.Value `json:"args"`
	// PrivateKey is the base58 encoding of a PKCS#8 private key.
	PrivateKey string `json:"private_key" validate:"required"`
}

// InputKind is the text encoding of a [UnitTxArgs].
type InputKind int

const (
	// InputJSON is a JSON object.
	InputJSON InputKind = iota + 1
	// InputHex is hex encoded MessagePack.
	InputHex
	// InputBase58 is base58 encoded MessagePack.
	InputBase58
)

func (k InputKind) String() string {
	switch k {
	case InputJSON:
		return "json"
	case InputHex:
		return "hex"
	case InputBase58:
		return "bs58"
	default:
		return fmt.Sprintf("InputKind:%d", int(k))
	}
}

// InputKindByName returns the input kind with the given name.
func InputKindByName(name string) (InputKind, bool) {
	switch strings.ToLower(name) {
	case "json":
		return InputJSON, true
	case "hex":
		return InputHex, true
	case "bs58", "base58":
		return InputBase58, true
	default:
		return 0, false
	}
}

// field names, in positional order
var unitTxArgsFields = []string{"target", "network", "nonce", "fuel", "contract", "method", "args", "private_key"}

// NewValidator returns a validator that knows the base58 and multihash
// string formats. Empty strings are accepted by both.
func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})

	err := v.RegisterValidation("base58", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			panic(fmt.Errorf("%q is not a string", fl.FieldName()))
		}
		s := fl.Field().String()
		if len(s) == 0 {
			return true
		}
		_, err := base58.Decode(s)
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	err = v.RegisterValidation("multihash", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			panic(fmt.Errorf("%q is not a string", fl.FieldName()))
		}
		s := fl.Field().String()
		if len(s) == 0 {
			return true
		}
		_, err := hash.FromHex(s)
		return err == nil
	})
	return v, err
}

var defaultValidator = sync.OnceValues(NewValidator)

// Validate checks the string encoded fields.
func (a *UnitTxArgs) Validate() error {
	v, err := defaultValidator()
	if err != nil {
		return errors.UnknownError.WithFormat("create validator: %w", err)
	}
	err = v.Struct(a)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.DecodeFailed.Wrap(err)
	}
	var msgs []string
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid %s", e.Field(), e.Tag()))
	}
	return errors.DecodeFailed.WithFormat("invalid args: %s", strings.Join(msgs, ", "))
}

// ParseUnitTxArgs decodes and validates the text encoding of a unit
// transaction's parameters.
func ParseUnitTxArgs(kind InputKind, text string) (*UnitTxArgs, error) {
	var v encoding.Value
	switch kind {
	case InputJSON:
		var err error
		v, err = encoding.ValueFromJSON([]byte(text))
		if err != nil {
			return nil, err
		}

	case InputHex:
		b, err := hex.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return nil, errors.DecodeFailed.WithFormat("invalid hex: %w", err)
		}
		err = encoding.Unmarshal(b, &v)
		if err != nil {
			return nil, errors.DecodeFailed.WithCauseAndFormat(err, "invalid MessagePack: %v", err)
		}

	case InputBase58:
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, errors.DecodeFailed.With("invalid base58: empty")
		}
		b, err := base58.Decode(text)
		if err != nil {
			return nil, errors.DecodeFailed.WithFormat("invalid base58: %w", err)
		}
		err = encoding.Unmarshal(b, &v)
		if err != nil {
			return nil, errors.DecodeFailed.WithCauseAndFormat(err, "invalid MessagePack: %v", err)
		}

	default:
		return nil, errors.DecodeFailed.WithFormat("unknown input kind %v", kind)
	}

	args, err := unitTxArgsFromValue(v, kind != InputJSON)
	if err != nil {
		return nil, err
	}
	if err := args.Validate(); err != nil {
		return nil, err
	}
	return args, nil
}

// unitTxArgsFromValue accepts an object keyed by field name. If positional is
// set it also accepts an array holding the fields in order, with or without
// the nonce.
func unitTxArgsFromValue(v encoding.Value, positional bool) (*UnitTxArgs, error) {
	var p parser
	args := new(UnitTxArgs)
	seen := map[string]bool{}

	switch v.Kind {
	case encoding.KindMap:
		for _, e := range v.Map {
			if e.Key.Kind != encoding.KindString {
				p.errorf(errors.DecodeFailed, "field name %v is not a string", e.Key)
				continue
			}
			name := e.Key.Str
			if seen[name] {
				p.errorf(errors.DecodeFailed, "duplicate field %q", name)
				continue
			}
			seen[name] = true
			p.setField(args, name, e.Value)
		}

	case encoding.KindArray:
		if !positional {
			return nil, errors.DecodeFailed.With("want an object, got an array")
		}
		fields := unitTxArgsFields
		switch len(v.Array) {
		case len(fields):
		case len(fields) - 1:
			fields = append(fields[:2:2], fields[3:]...)
		default:
			return nil, errors.DecodeFailed.WithFormat("want %d fields, got %d", len(fields), len(v.Array))
		}
		for i, name := range fields {
			seen[name] = true
			p.setField(args, name, v.Array[i])
		}

	default:
		return nil, errors.DecodeFailed.WithFormat("want an object, got %v", v.Kind)
	}

	for _, name := range unitTxArgsFields {
		if !seen[name] && name != "nonce" {
			p.errorf(errors.DecodeFailed, "missing field %q", name)
		}
	}
	if !p.ok() {
		return nil, p.err()
	}
	return args, nil
}

func (p *parser) setField(args *UnitTxArgs, name string, v encoding.Value) {
	switch name {
	case "target":
		args.Target = p.parseString(name, v)
	case "network":
		args.Network = p.parseString(name, v)
	case "nonce":
		if v.IsNil() {
			args.Nonce = nil
			return
		}
		s := p.parseString(name, v)
		args.Nonce = &s
	case "fuel":
		if v.Kind != encoding.KindUint {
			p.errorf(errors.DecodeFailed, "%s: want an unsigned integer, got %v", name, v.Kind)
			return
		}
		args.Fuel = v.Uint
	case "contract":
		args.Contract = p.parseString(name, v)
	case "method":
		args.Method = p.parseString(name, v)
	case "args":
		args.Args = v
	case "private_key":
		args.PrivateKey = p.parseString(name, v)
	default:
		p.errorf(errors.DecodeFailed, "unknown field %q", name)
	}
}

func (p *parser) parseString(name string, v encoding.Value) string {
	if v.Kind != encoding.KindString {
		p.errorf(errors.DecodeFailed, "%s: want a string, got %v", name, v.Kind)
		return ""
	}
	return v.Str
}

func (a *UnitTxArgs) value() encoding.Value {
	entries := []encoding.MapEntry{
		encoding.Entry("target", encoding.StringValue(a.Target)),
		encoding.Entry("network", encoding.StringValue(a.Network)),
	}
	if a.Nonce != nil {
		entries = append(entries, encoding.Entry("nonce", encoding.StringValue(*a.Nonce)))
	}
	entries = append(entries,
		encoding.Entry("fuel", encoding.UintValue(a.Fuel)),
		encoding.Entry("contract", encoding.StringValue(a.Contract)),
		encoding.Entry("method", encoding.StringValue(a.Method)),
		encoding.Entry("args", a.Args),
		encoding.Entry("private_key", encoding.StringValue(a.PrivateKey)),
	)
	return encoding.MapValue(entries...)
}

// MarshalJSON writes the args as a JSON object.
func (a *UnitTxArgs) MarshalJSON() ([]byte, error) {
	return a.value().MarshalJSON()
}

func (a *UnitTxArgs) UnmarshalJSON(b []byte) error {
	v, err := encoding.ValueFromJSON(b)
	if err != nil {
		return err
	}
	args, err := unitTxArgsFromValue(v, false)
	if err != nil {
		return err
	}
	*a = *args
	return nil
}

// MarshalBinary writes the args as a MessagePack map keyed by field name.
func (a *UnitTxArgs) MarshalBinary() ([]byte, error) {
	return encoding.Marshal(a.value())
}

func (a *UnitTxArgs) UnmarshalBinary(b []byte) error {
	var v encoding.Value
	if err := encoding.Unmarshal(b, &v); err != nil {
		return errors.DecodeFailed.WithCauseAndFormat(err, "invalid MessagePack: %v", err)
	}
	args, err := unitTxArgsFromValue(v, true)
	if err != nil {
		return err
	}
	*a = *args
	return nil
}

// Hex returns the hex encoding of [UnitTxArgs.MarshalBinary].
func (a *UnitTxArgs) Hex() (string, error) {
	b, err := a.MarshalBinary()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Base58 returns the base58 encoding of [UnitTxArgs.MarshalBinary].
func (a *UnitTxArgs) Base58() (string, error) {
	b, err := a.MarshalBinary()
	if err != nil {
		return "", err
	}
	return base58.Encode(b), nil
}
