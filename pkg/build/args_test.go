// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package build_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	. "gitlab.com/trincinetwork/trinci-sign/pkg/build"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/encoding"
)

const argsHex = "DF00000008A6746172676574A8234143434F554E54A76E6574776F726BA6534B594E4554A56E6F6E6365AB343363394A475973715971A46675656CCD2710A8636F6E7472616374D9443132323035616330636666313839653232373934623834373638373537386566343731346337646131306665396536663665333133363439323836333631623038323766A66D6574686F64AE6D795F636F6F6C5F6D6574686F64A461726773B1617267735F666F725F636F6E7472616374AB707269766174655F6B6579D9AF696E76616C696467744A4B68346533637742446D675348414E5862376872786D523456654A556B774C627A6B41745A626D6D635065534C426D33476B7272524E7235587A7233766A597335737845795571704546376232636B67436A43507045703577564C41746375555A4B69576B385A33374C3342776975584B57364A5759737650434A4148665970474A376D58725169505062324767506E3970774D4654533538317459796138356374357738"

const argsBase58 = "2RruV5gEwt2u4GHYWKgAuaSuzHvp2XzmxmP2Cakys4sfcf6i1LHuYsuVthfS3CspELEJZA1moQDsmdkgv9kNcc5NudoKz97C2jNRgXT4supyHGCsTtNL4xKxQcgZcnHsEdKCtbSRagBvbwr6uiRfhoQ29c1Vn3auujet25qKfYqubeMFAb2YC6QR9bJiqA4Bz1wVFRr2BvBSqAP34B4MUYkdVXPbmokEe9PTa99d63n85mR9QHqcKnv4Bs7qHPrf9YrpHZgGguF49q9zfBgkGbw7YnVr9gAAM2v5nznWAb52cM6uyNcMWSjStHFXp6VSyedtWvaAr76hMsMbbcE3Go3RykXZNHEHEGaaGgAMudU28ZWkHEEuTCeXA1AizG2JsG1wsbFdcBYKeockRrKCdrnxNdvUAUsejBBFAx1AeE9wNHRR2DJFeanxWnfHpFbwz9jRr7qhNP7zdqxScCxDeNbZwF2VXmUkDxpN3TViBDZv4xSQW9grmVhhk5CMymyD1"

const argsJSON = `{"target":"#ACCOUNT","network":"SKYNET","nonce":"43c9JGYsqYq","fuel":10000,"contract":"12205ac0cff189e22794b847687578ef4714c7da10fe9e6f6e313649286361b0827f","method":"my_cool_method","args":"args_for_contract","private_key":"invalidgtJKh4e3cwBDmgSHANXb7hrxmR4VeJUkwLbzkAtZbmmcPeSLBm3GkrrRNr5Xzr3vjYs5sxEyUqpEF7b2ckgCjCPpEp5wVLAtcuUZKiWk8Z37L3BwiuXKW6JWYsvPCJAHfYpGJ7mXrQiPPb2GgPn9pwMFTS581tYya85ct5w8"}`

func expectedArgs() *UnitTxArgs {
	nonce := "43c9JGYsqYq"
	return &UnitTxArgs{
		Target:     "#ACCOUNT",
		Network:    "SKYNET",
		Nonce:      &nonce,
		Fuel:       10000,
		Contract:   "12205ac0cff189e22794b847687578ef4714c7da10fe9e6f6e313649286361b0827f",
		Method:     "my_cool_method",
		Args:       encoding.StringValue("args_for_contract"),
		PrivateKey: "invalidgtJKh4e3cwBDmgSHANXb7hrxmR4VeJUkwLbzkAtZbmmcPeSLBm3GkrrRNr5Xzr3vjYs5sxEyUqpEF7b2ckgCjCPpEp5wVLAtcuUZKiWk8Z37L3BwiuXKW6JWYsvPCJAHfYpGJ7mXrQiPPb2GgPn9pwMFTS581tYya85ct5w8",
	}
}

func TestParseUnitTxArgs(t *testing.T) {
	cases := []struct {
		Kind InputKind
		Text string
	}{
		{InputJSON, argsJSON},
		{InputHex, argsHex},
		{InputHex, strings.ToLower(argsHex)},
		{InputBase58, argsBase58},
	}
	for _, c := range cases {
		t.Run(c.Kind.String(), func(t *testing.T) {
			args, err := ParseUnitTxArgs(c.Kind, c.Text)
			require.NoError(t, err)
			require.Equal(t, expectedArgs(), args)
		})
	}
}

func TestParseUnitTxArgsOptionalNonce(t *testing.T) {
	args, err := ParseUnitTxArgs(InputJSON, `{"target":"a","network":"b","fuel":0,"contract":"","method":"m","args":null,"private_key":"k"}`)
	require.NoError(t, err)
	require.Nil(t, args.Nonce)
	require.Zero(t, args.Fuel)
	require.True(t, args.Args.IsNil())

	// Positional MessagePack, with and without the nonce
	str := encoding.StringValue
	args, err = ParseUnitTxArgs(InputHex, positional(t, str("a"), str("b"), str("n"), encoding.UintValue(1), str(""), str("m"), encoding.ArrayValue(encoding.UintValue(1)), str("k")))
	require.NoError(t, err)
	require.Equal(t, "n", *args.Nonce)
	require.Equal(t, "k", args.PrivateKey)

	args, err = ParseUnitTxArgs(InputHex, positional(t, str("a"), str("b"), encoding.UintValue(1), str(""), str("m"), encoding.MapValue(encoding.Entry("x", encoding.UintValue(1))), str("k")))
	require.NoError(t, err)
	require.Nil(t, args.Nonce)
	require.Equal(t, uint64(1), args.Fuel)
	require.Equal(t, "m", args.Method)
	require.Equal(t, `{"x":1}`, args.Args.String())
}

// positional returns the hex encoding of a MessagePack array of fields.
func positional(t *testing.T, fields ...encoding.Value) string {
	t.Helper()
	b, err := encoding.Marshal(encoding.ArrayValue(fields...))
	require.NoError(t, err)
	return hex.EncodeToString(b)
}

func TestParseUnitTxArgsKeepsArgsOrder(t *testing.T) {
	args, err := ParseUnitTxArgs(InputJSON, `{"target":"a","network":"b","fuel":1,"contract":"","method":"m","args":{"z":1,"a":[true,"s"],"m":null},"private_key":"k"}`)
	require.NoError(t, err)
	require.Equal(t, `{"z":1,"a":[true,"s"],"m":null}`, args.Args.String())
}

func TestParseUnitTxArgsRejects(t *testing.T) {
	const tail = `"method":"m","args":null,"private_key":"k"}`
	cases := map[string]struct {
		Kind InputKind
		Text string
	}{
		"UnknownField":      {InputJSON, `{"target":"a","network":"b","fuel":1,"contract":"","extra":1,` + tail},
		"DuplicateField":    {InputJSON, `{"target":"a","target":"a","network":"b","fuel":1,"contract":"",` + tail},
		"MissingField":      {InputJSON, `{"network":"b","fuel":1,"contract":"",` + tail},
		"WrongType":         {InputJSON, `{"target":1,"network":"b","fuel":1,"contract":"",` + tail},
		"NegativeFuel":      {InputJSON, `{"target":"a","network":"b","fuel":-1,"contract":"",` + tail},
		"FractionalFuel":    {InputJSON, `{"target":"a","network":"b","fuel":1.5,"contract":"",` + tail},
		"MalformedContract": {InputJSON, `{"target":"a","network":"b","fuel":1,"contract":"1220ff",` + tail},
		"BadNonce":          {InputJSON, `{"target":"a","network":"b","nonce":"0OIl","fuel":1,"contract":"",` + tail},
		"EmptyPrivateKey":   {InputJSON, `{"target":"a","network":"b","fuel":1,"contract":"","method":"m","args":null,"private_key":""}`},
		"NotAnObject":       {InputJSON, `"args"`},
		"TrailingJSON":      {InputJSON, argsJSON + "{}"},
		"BadJSON":           {InputJSON, `{"target":`},
		"PositionalJSON":    {InputJSON, `["a","b",1,"","m",null,"k"]`},
		"FieldCount":        {InputHex, "92a161a162"},
		"BadHex":            {InputHex, "DF0g"},
		"OddHex":            {InputHex, argsHex[1:]},
		"TrailingHex":       {InputHex, argsHex + "C0"},
		"TruncatedHex":      {InputHex, argsHex[:len(argsHex)-2]},
		"BadBase58":         {InputBase58, "0OIl"},
		"EmptyBase58":       {InputBase58, ""},
		"UnknownKind":       {InputKind(99), argsJSON},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseUnitTxArgs(c.Kind, c.Text)
			require.Error(t, err)
			require.Equal(t, errors.DecodeFailed, errors.Code(err), "%v", err)
		})
	}
}

func TestUnitTxArgsEncodings(t *testing.T) {
	args := expectedArgs()
	args.Args = encoding.MapValue(
		encoding.Entry("b", encoding.UintValue(1)),
		encoding.Entry("a", encoding.ArrayValue(encoding.BoolValue(true), encoding.NilValue())),
	)

	b, err := args.MarshalJSON()
	require.NoError(t, err)
	fromJSON, err := ParseUnitTxArgs(InputJSON, string(b))
	require.NoError(t, err)
	require.Equal(t, args, fromJSON)

	s, err := args.Hex()
	require.NoError(t, err)
	fromHex, err := ParseUnitTxArgs(InputHex, s)
	require.NoError(t, err)
	require.Equal(t, args, fromHex)

	s, err = args.Base58()
	require.NoError(t, err)
	fromBase58, err := ParseUnitTxArgs(InputBase58, s)
	require.NoError(t, err)
	require.Equal(t, args, fromBase58)

	b, err = args.MarshalBinary()
	require.NoError(t, err)
	decoded := new(UnitTxArgs)
	require.NoError(t, decoded.UnmarshalBinary(b))
	require.Equal(t, args, decoded)
}

func TestInputKindByName(t *testing.T) {
	for _, kind := range []InputKind{InputJSON, InputHex, InputBase58} {
		got, ok := InputKindByName(kind.String())
		require.True(t, ok)
		require.Equal(t, kind, got)
	}
	_, ok := InputKindByName("yaml")
	require.False(t, ok)
}
