// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package cmd

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/hash"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/messaging"
	"gitlab.com/trincinetwork/trinci-sign/protocol"
)

type result struct {
	Stdout string
	Stderr string
	Code   int
}

func execute(t *testing.T, args ...string) result {
	t.Helper()
	cmd, app := NewRootCommand()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	code := app.Execute(context.Background(), cmd, args)
	t.Log(stderr.String())
	return result{stdout.String(), stderr.String(), code}
}

func newKey(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return base58.Encode(der)
}

func unitTxJSON(t *testing.T) string {
	return fmt.Sprintf(`{"target":"#ACCOUNT","network":"SKYNET","nonce":"43c9JGYsqYq","fuel":10000,"contract":"","method":"my_cool_method","args":{"a":1},"private_key":%q}`, newKey(t))
}

func stubNode(t *testing.T, reply []byte) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if !assertRequest(t, r, body, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write(reply)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func assertRequest(t *testing.T, r *http.Request, body []byte, err error) bool {
	if err != nil || r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/octet-stream" {
		t.Errorf("unexpected request %s %s: %v", r.Method, r.Header.Get("Content-Type"), err)
		return false
	}
	msg, err := messaging.Unmarshal(body)
	if err != nil {
		t.Errorf("invalid request: %v", err)
		return false
	}
	if _, ok := msg.(*messaging.PutTransactionRequest); !ok {
		t.Errorf("expected a put transaction request, got %v", msg.Type())
		return false
	}
	return true
}

func marshal(t *testing.T, msg messaging.Message) []byte {
	t.Helper()
	b, err := messaging.Marshal(msg)
	require.NoError(t, err)
	return b
}

func TestToMessagePack(t *testing.T) {
	cases := []struct {
		Name string
		Args []string
		Want string
	}{
		{"String", []string{"--string", "hi"}, "[162,104,105]"},
		{"JSON object", []string{"--json", `{"a":1}`}, "[129,161,97,1]"},
		{"JSON string", []string{"--json", `"hi"`}, "[162,104,105]"},
		{"Empty string", []string{"--string", ""}, "[160]"},
	}
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			res := execute(t, append([]string{"to_message_pack"}, c.Args...)...)
			require.Equal(t, 0, res.Code)
			require.Equal(t, c.Want, res.Stdout)
		})
	}
}

func TestToMessagePackBadJSON(t *testing.T) {
	res := execute(t, "to_message_pack", "--json", "{")
	require.Equal(t, 1, res.Code)
	require.Equal(t, "KO|Bad input args", res.Stdout)
	require.Contains(t, res.Stderr, "invalid JSON")
}

func TestBadCommandLine(t *testing.T) {
	cases := map[string][]string{
		"No input":        {"to_message_pack"},
		"Two inputs":      {"to_message_pack", "--json", "1", "--string", "x"},
		"Unknown flag":    {"create_unit_tx", "--yaml", "x"},
		"Positional args": {"create_unit_tx", "--json", "{}", "extra"},
		"Wrong input":     {"to_message_pack", "--hex", "00"},
		"Unknown output":  {"create_unit_tx", "--json", unitTxJSON(t), "--output", "yaml"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			res := execute(t, args...)
			require.Equal(t, 1, res.Code)
			require.Regexp(t, "^KO\\|", res.Stdout)
		})
	}
}

func TestCreateUnitTx(t *testing.T) {
	res := execute(t, "create_unit_tx", "--json", unitTxJSON(t))
	require.Equal(t, 0, res.Code)

	msg, err := messaging.Unmarshal([]byte(res.Stdout))
	require.NoError(t, err)
	req, ok := msg.(*messaging.PutTransactionRequest)
	require.True(t, ok)
	require.True(t, req.Confirm)

	tx, ok := req.Tx.(*protocol.UnitTransaction)
	require.True(t, ok)
	data := tx.Data.(*protocol.TransactionDataV1)
	require.Equal(t, "#ACCOUNT", data.Account)
	require.Equal(t, uint64(10000), data.FuelLimit)
	require.Equal(t, "1234567890123456", hex.EncodeToString(data.Nonce))
	require.Nil(t, data.Contract)
	require.Equal(t, []byte{0x81, 0xa1, 'a', 1}, data.Args)
}

func TestCreateUnitTxOutputEncodings(t *testing.T) {
	args := unitTxJSON(t)

	res := execute(t, "create_unit_tx", "--json", args, "--output", "hex")
	require.Equal(t, 0, res.Code)
	b, err := hex.DecodeString(res.Stdout)
	require.NoError(t, err)
	_, err = messaging.Unmarshal(b)
	require.NoError(t, err)

	res = execute(t, "create_unit_tx", "--json", args, "-o", "bs58")
	require.Equal(t, 0, res.Code)
	b, err = base58.Decode(res.Stdout)
	require.NoError(t, err)
	_, err = messaging.Unmarshal(b)
	require.NoError(t, err)
}

func TestCreateUnitTxFailures(t *testing.T) {
	// The fixture key is not valid base58
	res := execute(t, "create_unit_tx", "--json", `{"target":"#ACCOUNT","network":"SKYNET","fuel":1,"contract":"","method":"m","args":null,"private_key":"invalidgtJKh4e3c"}`)
	require.Equal(t, 1, res.Code)
	require.Equal(t, "KO|Invalid private key", res.Stdout)

	res = execute(t, "create_unit_tx", "--hex", "zz")
	require.Equal(t, 1, res.Code)
	require.Equal(t, "KO|Bad input args", res.Stdout)

	res = execute(t, "create_unit_tx", "--bs58", "0OIl")
	require.Equal(t, 1, res.Code)
	require.Equal(t, "KO|Bad input args", res.Stdout)
}

func TestSubmitUnitTx(t *testing.T) {
	h := hash.Sum([]byte("transaction"))
	source := "wasm"
	cases := []struct {
		Name  string
		Reply []byte
		Want  string
		Code  int
	}{
		{"Accepted", marshal(t, &messaging.PutTransactionResponse{Hash: h}), "OK|" + h.Hex(), 0},
		{"Valid", []byte("true"), "OK|Valid Transaction!", 0},
		{"Invalid", []byte("false"), "KO|Invalid Transaction!", 1},
		{"Exception", marshal(t, &messaging.Exception{Kind: protocol.ErrorKindDuplicatedConfirmed, Source: &source}), "KO|DuplicatedConfirmedTx", 1},
		{"Unexpected", marshal(t, &messaging.UnknownMessage{MessageType: messaging.MessageTypeGetBlockRequest, Payload: []byte{0x92, 0x05, 0xc2}}), "KO|GetBlockRequest[5,false]", 1},
		{"Garbage", []byte{0xc1}, "KO|Error on message deserialization", 1},
	}
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			url := stubNode(t, c.Reply)
			res := execute(t, "submit_unit_tx", "--json", unitTxJSON(t), "--url", url)
			require.Equal(t, c.Want, res.Stdout)
			require.Equal(t, c.Code, res.Code)
		})
	}
}

func TestSubmitUnitTxURLFromConfig(t *testing.T) {
	url := stubNode(t, []byte("true"))
	file := filepath.Join(t.TempDir(), "trinci-sign.toml")
	require.NoError(t, os.WriteFile(file, []byte(fmt.Sprintf("[node]\nurl = %q\ntimeout = \"5s\"\n", url)), 0600))

	res := execute(t, "--config", file, "submit_unit_tx", "--hex", mustHex(t, unitTxJSON(t)))
	require.Equal(t, "OK|Valid Transaction!", res.Stdout)
	require.Equal(t, 0, res.Code)
}

func TestSubmitUnitTxFailures(t *testing.T) {
	res := execute(t, "submit_unit_tx", "--json", unitTxJSON(t))
	require.Equal(t, "KO|Bad command line", res.Stdout)
	require.Equal(t, 1, res.Code)

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	res = execute(t, "submit_unit_tx", "--json", unitTxJSON(t), "-u", url)
	require.Equal(t, "KO|Error sending unit tx", res.Stdout)
	require.Equal(t, 1, res.Code)

	res = execute(t, "submit_unit_tx", "--json", unitTxJSON(t), "-u", stubNode(t, nil), "--timeout", "10ms")
	require.Equal(t, "KO|Bad command line", res.Stdout, "timeout is below the minimum")
}

func TestConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "trinci-sign.toml")
	require.NoError(t, os.WriteFile(file, []byte("[node]\nurl = \"http://localhost:8000/api/v1/bootstrap\"\n"), 0600))

	res := execute(t, "--config", file, "--log-format", "json", "config")
	require.Equal(t, 0, res.Code)
	require.Contains(t, res.Stdout, `url = "http://localhost:8000/api/v1/bootstrap"`)
	require.Contains(t, res.Stdout, `format = "json"`)
	require.Contains(t, res.Stdout, `timeout = "15s"`)

	res = execute(t, "--config", file, "config", "--format", "yaml")
	require.Equal(t, 0, res.Code)
	require.Contains(t, res.Stdout, "url: http://localhost:8000/api/v1/bootstrap")

	res = execute(t, "config", "--format", "xml")
	require.Equal(t, "KO|Bad command line", res.Stdout)

	res = execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "config")
	require.Equal(t, "KO|Bad command line", res.Stdout)
	require.Equal(t, 1, res.Code)
}

func TestModuleLogLevels(t *testing.T) {
	res := execute(t, "--log-level", "error;build=debug", "--log-format", "json", "create_unit_tx", "--json", unitTxJSON(t), "-o", "hex")
	require.Equal(t, 0, res.Code)
	require.Contains(t, res.Stderr, `"module":"build"`)
	require.Contains(t, res.Stderr, "Built unit transaction")
	require.NotContains(t, res.Stderr, "Starting")

	res = execute(t, "--log-level", "error;mempool=debug", "to_message_pack", "--string", "x")
	require.Equal(t, "KO|Bad command line", res.Stdout)
	require.Equal(t, 1, res.Code)
}

func TestArgumentsAreChecked(t *testing.T) {
	cmd, app := NewRootCommand()
	require.Panics(t, func() { _, _ = app.buildUnitTx(cmd, &MsgPackString{Value: "x"}) })
	require.Panics(t, func() { _, _ = toMessagePack(&UnitTxArguments{}) })
}

func TestByteArray(t *testing.T) {
	require.Equal(t, "[]", byteArray(nil))
	require.Equal(t, "[0,255,16]", byteArray([]byte{0, 255, 16}))
}

// mustHex converts JSON parameters into the hex encoding of their MessagePack
// form.
func mustHex(t *testing.T, params string) string {
	t.Helper()
	res := execute(t, "to_message_pack", "--json", params)
	require.Equal(t, 0, res.Code)

	var b []byte
	var c int
	for _, s := range bytes.Split([]byte(res.Stdout[1:len(res.Stdout)-1]), []byte(",")) {
		_, err := fmt.Sscan(string(s), &c)
		require.NoError(t, err)
		b = append(b, byte(c))
	}
	return hex.EncodeToString(b)
}
