// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package client submits transactions to a Trinci node over HTTP.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/trincinetwork/trinci-sign/internal/logging"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
)

// DefaultTimeout bounds the whole exchange with the node.
const DefaultTimeout = 15 * time.Second

// DefaultMaxResponseSize bounds the size of a node's reply.
const DefaultMaxResponseSize = 4 << 20

type channelState int

const (
	stateInitial channelState = iota
	stateSent
	stateReceived
	stateClosed
)

// Channel is a single request and response exchanged with a node. A channel
// must be used exactly once: Send, then Recv. Any other sequence panics. If
// Send fails, Recv reports that there is no response.
type Channel struct {
	url     string
	timeout time.Duration
	maxSize int64
	logger  zerolog.Logger
	client  *http.Client

	state  channelState
	cancel context.CancelFunc
	resp   *http.Response
}

type Option func(*Channel)

// WithTimeout sets the limit for connecting, sending the request and reading
// the response. A value of zero or less disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Channel) { c.timeout = timeout }
}

// WithMaxResponseSize sets the largest reply Recv accepts.
func WithMaxResponseSize(size int64) Option {
	return func(c *Channel) { c.maxSize = size }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Channel) { c.logger = logger }
}

// WithHTTPClient sets the HTTP client. The client's own timeout is ignored in
// favor of [WithTimeout].
func WithHTTPClient(client *http.Client) Option {
	return func(c *Channel) { c.client = client }
}

// NewChannel returns a channel that posts to the given URL.
func NewChannel(url string, opts ...Option) *Channel {
	c := &Channel{
		url:     url,
		timeout: DefaultTimeout,
		maxSize: DefaultMaxResponseSize,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
		}
	}
	return c
}

// Send posts the request to the node.
func (c *Channel) Send(ctx context.Context, request []byte) error {
	if c.state != stateInitial {
		panic(fmt.Sprintf("send on a channel that has already been used (state %d)", c.state))
	}
	c.state = stateSent

	ctx, c.cancel = c.withTimeout(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(request))
	if err != nil {
		c.close()
		return errors.SendFailed.WithFormat("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	c.logger.Debug().Str("url", c.url).Int("size", len(request)).Msg("Sending request")
	resp, err := c.client.Do(req)
	if err != nil {
		timedOut := ctx.Err() == context.DeadlineExceeded
		c.close()
		if timedOut {
			return errors.RecvFailed.WithFormat("request timed out after %v", c.timeout)
		}
		return errors.SendFailed.WithFormat("send request: %w", err)
	}

	c.resp = resp
	return nil
}

// Recv reads the response to the request. The channel is closed afterwards.
func (c *Channel) Recv() ([]byte, error) {
	if c.state != stateSent {
		panic(fmt.Sprintf("receive on a channel that has not sent a request (state %d)", c.state))
	}
	c.state = stateReceived
	defer c.close()

	if c.resp == nil {
		return nil, errors.RecvFailed.With("no response")
	}

	b, err := io.ReadAll(io.LimitReader(c.resp.Body, c.maxSize+1))
	if err != nil {
		if c.timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.RecvFailed.WithFormat("response timed out after %v", c.timeout)
		}
		return nil, errors.RecvFailed.WithFormat("read response: %w", err)
	}

	if int64(len(b)) > c.maxSize {
		return nil, errors.RecvFailed.WithFormat("response exceeds %d bytes", c.maxSize)
	}

	c.logger.Debug().Int("status", c.resp.StatusCode).Int("size", len(b)).Stringer("body", logging.AsHex(b)).Msg("Received response")
	if c.resp.StatusCode < 200 || c.resp.StatusCode >= 300 {
		return nil, errors.RecvFailed.WithFormat("node responded with %s", c.resp.Status)
	}
	return b, nil
}

// Close releases the channel's resources. Close may be called at any time and
// more than once. A closed channel cannot be used.
func (c *Channel) Close() {
	c.close()
	c.state = stateClosed
}

func (c *Channel) close() {
	if c.resp != nil {
		_ = c.resp.Body.Close()
		c.resp = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Channel) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
