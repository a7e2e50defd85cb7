// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package client

import (
	"context"
)

// Submit sends the envelope to the node at url and parses its reply.
func Submit(ctx context.Context, url string, envelope []byte, opts ...Option) (*Outcome, error) {
	ch := NewChannel(url, opts...)
	defer ch.Close()

	err := ch.Send(ctx, envelope)
	if err != nil {
		return nil, err
	}

	reply, err := ch.Recv()
	if err != nil {
		return nil, err
	}

	outcome, err := ParseReply(reply)
	if err != nil {
		return nil, err
	}

	ch.logger.Debug().Stringer("outcome", outcome.Type).Msg("Parsed reply")
	return outcome, nil
}
