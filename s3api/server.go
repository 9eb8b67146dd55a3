// Copyright 2026 fadlee
// This file is licensed under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package s3api

import (
	"bufio"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/fadlee/mini-s3/reqctx"
)

// streamChunkSize bounds how much of a streamed GetObject body is copied
// per write.
const streamChunkSize = 8 << 20

// NewApp wires a Dispatcher into a fiber app as a single catch-all route
// over the flat (method, queryFlags) routing table, rather than
// per-resource fiber routes.
func NewApp(app *fiber.App, d *Dispatcher) {
	app.All("/*", func(c *fiber.Ctx) error {
		return serve(c, d)
	})
}

func serve(c *fiber.Ctx, d *Dispatcher) error {
	ctx := reqctx.FromFiber(c)
	resp := d.Handle(ctx, c.Request().BodyStream())
	return writeResponse(c, resp)
}

func writeResponse(c *fiber.Ctx, resp *Response) error {
	for k, v := range resp.Headers {
		c.Set(k, v)
	}
	c.Status(resp.Status)

	if resp.Stream != nil {
		stream := resp.Stream
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer stream.Close()
			io.CopyBuffer(w, stream, make([]byte, streamChunkSize))
			w.Flush()
		})
		return nil
	}
	if resp.Body != nil {
		return c.Send(resp.Body)
	}
	return nil
}
