// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Command asdl-lsp-stub speaks the NDJSON completion-worker wire shape
// (§6: initialize, update_document, complete, shutdown) without being a
// real language server: it proves the protocol is honored and wires
// go.uber.org/zap for structured logs, but update_document and complete
// both return "not implemented" — the actual completion worker is an
// external collaborator (§1).
package main

import (
	"context"
	"fmt"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.uber.org/zap"
)

// stdrwc adapts stdin/stdout into the single io.ReadWriteCloser the NDJSON
// stream wraps.
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdrwc) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdrwc) Close() error                { return os.Stdin.Close() }

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	stream := jsonrpc2.NewStream(stdrwc{})
	conn := jsonrpc2.NewConn(stream)
	conn.Go(ctx, handle(logger))

	<-conn.Done()
	if err := conn.Err(); err != nil {
		logger.Warn("connection closed with error", zap.Error(err))
	}
}

func handle(logger *zap.Logger) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		switch req.Method() {
		case "initialize":
			logger.Info("initialize")
			return reply(ctx, map[string]any{"capabilities": map[string]any{}}, nil)
		case "shutdown":
			logger.Info("shutdown")
			return reply(ctx, nil, nil)
		case "update_document", "complete":
			logger.Info("not implemented", zap.String("method", req.Method()))
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.MethodNotFound, "not implemented: "+req.Method()))
		default:
			return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.MethodNotFound, "unknown method: "+req.Method()))
		}
	}
}
