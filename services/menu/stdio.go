// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package menu

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/AleutianAI/AleutianMenu/services/menu/agent"
	"github.com/AleutianAI/AleutianMenu/services/menu/catalog"
	"github.com/AleutianAI/AleutianMenu/services/menu/tools"
)

// stdioRequest is one line of the stdio protocol. Exactly one of Tool,
// Message, or ListTools selects the operation.
type stdioRequest struct {
	Tool      string          `json:"tool,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Message   string          `json:"message,omitempty"`
	ListTools bool            `json:"listTools,omitempty"`
}

// StdioServer reads newline-delimited JSON requests from a single caller
// and writes one JSON response per line. All cart operations use the
// shared default session; this transport is for local, single-user use.
type StdioServer struct {
	dispatcher *tools.Dispatcher
	agent      *agent.Agent
	log        *slog.Logger
}

func NewStdioServer(dispatcher *tools.Dispatcher, ag *agent.Agent, log *slog.Logger) *StdioServer {
	if log == nil {
		log = slog.Default()
	}
	return &StdioServer{dispatcher: dispatcher, agent: ag, log: log}
}

// Run serves requests until the reader is exhausted or the context is
// canceled. Per-line failures are reported on the output stream and do
// not stop the loop.
func (s *StdioServer) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req stdioRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.write(enc, ErrorResponse{Error: "invalid request: " + err.Error(), Code: "INVALID_REQUEST"})
			continue
		}
		s.write(enc, s.handle(ctx, req))
	}
	return scanner.Err()
}

func (s *StdioServer) handle(ctx context.Context, req stdioRequest) any {
	switch {
	case req.ListTools:
		return map[string]any{"tools": tools.Specs()}

	case req.Tool != "":
		tool := tools.Tool(req.Tool)
		if !tool.Valid() {
			return ErrorResponse{Error: "Unknown tool: " + req.Tool, Code: "UNKNOWN_TOOL"}
		}
		result, err := s.dispatcher.Dispatch(ctx, catalog.DefaultSession, tool, req.Arguments)
		if err != nil {
			return ErrorResponse{Error: err.Error(), Code: "TOOL_ERROR"}
		}
		return result

	case req.Message != "":
		return s.agent.Chat(ctx, catalog.DefaultSession, req.Message)

	default:
		return ErrorResponse{Error: "request needs one of: tool, message, listTools", Code: "INVALID_REQUEST"}
	}
}

func (s *StdioServer) write(enc *json.Encoder, v any) {
	if err := enc.Encode(v); err != nil {
		s.log.Error("stdio write failed", "error", err)
	}
}
