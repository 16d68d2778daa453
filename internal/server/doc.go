// Package server implements the MCP (Model Context Protocol) server for
// gradient edge detection.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Edge Detection:
//   - image_list_kernels: Registered operators and their weights
//   - image_edge_detect: Gradient detection rendered as overlay or magnitude map
//   - image_convolve: Raw response of one kernel component
//
// Stored Detection:
//   - image_edge_thin: Non-maximum suppression of the stored edges
//   - image_detect_lines: Hough lines through the stored edges
//
// # Detection State
//
// image_edge_detect keeps the gradient map it computed, keyed by image path.
// image_edge_thin and image_detect_lines read it and fail with
// edge.ErrPreconditionNotMet when no detection exists for the path.
// Thinning replaces the stored gradient with the thinned one. Loading an
// image with reload set drops both the cached pixels and the stored gradient.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(server.WithLogger(logger), server.WithVersion(Version))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
