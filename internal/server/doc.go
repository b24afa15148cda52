// Package server implements the MCP (Model Context Protocol) server for the
// clock reader.
//
// The server exposes time detection and result scoring to MCP-compatible
// clients over stdio using JSON-RPC 2.0:
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
//   - clock_detect_time: Read the time from a clock image, optionally saving
//     the intermediate images to a debug directory
//   - clock_check_result: Score a detected time against the true time
//   - clock_decode_result: Decode a result file name
//   - clock_accuracy_report: Summarize a result directory
//
// Loaded images are cached by path for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data. Malformed tools/call parameters
// return -32602, unknown methods -32601 and lines that are not JSON -32700.
//
// # Usage
//
//	srv, err := server.New(config.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
