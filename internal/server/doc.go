// Package server implements the MCP (Model Context Protocol) server for the
// digit classifier.
//
// This package provides a JSON-RPC 2.0 server that exposes a k-NN engine and
// its distance metrics through the MCP protocol.
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
// Query Pictures:
//   - digit_load: Normalize a picture and preview the 28x28 grid
//
// Classification:
//   - knn_predict: Labels for a batch of pictures
//   - knn_predict_neighbors: Labels plus the voting reference samples
//   - knn_performance: Leave-one-out accuracy over random reference samples
//
// Reference Set:
//   - knn_dataset_info: k, size, alphabet, histogram, metrics
//   - knn_reference_image: Render one reference sample
//
// Analysis Helpers:
//   - shape_distance: Every distance between two pictures
//   - digit_ocr: Tesseract reading next to the k-NN label
//
// Infinite distances (a picture without ink against one with ink) are encoded
// as the string "+Inf".
//
// # Image Caching
//
// Decoded pictures are cached by path for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: "Unsupported distance metric" for unknown metric names,
//     otherwise "Tool execution failed"
//   - data: the Go error string
//
// # Usage
//
//	engine, err := knn.New(3, 1000, dataset.MNISTProvider{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(engine).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
