// Package server implements the MCP (Model Context Protocol) server for
// whole-slide image tools.
//
// This package provides a JSON-RPC 2.0 server that exposes slide inspection
// and region extraction through the MCP protocol.
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
// Slide Information:
//   - slide_can_open: Check whether a file is a readable slide
//   - slide_check_levels: Level count, per-level dimensions and downsamples
//   - slide_properties: Vendor properties
//   - slide_best_level: Level for a target downsample
//
// Region Operations:
//   - slide_read_regions: Batch extraction to planar RGB
//   - slide_region_preview: One region as PNG
//
// Associated Images:
//   - slide_associated_images: Label, macro and thumbnail sizes
//   - slide_label_text: OCR of the label image
//
// Server:
//   - slide_backends: Enabled backends and OCR availability
//
// # Region Buffers
//
// slide_read_regions returns each region as base64 of width*height*3 bytes
// in layout "planar-rgb-colmajor": the red plane, then green, then blue.
// Within a plane the pixel at row i, column j is at index j*height+i.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 when the request itself is invalid (bad arguments, level
//     out of range, non-positive size, unknown tool)
//   - code: -32000 when the slide cannot be opened, read or buffered
//   - data: the Go error string
//
// # Usage
//
//	svc := wsi.New(opener, extractor, logger)
//	srv := server.New(svc, logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
