package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/slide-tools-mcp/internal/ocr"
	"github.com/ironsheep/slide-tools-mcp/internal/region"
	"github.com/ironsheep/slide-tools-mcp/internal/slide"
	"github.com/ironsheep/slide-tools-mcp/internal/wsi"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "slide_check_levels").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Caller errors return code -32602. Open, read and allocation failures
// return code -32000 with the Go error string as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Info("tool failed", "tool", params.Name, "error", err)
		if errors.Is(err, slide.ErrCaller) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Calls the matching wsi.Service operation, which opens and closes the slide
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Slide Information
	case "slide_can_open":
		return s.handleSlideCanOpen(args)
	case "slide_check_levels":
		return s.handleSlideCheckLevels(args)
	case "slide_properties":
		return s.handleSlideProperties(args)
	case "slide_best_level":
		return s.handleSlideBestLevel(args)

	// Region Operations
	case "slide_read_regions":
		return s.handleSlideReadRegions(args)
	case "slide_region_preview":
		return s.handleSlideRegionPreview(args)

	// Associated Images
	case "slide_associated_images":
		return s.handleSlideAssociatedImages(args)
	case "slide_label_text":
		return s.handleSlideLabelText(args)

	// Server
	case "slide_backends":
		return s.svc.Backends(), nil

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", slide.ErrCaller, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Malformed arguments are caller
// errors.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", slide.ErrCaller, err)
	}
	return nil
}

// === Slide Information Handlers ===

type slidePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleSlideCanOpen(args json.RawMessage) (interface{}, error) {
	var a slidePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.svc.CanOpen(a.Path), nil
}

func (s *Server) handleSlideCheckLevels(args json.RawMessage) (interface{}, error) {
	var a slidePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.svc.CheckLevels(a.Path)
}

func (s *Server) handleSlideProperties(args json.RawMessage) (interface{}, error) {
	var a slidePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.svc.Properties(a.Path)
}

type slideBestLevelArgs struct {
	Path       string  `json:"path"`
	Downsample float64 `json:"downsample"`
}

func (s *Server) handleSlideBestLevel(args json.RawMessage) (interface{}, error) {
	var a slideBestLevelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.svc.BestLevel(a.Path, a.Downsample)
}

// === Region Operation Handlers ===

type slideReadRegionsArgs struct {
	Path    string           `json:"path"`
	Regions []region.Request `json:"regions"`
}

func (s *Server) handleSlideReadRegions(args json.RawMessage) (interface{}, error) {
	var a slideReadRegionsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.svc.ReadRegions(a.Path, a.Regions)
}

type slideRegionPreviewArgs struct {
	Path string `json:"path"`
	region.Request
	Scale       float64 `json:"scale"`
	GridSpacing int64   `json:"grid_spacing"`
	GridColor   string  `json:"grid_color"`
	GridLabels  bool    `json:"grid_labels"`
}

func (s *Server) handleSlideRegionPreview(args json.RawMessage) (interface{}, error) {
	var a slideRegionPreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.svc.RegionPreview(a.Path, a.Request, wsi.PreviewOptions{
		Scale:       a.Scale,
		GridSpacing: a.GridSpacing,
		GridColor:   a.GridColor,
		GridLabels:  a.GridLabels,
	})
}

// === Associated Image Handlers ===

func (s *Server) handleSlideAssociatedImages(args json.RawMessage) (interface{}, error) {
	var a slidePathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.svc.AssociatedImages(a.Path)
}

type slideLabelTextArgs struct {
	Path     string `json:"path"`
	Image    string `json:"image"`
	Language string `json:"language"`
}

func (s *Server) handleSlideLabelText(args json.RawMessage) (interface{}, error) {
	var a slideLabelTextArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = ocr.DefaultLanguage
	}
	return s.svc.LabelText(a.Path, a.Image, a.Language)
}
