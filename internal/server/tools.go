package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the slide file",
	}
}

// regionProperties describes one region: level-0 origin plus the size in
// pixels of the chosen level.
func regionProperties() map[string]interface{} {
	return map[string]interface{}{
		"level": map[string]interface{}{
			"type":        "integer",
			"description": "Pyramid level index (0 = full resolution)",
		},
		"x": map[string]interface{}{
			"type":        "integer",
			"description": "Left edge in level-0 pixel coordinates",
		},
		"y": map[string]interface{}{
			"type":        "integer",
			"description": "Top edge in level-0 pixel coordinates",
		},
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Region width in pixels of the chosen level",
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Region height in pixels of the chosen level",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Slide Information
		{
			Name:        "slide_can_open",
			Description: "Check whether a file is a slide any enabled backend can read. Never fails: missing or unrecognized files report false.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "slide_check_levels",
			Description: "Return the pyramid of a slide: level count, per-level dimensions as [height, width], per-level downsample factors and any calibration (objective power, microns per pixel).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "slide_properties",
			Description: "List all vendor properties of a slide as name/value pairs sorted by name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "slide_best_level",
			Description: "Find the highest-resolution level whose downsample does not exceed the requested factor.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"downsample": map[string]interface{}{
						"type":        "number",
						"description": "Desired downsample factor relative to level 0 (e.g., 4.0)",
					},
				},
				"required": []string{"path", "downsample"},
			},
		},

		// Region Operations
		{
			Name:        "slide_read_regions",
			Description: "Extract one or more regions as raw RGB. Each region is returned base64-encoded in layout planar-rgb-colmajor: three planes (red, green, blue) of width*height bytes, each stored column by column. Alpha is discarded. If any region fails the call reports an error naming the failing region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"regions": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":       "object",
							"properties": regionProperties(),
							"required":   []string{"level", "x", "y", "width", "height"},
						},
						"minItems":    1,
						"description": "Regions to extract, returned in the same order",
					},
				},
				"required": []string{"path", "regions"},
			},
		},
		{
			Name:        "slide_region_preview",
			Description: "Extract a region and return it as a base64-encoded PNG for visual inspection, optionally with a coordinate grid in level-0 pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": func() map[string]interface{} {
					props := regionProperties()
					props["path"] = pathProperty()
					props["scale"] = map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor applied to the PNG. Default 1.0",
						"default":     1.0,
					}
					props["grid_spacing"] = map[string]interface{}{
						"type":        "integer",
						"description": "Optional coordinate grid: one line every N level-0 pixels",
					}
					props["grid_color"] = map[string]interface{}{
						"type":        "string",
						"description": "Grid color as hex (#RRGGBB or #RRGGBBAA). Default #FF000080",
						"default":     "#FF000080",
					}
					props["grid_labels"] = map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid intersections with level-0 coordinates. Default false",
						"default":     false,
					}
					return props
				}(),
				"required": []string{"path", "level", "x", "y", "width", "height"},
			},
		},

		// Associated Images
		{
			Name:        "slide_associated_images",
			Description: "List the associated images (label, macro, thumbnail) stored with a slide and their sizes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "slide_label_text",
			Description: "Run OCR over an associated image, the slide label by default, and return the text with word bounding boxes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"image": map[string]interface{}{
						"type":        "string",
						"description": "Associated image name. Default \"label\"",
						"default":     "label",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default \"eng\"",
						"default":     "eng",
					},
				},
				"required": []string{"path"},
			},
		},

		// Server
		{
			Name:        "slide_backends",
			Description: "Report the enabled slide backends in the order they are tried, along with OpenSlide and OCR availability.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
