package server

import (
	"github.com/ironsheep/edge-detect-mcp/internal/convolution"
	"github.com/ironsheep/edge-detect-mcp/internal/edge"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// namedRegions are the values accepted by region_name.
var namedRegions = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// withRegion adds the region, region_name and scale properties to props.
func withRegion(props map[string]interface{}) map[string]interface{} {
	props["region"] = map[string]interface{}{
		"type":        "object",
		"description": "Optional rectangle to process; (x1,y1) inclusive, (x2,y2) exclusive",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
	props["region_name"] = map[string]interface{}{
		"type":        "string",
		"enum":        namedRegions,
		"description": "Optional named region; cannot be combined with region",
	}
	props["scale"] = map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor applied after cropping. Default 1.0",
		"default":     1.0,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file into the cache and return its dimensions and format. Call with reload and no path to reset all cached state.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Re-read the file and drop any stored edge detection. Without a path, clears every cached image and detection. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Edge Detection
		{
			Name:        "image_list_kernels",
			Description: "List the registered gradient operators with their kernel weights.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name: "image_edge_detect",
			Description: "Run gradient edge detection and return the rendered result as base64 PNG. " +
				"Overlay mode highlights edges over the source; magnitude mode shows edge strength. " +
				"The gradient is kept for image_edge_thin and image_detect_lines.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withRegion(map[string]interface{}{
					"path": pathProperty(),
					"kernel": map[string]interface{}{
						"type":        "string",
						"enum":        convolution.Names(),
						"description": "Gradient operator. Default sobel",
						"default":     "sobel",
					},
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Magnitudes at or below this are not edges. Default 0",
						"default":     0,
					},
					"output_mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"overlay", "magnitude-map"},
						"description": "Rendering mode. Default overlay",
						"default":     "overlay",
					},
					"channel_mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rgb", "alpha-only"},
						"description": "Magnitude-map mode only: gray pixels or transparency. Default rgb",
						"default":     "rgb",
					},
					"highlight_color": map[string]interface{}{
						"type":        "string",
						"description": "Overlay edge color in hex. Default #FFFF00",
						"default":     "#FFFF00",
					},
					"non_edge_alpha": map[string]interface{}{
						"type":        "integer",
						"description": "Overlay alpha for non-edge pixels, 0-255. Default 200",
						"default":     200,
					},
					"attenuation": map[string]interface{}{
						"type":        "number",
						"description": "Magnitude-map divisor. Default 4",
						"default":     4,
					},
					"thin": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply non-maximum suppression before rendering. Default false",
						"default":     false,
					},
					"grayscale": map[string]interface{}{
						"type":        "boolean",
						"description": "Convert to luminance before detection. Default false",
						"default":     false,
					},
					"blur_radius": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian blur radius applied before detection, at most 32. Default 0 (off)",
						"minimum":     0,
						"maximum":     edge.MaxBlurRadius,
						"default":     0,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_convolve",
			Description: "Convolve the red channel with one kernel component and return the clamped response as gray base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withRegion(map[string]interface{}{
					"path": pathProperty(),
					"kernel": map[string]interface{}{
						"type":        "string",
						"description": "Kernel component such as sobel.x or scharr.y. Default sobel.x",
						"default":     "sobel.x",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Post-processing of a stored detection
		{
			Name:        "image_edge_thin",
			Description: "Thin the stored edges of an image to one pixel by non-maximum suppression and return a magnitude map. Requires image_edge_detect first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"channel_mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rgb", "alpha-only"},
						"description": "Gray pixels or transparency. Default rgb",
						"default":     "rgb",
					},
					"attenuation": map[string]interface{}{
						"type":        "number",
						"description": "Magnitude divisor. Default 4",
						"default":     4,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_detect_lines",
			Description: "Find straight lines in the stored edges of an image with a Hough transform. Requires image_edge_detect first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"min_votes": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum edge pixels on a line. Default 10",
						"default":     10,
					},
					"max_lines": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum lines to return. Default 50",
						"default":     50,
					},
					"annotate": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the image with the segments drawn as base64 PNG. Default false",
						"default":     false,
					},
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Annotate only: write each line's vote count next to it. Default false",
						"default":     false,
					},
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Annotate only: segment color in hex. Default #FF0000",
						"default":     "#FF0000",
					},
				},
				"required": []string{"path"},
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
