package server

import (
	"encoding/json"
	"fmt"
	"image/color"
	"time"

	"github.com/ironsheep/edge-detect-mcp/internal/convolution"
	"github.com/ironsheep/edge-detect-mcp/internal/detection"
	"github.com/ironsheep/edge-detect-mcp/internal/edge"
	"github.com/ironsheep/edge-detect-mcp/internal/imaging"
	"github.com/ironsheep/edge-detect-mcp/internal/pixel"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_edge_detect").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Info("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool finished", "tool", params.Name, "elapsed", time.Since(start))

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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Edge Detection
	case "image_list_kernels":
		return s.handleListKernels(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "image_convolve":
		return s.handleImageConvolve(args)

	// Post-processing of a stored detection
	case "image_edge_thin":
		return s.handleImageEdgeThin(args)
	case "image_detect_lines":
		return s.handleImageDetectLines(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments; missing arguments decode as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// regionArgs selects the part of an image to process.
type regionArgs struct {
	Region     *imaging.Region `json:"region"`
	RegionName string          `json:"region_name"`
	Scale      float64         `json:"scale"`
}

// loadBuffer loads path through the cache and applies the region and scale.
func (s *Server) loadBuffer(path string, r regionArgs) (*pixel.Buffer, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}

	region := r.Region
	if r.RegionName != "" {
		if region != nil {
			return nil, fmt.Errorf("region and region_name are mutually exclusive")
		}
		named, err := imaging.NamedRegion(img.Bounds(), r.RegionName)
		if err != nil {
			return nil, err
		}
		region = &named
	}

	prepared, err := imaging.Prepare(img, region, r.Scale)
	if err != nil {
		return nil, err
	}
	return pixel.FromImage(prepared), nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

// ClearResult is returned when image_load resets all cached state.
type ClearResult struct {
	Cleared bool `json:"cleared"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		if !a.Reload {
			return nil, fmt.Errorf("path is required")
		}
		s.cache.Clear()
		s.gradients.clear()
		s.logger.Debug("cleared image cache and stored detections")
		return &ClearResult{Cleared: true}, nil
	}
	if a.Reload {
		s.cache.Evict(a.Path)
		s.gradients.evict(a.Path)
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageDimensionsArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageDimensionsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Edge Detection Handlers ===

// KernelInfo describes one registered operator.
type KernelInfo struct {
	Name       string   `json:"name"`
	Size       int      `json:"size"`
	Components []string `json:"components"`
	X          [][]int  `json:"x"`
	Y          [][]int  `json:"y"`
}

// ListKernelsResult is returned by image_list_kernels.
type ListKernelsResult struct {
	Default string       `json:"default"`
	Kernels []KernelInfo `json:"kernels"`
}

func (s *Server) handleListKernels(json.RawMessage) (interface{}, error) {
	res := &ListKernelsResult{Default: convolution.DefaultOperator}
	for _, name := range convolution.Names() {
		p, err := convolution.Lookup(name)
		if err != nil {
			return nil, err
		}
		res.Kernels = append(res.Kernels, KernelInfo{
			Name:       name,
			Size:       p.X.Size(),
			Components: []string{name + ".x", name + ".y"},
			X:          p.X.Rows(),
			Y:          p.Y.Rows(),
		})
	}
	return res, nil
}

// EdgeStats summarizes a gradient map.
type EdgeStats struct {
	Kernel       string  `json:"kernel"`
	KernelSize   int     `json:"kernel_size"`
	Windows      int     `json:"windows"`
	Offset       int     `json:"offset"`
	EdgeCount    int     `json:"edge_count"`
	EdgeRatio    float64 `json:"edge_ratio"`
	MaxMagnitude float64 `json:"max_magnitude"`
}

func statsFor(kernel string, gm *edge.GradientMap) EdgeStats {
	st := EdgeStats{
		Kernel:       kernel,
		KernelSize:   gm.KernelSize,
		Windows:      gm.Len(),
		Offset:       gm.Offset(),
		EdgeCount:    gm.EdgeCount(),
		MaxMagnitude: gm.MaxMagnitude(),
	}
	if st.Windows > 0 {
		st.EdgeRatio = float64(st.EdgeCount) / float64(st.Windows)
	}
	return st
}

// EdgeDetectResult is returned by image_edge_detect.
type EdgeDetectResult struct {
	*imaging.EncodedImage
	EdgeStats
	Threshold   float64 `json:"threshold"`
	OutputMode  string  `json:"output_mode"`
	ChannelMode string  `json:"channel_mode"`
	Highlight   string  `json:"highlight_color"`
	Thinned     bool    `json:"thinned"`
}

type imageEdgeDetectArgs struct {
	Path string `json:"path"`
	regionArgs

	Kernel         string  `json:"kernel"`
	Threshold      float64 `json:"threshold"`
	OutputMode     string  `json:"output_mode"`
	ChannelMode    string  `json:"channel_mode"`
	HighlightColor string  `json:"highlight_color"`
	NonEdgeAlpha   *int    `json:"non_edge_alpha"`
	Attenuation    float64 `json:"attenuation"`
	Thin           bool    `json:"thin"`

	Grayscale  bool    `json:"grayscale"`
	BlurRadius float64 `json:"blur_radius"`
}

// config converts the arguments into an edge.Config; zero values keep defaults.
func (a *imageEdgeDetectArgs) config() (edge.Config, error) {
	cfg := edge.DefaultConfig()
	if a.Kernel != "" {
		cfg.Kernel = a.Kernel
	}
	cfg.Threshold = a.Threshold
	cfg.Thin = a.Thin

	var err error
	if cfg.OutputMode, err = edge.ParseOutputMode(a.OutputMode); err != nil {
		return cfg, err
	}
	if cfg.ChannelMode, err = edge.ParseChannelMode(a.ChannelMode); err != nil {
		return cfg, err
	}
	if a.HighlightColor != "" {
		if cfg.Highlight, err = imaging.ParseHexColor(a.HighlightColor); err != nil {
			return cfg, fmt.Errorf("%w: highlight_color: %v", edge.ErrInvalidConfig, err)
		}
	}
	if a.NonEdgeAlpha != nil {
		if *a.NonEdgeAlpha < 0 || *a.NonEdgeAlpha > 255 {
			return cfg, fmt.Errorf("%w: non_edge_alpha %d out of range 0..255", edge.ErrInvalidConfig, *a.NonEdgeAlpha)
		}
		cfg.NonEdgeAlpha = uint8(*a.NonEdgeAlpha)
	}
	if a.Attenuation != 0 {
		cfg.Attenuation = a.Attenuation
	}
	if a.BlurRadius < 0 || a.BlurRadius > edge.MaxBlurRadius {
		return cfg, fmt.Errorf("%w: blur_radius %v out of range 0..%v", edge.ErrInvalidConfig, a.BlurRadius, edge.MaxBlurRadius)
	}
	return cfg, nil
}

func (a *imageEdgeDetectArgs) options() []edge.Option {
	var opts []edge.Option
	if a.Grayscale {
		opts = append(opts, edge.WithPrefilter(edge.Grayscale()))
	}
	if a.BlurRadius > 0 {
		opts = append(opts, edge.WithPrefilter(edge.GaussianBlur(a.BlurRadius)))
	}
	if a.Thin {
		opts = append(opts, edge.WithThinner(detection.NMSThinner{}))
	}
	return opts
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	p, err := edge.New(cfg, a.options()...)
	if err != nil {
		return nil, err
	}

	buf, err := s.loadBuffer(a.Path, a.regionArgs)
	if err != nil {
		return nil, err
	}

	res, err := p.Run(buf)
	if err != nil {
		return nil, err
	}

	s.gradients.put(a.Path, &storedDetection{kernel: cfg.Kernel, source: buf, gradient: res.Gradient})

	enc, err := imaging.EncodePNG(res.Output)
	if err != nil {
		return nil, err
	}

	return &EdgeDetectResult{
		EncodedImage: enc,
		EdgeStats:    statsFor(cfg.Kernel, res.Gradient),
		Threshold:    cfg.Threshold,
		OutputMode:   cfg.OutputMode.String(),
		ChannelMode:  cfg.ChannelMode.String(),
		Highlight:    imaging.FormatHexColor(cfg.Highlight),
		Thinned:      cfg.Thin,
	}, nil
}

// ConvolveResult is returned by image_convolve.
type ConvolveResult struct {
	*imaging.EncodedImage
	Kernel     string `json:"kernel"`
	KernelSize int    `json:"kernel_size"`
}

type imageConvolveArgs struct {
	Path string `json:"path"`
	regionArgs

	// Kernel names a single component, e.g. "sobel.x".
	Kernel string `json:"kernel"`
}

func (s *Server) handleImageConvolve(args json.RawMessage) (interface{}, error) {
	var a imageConvolveArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Kernel == "" {
		a.Kernel = convolution.DefaultOperator + ".x"
	}

	k, err := convolution.LookupKernel(a.Kernel)
	if err != nil {
		return nil, err
	}
	filter, err := edge.KernelResponse(a.Kernel)
	if err != nil {
		return nil, err
	}

	buf, err := s.loadBuffer(a.Path, a.regionArgs)
	if err != nil {
		return nil, err
	}
	out, err := filter.Apply(buf)
	if err != nil {
		return nil, err
	}

	enc, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, err
	}
	return &ConvolveResult{EncodedImage: enc, Kernel: a.Kernel, KernelSize: k.Size()}, nil
}

// === Stored Detection Handlers ===

// EdgeThinResult is returned by image_edge_thin.
type EdgeThinResult struct {
	*imaging.EncodedImage
	EdgeStats
	EdgesBefore int `json:"edges_before"`
}

type imageEdgeThinArgs struct {
	Path        string  `json:"path"`
	ChannelMode string  `json:"channel_mode"`
	Attenuation float64 `json:"attenuation"`
}

func (s *Server) handleImageEdgeThin(args json.RawMessage) (interface{}, error) {
	var a imageEdgeThinArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	d, err := s.gradients.get(a.Path)
	if err != nil {
		return nil, err
	}

	channel, err := edge.ParseChannelMode(a.ChannelMode)
	if err != nil {
		return nil, err
	}
	if a.Attenuation < 0 {
		return nil, fmt.Errorf("%w: attenuation %v must be positive", edge.ErrInvalidConfig, a.Attenuation)
	}
	if a.Attenuation == 0 {
		a.Attenuation = edge.DefaultAttenuation
	}

	thinned, err := edge.ThinGradient(detection.NMSThinner{}, d.source, d.gradient)
	if err != nil {
		return nil, err
	}

	out, err := edge.Renderer{
		Mode:        edge.MagnitudeMap,
		Channel:     channel,
		Attenuation: a.Attenuation,
	}.Render(d.source, thinned)
	if err != nil {
		return nil, err
	}

	// Later line detection sees the thinned edges.
	s.gradients.put(a.Path, &storedDetection{kernel: d.kernel, source: d.source, gradient: thinned})

	enc, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, err
	}
	return &EdgeThinResult{
		EncodedImage: enc,
		EdgeStats:    statsFor(d.kernel, thinned),
		EdgesBefore:  d.gradient.EdgeCount(),
	}, nil
}

// DetectLinesResult is returned by image_detect_lines. The image fields are
// only set when annotation was requested.
type DetectLinesResult struct {
	*imaging.EncodedImage
	Kernel string      `json:"kernel"`
	Count  int         `json:"count"`
	Lines  []edge.Line `json:"lines"`
}

type imageDetectLinesArgs struct {
	Path     string `json:"path"`
	MinVotes int    `json:"min_votes"`
	MaxLines int    `json:"max_lines"`

	Annotate  bool   `json:"annotate"`
	Labels    bool   `json:"labels"`
	LineColor string `json:"line_color"`
}

func (s *Server) handleImageDetectLines(args json.RawMessage) (interface{}, error) {
	var a imageDetectLinesArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	d, err := s.gradients.get(a.Path)
	if err != nil {
		return nil, err
	}

	var lt edge.LineTransform = detection.HoughTransform{MinVotes: a.MinVotes, MaxLines: a.MaxLines}
	lines, err := lt.Transform(d.source, d.gradient.Magnitude)
	if err != nil {
		return nil, err
	}

	res := &DetectLinesResult{
		Kernel: d.kernel,
		Count:  len(lines),
		Lines:  lines,
	}
	if !a.Annotate {
		return res, nil
	}

	lineColor := color.NRGBA{R: 255, A: 255}
	if a.LineColor != "" {
		if lineColor, err = imaging.ParseHexColor(a.LineColor); err != nil {
			return nil, fmt.Errorf("line_color: %w", err)
		}
	}
	annotated := imaging.AnnotateLines(d.source.Image(), lines, lineColor, a.Labels)
	if res.EncodedImage, err = imaging.EncodePNG(pixel.FromImage(annotated)); err != nil {
		return nil, err
	}
	return res, nil
}
