package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/clockread/internal/clock"
	"github.com/ironsheep/clockread/internal/debug"
	"github.com/ironsheep/clockread/internal/evaluation"
	"github.com/ironsheep/clockread/internal/imaging"
	"github.com/ironsheep/clockread/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "clock_detect_time").
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
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "clock_detect_time":
		return s.handleDetectTime(args)
	case "clock_check_result":
		return s.handleCheckResult(args)
	case "clock_decode_result":
		return s.handleDecodeResult(args)
	case "clock_accuracy_report":
		return s.handleAccuracyReport(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse builds an error reply. An empty data is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}

// mustMarshalJSON marshals v to indented JSON, ignoring errors.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type detectTimeArgs struct {
	Path     string `json:"path"`
	DebugDir string `json:"debug_dir"`
	CenterX  *int   `json:"center_x"`
	CenterY  *int   `json:"center_y"`
}

// DetectTimeResult is the clock_detect_time response.
type DetectTimeResult struct {
	*pipeline.Result
	Formatted string   `json:"formatted"`
	Artifacts []string `json:"artifacts,omitempty"`
}

func (s *Server) handleDetectTime(args json.RawMessage) (interface{}, error) {
	var a detectTimeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if (a.CenterX == nil) != (a.CenterY == nil) {
		return nil, fmt.Errorf("center_x and center_y must be given together")
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	det := s.detector
	if a.CenterX != nil {
		cfg := det.Config()
		cfg.Center = &imaging.Point{X: *a.CenterX, Y: *a.CenterY}
		if det, err = pipeline.NewDetector(cfg); err != nil {
			return nil, err
		}
		det.Verbose = s.cfg.Verbose
	}

	var dbg debug.Debugger = debug.Nop{}
	var rec *debug.Recorder
	if a.DebugDir != "" {
		if rec, err = debug.NewRecorder(a.DebugDir, "png"); err != nil {
			return nil, err
		}
		dbg = rec
	}

	res, err := det.Detect(img, dbg)
	if err != nil {
		return nil, err
	}

	out := DetectTimeResult{Result: res, Formatted: res.Time.String()}
	if rec != nil {
		for _, name := range rec.Artifacts() {
			path, err := rec.ArtifactPath(name)
			if err != nil {
				return nil, err
			}
			out.Artifacts = append(out.Artifacts, path)
		}
	}
	return out, nil
}

type checkResultArgs struct {
	Expected         string   `json:"expected"`
	Detected         string   `json:"detected"`
	ThresholdSeconds *float64 `json:"threshold_seconds"`
}

// CheckResultResult is the clock_check_result response.
type CheckResultResult struct {
	evaluation.Outcome
	Encoded string `json:"encoded"`
}

func (s *Server) handleCheckResult(args json.RawMessage) (interface{}, error) {
	var a checkResultArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	expected, err := clock.ParseLabel(a.Expected)
	if err != nil {
		return nil, fmt.Errorf("expected: %w", err)
	}
	detected, err := clock.ParseLabel(a.Detected)
	if err != nil {
		return nil, fmt.Errorf("detected: %w", err)
	}

	threshold := s.cfg.Evaluation.FailThresholdSeconds
	if a.ThresholdSeconds != nil {
		threshold = *a.ThresholdSeconds
	}
	if threshold < 0 {
		return nil, fmt.Errorf("threshold_seconds must not be negative")
	}

	delta, ok := evaluation.CheckResult(expected, detected, threshold)
	o := evaluation.Outcome{
		Success:      ok,
		ErrorSeconds: delta,
		Detected:     detected.TwelveHour(),
		Expected:     expected.TwelveHour(),
	}
	return CheckResultResult{Outcome: o, Encoded: evaluation.Encode(o)}, nil
}

type decodeResultArgs struct {
	Name string `json:"name"`
}

func (s *Server) handleDecodeResult(args json.RawMessage) (interface{}, error) {
	var a decodeResultArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	o, err := evaluation.DecodeFileName(a.Name)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"success":       o.Success,
		"error_seconds": o.ErrorSeconds,
		"detected":      o.Detected.String(),
		"expected":      o.Expected.String(),
	}, nil
}

type accuracyReportArgs struct {
	ResultsDir string    `json:"results_dir"`
	Ext        string    `json:"ext"`
	Thresholds []float64 `json:"thresholds"`
}

func (s *Server) handleAccuracyReport(args json.RawMessage) (interface{}, error) {
	var a accuracyReportArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}

	// Apply defaults
	if a.ResultsDir == "" {
		a.ResultsDir = s.cfg.Evaluation.ResultsDir
	}
	if a.Ext == "" {
		a.Ext = s.cfg.Evaluation.ImageExt
	}
	if len(a.Thresholds) == 0 {
		a.Thresholds = s.cfg.Evaluation.AccuracyThresholds
	}

	outcomes, err := evaluation.ReadResults(a.ResultsDir, a.Ext)
	if err != nil {
		return nil, err
	}
	return evaluation.BuildReport(outcomes, a.Thresholds)
}
