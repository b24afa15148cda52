package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Reading
		{
			Name:        "clock_detect_time",
			Description: "Read the time shown on an analog clock photograph. Returns the time (HH:MM:SS.mmm on a 12-hour dial) and the detected hands with their angles and lengths.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"debug_dir": map[string]interface{}{
						"type":        "string",
						"description": "Optional directory for intermediate images (grayscale, silhouette, hands overlay)",
					},
					"center_x": map[string]interface{}{
						"type":        "integer",
						"description": "Optional dial center X. Defaults to the configured center or the image center",
					},
					"center_y": map[string]interface{}{
						"type":        "integer",
						"description": "Optional dial center Y",
					},
				},
				"required": []string{"path"},
			},
		},

		// Scoring
		{
			Name:        "clock_check_result",
			Description: "Compare a detected time with the true time on a 12-hour dial. Returns the error in seconds (rounded to 0.1), the success flag and the encoded result name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"expected": map[string]interface{}{
						"type":        "string",
						"description": "True time, HH:MM:SS.mmm (24-hour accepted)",
					},
					"detected": map[string]interface{}{
						"type":        "string",
						"description": "Detected time, HH:MM:SS.mmm",
					},
					"threshold_seconds": map[string]interface{}{
						"type":        "number",
						"description": "Maximum error counted as success. Defaults to the configured fail threshold",
					},
				},
				"required": []string{"expected", "detected"},
			},
		},
		{
			Name:        "clock_decode_result",
			Description: "Decode a result file name of the form {0|1}-{error}-{detected}-{expected}[.ext].",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Result file name or path",
					},
				},
				"required": []string{"name"},
			},
		},

		// Reporting
		{
			Name:        "clock_accuracy_report",
			Description: "Build the accuracy report of a result directory: sample size, share of results within each threshold, failure counts and error statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"results_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory of result images. Defaults to the configured results directory",
					},
					"ext": map[string]interface{}{
						"type":        "string",
						"description": "Result image extension. Defaults to the configured extension",
					},
					"thresholds": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "number"},
						"description": "Accuracy thresholds in seconds. Defaults to the configured thresholds",
					},
				},
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
