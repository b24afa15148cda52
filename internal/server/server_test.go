package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ironsheep/clockread/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(config.Default())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	s := newTestServer(t)
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.detector == nil {
		t.Fatal("New() did not initialize detector")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Detection.AngleStepDeg = 0
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for invalid detection config")
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := newTestServer(t)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != 1 {
		t.Errorf("ID: got %v, want 1", resp.ID)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}
	if serverInfo["name"] != "clockread" {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
	if serverInfo["version"] != Version {
		t.Errorf("serverInfo.version: got %v", serverInfo["version"])
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := newTestServer(t)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/list",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != 4 {
		t.Errorf("Expected 4 tools, got %d", len(toolsList))
	}
}

func TestHandleRequest_Methods(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method   string
		id       interface{}
		wantNil  bool
		wantCode int
	}{
		{"ping", "ping-1", false, 0},
		{"notifications/initialized", nil, true, 0},
		{"nonexistent/method", 1, false, -32601},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: tt.id, Method: tt.method})
			if tt.wantNil {
				if resp != nil {
					t.Errorf("expected no response, got %+v", resp)
				}
				return
			}
			if resp == nil {
				t.Fatal("handleRequest returned nil")
			}
			if resp.ID != tt.id {
				t.Errorf("ID: got %v, want %v", resp.ID, tt.id)
			}
			code := 0
			if resp.Error != nil {
				code = resp.Error.Code
			}
			if code != tt.wantCode {
				t.Errorf("error code: got %d, want %d", code, tt.wantCode)
			}
		})
	}
}

func TestServe(t *testing.T) {
	s := newTestServer(t)
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n")

	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 responses, got %d:\n%s", len(lines), out.String())
	}

	tests := []struct {
		wantID   interface{}
		wantCode int
	}{
		{float64(1), 0},
		{nil, -32700},
		{float64(2), 0},
	}
	for i, tt := range tests {
		var resp MCPResponse
		if err := json.Unmarshal([]byte(lines[i]), &resp); err != nil {
			t.Fatalf("response %d: %v", i, err)
		}
		if resp.ID != tt.wantID {
			t.Errorf("response %d ID: got %v, want %v", i, resp.ID, tt.wantID)
		}
		code := 0
		if resp.Error != nil {
			code = resp.Error.Code
		}
		if code != tt.wantCode {
			t.Errorf("response %d error code: got %d, want %d", i, code, tt.wantCode)
		}
	}
}

func TestServe_MethodNotFoundOmitsData(t *testing.T) {
	s := newTestServer(t)
	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(`{"jsonrpc":"2.0","id":7,"method":"resources/list"}`), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}
	if strings.Contains(out.String(), `"data"`) || strings.Contains(out.String(), `"result"`) {
		t.Errorf("unexpected fields in %s", out.String())
	}
	if !strings.Contains(out.String(), `"code":-32601`) {
		t.Errorf("missing method-not-found code in %s", out.String())
	}
}
