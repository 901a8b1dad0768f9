package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/algoviz/runbox/api"
	"github.com/algoviz/runbox/config"
)

// Engine is the surface the MCP transport drives. *engine.Engine satisfies
// it; tests substitute a mock.
type Engine interface {
	Execute(ctx context.Context, req api.ExecutionRequest) (*api.ExecutionResult, []string, *api.Error)
	Benchmark(ctx context.Context, req api.BenchmarkRequest) (*api.BenchmarkSummary, *api.Error)
	Algorithms() []api.AlgorithmInfo
	Languages() []string
}

// MCPServer represents the MCP server
type MCPServer struct {
	config     *config.Config
	logger     *zap.Logger
	engine     Engine
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

// New creates a new MCPServer
func New(cfg *config.Config, logger *zap.Logger, eng Engine) (*MCPServer, error) {
	s := &MCPServer{
		config: cfg,
		logger: logger,
		engine: eng,
	}

	// Log configuration parameters on startup
	logger.Info("configuration loaded",
		zap.String("server.transport", cfg.Server.Transport),
		zap.Int("server.http_port", cfg.Server.HTTPPort),
		zap.Int("server.mcp_port", cfg.Server.MCPPort),
		zap.Int("sandbox.timeout_ms", cfg.Sandbox.TimeoutMs),
		zap.Int("sandbox.max_output_kb", cfg.Sandbox.MaxOutputKB),
		zap.Int("sandbox.max_call_stack", cfg.Sandbox.MaxCallStack),
		zap.Int("trace.max_steps", cfg.Trace.MaxSteps),
		zap.Ints("benchmark.sizes", cfg.Benchmark.Sizes),
	)

	s.mcpServer = server.NewMCPServer("runbox", "1.0.0")

	s.registerExecuteCodeTool()
	s.registerRunBenchmarkTool()
	s.registerListAlgorithmsTool()

	return s, nil
}

// registerExecuteCodeTool registers the execute_code tool
func (s *MCPServer) registerExecuteCodeTool() {
	tool := mcp.Tool{
		Name:        "execute_code",
		Description: "Run a program in a sandboxed interpreter and return its output plus a step-by-step visualization trace",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Source code to execute",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Runtime language",
					"enum":        s.engine.Languages(),
				},
				"algorithm_id": map[string]any{
					"type":        "string",
					"description": "Catalog algorithm the program implements; selects the instrumented trace",
				},
				"input": map[string]any{
					"description": "Optional value bound to the global 'input' inside the program",
				},
			},
			Required: []string{"code", "language"},
		},
	}

	s.mcpServer.AddTool(tool, s.handleExecuteCode)
}

// registerRunBenchmarkTool registers the run_benchmark tool
func (s *MCPServer) registerRunBenchmarkTool() {
	tool := mcp.Tool{
		Name:        "run_benchmark",
		Description: "Time a catalog algorithm across input sizes and return a statistical summary",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"algorithm_id": map[string]any{
					"type":        "string",
					"description": "Catalog algorithm to benchmark",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Runtime language the measurement is reported for",
					"enum":        s.engine.Languages(),
				},
				"sizes": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "integer"},
					"description": "Input sizes to measure; configured defaults apply when omitted",
				},
			},
			Required: []string{"algorithm_id", "language"},
		},
	}

	s.mcpServer.AddTool(tool, s.handleRunBenchmark)
}

// registerListAlgorithmsTool registers the list_algorithms tool
func (s *MCPServer) registerListAlgorithmsTool() {
	tool := mcp.Tool{
		Name:        "list_algorithms",
		Description: "List the catalog algorithms available for tracing and benchmarking",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}

	s.mcpServer.AddTool(tool, s.handleListAlgorithms)
}

// handleExecuteCode handles the execute_code tool
func (s *MCPServer) handleExecuteCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return nil, fmt.Errorf("code parameter is required: %w", err)
	}

	language, err := request.RequireString("language")
	if err != nil {
		return nil, fmt.Errorf("language parameter is required: %w", err)
	}

	algorithmID := request.GetString("algorithm_id", "")

	var input json.RawMessage
	if raw, ok := request.GetArguments()["input"]; ok && raw != nil {
		encoded, marshalErr := json.Marshal(raw)
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to encode input: %w", marshalErr)
		}
		input = encoded
	}

	s.logger.Info("code execution requested",
		zap.String("language", language),
		zap.String("algorithm", algorithmID),
	)

	result, warnings, execErr := s.engine.Execute(ctx, api.ExecutionRequest{
		Language:    language,
		Code:        code,
		AlgorithmID: algorithmID,
		Input:       input,
	})

	envelope := api.ExecuteResponse{
		OK:       execErr == nil,
		Result:   result,
		Warnings: warnings,
	}
	if execErr != nil {
		envelope.Error = string(execErr.Kind)
		envelope.Details = execErr.WireDetails()
	}
	return s.toolResult(envelope, execErr)
}

// handleRunBenchmark handles the run_benchmark tool
func (s *MCPServer) handleRunBenchmark(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	algorithmID, err := request.RequireString("algorithm_id")
	if err != nil {
		return nil, fmt.Errorf("algorithm_id parameter is required: %w", err)
	}

	language, err := request.RequireString("language")
	if err != nil {
		return nil, fmt.Errorf("language parameter is required: %w", err)
	}

	var sizes []int
	if raw, ok := request.GetArguments()["sizes"]; ok && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("sizes must be an array of integers")
		}
		for _, v := range list {
			n, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("sizes must be an array of integers")
			}
			sizes = append(sizes, int(n))
		}
	}

	s.logger.Info("benchmark requested",
		zap.String("algorithm", algorithmID),
		zap.Ints("sizes", sizes),
	)

	summary, benchErr := s.engine.Benchmark(ctx, api.BenchmarkRequest{
		AlgorithmID: algorithmID,
		Language:    language,
		Sizes:       sizes,
	})

	envelope := api.BenchmarkResponse{
		OK:     benchErr == nil,
		Result: summary,
	}
	if benchErr != nil {
		envelope.Error = string(benchErr.Kind)
		envelope.Details = benchErr.WireDetails()
	}
	return s.toolResult(envelope, benchErr)
}

// handleListAlgorithms handles the list_algorithms tool
func (s *MCPServer) handleListAlgorithms(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.toolResult(api.AlgorithmsResponse{
		OK:         true,
		Algorithms: s.engine.Algorithms(),
	}, nil)
}

// toolResult renders an envelope as JSON text content. IsError marks only
// request-side and host-side failures; a program that ran and failed is a
// successful tool call answering ok false.
func (s *MCPServer) toolResult(envelope any, apiErr *api.Error) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(data),
			},
		},
		IsError: apiErr != nil && apiErr.HTTPStatus() != http.StatusOK,
	}, nil
}

// ServeStdio starts the server on stdio
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP starts the server on the streamable HTTP transport
func (s *MCPServer) ServeHTTP() error {
	port := s.config.Server.MCPPort
	s.logger.Info("starting MCP server on HTTP", zap.Int("port", port))

	s.httpServer = server.NewStreamableHTTPServer(s.mcpServer)
	return s.httpServer.Start(fmt.Sprintf(":%d", port))
}

// Shutdown stops the HTTP transport when one is running. The stdio
// transport ends with its input stream.
func (s *MCPServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
