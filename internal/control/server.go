// Package control exposes the simulation and decision engine to a host
// process over line-delimited JSON-RPC on stdio. It is the boundary surface
// of the core: lane and quote records come in, progress events and derived
// results go out. Nothing is persisted here.
package control

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"lanesim/internal/config"
	"lanesim/internal/distribution"
	"lanesim/internal/lane"
	"lanesim/internal/simulation"
	"lanesim/internal/stats"
)

// JSONRPCRequest represents a standard JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a standard JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// jsonRPCNotification is a server-initiated message (no ID, no response).
type jsonRPCNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Server holds the state for the control server.
type Server struct {
	cfg      *config.AppConfig
	registry *Registry
	schemas  map[string]*resolvedTool

	in  io.Reader
	out io.Writer
	// Progress notifications and responses interleave on one stream.
	outMu sync.Mutex
}

// NewServer creates a control server over stdio.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	schemas, err := resolveTools()
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:      cfg,
		registry: NewRegistry(),
		schemas:  schemas,
		in:       os.Stdin,
		out:      os.Stdout,
	}, nil
}

// Serve starts the JSON-RPC loop.
func (s *Server) Serve() error {
	reader := bufio.NewReader(s.in)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal request")
			continue
		}

		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req JSONRPCRequest) {
	var result interface{}
	var errRes interface{}

	switch req.Method {
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{},
			"serverInfo": map[string]interface{}{
				"name":    "lanesim",
				"version": "0.1.0",
			},
		}
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, errRes = s.callTool(req.Params)
	default:
		errRes = map[string]interface{}{
			"code":    -32601,
			"message": fmt.Sprintf("Method %s not found", req.Method),
		}
	}

	s.write(JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   errRes,
	})
}

func (s *Server) callTool(params json.RawMessage) (interface{}, interface{}) {
	var call struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, rpcError(-32602, "invalid_parameter", "Invalid params")
	}

	tool, ok := s.schemas[call.Name]
	if !ok {
		return nil, rpcError(-32601, "unknown_tool", "Tool not found")
	}
	if err := tool.validate(call.Arguments); err != nil {
		return nil, rpcError(-32602, "invalid_parameter", err.Error())
	}

	var data interface{}
	var err error

	switch call.Name {
	case "run_simulation":
		data, err = s.handleRunSimulation(call.Arguments)
	case "start_simulation":
		data, err = s.handleStartSimulation(call.Arguments)
	case "pause_simulation":
		data, err = s.handleRunControl(call.Arguments, (*simulation.Run).Pause)
	case "resume_simulation":
		data, err = s.handleRunControl(call.Arguments, (*simulation.Run).Resume)
	case "cancel_simulation":
		data, err = s.handleRunControl(call.Arguments, (*simulation.Run).Cancel)
	case "get_simulation_status":
		data, err = s.handleGetStatus(call.Arguments)
	case "get_simulation_result":
		data, err = s.handleGetResult(call.Arguments)
	case "evaluate_quote":
		data, err = s.handleEvaluateQuote(call.Arguments)
	case "evaluate_strategies":
		data, err = s.handleEvaluateStrategies(call.Arguments)
	default:
		return nil, rpcError(-32601, "unknown_tool", "Tool not found")
	}

	if err != nil {
		return nil, rpcError(-32000, errorKind(err), err.Error())
	}

	return map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{
				"type": "text",
				"text": s.formatResult(data),
			},
		},
	}, nil
}

// errorKind maps an error to the taxonomy kind callers branch on.
func errorKind(err error) string {
	switch {
	case errors.Is(err, simulation.ErrInvalidParameter),
		errors.Is(err, distribution.ErrInvalidSpec),
		errors.Is(err, lane.ErrInvalidRecord),
		errors.Is(err, errUnknownRun):
		return "invalid_parameter"
	case errors.Is(err, stats.ErrEmptyDataset):
		return "empty_dataset"
	default:
		return "runtime_failure"
	}
}

func rpcError(code int, kind, message string) map[string]interface{} {
	return map[string]interface{}{
		"code":    code,
		"message": message,
		"data":    map[string]interface{}{"kind": kind},
	}
}

func (s *Server) formatResult(data interface{}) string {
	out, _ := json.MarshalIndent(data, "", "  ")
	return string(out)
}

// notify emits a server-initiated notification on the output stream.
func (s *Server) notify(method string, params interface{}) {
	s.write(jsonRPCNotification{JSONRPC: "2.0", Method: method, Params: params})
}

func (s *Server) write(msg interface{}) {
	out, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal outgoing message")
		return
	}
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, "%s\n", out)
}
