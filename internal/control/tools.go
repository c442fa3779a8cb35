package control

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// toolDef pairs a tool with its declared input schema. Schemas are resolved
// once at server construction and every tools/call payload is validated
// against them before dispatch.
type toolDef struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

type resolvedTool struct {
	def      toolDef
	resolved *jsonschema.Resolved
}

func (t *resolvedTool) validate(args json.RawMessage) error {
	var v any
	if len(args) == 0 {
		v = map[string]any{}
	} else if err := json.Unmarshal(args, &v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return t.resolved.Validate(v)
}

func resolveTools() (map[string]*resolvedTool, error) {
	tools := make(map[string]*resolvedTool, len(toolDefs))
	for _, def := range toolDefs {
		resolved, err := def.InputSchema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("resolve schema for %s: %w", def.Name, err)
		}
		tools[def.Name] = &resolvedTool{def: def, resolved: resolved}
	}
	return tools, nil
}

func (s *Server) listTools() interface{} {
	list := make([]interface{}, 0, len(toolDefs))
	for _, def := range toolDefs {
		list = append(list, map[string]interface{}{
			"name":        def.Name,
			"description": def.Description,
			"inputSchema": def.InputSchema,
		})
	}
	return map[string]interface{}{"tools": list}
}

func distributionSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "Tagged distribution spec. Only the fields of the tagged kind are read.",
		Properties: map[string]*jsonschema.Schema{
			"kind":    {Type: "string", Enum: []any{"normal", "lognormal", "triangular", "exponential"}},
			"mean":    {Type: "number"},
			"std_dev": {Type: "number"},
			"mu":      {Type: "number"},
			"sigma":   {Type: "number"},
			"min":     {Type: "number"},
			"mode":    {Type: "number"},
			"max":     {Type: "number"},
			"lambda":  {Type: "number"},
		},
		Required: []string{"kind"},
	}
}

func laneSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"origin":                {Type: "string"},
			"destination":           {Type: "string"},
			"index_value":           {Type: "number", Description: "Market index value; baseline = index_value * lane_ratio"},
			"lane_ratio":            {Type: "number"},
			"historical_volatility": {Type: "number"},
			"factors": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name":            {Type: "string"},
						"category":        {Type: "string"},
						"mean_multiplier": {Type: "number"},
						"distribution":    distributionSchema(),
						"enabled":         {Type: "boolean", Description: "Defaults to true; disabled factors multiply by exactly 1.0"},
					},
					Required: []string{"name", "mean_multiplier", "distribution"},
				},
			},
			"segments": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name":          {Type: "string"},
						"baseline_days": {Type: "number"},
						"distribution":  distributionSchema(),
						"congestion": {
							Type: "array",
							Items: &jsonschema.Schema{
								Type: "object",
								Properties: map[string]*jsonschema.Schema{
									"name":          {Type: "string"},
									"probability":   {Type: "number"},
									"delay_pattern": {Type: "string"},
								},
							},
						},
					},
					Required: []string{"name", "baseline_days", "distribution"},
				},
			},
		},
		Required: []string{"index_value", "lane_ratio"},
	}
}

func quoteSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"rate":        {Type: "number"},
			"valid_until": {Type: "string", Description: "RFC 3339 timestamp"},
		},
		Required: []string{"rate"},
	}
}

func runIDSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"run_id": {Type: "string"},
		},
		Required: []string{"run_id"},
	}
}

var toolDefs = []toolDef{
	{
		Name: "run_simulation",
		Description: "Run a Monte-Carlo sweep for a lane to completion and return descriptive statistics " +
			"of the simulated rate and landed-cost distributions. Progress is streamed as " +
			"'simulation/progress' notifications between batches. Set include_outcomes to embed the " +
			"full ordered outcome collection in the result.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"lane":             laneSchema(),
				"iterations":       {Type: "integer", Description: "Iteration count; defaults to the configured value"},
				"seed":             {Type: "integer", Description: "Optional RNG seed for reproducible sweeps"},
				"include_outcomes": {Type: "boolean"},
			},
			Required: []string{"lane"},
		},
	},
	{
		Name: "start_simulation",
		Description: "Start a Monte-Carlo sweep in the background and return a run ID immediately. " +
			"Steer it with pause_simulation / resume_simulation / cancel_simulation and poll " +
			"get_simulation_status; fetch the outcome statistics with get_simulation_result once the " +
			"terminal notification arrives.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"lane":       laneSchema(),
				"iterations": {Type: "integer"},
				"seed":       {Type: "integer"},
			},
			Required: []string{"lane"},
		},
	},
	{
		Name: "pause_simulation",
		Description: "Pause a running sweep. Pausing only gates scheduling of the next batch; a batch " +
			"already dispatched completes.",
		InputSchema: runIDSchema(),
	},
	{
		Name:        "resume_simulation",
		Description: "Resume a paused sweep.",
		InputSchema: runIDSchema(),
	},
	{
		Name: "cancel_simulation",
		Description: "Cancel a sweep. Partial results are discarded and the terminal state is " +
			"'cancelled', never 'completed'.",
		InputSchema: runIDSchema(),
	},
	{
		Name:        "get_simulation_status",
		Description: "Get the state and latest progress of a background sweep.",
		InputSchema: runIDSchema(),
	},
	{
		Name:        "get_simulation_result",
		Description: "Get the outcome statistics of a completed background sweep.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"run_id":           {Type: "string"},
				"include_outcomes": {Type: "boolean"},
			},
			Required: []string{"run_id"},
		},
	},
	{
		Name: "evaluate_quote",
		Description: "Rank an observed quote within a lane's simulated rate distribution and return a " +
			"risk score and booking recommendation. Pass run_id to evaluate against a completed " +
			"background sweep, or omit it to run a fresh sweep inline.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"lane":       laneSchema(),
				"quote":      quoteSchema(),
				"run_id":     {Type: "string"},
				"iterations": {Type: "integer"},
				"seed":       {Type: "integer"},
			},
			Required: []string{"lane", "quote"},
		},
	},
	{
		Name: "evaluate_strategies",
		Description: "Score the competing booking strategies (book / wait / split / reroute) for a quote " +
			"against a lane's simulated rate distribution and recommend the cheapest one whose " +
			"confidence clears the configured floor.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"lane":       laneSchema(),
				"quote":      quoteSchema(),
				"run_id":     {Type: "string"},
				"iterations": {Type: "integer"},
				"seed":       {Type: "integer"},
			},
			Required: []string{"lane", "quote"},
		},
	},
}
