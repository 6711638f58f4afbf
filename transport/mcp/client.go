package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/roversim/mars-rover-sim/sim/mission"
	"github.com/roversim/mars-rover-sim/sim/service"
)

// Client is a thin MCP server that proxies every tool call to the REST
// API, so the MCP surface and the HTTP surface can never drift apart.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client targeting the REST API at baseURL.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// GetMCPServer returns the underlying MCP server for embedding into an
// HTTP endpoint or a stdio loop.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Mars Rover Simulator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mars Rover Simulator - MCP Interface

This is a thin client that proxies all requests to the REST API server.

SIMULATION MODEL:
An autonomous rover crosses procedurally generated terrain from the
top-left corner to the bottom-right corner along a planned route.
Terrain classes cost energy per step: clear 1x, sand 2x, rocks 3x;
obstacles are impassable. The mission ends when the rover reaches the
goal, runs out of energy, or gets stuck.

AVAILABLE TOOLS:
- create_session: Start a new simulation from a preset
- list_sessions / get_session: Inspect active simulations
- sim_state: Full snapshot (terrain grid, rover, current plan)
- tick: Advance the rover one step
- bulk_tick: Advance up to N steps at once
- start_stop: Toggle the tick gate
- reset_sim: Regenerate terrain and restart the mission
- replan_path: Recompute the route with A*, Dijkstra, or EnergyEfficient
- mission_report: Aggregate telemetry across finished missions
- list_presets: Available simulation presets
- sim_instructions: Detailed simulation rules`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new simulation session with optional preset selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Name of the preset to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active simulation sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Simulation operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "sim_state",
		Description: "Get the full simulation snapshot: terrain grid, rover state, and current plan",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSimState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Advance the rover one step along its planned route",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_tick",
		Description: "Advance the rover up to N steps, stopping early when the mission ends",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"steps": map[string]interface{}{
					"type":        "number",
					"description": "Number of steps to execute",
				},
			},
			Required: []string{"session_id", "steps"},
		},
	}, c.handleBulkTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_stop",
		Description: "Toggle the simulation's running state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStartStop)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_sim",
		Description: "Regenerate the terrain and reset the rover to full energy",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "replan_path",
		Description: "Recompute the route from the rover's current position with a different algorithm",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"algorithm": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"A*", "Dijkstra", "EnergyEfficient"},
					"description": "Pathfinding algorithm variant",
				},
			},
			Required: []string{"session_id", "algorithm"},
		},
	}, c.handleReplan)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mission_report",
		Description: "Aggregate telemetry report across all finished missions of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMissionReport)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List available simulation presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "sim_instructions",
		Description: "Get detailed simulation rules and terrain semantics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleSimInstructions)
}

// apiCall performs an HTTP request against the REST API and decodes the
// JSON response into out when out is non-nil.
func (c *Client) apiCall(method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	preset, _ := args["preset"].(string)

	body := map[string]string{}
	if preset != "" {
		body["preset"] = preset
	}

	var info service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nPreset: %s\nGrid: %dx%d, energy: %.0f, algorithm: %s\n",
		info.ID, info.PresetName,
		info.State.Params.Size, info.State.Params.Size,
		info.State.Params.InitialEnergy, info.State.Params.Algorithm)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Sessions []service.SessionInfo `json:"sessions"`
		Count    int                   `json:"count"`
	}
	if err := c.apiCall("GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions: %d\n", resp.Count)
	for _, s := range resp.Sessions {
		fmt.Fprintf(&b, "- %s (preset %s, status %s, energy %.1f)\n",
			s.ID, s.PresetName, s.State.Rover.Status, s.State.Rover.Energy)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var info service.SessionInfo
	if err := c.apiCall("GET", "/api/sessions/"+sessionID, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, _ := json.MarshalIndent(info, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}

func (c *Client) handleSimState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state mission.Snapshot
	if err := c.apiCall("GET", "/api/sessions/"+sessionID+"/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rover: %s at %s, energy %.1f, progress %.1f%%\n",
		state.Rover.Status, state.Rover.Position, state.Rover.Energy, state.Rover.Progress)
	if state.Plan != nil {
		fmt.Fprintf(&b, "Plan: %d cells, total cost %.2f (%s)\n",
			len(state.Plan.Route), state.Plan.TotalCost, state.Plan.Variant)
	} else {
		b.WriteString("Plan: none (no valid path)\n")
	}
	fmt.Fprintf(&b, "Running: %v\n\n", state.Running)
	b.WriteString(renderGrid(&state))

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.TickResponse
	if err := c.apiCall("POST", "/api/sessions/"+sessionID+"/tick", map[string]string{}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Moved: %v\nStatus: %s\nPosition: %s\nEnergy: %.1f\nProgress: %.1f%%\n",
		result.Moved, result.Status, result.Rover.Position, result.Rover.Energy, result.Rover.Progress)
	if result.Ended && result.Record != nil {
		text += fmt.Sprintf("Mission ended: %s (success=%v, distance=%d, energy consumed=%.1f)\n",
			result.Record.MissionID, result.Record.Success, result.Record.TotalDistance, result.Record.EnergyConsumed)
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleBulkTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	steps, _ := args["steps"].(float64)

	var result service.BulkTickResult
	body := map[string]interface{}{"steps": int(steps)}
	if err := c.apiCall("POST", "/api/sessions/"+sessionID+"/bulk-tick", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Executed %d/%d steps\nStatus: %s\nEnergy: %.1f -> %.1f\n",
		result.StepsExecuted, result.RequestedSteps, result.Status, result.StartEnergy, result.EndEnergy)
	if result.Ended && result.Record != nil {
		text += fmt.Sprintf("Mission ended: success=%v, distance=%d\n",
			result.Record.Success, result.Record.TotalDistance)
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleStartStop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var resp struct {
		Running bool `json:"running"`
	}
	if err := c.apiCall("POST", "/api/sessions/"+sessionID+"/start-stop", map[string]string{}, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Running: %v", resp.Running)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state mission.Snapshot
	if err := c.apiCall("POST", "/api/sessions/"+sessionID+"/reset", map[string]string{}, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Simulation reset.\nSeed: %d\nRover energy: %.1f\n", state.Seed, state.Rover.Energy)
	if state.Plan != nil {
		text += fmt.Sprintf("New plan: %d cells, cost %.2f\n", len(state.Plan.Route), state.Plan.TotalCost)
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleReplan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	algorithm, _ := args["algorithm"].(string)

	var result service.ReplanResult
	body := map[string]string{"algorithm": algorithm}
	if err := c.apiCall("POST", "/api/sessions/"+sessionID+"/replan", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Found {
		return mcp.NewToolResultText(fmt.Sprintf("No path found with %s", result.Algorithm)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Replanned with %s: %d cells, total cost %.2f, computed in %s",
		result.Algorithm, len(result.Plan.Route), result.Plan.TotalCost, result.Plan.ComputeTime)), nil
}

func (c *Client) handleMissionReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var report service.Report
	if err := c.apiCall("GET", "/api/sessions/"+sessionID+"/report", nil, &report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, _ := json.MarshalIndent(report.Performance, "", "  ")
	text := fmt.Sprintf("Missions: %d\n%s\n", len(report.Missions), string(data))
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Presets []struct {
			Name          string  `json:"name"`
			Description   string  `json:"description"`
			Size          int     `json:"size"`
			InitialEnergy float64 `json:"initial_energy"`
			Algorithm     string  `json:"algorithm"`
		} `json:"presets"`
	}
	if err := c.apiCall("GET", "/api/presets", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	for _, p := range resp.Presets {
		fmt.Fprintf(&b, "- %s: %s (%dx%d, energy %.0f, %s)\n",
			p.Name, p.Description, p.Size, p.Size, p.InitialEnergy, p.Algorithm)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleSimInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(`Mars Rover Simulation Rules

TERRAIN:
The grid is generated from seeded noise and bucketed into cost classes:
  clear    (.)  cost 1, speed 1.0
  sand     (~)  cost 2, speed 0.7
  rocks    (^)  cost 3, speed 0.5
  obstacle (#)  impassable
  rover    (R)  current rover position
  goal     (G)  mission target

MISSION:
The rover starts at the top-left cell with a finite energy budget and
follows a planned route to the bottom-right goal. Each tick it enters
the next route cell and pays that cell's energy cost. The mission ends
with REACHED_GOAL, OUT_OF_ENERGY (next step would overdraw the budget),
or STUCK (next planned cell is now impassable).

PLANNING:
Three variants of one weighted search: A* (fast, admissible heuristic),
Dijkstra (no heuristic), EnergyEfficient (quadratic penalty on costly
terrain; prefers longer but cheaper routes). Replanning mid-mission is
allowed and starts from the rover's current position.`), nil
}

// renderGrid draws the terrain as ASCII art for tool output.
func renderGrid(state *mission.Snapshot) string {
	glyphs := map[string]byte{
		"clear":    '.',
		"sand":     '~',
		"rocks":    '^',
		"obstacle": '#',
		"rover":    'R',
		"goal":     'G',
	}

	var b strings.Builder
	for _, row := range state.Grid {
		for _, cell := range row {
			g, ok := glyphs[string(cell)]
			if !ok {
				g = '?'
			}
			b.WriteByte(g)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
