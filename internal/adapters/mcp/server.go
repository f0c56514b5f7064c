// Package mcpadapter exposes the compliance pipeline as MCP tools over
// stdio, for orchestrators that consume tool servers instead of HTTP.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/legitima/aiact-agent/internal/core/ports"
	"github.com/legitima/aiact-agent/internal/core/usecase"
)

type Server struct {
	organizations ports.OrganizationDiscoverer
	systems       ports.SystemDiscoverer
	assessor      ports.ComplianceAssessor
	logger        *slog.Logger
}

func NewServer(
	organizations ports.OrganizationDiscoverer,
	systems ports.SystemDiscoverer,
	assessor ports.ComplianceAssessor,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		organizations: organizations,
		systems:       systems,
		assessor:      assessor,
		logger:        logger,
	}
}

// Build registers the three pipeline tools on a fresh MCP server.
func (s *Server) Build(version string) *server.MCPServer {
	srv := server.NewMCPServer("aiact-agent", version, server.WithToolCapabilities(false))

	srv.AddTool(mcp.NewTool("discover_organization",
		mcp.WithDescription("Research an organization with web search and build its EU AI Act relevant profile."),
		mcp.WithString("organization_name", mcp.Required(),
			mcp.Description("Legal or trading name of the organization to research.")),
		mcp.WithString("domain",
			mcp.Description("Known official web domain; skips domain resolution when set.")),
		mcp.WithString("context",
			mcp.Description("Free-text hints appended to the search query.")),
	), s.handleDiscoverOrganization)

	srv.AddTool(mcp.NewTool("discover_ai_systems",
		mcp.WithDescription("Build a risk-classified AI system inventory for an organization."),
		mcp.WithObject("organization_context",
			mcp.Description("Organization profile from discover_organization, or a simplified {name, sector} object.")),
		mcp.WithArray("system_names",
			mcp.Description("Declared AI system names to research instead of a generic inventory search."),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("scope",
			mcp.Description("One of all, high-risk-only, production-only."),
			mcp.Enum("all", "high-risk-only", "production-only")),
		mcp.WithString("context",
			mcp.Description("Free-text hints appended to the search query.")),
	), s.handleDiscoverAISystems)

	srv.AddTool(mcp.NewTool("assess_compliance",
		mcp.WithDescription("Run the generative EU AI Act gap analysis over discovered context."),
		mcp.WithObject("organization_context",
			mcp.Description("Organization profile or simplified object; any JSON shape is normalized.")),
		mcp.WithObject("ai_services_context",
			mcp.Description("System inventory, system objects, or a plain array of system names.")),
		mcp.WithArray("focus_areas",
			mcp.Description("Areas to steer the analysis toward."),
			mcp.Items(map[string]any{"type": "string"})),
		mcp.WithBoolean("generate_documentation",
			mcp.Description("Also draft compliance document templates.")),
	), s.handleAssessCompliance)

	return srv
}

func (s *Server) handleDiscoverOrganization(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("organization_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	profile, err := s.organizations.DiscoverOrganization(ctx, ports.DiscoverOrganizationRequest{
		OrganizationName: name,
		Domain:           req.GetString("domain", ""),
		Context:          req.GetString("context", ""),
	})
	if err != nil {
		s.logger.Error("tool_failed", "tool", "discover_organization", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(profile)
}

func (s *Server) handleDiscoverAISystems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	inventory, err := s.systems.DiscoverSystems(ctx, ports.DiscoverSystemsRequest{
		Organization: usecase.NormalizeOrganizationContext(rawArg(args, "organization_context")),
		SystemNames:  stringSliceArg(args, "system_names"),
		Scope:        req.GetString("scope", ""),
		Context:      req.GetString("context", ""),
	})
	if err != nil {
		s.logger.Error("tool_failed", "tool", "discover_ai_systems", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(inventory)
}

func (s *Server) handleAssessCompliance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	assessment, err := s.assessor.Assess(ctx, ports.AssessmentRequest{
		OrganizationContext:   rawArg(args, "organization_context"),
		SystemsContext:        rawArg(args, "ai_services_context"),
		FocusAreas:            stringSliceArg(args, "focus_areas"),
		GenerateDocumentation: req.GetBool("generate_documentation", false),
	})
	if err != nil {
		s.logger.Error("tool_failed", "tool", "assess_compliance", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(assessment)
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(encoded)), nil
}

// rawArg re-encodes an arbitrary argument value as raw JSON for the
// normalization layer. Strings are assumed to already hold JSON.
func rawArg(args map[string]any, key string) json.RawMessage {
	value, ok := args[key]
	if !ok || value == nil {
		return nil
	}
	if text, ok := value.(string); ok {
		return json.RawMessage(text)
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return encoded
}

func stringSliceArg(args map[string]any, key string) []string {
	value, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(value))
	for _, entry := range value {
		if text, ok := entry.(string); ok {
			out = append(out, text)
		}
	}
	return out
}
