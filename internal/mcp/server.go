package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/flowstack-ai/flowstack/internal/pipeline"
	"github.com/flowstack-ai/flowstack/internal/store"
	"github.com/flowstack-ai/flowstack/internal/workflow"
)

// NewMCPServer builds the MCP server with the engine's tools registered.
func NewMCPServer(stacks *store.StackRegistry, orch *workflow.Orchestrator, pipe *pipeline.Pipeline) *mcp.Server {
	service := NewService(stacks, orch, pipe)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "FlowStack",
		Version: "0.3.0",
	}, nil)

	// Register tools using the generic AddTool which inspects the arg structs.

	mcp.AddTool(s, &mcp.Tool{
		Name:        "execute_workflow",
		Description: "Run a stack's saved workflow against a query and return the final answer.",
	}, service.ExecuteWorkflow)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "search_documents",
		Description: "Semantically search a stack's uploaded documents and return the most relevant chunks.",
	}, service.SearchDocuments)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_stacks",
		Description: "List the stacks known to the engine and whether each has a saved workflow.",
	}, service.ListStacks)

	return s
}

// NewHTTPHandler serves the MCP server over streamable HTTP so agents can
// reach the tools on the same listener as the REST API.
func NewHTTPHandler(s *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s
	}, nil)
}
