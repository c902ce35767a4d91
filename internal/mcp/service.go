// Package mcp exposes the workflow engine to MCP clients: executing a
// stack's saved workflow, searching its knowledge base, and listing stacks.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/flowstack-ai/flowstack/internal/pipeline"
	"github.com/flowstack-ai/flowstack/internal/store"
	"github.com/flowstack-ai/flowstack/internal/workflow"
)

const defaultSearchTopK = 3

type Service struct {
	stacks       *store.StackRegistry
	orchestrator *workflow.Orchestrator
	pipeline     *pipeline.Pipeline
}

func NewService(stacks *store.StackRegistry, orch *workflow.Orchestrator, pipe *pipeline.Pipeline) *Service {
	return &Service{
		stacks:       stacks,
		orchestrator: orch,
		pipeline:     pipe,
	}
}

// --- Tool Handlers ---

func (s *Service) ExecuteWorkflow(ctx context.Context, req *mcp.CallToolRequest, args ExecuteWorkflowArgs) (*mcp.CallToolResult, ExecuteWorkflowResult, error) {
	st, err := s.stacks.Get(args.StackID)
	if err != nil {
		return nil, ExecuteWorkflowResult{}, fmt.Errorf("stack %q not found", args.StackID)
	}
	if len(st.Workflow) == 0 {
		return nil, ExecuteWorkflowResult{}, fmt.Errorf("stack %q has no saved workflow", args.StackID)
	}

	g, err := workflow.Parse(st.Workflow)
	if err != nil {
		return nil, ExecuteWorkflowResult{}, err
	}

	response, err := s.orchestrator.Execute(ctx, args.StackID, g, args.Query)
	if err != nil {
		return nil, ExecuteWorkflowResult{}, err
	}
	return nil, ExecuteWorkflowResult{Response: response}, nil
}

func (s *Service) SearchDocuments(ctx context.Context, req *mcp.CallToolRequest, args SearchDocumentsArgs) (*mcp.CallToolResult, SearchDocumentsResult, error) {
	topK := args.TopK
	if topK <= 0 {
		topK = defaultSearchTopK
	}

	chunks, err := s.pipeline.Retrieve(ctx, args.StackID, args.Query, args.EmbeddingModel, args.APIKey, topK)
	if err != nil {
		return nil, SearchDocumentsResult{}, err
	}
	return nil, SearchDocumentsResult{Chunks: chunks}, nil
}

func (s *Service) ListStacks(ctx context.Context, req *mcp.CallToolRequest, args ListStacksArgs) (*mcp.CallToolResult, ListStacksResult, error) {
	var out ListStacksResult
	for _, st := range s.stacks.List() {
		out.Stacks = append(out.Stacks, StackSummary{
			ID:          st.ID,
			Name:        st.Name,
			Description: st.Description,
			HasWorkflow: len(st.Workflow) > 0,
		})
	}
	return nil, out, nil
}
