package mcp

// --- Tool Arguments ---

type ExecuteWorkflowArgs struct {
	StackID string `json:"stack_id" jsonschema:"The id of the stack whose saved workflow should run,required"`
	Query   string `json:"query" jsonschema:"The user query to execute the workflow against,required"`
}

type ExecuteWorkflowResult struct {
	Response string `json:"response"`
}

type SearchDocumentsArgs struct {
	StackID        string `json:"stack_id" jsonschema:"The stack whose knowledge base to search,required"`
	Query          string `json:"query" jsonschema:"The semantic query to search for,required"`
	EmbeddingModel string `json:"embedding_model,omitempty" jsonschema:"Embedding model to use. Defaults to the provider default"`
	APIKey         string `json:"api_key,omitempty" jsonschema:"Provider credential for the embedding call"`
	TopK           int    `json:"top_k,omitempty" jsonschema:"Max number of chunks to return (default 3)"`
}

type SearchDocumentsResult struct {
	Chunks []string `json:"chunks"`
}

type ListStacksArgs struct{}

type StackSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	HasWorkflow bool   `json:"has_workflow"`
}

type ListStacksResult struct {
	Stacks []StackSummary `json:"stacks"`
}
