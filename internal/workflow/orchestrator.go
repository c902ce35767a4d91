package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flowstack-ai/flowstack/pkg/metrics"
)

// retrievalTopK is the number of chunks a retriever node pulls from the
// knowledge base. Fixed; not exposed in node config.
const retrievalTopK = 3

const (
	defaultModelName   = "gemini-2.5-flash"
	defaultTemperature = 0.75
)

// defaultPromptTemplate is used when a generator node carries no prompt of
// its own. Placeholders {query}, {context} and {web_context} are substituted
// at render time.
const defaultPromptTemplate = `You are a helpful assistant. Your task is to provide a direct answer to the user's query.
Use the following tools and context to construct your answer.
If context from a document is provided, prioritize it.
If context from a web search is provided, use it for recent information or if the document context is insufficient.
If no context is provided, or the context is not relevant, answer using your general knowledge.
Do not explain your own reasoning. Provide only the direct answer.

DOCUMENT CONTEXT:
{context}

WEB SEARCH RESULTS:
{web_context}

USER QUERY:
{query}`

// Retriever serves contextual chunk texts from a stack's knowledge base.
// Implemented by the document pipeline.
type Retriever interface {
	Retrieve(ctx context.Context, stackID, query, embeddingModel, apiKey string, topK int) ([]string, error)
}

// Generator produces text from a rendered prompt. Implemented by the LLM
// provider gateway.
type Generator interface {
	Generate(ctx context.Context, prompt, model string, temperature float64, apiKey string) (string, error)
}

// Searcher returns web snippets for a query. Implementations fail open:
// no matches and upstream failures both yield an empty slice.
type Searcher interface {
	Search(ctx context.Context, query, apiKey string) []string
}

// Orchestrator walks a validated workflow graph node by node, threading a
// payload between visits. It is the only caller of the document pipeline
// and the provider gateways, and holds no per-run state itself: Execute is
// safe to call concurrently.
type Orchestrator struct {
	retriever Retriever
	generator Generator
	searcher  Searcher
}

func NewOrchestrator(r Retriever, g Generator, s Searcher) *Orchestrator {
	return &Orchestrator{retriever: r, generator: g, searcher: s}
}

// Execute runs the graph against the query and returns the final payload as
// a string. Validation failures and unknown node kinds return an
// *ExecutionError; provider failures inside a generator node degrade to an
// inline error message instead of aborting the run.
//
// Traversal is single-threaded and deterministic: after each node the walk
// follows the first outgoing edge in insertion order. A node with several
// outgoing edges is legal; the extra edges are simply never taken. A
// dead-end on a non-sink node ends the run silently with the payload as-is.
func (o *Orchestrator) Execute(ctx context.Context, stackID string, g *Graph, query string) (string, error) {
	if ok, reason := Validate(g); !ok {
		metrics.WorkflowExecutionsTotal.WithLabelValues("rejected").Inc()
		return "", &ExecutionError{Reason: reason}
	}

	current, _ := startNode(g)
	var payload Payload = TextPayload(query)

	for {
		if err := ctx.Err(); err != nil {
			metrics.WorkflowExecutionsTotal.WithLabelValues("canceled").Inc()
			return "", &ExecutionError{Reason: fmt.Sprintf("run canceled at node %q: %v", current.ID, err)}
		}

		slog.Debug("executing node", "stack", stackID, "node", current.ID, "kind", current.Kind)
		metrics.NodeVisitsTotal.WithLabelValues(string(current.Kind)).Inc()

		switch current.Kind {
		case KindQuerySource:
			// Re-assert the live query. A default query configured on the
			// node is informational only and never overrides it.
			payload = TextPayload(query)

		case KindRetriever:
			payload = o.runRetriever(ctx, stackID, current, payload)

		case KindGenerator:
			payload = o.runGenerator(ctx, current, payload)

		case KindSink:
			// The sink's own config is not consulted; whatever the payload
			// holds at this point is the result.
			metrics.WorkflowExecutionsTotal.WithLabelValues("completed").Inc()
			return payload.String(), nil

		default:
			metrics.WorkflowExecutionsTotal.WithLabelValues("failed").Inc()
			return "", &ExecutionError{Reason: fmt.Sprintf("unknown node kind %q on node %q", current.Kind, current.ID)}
		}

		out := g.EdgesFrom(current.ID)
		if len(out) == 0 {
			// Dead-end on a non-sink node: terminate silently.
			metrics.WorkflowExecutionsTotal.WithLabelValues("completed").Inc()
			return payload.String(), nil
		}
		next, ok := g.NodeByID(out[0].Target)
		if !ok {
			// Unreachable after New()'s referential check, kept as a guard.
			metrics.WorkflowExecutionsTotal.WithLabelValues("failed").Inc()
			return "", &ExecutionError{Reason: fmt.Sprintf("edge %q points at unknown node %q", out[0].ID, out[0].Target)}
		}
		current = next
	}
}

// runRetriever queries the stack's knowledge base with the current query
// text. Lookup failures fail open: the run continues with empty context.
func (o *Orchestrator) runRetriever(ctx context.Context, stackID string, node Node, payload Payload) Payload {
	q := payload.Query()
	model := node.ConfigString("embeddingModel", "")
	apiKey := node.ConfigString("embeddingApiKey", "")

	chunks, err := o.retriever.Retrieve(ctx, stackID, q, model, apiKey, retrievalTopK)
	if err != nil {
		slog.Warn("knowledge base lookup failed, continuing without context",
			"stack", stackID, "node", node.ID, "error", err)
		chunks = nil
	}
	return ContextPayload{Q: q, Context: strings.Join(chunks, "\n")}
}

// runGenerator renders the node's prompt and calls the LLM gateway. A
// provider failure becomes the payload text so the run still completes.
func (o *Orchestrator) runGenerator(ctx context.Context, node Node, payload Payload) Payload {
	q := payload.Query()
	docContext := ""
	if cp, ok := payload.(ContextPayload); ok {
		docContext = cp.Context
	}

	webContext := ""
	if tool := node.ConfigString("webSearchTool", ""); strings.EqualFold(tool, "serpapi") {
		snippets := o.searcher.Search(ctx, q, node.ConfigString("serpApiKey", ""))
		webContext = strings.Join(snippets, "\n")
	}

	prompt := renderPrompt(node.ConfigString("prompt", defaultPromptTemplate), q, docContext, webContext)

	text, err := o.generator.Generate(ctx, prompt,
		node.ConfigString("modelName", defaultModelName),
		node.ConfigFloat("temperature", defaultTemperature),
		node.ConfigString("apiKey", ""))
	if err != nil {
		slog.Warn("generation failed, degrading to inline error", "node", node.ID, "error", err)
		return TextPayload(fmt.Sprintf("Sorry, I encountered an error while generating a response: %v", err))
	}
	return TextPayload(text)
}

// renderPrompt substitutes the template placeholders. Unknown placeholders
// are left untouched.
func renderPrompt(tmpl, query, docContext, webContext string) string {
	return strings.NewReplacer(
		"{query}", query,
		"{context}", docContext,
		"{web_context}", webContext,
	).Replace(tmpl)
}
