// Package answer renders an intent-specific prompt from the fused retrieval
// context and asks the language model for a completion. Provider failures
// degrade to a fixed fallback message instead of surfacing as errors.
package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/voyago/tripgraph/fusion"
	"github.com/voyago/tripgraph/log"
	"github.com/voyago/tripgraph/travel"
)

// Fallback is returned whenever generation fails; callers cannot distinguish
// "no answer available" from "model declined".
const Fallback = "I'm having trouble generating an answer right now. Please try again in a moment."

const systemPrompt = "You are an expert travel assistant. Use the knowledge graph entries and " +
	"document excerpts provided as context. Be practical and concise, and mention " +
	"specific places by name when recommending them."

// DefaultMaxTokens bounds completion length.
const DefaultMaxTokens = 600

const summarySystemPrompt = "Summarize these travel destinations in two or three short sentences."

// Bounds for the context summary shown next to the answer.
const (
	summaryMaxTokens = 120
	summaryMaxNodes  = 6
)

// temperature per intent: creative for itineraries, precise for facts.
var temperatures = map[travel.Intent]float32{
	travel.IntentItinerary:      0.8,
	travel.IntentRecommendation: 0.6,
	travel.IntentFactual:        0.2,
	travel.IntentGeneral:        0.5,
}

// instructions per intent, appended after the shared context sections.
var instructions = map[travel.Intent]string{
	travel.IntentItinerary: "Produce a day-by-day plan. Label each day as \"Day 1\", \"Day 2\" and so on, " +
		"with two or three activities per day drawn from the context, plus one practical tip per day.",
	travel.IntentRecommendation: "Recommend the most fitting options from the context, best first, " +
		"with one sentence on why each fits the request.",
	travel.IntentFactual: "Answer the question directly using only the context. " +
		"If the context does not contain the answer, say so plainly.",
	travel.IntentGeneral: "Answer helpfully using the context, and suggest one related place the " +
		"traveler might also like.",
}

// Generator turns intent plus fused context into a completion.
type Generator struct {
	llm       LLM
	maxTokens int
	timeout   time.Duration
	logger    log.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxTokens bounds the completion length.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates an answer generator over the given model.
func NewGenerator(llm LLM, opts ...Option) *Generator {
	g := &Generator{
		llm:       llm,
		maxTokens: DefaultMaxTokens,
		timeout:   60 * time.Second,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the prompt for the intent and returns the completion.
// On provider error or timeout it returns Fallback, never an error.
func (g *Generator) Generate(ctx context.Context, query string, intent travel.Intent, fused *fusion.Context) string {
	prompt := BuildPrompt(query, intent, fused)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.llm.Complete(callCtx, CompletionRequest{
		System:      systemPrompt,
		User:        prompt,
		Temperature: Temperature(intent),
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		g.logger.Warn("generation failed, returning fallback: %v", err)
		return Fallback
	}
	if strings.TrimSpace(text) == "" {
		return Fallback
	}
	return text
}

// Summarize produces a short overview of the retrieved context, surfaced
// alongside the full answer. An empty context or a failed call yields "".
func (g *Generator) Summarize(ctx context.Context, fused *fusion.Context) string {
	lines := summaryLines(fused, summaryMaxNodes)
	if len(lines) == 0 {
		return ""
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.llm.Complete(callCtx, CompletionRequest{
		System:      summarySystemPrompt,
		User:        strings.Join(lines, "\n"),
		Temperature: Temperature(travel.IntentFactual),
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		g.logger.Warn("context summary failed: %v", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// summaryLines renders "id: name (city)" lines from the fused context, graph
// entries first, capped at n.
func summaryLines(fused *fusion.Context, n int) []string {
	var lines []string
	for _, g := range fused.Graph {
		if len(lines) == n {
			return lines
		}
		line := fmt.Sprintf("%s: %s", g.Location.ID, g.Location.Name)
		if g.Location.City != "" {
			line += fmt.Sprintf(" (%s)", g.Location.City)
		}
		lines = append(lines, line)
	}
	for _, v := range fused.Vector {
		if len(lines) == n {
			return lines
		}
		id := v.Chunk.MetaString("id")
		if id == "" {
			id = v.Chunk.ID
		}
		line := id
		if name := v.Chunk.MetaString("name"); name != "" {
			line = fmt.Sprintf("%s: %s", id, name)
		}
		if city := v.Chunk.MetaString("city"); city != "" {
			line += fmt.Sprintf(" (%s)", city)
		}
		lines = append(lines, line)
	}
	return lines
}

// Temperature returns the sampling temperature for an intent.
func Temperature(intent travel.Intent) float32 {
	if t, ok := temperatures[intent]; ok {
		return t
	}
	return temperatures[travel.IntentGeneral]
}

// BuildPrompt renders the user prompt: the query, both context sections, and
// the intent's instruction.
func BuildPrompt(query string, intent travel.Intent, fused *fusion.Context) string {
	instruction, ok := instructions[intent]
	if !ok {
		instruction = instructions[travel.IntentGeneral]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Traveler's request: %s\n\n", query)
	fmt.Fprintf(&b, "Knowledge graph entries:\n%s\n\n", fused.GraphText())
	fmt.Fprintf(&b, "Document excerpts:\n%s\n\n", fused.VectorText())
	if len(fused.Shared) > 0 {
		fmt.Fprintf(&b, "Places confirmed by both sources: %s\n\n", strings.Join(fused.Shared, ", "))
	}
	b.WriteString(instruction)
	return b.String()
}
