// Package nlp turns free-form recruiting questions into structured intents
// using an LLM provider.
package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/orza-hq/orza-engine/pkg/intent"
	"github.com/orza-hq/orza-engine/pkg/models"
	"github.com/orza-hq/orza-engine/pkg/schema"
)

// Extractor converts a natural-language question into a structured intent.
type Extractor interface {
	ExtractIntent(ctx context.Context, question string) (*models.Intent, error)
}

// extractionTemperature keeps intent extraction near-deterministic.
const extractionTemperature = 0.1

// decodeIntent parses a raw model response into an intent. The response text
// is untrusted; anything that doesn't decode cleanly is rejected here rather
// than surfacing later in the pipeline.
func decodeIntent(raw string) (*models.Intent, error) {
	jsonStr, err := ExtractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("extract intent JSON: %w", err)
	}

	var in models.Intent
	if err := json.Unmarshal([]byte(jsonStr), &in); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}

	in.Kind = strings.TrimSpace(strings.ToLower(in.Kind))
	return &in, nil
}

// BuildSystemPrompt renders the extraction instructions, including the full
// intent grammar and per-table column lists from the embedded schemas.
func BuildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString(`You translate recruiting questions into a JSON intent for an applicant tracking system.

Respond with ONLY a JSON object of this shape:
{"intent": "<intent name>", "parameters": {"filters": [...], "limit": <int>, "offset": <int>, "sort": {"field": "...", "direction": "asc"|"desc"}, "fields": [...]}}

All parameters are optional. Each filter is {"field": "...", "operator": "...", "value": ...}.

Supported operators: eq, neq, gt, gte, lt, lte, contains, starts_with, ends_with, in, not_in.
Use "in"/"not_in" with an array value. Use "contains" for partial text matches.
For date filters pass ISO 8601 values. A null value with eq means "is not set".

Supported intents:
`)
	for _, kind := range intent.Kinds() {
		sb.WriteString("- ")
		sb.WriteString(kind)
		sb.WriteString("\n")
	}

	sb.WriteString("\nTable columns:\n")
	for _, table := range intent.Tables {
		ts := schema.FallbackSchema(table)
		if ts == nil {
			continue
		}
		names := make([]string, 0, len(ts.Columns))
		for name := range ts.Columns {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString(table)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString("\n")
	}

	sb.WriteString(`
Examples:
"how many candidates do we have" -> {"intent": "count_candidates", "parameters": {}}
"show open jobs" -> {"intent": "search_jobs", "parameters": {"filters": [{"field": "status", "operator": "eq", "value": "open"}]}}
"latest 5 applications" -> {"intent": "search_applications", "parameters": {"limit": 5, "sort": {"field": "created_at", "direction": "desc"}}}

If the question cannot be answered by any supported intent, respond with {"intent": "unknown", "parameters": {}}.`)

	return sb.String()
}
