package nlp

import (
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare object",
			input: `{"intent": "count_candidates", "parameters": {}}`,
			want:  `{"intent": "count_candidates", "parameters": {}}`,
		},
		{
			name:  "markdown fence",
			input: "```json\n{\"intent\": \"search_jobs\"}\n```",
			want:  `{"intent": "search_jobs"}`,
		},
		{
			name:  "surrounding prose",
			input: `Here is the intent you asked for: {"intent": "search_candidates"} hope that helps`,
			want:  `{"intent": "search_candidates"}`,
		},
		{
			name:  "think tags stripped",
			input: "<think>the user wants a count</think>{\"intent\": \"count_offers\"}",
			want:  `{"intent": "count_offers"}`,
		},
		{
			name:  "nested braces",
			input: `{"intent": "search_candidates", "parameters": {"sort": {"field": "created_at"}}}`,
			want:  `{"intent": "search_candidates", "parameters": {"sort": {"field": "created_at"}}}`,
		},
		{
			name:  "braces inside strings",
			input: `{"intent": "search_candidates", "parameters": {"filters": [{"field": "notes", "operator": "contains", "value": "a { brace"}]}}`,
			want:  `{"intent": "search_candidates", "parameters": {"filters": [{"field": "notes", "operator": "contains", "value": "a { brace"}]}}`,
		},
		{
			name:    "no json at all",
			input:   "I cannot answer that question.",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			input:   `{"intent": "search_candidates"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
