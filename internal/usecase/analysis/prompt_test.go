package analysis

import (
	"strings"
	"testing"
)

func TestTopicFromJSON(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		found bool
	}{
		{
			name:  "plain object",
			raw:   `{"query_topic": "grace period"}`,
			want:  "grace period",
			found: true,
		},
		{
			name:  "markdown fenced",
			raw:   "```json\n{\"query_topic\": \"waiting period\"}\n```",
			want:  "waiting period",
			found: true,
		},
		{
			name:  "bare fence",
			raw:   "```\n{\"query_topic\": \"maternity cover\"}\n```",
			want:  "maternity cover",
			found: true,
		},
		{
			name:  "array of objects takes first",
			raw:   `[{"query_topic": "room rent limit"}, {"query_topic": "other"}]`,
			want:  "room rent limit",
			found: true,
		},
		{
			name:  "extra fields ignored",
			raw:   `{"query_topic": "no claim discount", "structured_data": {"entities": "NCD"}}`,
			want:  "no claim discount",
			found: true,
		},
		{
			name:  "topic surrounded by whitespace",
			raw:   `{"query_topic": "  organ donor  "}`,
			want:  "organ donor",
			found: true,
		},
		{name: "not json", raw: "the topic is grace periods"},
		{name: "empty", raw: ""},
		{name: "whitespace only", raw: "   \n  "},
		{name: "missing key", raw: `{"topic": "grace period"}`},
		{name: "empty topic", raw: `{"query_topic": ""}`},
		{name: "non-string topic", raw: `{"query_topic": 42}`},
		{name: "empty array", raw: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := topicFromJSON(tt.raw)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if got != tt.want {
				t.Errorf("topic = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnswerPrompt(t *testing.T) {
	got := answerPrompt("The grace period is thirty days.", "What is the grace period?")

	if !strings.Contains(got, "The grace period is thirty days.") {
		t.Error("prompt should embed the document context")
	}
	if !strings.Contains(got, "What is the grace period?") {
		t.Error("prompt should embed the question")
	}
	if !strings.Contains(got, "STRICTLY AND ONLY") {
		t.Error("prompt should demand grounded answers")
	}
	if !strings.Contains(got, `"Information not found in the provided document."`) {
		t.Error("prompt should carry the fixed not-found phrasing")
	}
}

func TestTopicPrompt(t *testing.T) {
	got := topicPrompt("Does this policy cover knee surgery?")

	if !strings.Contains(got, `Query: "Does this policy cover knee surgery?"`) {
		t.Error("prompt should quote the question")
	}
	if !strings.Contains(got, `"query_topic"`) {
		t.Error("prompt should request the query_topic key")
	}
	if !strings.Contains(got, "Respond ONLY with the JSON object.") {
		t.Error("prompt should pin the output format")
	}
}
