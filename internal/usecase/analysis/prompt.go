package analysis

import (
	"encoding/json"
	"strings"
)

// analystRole frames every answer completion.
const analystRole = "You are an expert document analyst. You analyze queries strictly and only against the provided document content."

// answerPrompt builds the grounded question-answering prompt.
func answerPrompt(context, question string) string {
	var b strings.Builder

	b.WriteString("Analyze the user query based STRICTLY AND ONLY on the provided document context.\n\n")

	b.WriteString("Provided Document Context:\n")
	b.WriteString("---\n")
	b.WriteString(context)
	b.WriteString("\n---\n\n")

	b.WriteString("User Query:\n")
	b.WriteString("---\n")
	b.WriteString(question)
	b.WriteString("\n---\n\n")

	b.WriteString("Analyze the query against the document and provide a structured response with:\n")
	b.WriteString("1. Decision: Relevant information found/Not found/Partially found\n")
	b.WriteString("2. Details: Specific information extracted from the document\n")
	b.WriteString("3. Justification: Clear explanation with specific document references\n")
	b.WriteString("4. Document Mapping: Reference the exact sections/clauses used\n\n")

	b.WriteString("Provide a clear, professional response that includes:\n")
	b.WriteString("- Whether the requested information is available in the document\n")
	b.WriteString("- Specific document sections that apply\n")
	b.WriteString("- Any relevant conditions, terms, or requirements\n")
	b.WriteString("- Key details and amounts if mentioned\n")
	b.WriteString("- Clear reasoning for the response\n\n")

	b.WriteString("If the context DOES NOT contain relevant information, respond with: ")
	b.WriteString(`"Information not found in the provided document."`)
	b.WriteString("\n")

	return b.String()
}

// topicPrompt builds the query-parsing prompt used before retrieval.
func topicPrompt(question string) string {
	var b strings.Builder

	b.WriteString("You are an expert document analyst. Analyze the following query and extract structured information.\n\n")

	b.WriteString("Query: \"")
	b.WriteString(question)
	b.WriteString("\"\n\n")

	b.WriteString("Extract and return a JSON object with the following structure:\n")
	b.WriteString("{\n")
	b.WriteString("    \"query_topic\": \"main topic for semantic search\",\n")
	b.WriteString("    \"structured_data\": {\n")
	b.WriteString("        \"entities\": \"key entities mentioned (people, places, things)\",\n")
	b.WriteString("        \"parameters\": \"specific parameters or values\",\n")
	b.WriteString("        \"relationships\": \"relationships between entities\",\n")
	b.WriteString("        \"document_type\": \"type of document this query relates to\",\n")
	b.WriteString("        \"action_items\": \"what the user is looking for\"\n")
	b.WriteString("    }\n")
	b.WriteString("}\n\n")

	b.WriteString("Respond ONLY with the JSON object.\n")

	return b.String()
}

// topicFromJSON extracts the query_topic field from a model response. Models
// sometimes wrap JSON in markdown fences or return a single-element array,
// both are tolerated.
func topicFromJSON(raw string) (string, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		var arr []map[string]any
		if err := json.Unmarshal([]byte(cleaned), &arr); err != nil || len(arr) == 0 {
			return "", false
		}
		obj = arr[0]
	}

	topic, ok := obj["query_topic"].(string)
	if !ok || strings.TrimSpace(topic) == "" {
		return "", false
	}
	return strings.TrimSpace(topic), true
}
