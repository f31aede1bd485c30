package config

import "testing"

func validConfig() Config {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		LLM:  LLMConfig{APIKey: "test-key"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing llm.api_key")
	}
}

func TestValidate_OverlapNotSmallerThanSize(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.ChunkSize = 100
	cfg.Pipeline.ChunkOverlap = 100

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for overlap >= chunk size")
	}

	expected := "pipeline.chunk_overlap must be smaller than chunk_size, got 100 >= 100"
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_TemperatureRange(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Temperature = 2.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range temperature")
	}

	cfg.LLM.Temperature = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error for temperature 0: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 300 {
		t.Errorf("expected WriteTimeoutSec=300, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.LLM.ChatModel != "gemini-2.5-flash" {
		t.Errorf("expected ChatModel=gemini-2.5-flash, got %q", cfg.LLM.ChatModel)
	}
	if cfg.LLM.EmbeddingModel != "gemini-embedding-001" {
		t.Errorf("expected EmbeddingModel=gemini-embedding-001, got %q", cfg.LLM.EmbeddingModel)
	}
	if cfg.LLM.RequestTimeoutSec != 60 {
		t.Errorf("expected RequestTimeoutSec=60, got %d", cfg.LLM.RequestTimeoutSec)
	}
	if cfg.Pipeline.ChunkSize != 1200 {
		t.Errorf("expected ChunkSize=1200, got %d", cfg.Pipeline.ChunkSize)
	}
	if cfg.Pipeline.ChunkOverlap != 200 {
		t.Errorf("expected ChunkOverlap=200, got %d", cfg.Pipeline.ChunkOverlap)
	}
	if cfg.Pipeline.ChunkSeparator != "\n" {
		t.Errorf("expected ChunkSeparator=newline, got %q", cfg.Pipeline.ChunkSeparator)
	}
	if cfg.Pipeline.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Pipeline.TopK)
	}
	if cfg.Pipeline.ContextTokenBudget != 6000 {
		t.Errorf("expected ContextTokenBudget=6000, got %d", cfg.Pipeline.ContextTokenBudget)
	}
	if cfg.Document.FetchTimeoutSec != 30 {
		t.Errorf("expected FetchTimeoutSec=30, got %d", cfg.Document.FetchTimeoutSec)
	}
	if cfg.Document.MaxSizeMB != 50 {
		t.Errorf("expected MaxSizeMB=50, got %d", cfg.Document.MaxSizeMB)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 15, WriteTimeoutSec: 120, ShutdownSec: 5},
		LLM:      LLMConfig{ChatModel: "gemini-2.5-pro", EmbeddingModel: "text-embedding-004", RequestTimeoutSec: 20},
		Pipeline: PipelineConfig{ChunkSize: 800, ChunkOverlap: 100, ChunkSeparator: "\n\n", TopK: 3, ContextTokenBudget: 2000},
		Document: DocumentConfig{FetchTimeoutSec: 5, MaxSizeMB: 10},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.LLM.ChatModel != "gemini-2.5-pro" {
		t.Errorf("expected ChatModel=gemini-2.5-pro, got %q", cfg.LLM.ChatModel)
	}
	if cfg.Pipeline.ChunkSize != 800 {
		t.Errorf("expected ChunkSize=800, got %d", cfg.Pipeline.ChunkSize)
	}
	if cfg.Pipeline.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Pipeline.TopK)
	}
	if cfg.Document.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB=10, got %d", cfg.Document.MaxSizeMB)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SMARTDOC_TEST_KEY", "secret-value")

	in := []byte("api_key: ${SMARTDOC_TEST_KEY}\nbase_url: ${SMARTDOC_TEST_URL:-https://fallback.example/v1/}")
	out := string(expandEnvVars(in))

	if out != "api_key: secret-value\nbase_url: https://fallback.example/v1/" {
		t.Errorf("unexpected expansion result:\n%s", out)
	}
}

func TestExpandEnvVars_SetVarBeatsDefault(t *testing.T) {
	t.Setenv("SMARTDOC_TEST_URL", "https://real.example/v1/")

	in := []byte("base_url: ${SMARTDOC_TEST_URL:-https://fallback.example/v1/}")
	out := string(expandEnvVars(in))

	if out != "base_url: https://real.example/v1/" {
		t.Errorf("unexpected expansion result:\n%s", out)
	}
}
