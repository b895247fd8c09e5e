package config

import (
	"testing"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		shouldSet    bool
		want         string
	}{
		{
			name:         "returns environment variable when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			shouldSet:    true,
			want:         "custom",
		},
		{
			name:         "returns default when environment variable not set",
			key:          "TEST_VAR_MISSING",
			defaultValue: "default",
			envValue:     "",
			shouldSet:    false,
			want:         "default",
		},
		{
			name:         "returns default when environment variable is empty string",
			key:          "TEST_VAR_EMPTY",
			defaultValue: "default",
			envValue:     "",
			shouldSet:    true,
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		shouldSet    bool
		want         int
	}{
		{
			name:         "returns parsed integer when set",
			key:          "TEST_INT",
			defaultValue: 10,
			envValue:     "42",
			shouldSet:    true,
			want:         42,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_INT_MISSING",
			defaultValue: 10,
			envValue:     "",
			shouldSet:    false,
			want:         10,
		},
		{
			name:         "returns default when not an integer",
			key:          "TEST_INT_BAD",
			defaultValue: 10,
			envValue:     "not-a-number",
			shouldSet:    true,
			want:         10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvAsInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvAsInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("fails without API_KEY", func(t *testing.T) {
		t.Setenv("API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "gk-test")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error when API_KEY is missing")
		}
	})

	t.Run("fails without GEMINI_API_KEY", func(t *testing.T) {
		t.Setenv("API_KEY", "test-key")
		t.Setenv("GEMINI_API_KEY", "")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error when GEMINI_API_KEY is missing")
		}
	})

	t.Run("fails when provider is openai without OPENAI_API_KEY", func(t *testing.T) {
		t.Setenv("API_KEY", "test-key")
		t.Setenv("GEMINI_API_KEY", "gk-test")
		t.Setenv("GENERATION_PROVIDER", "openai")
		t.Setenv("OPENAI_API_KEY", "")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error when OPENAI_API_KEY is missing for openai provider")
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("API_KEY", "test-key")
		t.Setenv("GEMINI_API_KEY", "gk-test")
		t.Setenv("GENERATION_PROVIDER", "")
		t.Setenv("EMBEDDING_DIMENSIONS", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.GenerationProvider != GenerationProviderGoogle {
			t.Errorf("GenerationProvider = %q, want %q", cfg.GenerationProvider, GenerationProviderGoogle)
		}
		if cfg.EmbeddingModel != "text-embedding-004" {
			t.Errorf("EmbeddingModel = %q, want text-embedding-004", cfg.EmbeddingModel)
		}
		if cfg.EmbeddingDimensions != 768 {
			t.Errorf("EmbeddingDimensions = %d, want 768", cfg.EmbeddingDimensions)
		}
		if cfg.TopK != 5 {
			t.Errorf("TopK = %d, want 5", cfg.TopK)
		}
	})

	t.Run("openai provider keeps GEMINI_MODEL out of the chat model", func(t *testing.T) {
		t.Setenv("API_KEY", "test-key")
		t.Setenv("GEMINI_API_KEY", "gk-test")
		t.Setenv("GENERATION_PROVIDER", "openai")
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("GEMINI_MODEL", "")
		t.Setenv("OPENAI_MODEL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.GenerationProvider != GenerationProviderOpenAI {
			t.Errorf("GenerationProvider = %q, want %q", cfg.GenerationProvider, GenerationProviderOpenAI)
		}
		if cfg.OpenAIModel != "" {
			t.Errorf("OpenAIModel = %q, want empty (client default)", cfg.OpenAIModel)
		}
		if cfg.GenerationModel != "gemini-2.0-flash" {
			t.Errorf("GenerationModel = %q, want gemini-2.0-flash", cfg.GenerationModel)
		}
	})

	t.Run("openai provider reads OPENAI_MODEL", func(t *testing.T) {
		t.Setenv("API_KEY", "test-key")
		t.Setenv("GEMINI_API_KEY", "gk-test")
		t.Setenv("GENERATION_PROVIDER", "openai")
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("OPENAI_MODEL", "gpt-4o")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.OpenAIModel != "gpt-4o" {
			t.Errorf("OpenAIModel = %q, want gpt-4o", cfg.OpenAIModel)
		}
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		t.Setenv("API_KEY", "test-key")
		t.Setenv("GEMINI_API_KEY", "gk-test")
		t.Setenv("GENERATION_PROVIDER", "azure")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for unknown GENERATION_PROVIDER")
		}
	})
}
