package config

import "testing"

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsFloatOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal float64
		expected   float64
	}{
		{"parses float", "TEST_FLOAT_1", "0.25", 0.7, 0.25},
		{"uses default for empty", "TEST_FLOAT_2", "", 0.7, 0.7},
		{"uses default for garbage", "TEST_FLOAT_3", "warm", 0.7, 0.7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				t.Setenv(tc.key, tc.envValue)
			}

			result := getEnvAsFloatOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestLoad_GenerationDefaults(t *testing.T) {
	for _, key := range []string{"GEMINI_TEMPERATURE", "GEMINI_MAX_OUTPUT_TOKENS", "GEMINI_TOP_P"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.GeminiTemperature != 0.7 {
		t.Errorf("Expected temperature 0.7, got %v", cfg.GeminiTemperature)
	}
	if cfg.GeminiMaxTokens != 1000 {
		t.Errorf("Expected 1000 max tokens, got %d", cfg.GeminiMaxTokens)
	}
	if cfg.GeminiTopP != 0.95 {
		t.Errorf("Expected topP 0.95, got %v", cfg.GeminiTopP)
	}
}

func TestAPIKey_ReadAtCallTime(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	if APIKey() != "" {
		t.Fatalf("expected empty key")
	}

	t.Setenv(APIKeyEnv, "late-key")

	if APIKey() != "late-key" {
		t.Errorf("expected key set after startup to be visible, got %q", APIKey())
	}
}
