package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Default(t *testing.T) {
	buf := setupCmdTest(t)
	rootCmd.SetArgs([]string{"config", "--token", "secret-token"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config command failed: %v", err)
	}

	out := buf.String()
	for _, key := range []string{"api.base_url", "http://localhost:8000", "targets.protein_g", "(set)"} {
		if !strings.Contains(out, key) {
			t.Errorf("expected %q in config output, got:\n%s", key, out)
		}
	}
	if strings.Contains(out, "secret-token") {
		t.Errorf("config output leaks the token:\n%s", out)
	}
}

func TestConfig_JSON(t *testing.T) {
	buf := setupCmdTest(t)
	rootCmd.SetArgs([]string{"config", "--json", "--token", "secret-token"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config --json failed: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\nGot: %s", err, buf.String())
	}
	if _, ok := result["API"]; !ok {
		t.Errorf("JSON output missing API section. Got: %v", result)
	}
	if strings.Contains(buf.String(), "secret-token") {
		t.Errorf("config --json leaks the token:\n%s", buf.String())
	}
}

func TestConfig_Path(t *testing.T) {
	buf := setupCmdTest(t)
	path := filepath.Join(t.TempDir(), "mcctl.yaml")
	if err := os.WriteFile(path, []byte("api:\n  base_url: http://api.test:9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	configCmd.Flags().Set("path", "true")
	t.Cleanup(func() { configCmd.Flags().Set("path", "false") })
	rootCmd.SetArgs([]string{"config", "--config", path})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config --path failed: %v", err)
	}
	if !strings.Contains(buf.String(), path) {
		t.Errorf("expected config path in output, got:\n%s", buf.String())
	}
}

func TestConfig_FileValues(t *testing.T) {
	buf := setupCmdTest(t)
	path := filepath.Join(t.TempDir(), "mcctl.yaml")
	if err := os.WriteFile(path, []byte("api:\n  base_url: http://api.test:9000/\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rootCmd.SetArgs([]string{"config", "--config", path})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("config failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "http://api.test:9000") || strings.Contains(out, "http://api.test:9000/") {
		t.Errorf("expected trimmed base URL from file, got:\n%s", out)
	}
}
