package configs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/vaultapi/internal/errors"
)

func TestSaveAndLoadTOML(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test.toml")

	type TestStruct struct {
		Name  string
		Table string
		Size  int
	}

	originalData := TestStruct{
		Name:  "staging",
		Table: "payments",
		Size:  30,
	}

	if err := SaveTOML(testFile, originalData); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loadedData := TestStruct{}
	if _, err := LoadTOML(testFile, &loadedData); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}

	if loadedData != originalData {
		t.Errorf("Expected %+v, got %+v", originalData, loadedData)
	}
}

func TestSaveTOMLCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "subdir", "test.toml")

	if err := SaveTOML(testFile, struct{ Name string }{Name: "Test"}); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	info, err := os.Stat(testFile)
	if err != nil {
		t.Fatalf("File was not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaultapi", "config.toml")

	s := Defaults()
	s.Server = "https://vault.example.com"
	s.KeyLength = 16
	s.AuditLog = "/tmp/vaultapi-audit.jsonl"
	s.APIKey = "must-not-be-saved"

	if err := SaveProfile(path, s.Profile()); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(raw) == "" {
		t.Fatal("profile is empty")
	}
	if strings.Contains(string(raw), "must-not-be-saved") {
		t.Fatal("profile contains the API key")
	}

	p, values, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p.Server != s.Server || p.KeyLength != 16 || p.Timeout != "30s" {
		t.Errorf("unexpected profile %+v", p)
	}
	if values["server"] != s.Server {
		t.Errorf("values[server] = %v", values["server"])
	}
	if values["retry_auth"] != true {
		t.Errorf("values[retry_auth] = %v", values["retry_auth"])
	}
	if _, ok := values["apikey"]; ok {
		t.Error("values must not carry an API key")
	}
}

func TestLoadProfileNonExistent(t *testing.T) {
	p, values, err := LoadProfile(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing profile, got %v", err)
	}
	if p != (Profile{}) || len(values) != 0 {
		t.Errorf("expected empty profile, got %+v %v", p, values)
	}
}

func TestLoadProfileOnlyDefinedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "retries = 0\ncipher = \"chacha20poly1305\"\n")

	_, values, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("expected 2 keys, got %v", values)
	}
	if values["retries"] != 0 {
		t.Errorf("values[retries] = %v", values["retries"])
	}
	if values["cipher"] != "chacha20poly1305" {
		t.Errorf("values[cipher] = %v", values["cipher"])
	}
}

func TestLoadProfileRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"api key", "apikey = \"s3cr3t\"\n"},
		{"unknown key", "colour = \"blue\"\n"},
		{"malformed", "server = \n"},
		{"wrong type", "key_length = \"long\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			writeFile(t, path, tt.content)

			_, _, err := LoadProfile(path)
			if !errors.Is(err, kerrors.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}
