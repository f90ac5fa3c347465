package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port < 0 {
		return errors.New("bad port")
	}
	return nil
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("CFG_TEST_SET", "value")
	t.Setenv("CFG_TEST_EMPTY", "")

	cases := map[string]string{
		"${CFG_TEST_SET}":             "value",
		"$CFG_TEST_SET":               "value",
		"${CFG_TEST_EMPTY:-fallback}": "fallback",
		"${CFG_TEST_UNSET:-8080}":     "8080",
		"${CFG_TEST_SET:-other}":      "value",
		"${CFG_TEST_UNSET}":           "",
	}
	for in, want := range cases {
		if got := ExpandEnv(in); got != want {
			t.Errorf("ExpandEnv(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Setenv("CFG_TEST_NAME", "hub")
	var s sample
	if err := Parse([]byte("name: ${CFG_TEST_NAME}\nport: ${CFG_TEST_PORT:-9000}\n"), &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "hub" || s.Port != 9000 {
		t.Errorf("parsed = %+v", s)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	var s sample
	err := Parse([]byte("name: hub\nprot: 1\n"), &s)
	if err == nil || !strings.Contains(err.Error(), "prot") {
		t.Errorf("err = %v, want unknown field error", err)
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Port: 1}
	if err := Parse([]byte(""), &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "default" || s.Port != 1 {
		t.Errorf("defaults overwritten: %+v", s)
	}
}

func TestParseRunsValidation(t *testing.T) {
	var s sample
	if err := Parse([]byte("port: -1\n"), &s); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	dir := t.TempDir()
	def := filepath.Join(dir, "default.yaml")
	if err := os.WriteFile(def, []byte("name: fallback\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var s sample
	if err := LoadWithDefaults(filepath.Join(dir, "missing.yaml"), def, &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "fallback" {
		t.Errorf("name = %q", s.Name)
	}

	if err := LoadWithDefaults(filepath.Join(dir, "missing.yaml"), "", &s); err == nil {
		t.Error("expected error without default file")
	}
}
