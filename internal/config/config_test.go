package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"innkeeper/internal/config"
)

func TestLoadDefaultConfigWhenAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	want := filepath.Join(tempHome, ".config", "innkeeper", "config.toml")
	if resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if cfg.Parser.MaxContainerMiB != 64 || cfg.Parser.MaxTextMiB != 16 {
		t.Fatalf("unexpected parser limits: %+v", cfg.Parser)
	}
	if cfg.MaxContainerBytes() != 64<<20 || cfg.MaxTextBytes() != 16<<20 {
		t.Fatalf("unexpected byte limits: %d %d", cfg.MaxContainerBytes(), cfg.MaxTextBytes())
	}
	if !slices.Equal(cfg.Parser.Keywords, []string{"chara"}) {
		t.Fatalf("unexpected keywords: %v", cfg.Parser.Keywords)
	}
	if !slices.Equal(cfg.Library.Extensions, []string{".png", ".json"}) {
		t.Fatalf("unexpected extensions: %v", cfg.Library.Extensions)
	}
	if cfg.Library.Workers != config.Default().Library.Workers {
		t.Fatalf("unexpected workers: %d", cfg.Library.Workers)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" || cfg.Logging.Dir != "" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "innkeeper.toml")

	type payload struct {
		Parser struct {
			MaxContainerMiB int      `toml:"max_container_mib"`
			Keywords        []string `toml:"keywords"`
		} `toml:"parser"`
		Library struct {
			Workers    int      `toml:"workers"`
			Extensions []string `toml:"extensions"`
		} `toml:"library"`
		Logging struct {
			Format string `toml:"format"`
			Dir    string `toml:"dir"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Parser.MaxContainerMiB = 8
	custom.Parser.Keywords = []string{" ccv3 ", "chara", "ccv3", ""}
	custom.Library.Workers = 2
	custom.Library.Extensions = []string{"PNG", ".webp", ".png"}
	custom.Logging.Format = "JSON"
	custom.Logging.Dir = "~/logs"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Parser.MaxContainerMiB != 8 {
		t.Fatalf("unexpected max container: %d", cfg.Parser.MaxContainerMiB)
	}
	if cfg.Parser.MaxTextMiB != 16 {
		t.Fatalf("omitted key should keep default, got %d", cfg.Parser.MaxTextMiB)
	}
	if !slices.Equal(cfg.Parser.Keywords, []string{"ccv3", "chara"}) {
		t.Fatalf("unexpected keywords: %v", cfg.Parser.Keywords)
	}
	if !slices.Equal(cfg.Library.Extensions, []string{".png", ".webp"}) {
		t.Fatalf("unexpected extensions: %v", cfg.Library.Extensions)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized format, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Dir != filepath.Join(tempHome, "logs") {
		t.Fatalf("expected expanded log dir, got %q", cfg.Logging.Dir)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "innkeeper.toml")
	if err := os.WriteFile(configPath, []byte("[parser]\nmax_size = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("INNKEEPER_LOG_LEVEL", "DEBUG")
	t.Setenv("INNKEEPER_LIBRARY_WORKERS", "9")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env log level, got %q", cfg.Logging.Level)
	}
	if cfg.Library.Workers != 9 {
		t.Fatalf("expected env workers, got %d", cfg.Library.Workers)
	}

	t.Setenv("INNKEEPER_LIBRARY_WORKERS", "many")
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for non-numeric workers")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"container zero", func(c *config.Config) { c.Parser.MaxContainerMiB = 0 }, "parser.max_container_mib"},
		{"text too large", func(c *config.Config) { c.Parser.MaxTextMiB = 5000 }, "parser.max_text_mib"},
		{"long keyword", func(c *config.Config) { c.Parser.Keywords = []string{strings.Repeat("k", 80)} }, "parser.keywords"},
		{"workers", func(c *config.Config) { c.Library.Workers = 0 }, "library.workers"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	def := config.Default()
	if cfg.Parser.MaxContainerMiB != def.Parser.MaxContainerMiB || cfg.Library.Workers != def.Library.Workers {
		t.Fatalf("sample should match defaults, got %+v", cfg)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if !strings.Contains(string(data), "max_container_mib = 64") {
		t.Fatalf("unexpected toml:\n%s", data)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~/cards")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "cards") {
		t.Fatalf("unexpected expansion: %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("empty path should stay empty, got %q", got)
	}
}
