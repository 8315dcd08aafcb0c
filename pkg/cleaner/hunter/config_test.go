package hunter

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.LanguageHints[0].Substring != "import" || cfg.LanguageHints[0].Language != "typescript" {
		t.Errorf("first hint = %+v, want import->typescript", cfg.LanguageHints[0])
	}
	if cfg.LanguageAliases["py"] != "python" {
		t.Errorf("py alias = %q", cfg.LanguageAliases["py"])
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"bad selector", func(c *Config) { c.MainContentSelectors = []string{"div["} }, true},
		{"negative words", func(c *Config) { c.MaxInlineWords = -1 }, true},
		{"zero blank lines", func(c *Config) { c.MaxBlankLines = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	base := DefaultConfig()
	merged := base.Merge(&Config{
		SkipClasses:     []string{"promo"},
		LanguageAliases: map[string]string{"golang": "go", "js": "ecmascript"},
		MaxBlankLines:   2,
	})

	if len(merged.SkipClasses) != 1 || merged.SkipClasses[0] != "promo" {
		t.Errorf("SkipClasses = %v, want [promo]", merged.SkipClasses)
	}
	if merged.LanguageAliases["golang"] != "go" || merged.LanguageAliases["js"] != "ecmascript" {
		t.Errorf("aliases not overlaid: %v", merged.LanguageAliases)
	}
	if merged.LanguageAliases["py"] != "python" {
		t.Error("expected base aliases to survive merge")
	}
	if merged.MaxBlankLines != 2 || merged.MaxInlineWords != 10 {
		t.Errorf("limits = %d/%d", merged.MaxBlankLines, merged.MaxInlineWords)
	}
	if base.LanguageAliases["js"] != "javascript" {
		t.Error("merge must not modify the receiver")
	}
	if base.Merge(nil) != base {
		t.Error("merging nil should return the receiver")
	}
}

func TestConfig_CustomTablesChangeOutput(t *testing.T) {
	cfg := DefaultConfig().Merge(&Config{SkipClasses: []string{"promo"}})
	c := New(cfg)

	got := c.ExtractMarkdown(`<div class="promo">Buy now</div><div class="sidebar"><p>Kept</p></div>`)
	if got != "Kept" {
		t.Errorf("ExtractMarkdown() = %q, want Kept", got)
	}
}
