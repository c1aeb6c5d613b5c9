package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/ragchat/ragchat/internal/config"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "heading", content: "# Retrieval", want: "Retrieval"},
		{name: "list", content: "- first\n- second", want: "second"},
		{name: "code", content: "```go\nfmt.Println(1)\n```", want: "Println"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Markdown(tt.content, DefaultOptions().WithStyle(StyleNoTTY))
			if err != nil {
				t.Fatalf("Markdown() error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Markdown() = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestMarkdown_Width(t *testing.T) {
	text := strings.Repeat("retrieval ", 20)
	out, err := Markdown(text, DefaultOptions().WithStyle(StyleNoTTY).WithWidth(40))
	if err != nil {
		t.Fatalf("Markdown() error: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if len(strings.TrimRight(line, " ")) > 40 {
			t.Errorf("line wider than 40 columns: %q", line)
		}
	}
}

func TestReply(t *testing.T) {
	out := Reply("Hello <script>alert(1)</script>**world**", DefaultOptions().WithStyle(StyleNoTTY))
	if strings.Contains(out, "<script>") {
		t.Errorf("Reply() kept markup: %q", out)
	}
	if !strings.Contains(out, "world") {
		t.Errorf("Reply() = %q", out)
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Errorf("Reply() should trim surrounding newlines: %q", out)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "no markup here", want: "no markup here"},
		{name: "tags stripped", in: "<b>bold</b> and <i>italic</i>", want: "bold and italic"},
		{name: "script removed", in: "a<script>x()</script>b", want: "ab"},
		{name: "entities kept readable", in: "Tom & Jerry's", want: "Tom & Jerry's"},
		{name: "comparison kept", in: "if a < b", want: "if a < b"},
		{name: "ansi escape dropped", in: "red\x1b[31mtext", want: "red[31mtext"},
		{name: "newlines kept", in: "one\ntwo\tthree", want: "one\ntwo\tthree"},
		{name: "code fence untouched", in: "see:\n```html\n<div>x</div>\n```\n<b>after</b>", want: "see:\n```html\n<div>x</div>\n```\nafter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStyleOption(t *testing.T) {
	tests := []struct {
		style   string
		builtin bool
		norm    string
	}{
		{style: "dark", builtin: true, norm: StyleDark},
		{style: "", builtin: true, norm: StyleDark},
		{style: "tokyonight", builtin: true, norm: StyleTokyoNight},
		{style: "catppuccin", builtin: true, norm: StyleDark},
		{style: "DRACULA", builtin: true, norm: StyleDracula},
		{style: "/tmp/custom.json", builtin: false, norm: "/tmp/custom.json"},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			if got := IsBuiltinStyle(tt.style); got != tt.builtin {
				t.Errorf("IsBuiltinStyle(%q) = %v, want %v", tt.style, got, tt.builtin)
			}
			if got := normalizeStyle(tt.style); got != tt.norm {
				t.Errorf("normalizeStyle(%q) = %q, want %q", tt.style, got, tt.norm)
			}
		})
	}

	if len(AvailableStyles()) != len(builtinStyles) {
		t.Error("AvailableStyles() should list every built-in style")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Markdown.Style = "light"
	cfg.Markdown.EnableEmoji = false

	opts := OptionsFromConfigWithWidth(cfg, 64)
	if opts.Style != "light" || opts.EnableEmoji || opts.Width != 64 {
		t.Errorf("OptionsFromConfigWithWidth() = %+v", opts)
	}

	t.Setenv("GLAMOUR_STYLE", "notty")
	if got := OptionsFromConfig(cfg).Style; got != "notty" {
		t.Errorf("GLAMOUR_STYLE should win, got %q", got)
	}
}

func TestOptionsFromConfig_Toggles(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Markdown = config.MarkdownConfig{TableWrap: false, InlineTableLinks: true, PreserveNewLines: false}

	opts := OptionsFromConfig(cfg)
	if opts.TableWrap || !opts.InlineTableLinks || opts.PreserveNewLines {
		t.Errorf("OptionsFromConfig() = %+v, want the configured toggles", opts)
	}
	if opts.Style != StyleDark || opts.Width != DefaultOptions().Width {
		t.Errorf("empty style should fall back to %s at %d columns, got %+v", StyleDark, DefaultOptions().Width, opts)
	}
}

func TestCacheKey(t *testing.T) {
	base := DefaultOptions()
	if cacheKey(base) == cacheKey(base.WithWidth(100)) {
		t.Error("Different widths should produce different keys")
	}
	if cacheKey(base) == cacheKey(base.WithStyle("light")) {
		t.Error("Different styles should produce different keys")
	}
	if cacheKey(base) != cacheKey(DefaultOptions()) {
		t.Error("Same options should produce same key")
	}
}

func TestPoolReuse(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions().WithStyle(StyleNoTTY)
	r1, err := globalPool.get(opts)
	if err != nil || r1 == nil {
		t.Fatalf("get() = %v, %v", r1, err)
	}
	globalPool.put(opts, r1)

	if _, err := globalPool.get(opts.WithWidth(120)); err != nil {
		t.Fatalf("get() error: %v", err)
	}
	if CacheSize() != 2 {
		t.Errorf("CacheSize() = %d, want 2", CacheSize())
	}
}

func TestPoolConcurrency(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions().WithStyle(StyleNoTTY)
	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("**concurrent**", opts); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Markdown() error: %v", err)
	}
}

func TestTUIThemes(t *testing.T) {
	defer SetTUITheme(DefaultTUITheme)

	names := TUIThemeNames()
	want := []string{"catppuccin", "dracula", "nord", "tokyonight"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("TUIThemeNames() = %v, want %v", names, want)
	}

	for _, name := range names {
		theme, ok := GetTUIThemeByName(name)
		if !ok {
			t.Fatalf("theme %s not found", name)
		}
		if theme.Primary == "" || theme.Success == "" || theme.Warning == "" || theme.Danger == "" || theme.Text == "" {
			t.Errorf("theme %s has empty colors: %+v", name, theme)
		}
		if !IsBuiltinStyle(theme.Markdown) {
			t.Errorf("theme %s pairs with unknown markdown style %q", name, theme.Markdown)
		}
	}

	if !SetTUITheme("Nord") {
		t.Fatal("SetTUITheme(Nord) should succeed")
	}
	if GetTUITheme().Name != "nord" {
		t.Errorf("GetTUITheme() = %s", GetTUITheme().Name)
	}
	if SetTUITheme("solarized") {
		t.Error("SetTUITheme(unknown) should fail")
	}
	if GetTUITheme().Name != "nord" {
		t.Error("unknown theme should leave the active theme unchanged")
	}
}
