package commands

import (
	"strings"
	"testing"

	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/models"
)

func TestModelsList(t *testing.T) {
	env := newTestEnv(t)
	out, _, err := env.run("", "models", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"*", "yandex_gpt", "YandexGPT", "✓ Available", "⚠ Unavailable: Ollama is not running"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestModelsUse(t *testing.T) {
	tests := []struct {
		name       string
		model      string
		wantErr    string
		wantSwitch bool
	}{
		{name: "available", model: models.ModelYandexGPT, wantSwitch: true},
		{name: "unavailable", model: models.ModelLocalLLM, wantErr: "unavailable: Ollama is not running"},
		{name: "unknown", model: "gpt-9", wantErr: "unknown model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			out, _, err := env.run("", "models", "use", tt.model)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Execute() error = %v, want %q", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatal(err)
			}

			switched := env.client.CallCount("SwitchModel") == 1
			if switched != tt.wantSwitch {
				t.Errorf("switched = %v, want %v", switched, tt.wantSwitch)
			}
			if tt.wantSwitch && !strings.Contains(out, "Model switched successfully") {
				t.Errorf("output = %q", out)
			}
		})
	}
}

func TestModelsUseFailure(t *testing.T) {
	env := newTestEnv(t)
	env.client.SwitchErr = apierrors.NewApplicationError("/api/switch-model", "Unknown model")

	_, errOut, err := env.run("", "models", "use", models.ModelYandexGPT)
	if !apierrors.IsApplicationError(err) {
		t.Errorf("Execute() error = %v", err)
	}
	if !strings.Contains(errOut, "Failed to switch model") {
		t.Errorf("stderr = %q", errOut)
	}
}
