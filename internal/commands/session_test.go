package commands

import (
	"strings"
	"testing"
)

func TestSession(t *testing.T) {
	env := newTestEnv(t)
	out, _, err := env.run("", "session")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ID: 7", "Title: Contracts", "Model: YandexGPT", "Created: —"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
