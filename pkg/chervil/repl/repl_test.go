package repl

import (
	"strings"
	"testing"

	"github.com/sambeau/chervil/pkg/chervil/printer"
)

func TestFilterCompletions(t *testing.T) {
	got := filterCompletions(":m")
	want := []string{":margin", ":miser"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
			break
		}
	}
}

func TestFilterCompletionsKeepsPrefix(t *testing.T) {
	got := filterCompletions("(defu")
	if len(got) != 1 || got[0] != "(defun" {
		t.Errorf("Expected [(defun], got %v", got)
	}
	if out := filterCompletions(""); out != nil {
		t.Errorf("Expected no completions for empty input, got %v", out)
	}
}

func TestRunCommand(t *testing.T) {
	var out strings.Builder
	opts := printer.Options{Margin: 80}

	if quit := runCommand(&out, ":margin 40", &opts); quit {
		t.Fatalf("Expected :margin not to quit")
	}
	if opts.Margin != 40 {
		t.Errorf("Expected margin 40, got %d", opts.Margin)
	}

	if quit := runCommand(&out, ":ugly", &opts); quit || !opts.Ugly {
		t.Errorf("Expected :ugly to switch to flat printing")
	}
	if quit := runCommand(&out, ":pretty", &opts); quit || opts.Ugly {
		t.Errorf("Expected :pretty to switch layout back on")
	}
	if quit := runCommand(&out, ":quit", &opts); !quit {
		t.Errorf("Expected :quit to quit")
	}

	out.Reset()
	runCommand(&out, ":margin nope", &opts)
	if !strings.Contains(out.String(), "needs a non-negative number") {
		t.Errorf("Expected a usage message, got %q", out.String())
	}
	if opts.Margin != 40 {
		t.Errorf("Expected margin unchanged on bad input, got %d", opts.Margin)
	}
}
