package parser

import (
	"strings"
	"testing"
)

func TestFenceState(t *testing.T) {
	var fs FenceState

	if !fs.UpdateFenceState("```go") {
		t.Fatal("expected fence open")
	}
	if !fs.InFence {
		t.Fatal("expected InFence after open")
	}
	if fs.UpdateFenceState("some [[code]]") {
		t.Fatal("content line is not a marker")
	}
	if fs.UpdateFenceState("~~~") {
		t.Fatal("mismatched fence char must not close")
	}
	if !fs.UpdateFenceState("```") {
		t.Fatal("expected fence close")
	}
	if fs.InFence {
		t.Fatal("expected fence closed")
	}
}

func TestFenceStateLongerClose(t *testing.T) {
	var fs FenceState
	fs.UpdateFenceState("````")
	if fs.UpdateFenceState("```") {
		t.Fatal("shorter marker must not close a longer fence")
	}
	if !fs.UpdateFenceState("`````") {
		t.Fatal("longer marker closes the fence")
	}
}

func TestFenceStateBlockquote(t *testing.T) {
	var fs FenceState
	if !fs.UpdateFenceState("> ```") {
		t.Fatal("expected fence detection inside blockquote")
	}
}

func TestRemoveInlineCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"no code here", "no code here"},
		{"a `[[x]]` b", "a " + strings.Repeat(" ", 7) + " b"},
		{"``[[y]] with `tick` ``z", strings.Repeat(" ", 22) + "z"},
		{"unclosed `span", "unclosed `span"},
	}
	for _, tt := range tests {
		got := RemoveInlineCode(tt.in)
		if got != tt.want {
			t.Errorf("RemoveInlineCode(%q)=%q, want %q", tt.in, got, tt.want)
		}
		if len(got) != len(tt.in) {
			t.Errorf("RemoveInlineCode(%q) changed length", tt.in)
		}
	}
}
