package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// expectedFlags is the stable flag surface per command. Scripts and agents
// rely on these names; removing or renaming one is a breaking change.
var expectedFlags = map[string][]string{
	"plan":             {"format"},
	"apply":            {"dry-run", "force", "format"},
	"check":            {},
	"history":          {"limit"},
	"snapshot list":    {},
	"snapshot prune":   {"dry-run"},
	"snapshot restore": {},
	"init":             {},
	"version":          {},
}

func TestCommandFlagSurface(t *testing.T) {
	for path, want := range expectedFlags {
		cmd, ok := findCommandByPath(rootCmd, path)
		if !ok {
			t.Errorf("command %q missing from CLI tree", path)
			continue
		}

		got := make(map[string]bool)
		cmd.LocalFlags().VisitAll(func(flag *pflag.Flag) {
			if flag.Name == "help" {
				return
			}
			got[flag.Name] = true
		})

		for _, name := range want {
			if !got[name] {
				t.Errorf("command %q missing flag %q", path, name)
			}
			delete(got, name)
		}
		for name := range got {
			t.Errorf("command %q has undeclared flag %q", path, name)
		}
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"corpus", "corpus-path", "config", "json"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag %q", name)
		}
	}
}

func TestCorpusFreeCommandsSkipResolution(t *testing.T) {
	// These commands must run without any corpus configured.
	for _, path := range []string{"init", "version"} {
		if _, ok := findCommandByPath(rootCmd, path); !ok {
			t.Errorf("command %q missing from CLI tree", path)
		}
	}
}

func findCommandByPath(root *cobra.Command, path string) (*cobra.Command, bool) {
	cmd := root
	for _, name := range strings.Fields(path) {
		var next *cobra.Command
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				next = sub
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cmd = next
	}
	return cmd, true
}
