package registry

import (
	"errors"
	"testing"
)

func TestParseRoot(t *testing.T) {
	tests := map[string]Root{
		"HKLM":               LocalMachine,
		"hklm":               LocalMachine,
		"HKEY_LOCAL_MACHINE": LocalMachine,
		"hkey_current_user":  CurrentUser,
		"HKCR":               ClassesRoot,
		"HKU":                Users,
		"HKCC":               CurrentConfig,
	}
	for in, want := range tests {
		got, err := ParseRoot(in)
		if err != nil || got != want {
			t.Errorf("ParseRoot(%q): got %v, %v", in, got, err)
		}
	}
	if _, err := ParseRoot("HKXX"); !errors.Is(err, ErrUnknownRoot) {
		t.Errorf("ParseRoot(HKXX): got %v", err)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		root Root
		path string
	}{
		{`HKLM\Software\Vendor`, LocalMachine, `Software\Vendor`},
		{`HKCU`, CurrentUser, ``},
		{`HKEY_USERS\.DEFAULT\`, Users, `.DEFAULT`},
		{`hklm/software/vendor`, LocalMachine, `software\vendor`},
	}
	for _, tt := range tests {
		root, path, err := ParsePath(tt.in)
		if err != nil {
			t.Errorf("ParsePath(%q): %v", tt.in, err)
			continue
		}
		if root != tt.root || path != tt.path {
			t.Errorf("ParsePath(%q): got %v %q", tt.in, root, path)
		}
	}

	for _, bad := range []string{"", `\`, `NOPE\x`, `HKLM\a\\b`} {
		if _, _, err := ParsePath(bad); err == nil {
			t.Errorf("ParsePath(%q) should fail", bad)
		}
	}
}

func TestSplitPath(t *testing.T) {
	if got := SplitPath(""); got != nil {
		t.Errorf("empty: %v", got)
	}
	got := SplitPath(`\a\b\`)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got %v", got)
	}
}

func TestRootStrings(t *testing.T) {
	if LocalMachine.String() != "HKEY_LOCAL_MACHINE" || LocalMachine.Short() != "HKLM" {
		t.Errorf("LocalMachine: %s %s", LocalMachine, LocalMachine.Short())
	}
	if Root(0).String() != "Root(0)" {
		t.Errorf("zero root: %s", Root(0))
	}
}
