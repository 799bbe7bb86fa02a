package registry

import (
	"fmt"
	"strings"
)

// Root is one of the predefined top-level keys of the store.
type Root uint8

const (
	ClassesRoot Root = iota + 1
	CurrentUser
	LocalMachine
	Users
	CurrentConfig
)

var roots = []struct {
	root  Root
	long  string
	short string
}{
	{ClassesRoot, "HKEY_CLASSES_ROOT", "HKCR"},
	{CurrentUser, "HKEY_CURRENT_USER", "HKCU"},
	{LocalMachine, "HKEY_LOCAL_MACHINE", "HKLM"},
	{Users, "HKEY_USERS", "HKU"},
	{CurrentConfig, "HKEY_CURRENT_CONFIG", "HKCC"},
}

func (r Root) String() string {
	for _, e := range roots {
		if e.root == r {
			return e.long
		}
	}
	return fmt.Sprintf("Root(%d)", uint8(r))
}

// Short returns the abbreviated form, e.g. "HKLM".
func (r Root) Short() string {
	for _, e := range roots {
		if e.root == r {
			return e.short
		}
	}
	return r.String()
}

// ParseRoot accepts both long and short names, case-insensitively.
func ParseRoot(s string) (Root, error) {
	for _, e := range roots {
		if strings.EqualFold(s, e.long) || strings.EqualFold(s, e.short) {
			return e.root, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRoot, s)
}

// ParsePath splits `HKLM\Software\Vendor` into its root and the remaining
// subkey path. Forward slashes are accepted as separators. The subkey path
// is returned backslash-separated and may be empty.
func ParsePath(s string) (Root, string, error) {
	s = strings.Trim(strings.ReplaceAll(s, "/", `\`), `\`)
	if s == "" {
		return 0, "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	head, rest, _ := strings.Cut(s, `\`)
	root, err := ParseRoot(head)
	if err != nil {
		return 0, "", err
	}
	if strings.Contains(rest, `\\`) {
		return 0, "", fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, s)
	}
	return root, rest, nil
}

// SplitPath breaks a backslash-separated subkey path into segments.
func SplitPath(path string) []string {
	path = strings.Trim(path, `\`)
	if path == "" {
		return nil
	}
	return strings.Split(path, `\`)
}
