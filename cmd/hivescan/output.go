package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"hivescan/internal/registry"
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type jsonEntry struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func jsonValue(v registry.Value) any {
	switch v.Type {
	case registry.SZ, registry.EXPAND_SZ, registry.LINK:
		return v.String
	case registry.MULTI_SZ:
		return v.Strings
	case registry.DWORD, registry.DWORD_BIG_ENDIAN, registry.QWORD:
		return v.Integer
	default:
		return hex.EncodeToString(v.Bytes)
	}
}

func displayName(name string) string {
	if name == "" {
		return "(Default)"
	}
	return name
}

// printEntries writes an aligned table to terminals and tab-separated
// lines otherwise, unless JSON was requested.
func (e *env) printEntries(entries []registry.Entry) error {
	if e.json {
		out := make([]jsonEntry, 0, len(entries))
		for _, en := range entries {
			out = append(out, jsonEntry{Name: en.Name, Type: en.Value.Type.String(), Value: jsonValue(en.Value)})
		}
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if !e.tty {
		for _, en := range entries {
			if _, err := fmt.Fprintf(e.out, "%s\t%s\t%s\n", en.Name, en.Value.Type, en.Value.Display()); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tDATA")
	for _, en := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", displayName(en.Name), en.Value.Type, en.Value.Display())
	}
	return tw.Flush()
}
