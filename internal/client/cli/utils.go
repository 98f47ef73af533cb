package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// errUsage is returned for malformed command arguments.
type errUsage string

func (e errUsage) Error() string { return "usage: " + string(e) }

func (a *App) getStatus() string {
	s := string(a.Mode())
	if a.session != "" {
		s += " journal"
	}
	return fmt.Sprintf("(%s)", s)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func subcommand(args []string, def string) (string, []string) {
	if len(args) == 0 {
		return def, nil
	}
	return strings.ToLower(args[0]), args[1:]
}

func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
