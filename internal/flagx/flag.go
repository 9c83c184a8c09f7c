// Package flagx lets several flag sets share one command line. Each set
// parses only the arguments it knows, so the JSON config path, the server
// flags and `go test` flags do not reject each other.
package flagx

import (
	"flag"
	"slices"
	"strings"
)

// FilterArgs keeps the arguments naming one of allowed, in their input
// order. "-f=v" is kept whole; for "-f v" the value is kept when it does not
// start with a dash. Everything else is dropped. The result is never nil.
func FilterArgs(args []string, allowed []string) []string {
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if slices.Contains(allowed, name) {
				out = append(out, arg)
			}
			continue
		}

		if !slices.Contains(allowed, arg) {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			out = append(out, args[i])
		}
	}

	return out
}

// ConfigPath returns the file named by -c or -config in args, or "" when
// neither is given. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
