// Package flagx helps several independent flag sets share os.Args.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs picks out of args the flags listed in allowedFlags, keeping
// each flag's value next to it. Everything else is dropped, so a flag set
// built for one layer of configuration never sees flags meant for another.
//
// Recognised forms:
//  1. Separate value:  -a http://localhost:5000/api
//  2. Inline value:    -a=http://localhost:5000/api
//
// Parameters:
//
//	args         - raw arguments, normally os.Args[1:]
//	allowedFlags - flag names including the dash, e.g. []string{"-a", "-d"}
//
// Returns:
//
//	A new, never nil slice with the allowed flags and their values in the
//	order they appeared.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-a=value": one argument, the name is the part before '='
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)

		// "-a value": the next argument is the value unless it is a flag
		// itself, as with a boolean flag followed by another flag
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// JsonConfigFlags looks for the JSON config file path given with -c or
// -config and returns it.
//
// Only those two flags are parsed, on a private flag set, so the call is
// safe before the application's own flags are defined. Parse errors are
// ignored and an empty string means no config file was requested.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
