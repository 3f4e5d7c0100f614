package main

import "strings"

// legacyFlags maps the two-letter single-dash spellings accepted by earlier
// releases onto their long names.
var legacyFlags = map[string]string{
	"-ip": "--include-paths",
	"-if": "--include-files",
	"-ef": "--exclude-files",
}

// listFlags take one or more space-separated values.
var listFlags = map[string]bool{
	"-i": true, "--include-ext": true,
	"-e": true, "--exclude-ext": true,
	"-x": true, "--exclude-paths": true,
	"--include-paths": true,
	"--include-files": true,
	"--exclude-files": true,
}

// normalizeArgs rewrites legacy flag spellings and expands "-i py js" into
// "-i py -i js" so pflag sees one value per flag. Arguments after "--" are
// left untouched.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))

	// list is the list flag still accepting values; hasOne reports whether
	// it already received its first one.
	var list string
	var hasOne bool

	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}

		if isFlag(arg) {
			name, value, hasValue := strings.Cut(arg, "=")
			if long, ok := legacyFlags[name]; ok {
				name = long
				arg = long
				if hasValue {
					arg += "=" + value
				}
			}
			out = append(out, arg)

			list, hasOne = "", false
			if listFlags[name] {
				list, hasOne = name, hasValue
			}
			continue
		}

		if list != "" {
			if hasOne {
				out = append(out, list)
			}
			hasOne = true
		}
		out = append(out, arg)
	}
	return out
}

func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}
