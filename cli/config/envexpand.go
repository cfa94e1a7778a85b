// Package config handles YAML config file loading for courier.
package config

import (
	"os"
	"regexp"
)

// placeholderPattern matches ${VAR} and ${VAR:-default} placeholders.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// ExpandEnv substitutes ${VAR} and ${VAR:-default} placeholders in the
// input with environment variable values. A variable that is unset or
// empty takes its default when one is given, otherwise the placeholder
// expands to the empty string; a token left empty this way fails
// downstream as a configuration error naming the actual problem.
func ExpandEnv(input string) string {
	return placeholderPattern.ReplaceAllStringFunc(input, func(placeholder string) string {
		groups := placeholderPattern.FindStringSubmatch(placeholder)
		if value := os.Getenv(groups[1]); value != "" {
			return value
		}
		return groups[3]
	})
}
