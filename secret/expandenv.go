package secret

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// LookupFunc reports the value of a variable and whether it is set.
type LookupFunc func(key string) (string, bool)

// ExpandEnvStrict expands $VAR and ${VAR} from the process environment.
// "$$" is a literal "$". Every unset variable is reported, in name order,
// in a single error wrapping ErrMissingEnv.
func ExpandEnvStrict(s string) (string, error) {
	return ExpandStrict(s, os.LookupEnv)
}

// ExpandStrict is ExpandEnvStrict with a custom lookup.
func ExpandStrict(s string, lookup LookupFunc) (string, error) {
	var missing []string
	out := os.Expand(s, func(key string) string {
		if key == "$" {
			return "$"
		}
		v, ok := lookup(key)
		if !ok && !slices.Contains(missing, key) {
			missing = append(missing, key)
		}
		return v
	})
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}
	return out, nil
}
