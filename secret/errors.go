package secret

import "errors"

// ErrMissingEnv indicates a referenced environment variable is not set.
var ErrMissingEnv = errors.New("secret: missing environment variable")
