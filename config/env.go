package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment selects defaults for logging, secrets and error detail.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment reads ENV, with CI=true taking precedence. An unset ENV
// means development; an unrecognised value is an error so that a typo such
// as ENV=prod never starts the server with development secrets.
func GetEnvironment() (Environment, error) {
	if os.Getenv("CI") == "true" {
		return CI, nil
	}

	raw := strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))
	switch env := Environment(raw); env {
	case "":
		return Development, nil
	case Development, Test, CI, Production:
		return env, nil
	default:
		return "", ValidationError{
			Field:   "ENV",
			Message: fmt.Sprintf("unknown environment %q (want development, test, ci or production)", raw),
		}
	}
}
