package config

import "log"

// Require aborts startup when a mandatory setting is missing. The server is
// useless without a database target or a token secret, so fail before any
// connection is opened rather than limp along.
func Require(name, value string) {
	if value == "" {
		log.Fatalf("config: %s must be set", name)
	}
}

func RequireSecret(name string, value []byte) {
	if len(value) == 0 {
		log.Fatalf("config: %s must be set", name)
	}
}
