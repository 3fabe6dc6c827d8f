// Package config defines the application configuration structure and its
// loading rules. Settings come from defaults, an optional config.yaml and
// ADBOARD_-prefixed environment variables, in increasing precedence.
package config
