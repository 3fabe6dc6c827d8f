// Package store defines the persistence interfaces and error contract used
// by the service layer. Implementations live under internal/platform.
package store
