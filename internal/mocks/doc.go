// Package mocks provides hand-written mock implementations of the store and
// service interfaces for use in tests. Each mock exposes function fields so
// tests can override individual methods, and reasonable in-memory defaults
// when they don't.
package mocks
