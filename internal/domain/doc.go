// Package domain defines the core business entities of the adboard service:
// user accounts and advertisement listings. Entities validate themselves;
// persistence and transport concerns live elsewhere.
package domain
