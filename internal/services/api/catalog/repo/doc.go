// Package repo holds the catalog stores: Postgres for deployments, an
// in-memory map for local runs and tests, and a circuit breaker that can
// wrap either
package repo
