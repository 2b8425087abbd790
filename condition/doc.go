// Package condition composes optional member search criteria into AND-ed
// filter conditions that can be rendered into a Bun select query or evaluated
// against an in-memory projection row.
package condition
