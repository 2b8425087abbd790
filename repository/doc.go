// Package repository provides a generic repository abstraction built on Bun
// for CRUD operations, pagination, transactions and upsert support, plus the
// member/team projection queries used by member search.
package repository
