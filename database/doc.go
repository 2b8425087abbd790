// Package database provides connection management, versioned migrations,
// foreign key handling, SQL seed files, configuration types, logging, query
// hooks and health checks built on top of Bun.
package database
