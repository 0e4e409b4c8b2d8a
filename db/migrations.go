// Package db ships the SQL migrations for the Postgres document backend.
package db

import "embed"

// Migrations holds the *.up.sql and *.down.sql files, applied in lexical order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
