// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the schema of the users service.
package migrations

import (
	"embed"

	"github.com/taibuivan/socialnet/internal/platform/migration"
)

//go:embed *.sql
var files embed.FS

// Source is applied by cmd/users at boot.
var Source = migration.Source{
	FS:    files,
	Dir:   ".",
	Table: "users_schema_migrations",
}
