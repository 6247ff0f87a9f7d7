// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestPgx5URL verifies scheme rewriting and version table selection.
*/
func TestPgx5URL(t *testing.T) {
	tests := []struct {
		name  string
		dsn   string
		table string
		want  string
	}{
		{"Postgres", "postgres://u:p@db:5432/app?sslmode=disable", "users_schema", "pgx5://u:p@db:5432/app?sslmode=disable&x-migrations-table=users_schema"},
		{"Postgresql", "postgresql://u:p@db/app", "", "pgx5://u:p@db/app"},
		{"AlreadyPgx5", "pgx5://db/app", "content_schema", "pgx5://db/app?x-migrations-table=content_schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pgx5URL(tt.dsn, tt.table)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := pgx5URL("mysql://db/app", "")
	assert.Error(t, err)
}
