package migrations

import (
	_ "embed"

	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_core_tables.sql
var createCoreTablesSQL string

//go:embed 0002_seed_quizzes.sql
var seedQuizzesSQL string

var Migrations = migrate.NewMigrations()
