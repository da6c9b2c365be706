package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createCoreTablesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS test_message_scores;
				DROP TABLE IF EXISTS test_results;
				DROP TABLE IF EXISTS conversation_messages;
				DROP TABLE IF EXISTS conversations;
				DROP TABLE IF EXISTS recall_cards;
				DROP TABLE IF EXISTS review_schedules;
				DROP TABLE IF EXISTS user_answers;
				DROP TABLE IF EXISTS quizzes;
				DROP TABLE IF EXISTS quiz_types;
			`)
			return err
		},
	)
}
