package migrations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUpFilesAreOrdered(t *testing.T) {
	names, err := upFiles()
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(names) != 5 {
		t.Fatalf("expected 5 up migrations, got %d", len(names))
	}
	if !strings.HasPrefix(names[0], "0001_") || names[len(names)-1] != "0005_session_questions.up.sql" {
		t.Fatalf("unexpected order %v", names)
	}
}

func TestApplyExecutesAllMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS subjects").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS topics").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS questions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS practice_sessions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UNIQUE \(session_id, question_id\)`).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := Apply(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestApplyStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(".*").WillReturnError(errors.New("boom"))

	err = Apply(context.Background(), db)
	if err == nil || !strings.Contains(err.Error(), "0002_topics.up.sql") {
		t.Fatalf("expected error naming the failing migration, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
