package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/config"
	"github.com/yungbote/studyplan-backend/internal/domain/study"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

func TestPostgresDSN(t *testing.T) {
	got := PostgresDSN(config.DBConfig{Host: "db", Port: 6543, User: "u", Password: "p", Name: "n", SSLMode: "require"})
	if want := "postgres://u:p@db:6543/n?sslmode=require"; got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
	if got := PostgresDSN(config.DBConfig{DSN: "postgres://x"}); got != "postgres://x" {
		t.Fatalf("explicit dsn ignored: %q", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)) {
		t.Fatalf("gorm duplicated key not detected")
	}
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("pg unique violation not detected")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Fatalf("plain error misdetected")
	}
}

func TestSQLiteServiceMigrates(t *testing.T) {
	svc, err := NewService(config.DBConfig{Driver: "sqlite", DSN: "file:dbtest?mode=memory&cache=shared"}, logger.Nop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	defer svc.Close()

	if err := AutoMigrateAll(svc.DB()); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	for _, m := range study.Models() {
		if !svc.DB().Migrator().HasTable(m) {
			t.Fatalf("missing table for %T", m)
		}
	}

	dup := &study.Topic{Language: "Go", Topic: "Basics", TopicOrder: 1}
	if err := svc.DB().Create(dup).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	err = svc.DB().Create(&study.Topic{Language: "Go", Topic: "Basics", TopicOrder: 2}).Error
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}
