package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-consult-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestMessagesStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	_, _, err := MessagesStats(context.Background(), db, "c1")
	if err == nil {
		t.Fatalf("expected error due to missing messages table")
	}
}

func TestMessagesStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.Message{})
	count, maxAt, err := MessagesStats(context.Background(), db, "c1")
	if err != nil {
		t.Fatalf("MessagesStats error: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestMessagesStats_Success_FilterAndMax(t *testing.T) {
	db := newTestDB(t, &domain.Message{})

	// Seed messages in two threads with precise SentAt.
	t1 := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 4, 1, 12, 5, 0, 0, time.UTC) // max for cX
	t3 := time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)  // other thread

	m1 := &domain.Message{ID: "m1", ConsultationID: "cX", Seq: 1, SenderRole: domain.RolePatient, SenderID: "p1", Body: "hi", SentAt: t1}
	m2 := &domain.Message{ID: "m2", ConsultationID: "cX", Seq: 2, SenderRole: domain.RoleProvider, SenderID: "dr", Body: "hey", SentAt: t2}
	m3 := &domain.Message{ID: "m3", ConsultationID: "cY", Seq: 1, SenderRole: domain.RolePatient, SenderID: "p2", Body: "yo", SentAt: t3}

	if err := db.Create(m1).Error; err != nil {
		t.Fatalf("seed m1: %v", err)
	}
	if err := db.Create(m2).Error; err != nil {
		t.Fatalf("seed m2: %v", err)
	}
	if err := db.Create(m3).Error; err != nil {
		t.Fatalf("seed m3: %v", err)
	}

	count, maxAt, err := MessagesStats(context.Background(), db, "cX")
	if err != nil {
		t.Fatalf("MessagesStats error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if maxAt == nil || !maxAt.Equal(t2) {
		t.Fatalf("expected maxSentAt %v, got %v", t2, maxAt)
	}
}

// Force the second query (SELECT sent_at ...) to fail by renaming the column.
func TestMessagesStats_SelectLatest_ErrorPath(t *testing.T) {
	db := newTestDB(t, &domain.Message{})

	// Seed at least one row so count > 0
	now := time.Now().UTC()
	if err := db.Create(&domain.Message{
		ID:             "mx",
		ConsultationID: "cerr",
		Seq:            1,
		SenderRole:     domain.RolePatient,
		SenderID:       "p1",
		Body:           "x",
		SentAt:         now,
	}).Error; err != nil {
		t.Fatalf("seed msg: %v", err)
	}

	// Break the follow-up select by removing/renaming sent_at.
	if err := db.Exec(`ALTER TABLE messages RENAME COLUMN sent_at TO sent_at_old`).Error; err != nil {
		t.Fatalf("rename column: %v", err)
	}

	_, _, err := MessagesStats(context.Background(), db, "cerr")
	if err == nil {
		t.Fatalf("expected error from latest-sent select after column rename")
	}
}
