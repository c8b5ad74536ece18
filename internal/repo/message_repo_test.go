package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-consult-backend/internal/domain"
)

// test DB helper
func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// seedConsultation inserts a minimal PENDING consultation row.
func seedConsultation(t *testing.T, db *gorm.DB, id, patientID string) {
	t.Helper()
	now := time.Now().UTC()
	c := &domain.Consultation{
		ID: id, PatientID: patientID, Status: domain.StatusPending,
		Summary: "s", Version: 1, CreatedAt: now, UpdatedAt: now,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed consultation %s: %v", id, err)
	}
}

func TestNextSequence_IncrementsWithoutGaps(t *testing.T) {
	db := newRepoDB(t, &domain.Consultation{}, &domain.Message{})
	seedConsultation(t, db, "c1", "p1")
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := NextSequence(ctx, db, "c1")
		if err != nil {
			t.Fatalf("NextSequence #%d: %v", want, err)
		}
		if got != want {
			t.Fatalf("expected seq %d, got %d", want, got)
		}
	}
}

func TestNextSequence_UnknownConsultation(t *testing.T) {
	db := newRepoDB(t, &domain.Consultation{})
	if _, err := NextSequence(context.Background(), db, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNextSequence_RefusesSealedThread(t *testing.T) {
	db := newRepoDB(t, &domain.Consultation{}, &domain.Message{})
	seedConsultation(t, db, "c1", "p1")
	ctx := context.Background()

	if _, err := NextSequence(ctx, db, "c1"); err != nil {
		t.Fatalf("NextSequence while open: %v", err)
	}

	// Resolve the consultation out from under a sender that already passed
	// its open-thread pre-check. The guarded UPDATE must refuse instead of
	// handing out a sequence number for a sealed thread.
	for _, status := range []domain.Status{domain.StatusResolved, domain.StatusCancelled} {
		if err := db.Model(&domain.Consultation{}).
			Where("id = ?", "c1").
			UpdateColumn("status", status).Error; err != nil {
			t.Fatalf("force status %s: %v", status, err)
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			seq, err := NextSequence(ctx, tx, "c1")
			if err != nil {
				return err
			}
			_, err = CreateMessage(tx, "c1", seq, domain.RolePatient, "p1", "late message")
			return err
		})
		if err != ErrThreadSealed {
			t.Fatalf("status %s: expected ErrThreadSealed, got %v", status, err)
		}
	}

	// Nothing leaked into the thread and the counter is untouched.
	total, err := CountMessages(db, "c1")
	if err != nil {
		t.Fatalf("CountMessages: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected empty thread, found %d messages", total)
	}
	var row struct{ LastSeq int64 }
	if err := db.Model(&domain.Consultation{}).
		Select("last_seq").Where("id = ?", "c1").Scan(&row).Error; err != nil {
		t.Fatalf("read last_seq: %v", err)
	}
	if row.LastSeq != 1 {
		t.Fatalf("expected last_seq 1, got %d", row.LastSeq)
	}
}

func TestNextSequenceAny_AllowsClosingNoteOnResolved(t *testing.T) {
	db := newRepoDB(t, &domain.Consultation{}, &domain.Message{})
	seedConsultation(t, db, "c1", "p1")
	ctx := context.Background()

	if err := db.Model(&domain.Consultation{}).
		Where("id = ?", "c1").
		UpdateColumn("status", domain.StatusResolved).Error; err != nil {
		t.Fatalf("force resolved: %v", err)
	}

	// The resolving transaction appends its closing note after the status
	// swap, so the unguarded variant must still hand out sequence numbers.
	seq, err := NextSequenceAny(ctx, db, "c1")
	if err != nil {
		t.Fatalf("NextSequenceAny on resolved: %v", err)
	}
	if seq != 1 {
		t.Fatalf("expected seq 1, got %d", seq)
	}
	if _, err := NextSequenceAny(ctx, db, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateMessage_InsertsRow(t *testing.T) {
	db := newRepoDB(t, &domain.Consultation{}, &domain.Message{})
	seedConsultation(t, db, "c1", "p1")

	msg, err := CreateMessage(db, "c1", 1, domain.RolePatient, "p1", "hello")
	if err != nil {
		t.Fatalf("CreateMessage error: %v", err)
	}
	if msg.ID == "" || msg.ConsultationID != "c1" || msg.Seq != 1 ||
		msg.SenderRole != domain.RolePatient || msg.Body != "hello" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.SentAt.IsZero() || time.Since(msg.SentAt) > time.Minute {
		t.Fatalf("SentAt not set reasonably: %v", msg.SentAt)
	}

	// read it back
	got, err := GetMessage(db, msg.ID)
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if got.ID != msg.ID {
		t.Fatalf("roundtrip mismatch: %+v vs %+v", got, msg)
	}
}

func TestCreateMessage_DuplicateSeqRejected(t *testing.T) {
	db := newRepoDB(t, &domain.Consultation{}, &domain.Message{})
	seedConsultation(t, db, "c1", "p1")

	if _, err := CreateMessage(db, "c1", 1, domain.RolePatient, "p1", "first"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	// same (consultation_id, seq) must violate the unique index
	if _, err := CreateMessage(db, "c1", 1, domain.RoleProvider, "dr", "second"); err == nil {
		t.Fatalf("expected unique violation for duplicate seq")
	}
	// same seq on a different consultation is fine
	seedConsultation(t, db, "c2", "p2")
	if _, err := CreateMessage(db, "c2", 1, domain.RolePatient, "p2", "other thread"); err != nil {
		t.Fatalf("seq 1 on other consultation: %v", err)
	}
}

func TestListMessagesSince_OrderAndResume(t *testing.T) {
	db := newRepoDB(t, &domain.Consultation{}, &domain.Message{})
	seedConsultation(t, db, "c2", "p1")
	ctx := context.Background()

	// insert out of order on purpose; seq is the only sort key
	for _, seq := range []int64{3, 1, 2, 5, 4} {
		if _, err := CreateMessage(db, "c2", seq, domain.RolePatient, "p1", fmt.Sprintf("m%d", seq)); err != nil {
			t.Fatalf("seed seq %d: %v", seq, err)
		}
	}

	// since 0 → everything, ascending
	all, err := ListMessagesSince(ctx, db, "c2", 0, 0)
	if err != nil {
		t.Fatalf("ListMessagesSince(all): %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(all))
	}
	for i, m := range all {
		if m.Seq != int64(i+1) {
			t.Fatalf("position %d holds seq %d: %+v", i, m.Seq, all)
		}
	}

	// resume from seq 3 → only 4 and 5
	tail, err := ListMessagesSince(ctx, db, "c2", 3, 0)
	if err != nil {
		t.Fatalf("ListMessagesSince(since=3): %v", err)
	}
	if len(tail) != 2 || tail[0].Seq != 4 || tail[1].Seq != 5 {
		t.Fatalf("unexpected resume slice: %+v", tail)
	}

	// limit applies after the since filter
	page, err := ListMessagesSince(ctx, db, "c2", 1, 2)
	if err != nil {
		t.Fatalf("ListMessagesSince(limit): %v", err)
	}
	if len(page) != 2 || page[0].Seq != 2 || page[1].Seq != 3 {
		t.Fatalf("unexpected limited slice: %+v", page)
	}
}

func TestCountMessages_Error_NoTable(t *testing.T) {
	db := newRepoDB(t /* no migration for Message */)
	if _, err := CountMessages(db, "cx"); err == nil {
		t.Fatalf("expected error due to missing messages table")
	}
}

func TestCountMessages_Success(t *testing.T) {
	db := newRepoDB(t, &domain.Consultation{}, &domain.Message{})
	seedConsultation(t, db, "cx", "p1")
	seedConsultation(t, db, "cy", "p2")

	// two messages in cx, one in cy
	if _, err := CreateMessage(db, "cx", 1, domain.RolePatient, "p1", "1"); err != nil {
		t.Fatalf("seed m1: %v", err)
	}
	if _, err := CreateMessage(db, "cx", 2, domain.RoleProvider, "dr", "2"); err != nil {
		t.Fatalf("seed m2: %v", err)
	}
	if _, err := CreateMessage(db, "cy", 1, domain.RolePatient, "p2", "3"); err != nil {
		t.Fatalf("seed m3: %v", err)
	}

	total, err := CountMessages(db, "cx")
	if err != nil {
		t.Fatalf("CountMessages error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2, got %d", total)
	}
}

func TestGetMessage_FoundAndNotFound(t *testing.T) {
	db := newRepoDB(t, &domain.Consultation{}, &domain.Message{})
	seedConsultation(t, db, "c9", "p1")

	// not found
	if _, err := GetMessage(db, "nope"); err == nil {
		t.Fatalf("expected gorm.ErrRecordNotFound")
	}

	// insert & get
	msg, err := CreateMessage(db, "c9", 1, domain.RolePatient, "p1", "hi")
	if err != nil {
		t.Fatalf("seed message: %v", err)
	}
	got, err := GetMessage(db, msg.ID)
	if err != nil {
		t.Fatalf("GetMessage error: %v", err)
	}
	if got.ID != msg.ID || got.ConsultationID != "c9" {
		t.Fatalf("unexpected message: %+v", got)
	}
}

// sanity: the repository funcs accept a *gorm.DB that may have context/tx set;
// ensure they work with a context-scoped DB too
func TestRepoWithContextHandles(t *testing.T) {
	db := newRepoDB(t, &domain.Consultation{}, &domain.Message{})
	seedConsultation(t, db, "cX", "p1")
	ctx := context.Background()
	tdb := db.WithContext(ctx)

	seq, err := NextSequence(ctx, tdb, "cX")
	if err != nil {
		t.Fatalf("NextSequence with context: %v", err)
	}
	if _, err := CreateMessage(tdb, "cX", seq, domain.RolePatient, "p1", "hello"); err != nil {
		t.Fatalf("CreateMessage with context: %v", err)
	}
	if _, err := ListMessagesSince(ctx, tdb, "cX", 0, 10); err != nil {
		t.Fatalf("ListMessagesSince with context: %v", err)
	}
	if _, err := CountMessages(tdb, "cX"); err != nil {
		t.Fatalf("CountMessages with context: %v", err)
	}
}
