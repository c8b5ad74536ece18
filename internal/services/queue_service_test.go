package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/repo"
)

func TestPeek_RoleGateAndClaimOrder(t *testing.T) {
	db := newSvcDB(t)
	consults := NewConsultationService(db)
	queue := NewQueueService(db)
	ctx := context.Background()

	routine, err := consults.Submit(ctx, "p1", "routine follow-up", false)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	urgent, err := consults.Submit(ctx, "p2", "severe reaction", true)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if _, _, err := queue.Peek(ctx, domain.Actor{ID: "p1", Role: domain.RolePatient}, 1, 20); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for patient peek, got %v", err)
	}

	entries, total, err := queue.Peek(ctx, domain.Actor{ID: "dr1", Role: domain.RoleProvider}, 1, 20)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Fatalf("expected 2 entries, got total=%d n=%d", total, len(entries))
	}
	// Urgent outranks routine even though it was enqueued later.
	if entries[0].ConsultationID != urgent.ID || entries[1].ConsultationID != routine.ID {
		t.Fatalf("unexpected claim order: %+v", entries)
	}

	// Peeking reserves nothing: the same view again.
	again, _, err := queue.Peek(ctx, domain.Actor{ID: "dr2", Role: domain.RoleProvider}, 1, 20)
	if err != nil || len(again) != 2 {
		t.Fatalf("repeat peek changed the queue: n=%d err=%v", len(again), err)
	}
}

func TestClaim_ExactlyOneWinner(t *testing.T) {
	db := newSvcDB(t)
	consults := NewConsultationService(db)
	queue := NewQueueService(db)
	ctx := context.Background()

	c, err := consults.Submit(ctx, "p1", "shortness of breath", true)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	const providers = 6
	var wg sync.WaitGroup
	errs := make([]error, providers)
	wg.Add(providers)
	for i := 0; i < providers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = queue.Claim(ctx, c.ID, fmt.Sprintf("dr%d", i))
		}(i)
	}
	wg.Wait()

	var winners int
	for i, err := range errs {
		switch err {
		case nil:
			winners++
		case ErrAlreadyClaimed:
		default:
			t.Fatalf("provider dr%d: unexpected error %v", i, err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning claim, got %d", winners)
	}

	got, err := repo.GetConsultation(ctx, db, c.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != domain.StatusClaimed || got.Version != 2 || got.ProviderID == nil {
		t.Fatalf("unexpected post-claim state: %+v", got)
	}
	if total, _ := repo.CountQueueEntries(ctx, db); total != 0 {
		t.Fatalf("claimed consultation still queued, total=%d", total)
	}
	if n := countAudits(t, db, repo.AuditFilter{
		Action: domain.AuditClaim, SubjectID: c.ID, Outcome: domain.OutcomeSuccess,
	}); n != 1 {
		t.Fatalf("expected exactly one successful CLAIM audit entry, got %d", n)
	}
}

func TestClaim_RepeatByHolderIsNoop(t *testing.T) {
	db := newSvcDB(t)
	consults := NewConsultationService(db)
	queue := NewQueueService(db)
	ctx := context.Background()

	c, err := consults.Submit(ctx, "p1", "medication question", false)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	first, err := queue.Claim(ctx, c.ID, "dr1")
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}

	// Re-confirming one's own claim returns the consultation unchanged.
	again, err := queue.Claim(ctx, c.ID, "dr1")
	if err != nil {
		t.Fatalf("repeat claim by holder: %v", err)
	}
	if again.Version != first.Version || *again.ProviderID != "dr1" {
		t.Fatalf("repeat claim mutated state: %+v vs %+v", again, first)
	}

	// A different provider gets the typed rejection, and it is audited.
	if _, err := queue.Claim(ctx, c.ID, "dr2"); err != ErrAlreadyClaimed {
		t.Fatalf("expected ErrAlreadyClaimed for rival, got %v", err)
	}
	if n := countAudits(t, db, repo.AuditFilter{
		ActorID: "dr2", Outcome: domain.OutcomeDenied, SubjectID: c.ID,
	}); n != 1 {
		t.Fatalf("expected one denied CLAIM audit entry, got %d", n)
	}
}

func TestClaim_NotFoundAndTerminal(t *testing.T) {
	db := newSvcDB(t)
	consults := NewConsultationService(db)
	queue := NewQueueService(db)
	ctx := context.Background()

	if _, err := queue.Claim(ctx, "no-such-id", "dr1"); err != ErrConsultationNotFound {
		t.Fatalf("expected ErrConsultationNotFound, got %v", err)
	}

	c, err := consults.Submit(ctx, "p1", "withdraw me", false)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := consults.Cancel(ctx, c.ID, domain.Actor{ID: "p1", Role: domain.RolePatient}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := queue.Claim(ctx, c.ID, "dr1"); err != ErrAlreadyClaimed {
		t.Fatalf("expected ErrAlreadyClaimed for terminal consultation, got %v", err)
	}
}
