package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/tbourn/go-consult-backend/internal/domain"
	"github.com/tbourn/go-consult-backend/internal/repo"
)

// newThread creates a consultation claimed by dr1 so both sides can post.
func newThread(t *testing.T) (*ConsultationService, *MessageService, *domain.Consultation) {
	t.Helper()
	db := newSvcDB(t)
	consults := NewConsultationService(db)
	msgs := NewMessageService(db)

	c, err := consults.Submit(context.Background(), "p1", "ongoing fatigue", false)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := NewQueueService(db).Claim(context.Background(), c.ID, "dr1"); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	return consults, msgs, c
}

func TestSend_AssignsSequentialNumbers(t *testing.T) {
	_, msgs, c := newThread(t)
	ctx := context.Background()
	patient := domain.Actor{ID: "p1", Role: domain.RolePatient}
	provider := domain.Actor{ID: "dr1", Role: domain.RoleProvider}

	turns := []struct {
		actor domain.Actor
		body  string
	}{
		{patient, "It started about a month ago."},
		{provider, "Any changes in sleep or diet?"},
		{patient, "Sleeping badly, diet unchanged."},
		{provider, "Let's run a blood panel."},
	}
	for i, turn := range turns {
		m, err := msgs.Send(ctx, c.ID, turn.actor, turn.body)
		if err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
		if m.Seq != int64(i+1) {
			t.Fatalf("turn %d: want seq %d, got %d", i, i+1, m.Seq)
		}
		if m.SenderID != turn.actor.ID || m.SenderRole != turn.actor.Role {
			t.Fatalf("turn %d: sender mismatch: %+v", i, m)
		}
	}

	if n := countAudits(t, msgs.DB, repo.AuditFilter{
		Action: domain.AuditMessage, SubjectID: c.ID, Outcome: domain.OutcomeSuccess,
	}); n != int64(len(turns)) {
		t.Fatalf("expected %d MESSAGE audit entries, got %d", len(turns), n)
	}
}

func TestSend_ConcurrentSendsStayGapFree(t *testing.T) {
	_, msgs, c := newThread(t)
	ctx := context.Background()
	provider := domain.Actor{ID: "dr1", Role: domain.RoleProvider}

	const n = 6
	var wg sync.WaitGroup
	errs := make([]error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = msgs.Send(ctx, c.ID, provider, fmt.Sprintf("observation %d", i))
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent send %d: %v", i, err)
		}
	}

	got, err := repo.ListMessagesSince(ctx, msgs.DB, c.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListMessagesSince: %v", err)
	}
	if len(got) != n {
		t.Fatalf("expected %d messages, got %d", n, len(got))
	}
	for i, m := range got {
		if m.Seq != int64(i+1) {
			t.Fatalf("gap at position %d: seq %d", i, m.Seq)
		}
	}
}

func TestSend_ValidationAndNormalization(t *testing.T) {
	_, msgs, c := newThread(t)
	ctx := context.Background()
	patient := domain.Actor{ID: "p1", Role: domain.RolePatient}

	if _, err := msgs.Send(ctx, c.ID, patient, "  \r\n \n "); err != ErrEmptyMessage {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}

	msgs.MaxBodyRunes = 12
	if _, err := msgs.Send(ctx, c.ID, patient, strings.Repeat("a", 13)); err != ErrMessageTooLong {
		t.Fatalf("expected ErrMessageTooLong, got %v", err)
	}

	msgs.MaxBodyRunes = 0
	m, err := msgs.Send(ctx, c.ID, patient, "first\r\nsecond\n\n\n\nthird  ")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if m.Body != "first\nsecond\n\nthird" {
		t.Fatalf("unexpected normalized body: %q", m.Body)
	}

	if _, err := msgs.Send(ctx, "no-such-id", patient, "hello"); err != ErrConsultationNotFound {
		t.Fatalf("expected ErrConsultationNotFound, got %v", err)
	}
}

func TestSend_SealedThreadRejectsWrites(t *testing.T) {
	consults, msgs, c := newThread(t)
	ctx := context.Background()
	provider := domain.Actor{ID: "dr1", Role: domain.RoleProvider}

	if _, err := consults.Transition(ctx, c.ID, 2, domain.StatusResolved, provider, ""); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if _, err := msgs.Send(ctx, c.ID, provider, "one more thing"); err != ErrThreadClosed {
		t.Fatalf("expected ErrThreadClosed, got %v", err)
	}
	if n := countAudits(t, msgs.DB, repo.AuditFilter{
		ActorID: "dr1", Outcome: domain.OutcomeDenied, SubjectID: c.ID,
	}); n != 1 {
		t.Fatalf("expected one denied MESSAGE audit entry, got %d", n)
	}

	// Sealed threads stay readable by the bound parties.
	if _, err := msgs.History(ctx, c.ID, provider, 0, 0); err != nil {
		t.Fatalf("history on sealed thread: %v", err)
	}
}

func TestSend_UnboundActorsForbidden(t *testing.T) {
	_, msgs, c := newThread(t)
	ctx := context.Background()

	for _, actor := range []domain.Actor{
		{ID: "p2", Role: domain.RolePatient},
		{ID: "dr2", Role: domain.RoleProvider},
		{ID: "aud", Role: domain.RoleCompliance},
	} {
		if _, err := msgs.Send(ctx, c.ID, actor, "hi"); err != ErrForbidden {
			t.Fatalf("actor %s/%s: expected ErrForbidden, got %v", actor.Role, actor.ID, err)
		}
	}

	// System actors may always post (resolution notes, routing notices).
	if _, err := msgs.Send(ctx, c.ID, domain.Actor{ID: "scheduler", Role: domain.RoleSystem}, "provider assigned"); err != nil {
		t.Fatalf("system send: %v", err)
	}
}

func TestHistory_ResumesFromSequence(t *testing.T) {
	_, msgs, c := newThread(t)
	ctx := context.Background()
	patient := domain.Actor{ID: "p1", Role: domain.RolePatient}

	for i := 1; i <= 5; i++ {
		if _, err := msgs.Send(ctx, c.ID, patient, fmt.Sprintf("update %d", i)); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}

	tail, err := msgs.History(ctx, c.ID, patient, 3, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(tail) != 2 || tail[0].Seq != 4 || tail[1].Seq != 5 {
		t.Fatalf("unexpected resume window: %+v", tail)
	}

	limited, err := msgs.History(ctx, c.ID, patient, 0, 2)
	if err != nil || len(limited) != 2 || limited[0].Seq != 1 {
		t.Fatalf("unexpected limited page: %+v err=%v", limited, err)
	}

	// Each read lands a VIEW entry; a stranger's attempt lands a denial.
	if n := countAudits(t, msgs.DB, repo.AuditFilter{
		ActorID: "p1", Action: domain.AuditView, SubjectID: c.ID, Outcome: domain.OutcomeSuccess,
	}); n != 2 {
		t.Fatalf("expected two VIEW audit entries, got %d", n)
	}
	if _, err := msgs.History(ctx, c.ID, domain.Actor{ID: "p2", Role: domain.RolePatient}, 0, 0); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
}
