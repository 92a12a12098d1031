package service

import (
	"errors"
	"testing"
	"time"

	"github.com/portfolio/internal/db"
)

func TestMessageServiceCreateAndList(t *testing.T) {
	svc := NewMessageService(setupServiceTestDB(t))

	first, err := svc.Create(MessageInput{Name: " Ana ", Email: "ana@example.com", Message: "Hello"})
	if err != nil {
		t.Fatalf("create message failed: %v", err)
	}
	if first.Name != "Ana" || first.ReceivedAt.IsZero() {
		t.Fatalf("expected trimmed name and server timestamp, got %+v", first)
	}
	second, err := svc.Create(MessageInput{Name: "Ben", Email: "ben@example.com", Message: "Hi again"})
	if err != nil {
		t.Fatalf("create message failed: %v", err)
	}

	items, err := svc.List()
	if err != nil {
		t.Fatalf("list messages failed: %v", err)
	}
	if len(items) != 2 || items[0].ID != second.ID {
		t.Fatalf("expected newest message first, got %+v", items)
	}
}

func TestMessageServiceCreateRequiresAllFields(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewMessageService(gdb)

	inputs := []MessageInput{
		{Email: "a@example.com", Message: "m"},
		{Name: "A", Message: "m"},
		{Name: "A", Email: "a@example.com", Message: "   "},
	}
	for _, input := range inputs {
		if _, err := svc.Create(input); !errors.Is(err, ErrMessageInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", input, err)
		}
	}
	if n := countRows(t, gdb, &db.Message{}); n != 0 {
		t.Fatalf("expected no rows after rejected input, got %d", n)
	}
}

func TestMessageServiceRepliesAndCascade(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewMessageService(gdb)

	msg, err := svc.Create(MessageInput{Name: "A", Email: "a@example.com", Message: "question"})
	if err != nil {
		t.Fatalf("create message failed: %v", err)
	}
	other, err := svc.Create(MessageInput{Name: "B", Email: "b@example.com", Message: "other"})
	if err != nil {
		t.Fatalf("create message failed: %v", err)
	}

	if _, err := svc.Reply(msg.ID, "first"); err != nil {
		t.Fatalf("reply failed: %v", err)
	}
	latest, err := svc.Reply(msg.ID, "second")
	if err != nil {
		t.Fatalf("reply failed: %v", err)
	}
	if _, err := svc.Reply(other.ID, "kept"); err != nil {
		t.Fatalf("reply failed: %v", err)
	}

	replies, err := svc.ListReplies(msg.ID)
	if err != nil {
		t.Fatalf("list replies failed: %v", err)
	}
	if len(replies) != 2 || replies[0].ID != latest.ID {
		t.Fatalf("expected two replies newest first, got %+v", replies)
	}

	if _, err := svc.Reply(msg.ID, " "); !errors.Is(err, ErrReplyInvalidInput) {
		t.Fatalf("expected empty reply to be rejected, got %v", err)
	}
	if _, err := svc.Reply(999, "lost"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected reply to missing message to fail, got %v", err)
	}

	if err := svc.Delete(msg.ID); err != nil {
		t.Fatalf("delete message failed: %v", err)
	}
	if n := countRows(t, gdb, &db.MessageReply{}); n != 1 {
		t.Fatalf("expected only the other message's reply to remain, got %d", n)
	}
	if _, err := svc.ListReplies(msg.ID); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected deleted message to be gone, got %v", err)
	}
	if err := svc.Delete(msg.ID); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected second delete to report not found, got %v", err)
	}
}

func TestMessageServiceStats(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewMessageService(gdb)

	now := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{
		time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 30, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 30, 18, 0, 0, 0, time.UTC),
	} {
		if err := gdb.Create(&db.Message{Name: "n", Email: "e@example.com", Body: "m", ReceivedAt: at}).Error; err != nil {
			t.Fatalf("create message failed: %v", err)
		}
	}

	sparse, err := svc.Stats(now, 0, false)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	want := []DailyCount{{Date: "2024-05-01", Count: 1}, {Date: "2024-05-20", Count: 1}, {Date: "2024-05-30", Count: 2}}
	if len(sparse) != len(want) {
		t.Fatalf("expected %d sparse entries, got %+v", len(want), sparse)
	}
	for i := range want {
		if sparse[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], sparse[i])
		}
	}

	filled, err := svc.Stats(now, DefaultStatsDays, true)
	if err != nil {
		t.Fatalf("filled stats failed: %v", err)
	}
	if len(filled) != 31 {
		t.Fatalf("expected 31 days in filled window, got %d", len(filled))
	}
	if filled[0].Date != "2024-05-01" || filled[len(filled)-1].Date != "2024-05-31" {
		t.Fatalf("unexpected window bounds %s..%s", filled[0].Date, filled[len(filled)-1].Date)
	}
	var nonZero []DailyCount
	for _, entry := range filled {
		if entry.Count > 0 {
			nonZero = append(nonZero, entry)
		}
	}
	for i := range want {
		if nonZero[i] != want[i] {
			t.Fatalf("filled entry %d: expected %+v, got %+v", i, want[i], nonZero[i])
		}
	}
}
