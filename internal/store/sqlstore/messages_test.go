package sqlstore

import (
	"errors"
	"testing"

	"github.com/plarkin/chatline/internal/domain"
)

func TestAppendMessage(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")
	chatID, _ := testStore.CreateGroupChat("Group", "alice")

	message, err := testStore.AppendMessage(chatID, "alice", "Hello", false)
	if err != nil {
		t.Fatalf("Failed to append message: %v", err)
	}
	if message.ID == 0 {
		t.Error("Expected server-assigned message ID")
	}
	if message.SendAt.IsZero() {
		t.Error("Expected server-assigned timestamp")
	}
	if message.FromUser != "alice" || message.Msg != "Hello" {
		t.Errorf("Unexpected message row: %+v", message)
	}
}

func TestAppendMessageNotAMember(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")
	mustCreateUser(t, "mallory")
	chatID, _ := testStore.CreateGroupChat("Group", "alice")

	_, err := testStore.AppendMessage(chatID, "mallory", "hi", false)
	if !errors.Is(err, domain.ErrNotAMember) {
		t.Errorf("Expected ErrNotAMember, got %v", err)
	}

	// No row was written
	messages, _ := testStore.ListMessages(chatID, "alice")
	if len(messages) != 0 {
		t.Errorf("Expected 0 messages, got %d", len(messages))
	}
}

func TestListMessages(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")
	chatID, _ := testStore.CreateGroupChat("Group", "alice")

	testStore.AppendMessage(chatID, "alice", "first", false)
	testStore.AppendMessage(chatID, "alice", "second", true)

	messages, err := testStore.ListMessages(chatID, "alice")
	if err != nil {
		t.Fatalf("Failed to list messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[0].Msg != "first" || messages[1].Msg != "second" {
		t.Error("Expected messages in insertion order")
	}
	if messages[0].ID >= messages[1].ID {
		t.Error("Expected ascending message ids")
	}
	if !messages[1].IsAuto {
		t.Error("Expected second message to be flagged auto")
	}
}

func TestListMessagesNotAMember(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")
	mustCreateUser(t, "mallory")
	chatID, _ := testStore.CreateGroupChat("Group", "alice")

	_, err := testStore.ListMessages(chatID, "mallory")
	if !errors.Is(err, domain.ErrNotAMember) {
		t.Errorf("Expected ErrNotAMember, got %v", err)
	}
}
