package sqlstore

import (
	"errors"
	"testing"

	"github.com/plarkin/chatline/internal/domain"
)

func TestCreateGroupChat(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")

	chatID, err := testStore.CreateGroupChat("General", "alice")
	if err != nil {
		t.Fatalf("Failed to create group chat: %v", err)
	}
	if chatID == 0 {
		t.Error("Expected non-zero chat ID")
	}

	isMember, err := testStore.MembershipExists(chatID, "alice")
	if err != nil {
		t.Errorf("MembershipExists failed: %v", err)
	}
	if !isMember {
		t.Error("Expected creator to be a member")
	}

	isGroup, err := testStore.ChatIsGroup(chatID)
	if err != nil {
		t.Errorf("ChatIsGroup failed: %v", err)
	}
	if !isGroup {
		t.Error("Expected chat to be a group")
	}
}

func TestCreatePrivateChat(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")
	mustCreateUser(t, "bob")

	chatID, err := testStore.CreatePrivateChat("alice", "bob")
	if err != nil {
		t.Fatalf("Failed to create private chat: %v", err)
	}

	for _, username := range []string{"alice", "bob"} {
		isMember, _ := testStore.MembershipExists(chatID, username)
		if !isMember {
			t.Errorf("Expected %s to be a member", username)
		}
	}

	isGroup, _ := testStore.ChatIsGroup(chatID)
	if isGroup {
		t.Error("Expected private chat, got group")
	}
}

func TestFindPrivateChatBetween(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")
	mustCreateUser(t, "bob")

	_, found, err := testStore.FindPrivateChatBetween("alice", "bob")
	if err != nil {
		t.Fatalf("FindPrivateChatBetween failed: %v", err)
	}
	if found {
		t.Error("Expected no private chat yet")
	}

	chatID, _ := testStore.CreatePrivateChat("alice", "bob")

	foundID, found, err := testStore.FindPrivateChatBetween("bob", "alice")
	if err != nil {
		t.Fatalf("FindPrivateChatBetween failed: %v", err)
	}
	if !found || foundID != chatID {
		t.Errorf("Expected to find chat %d, got %d (found=%v)", chatID, foundID, found)
	}

	// A group chat with both members must not count as a private chat
	groupID, _ := testStore.CreateGroupChat("Group", "alice")
	testStore.InsertMembership(groupID, "bob")
	foundID, found, _ = testStore.FindPrivateChatBetween("alice", "bob")
	if !found || foundID != chatID {
		t.Errorf("Expected private chat %d, got %d", chatID, foundID)
	}
}

func TestInsertMembershipDuplicate(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")
	mustCreateUser(t, "bob")
	chatID, _ := testStore.CreateGroupChat("Group", "alice")

	if err := testStore.InsertMembership(chatID, "bob"); err != nil {
		t.Fatalf("Failed to insert membership: %v", err)
	}
	err := testStore.InsertMembership(chatID, "bob")
	if !errors.Is(err, domain.ErrAlreadyMember) {
		t.Errorf("Expected ErrAlreadyMember, got %v", err)
	}
}

func TestRemoveMembershipKeepsChat(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")
	mustCreateUser(t, "bob")
	chatID, _ := testStore.CreateGroupChat("Group", "alice")
	testStore.InsertMembership(chatID, "bob")
	testStore.AppendMessage(chatID, "alice", "hello", false)

	remaining, err := testStore.RemoveMembership(chatID, "bob")
	if err != nil {
		t.Fatalf("RemoveMembership failed: %v", err)
	}
	if remaining != 1 {
		t.Errorf("Expected 1 remaining member, got %d", remaining)
	}

	// Chat and history survive
	if _, err := testStore.ChatIsGroup(chatID); err != nil {
		t.Errorf("Expected chat to still exist, got %v", err)
	}
	messages, _ := testStore.ListMessages(chatID, "alice")
	if len(messages) != 1 {
		t.Errorf("Expected history preserved, got %d messages", len(messages))
	}
}

func TestRemoveMembershipCascadesWhenEmpty(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")
	mustCreateUser(t, "bob")
	chatID, _ := testStore.CreateGroupChat("Group", "alice")
	testStore.AppendMessage(chatID, "alice", "hello", false)
	testStore.CreateRequest(chatID, "alice", "bob")

	remaining, err := testStore.RemoveMembership(chatID, "alice")
	if err != nil {
		t.Fatalf("RemoveMembership failed: %v", err)
	}
	if remaining != 0 {
		t.Errorf("Expected 0 remaining members, got %d", remaining)
	}

	// Chat, messages, and requests are all gone
	if _, err := testStore.ChatIsGroup(chatID); !errors.Is(err, domain.ErrChatNotFound) {
		t.Errorf("Expected ErrChatNotFound, got %v", err)
	}
	var count int
	testStore.db.QueryRow("SELECT COUNT(*) FROM messages WHERE chat_id = ?", chatID).Scan(&count)
	if count != 0 {
		t.Errorf("Expected 0 messages, got %d", count)
	}
	testStore.db.QueryRow("SELECT COUNT(*) FROM requests WHERE chat_id = ?", chatID).Scan(&count)
	if count != 0 {
		t.Errorf("Expected 0 requests, got %d", count)
	}
}

func TestCascadeDeleteChat(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")
	chatID, _ := testStore.CreateGroupChat("Group", "alice")
	testStore.AppendMessage(chatID, "alice", "hello", false)

	if err := testStore.CascadeDeleteChat(chatID); err != nil {
		t.Fatalf("CascadeDeleteChat failed: %v", err)
	}

	if _, err := testStore.ChatIsGroup(chatID); !errors.Is(err, domain.ErrChatNotFound) {
		t.Errorf("Expected ErrChatNotFound, got %v", err)
	}
	isMember, _ := testStore.MembershipExists(chatID, "alice")
	if isMember {
		t.Error("Expected membership to be deleted")
	}
}

func TestListChatsForUser(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	mustCreateUser(t, "alice")
	mustCreateUser(t, "bob")
	mustCreateUser(t, "carol")

	first, _ := testStore.CreateGroupChat("First", "alice")
	testStore.InsertMembership(first, "bob")
	second, _ := testStore.CreateGroupChat("Second", "alice")
	testStore.InsertMembership(second, "carol")

	// Not alice's chat
	testStore.CreateGroupChat("Other", "bob")

	// A message in the older chat moves it to the front. CURRENT_TIMESTAMP
	// only has second resolution, so push send_at clearly past creation.
	testStore.AppendMessage(first, "bob", "ping", false)
	testStore.db.Exec("UPDATE messages SET send_at = datetime('now', '+1 hour') WHERE chat_id = ?", first)

	chats, err := testStore.ListChatsForUser("alice")
	if err != nil {
		t.Fatalf("ListChatsForUser failed: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("Expected 2 chats, got %d", len(chats))
	}
	if chats[0].ID != first {
		t.Errorf("Expected chat %d first, got %d", first, chats[0].ID)
	}

	// Participant lists exclude the caller
	if len(chats[0].Participants) != 1 || chats[0].Participants[0] != "bob" {
		t.Errorf("Expected participants [bob], got %v", chats[0].Participants)
	}
}

func TestChatIsGroupNotFound(t *testing.T) {
	SetupTestDB(t)
	defer TeardownTestDB()

	_, err := testStore.ChatIsGroup(999)
	if !errors.Is(err, domain.ErrChatNotFound) {
		t.Errorf("Expected ErrChatNotFound, got %v", err)
	}
}
