package store

import "github.com/plarkin/chatline/internal/models"

// Store is the durable membership and message store. Every multi-statement
// operation runs as a single transaction; the invariants (membership
// uniqueness, private-chat cardinality, group non-emptiness, request
// exclusivity) are enforced here, not by a second locking layer above.
type Store interface {
	// User operations
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
	UserExists(username string) (bool, error)
	SearchUsers(query string) ([]models.User, error)

	// Chat and membership operations
	CreateGroupChat(name, creator string) (int64, error)
	CreatePrivateChat(userA, userB string) (int64, error)
	ChatIsGroup(chatID int64) (bool, error)
	MembershipExists(chatID int64, username string) (bool, error)
	InsertMembership(chatID int64, username string) error
	// RemoveMembership deletes the membership and returns how many remain.
	// When the last one goes, the chat, its messages, and its requests are
	// cascade-deleted inside the same transaction.
	RemoveMembership(chatID int64, username string) (int64, error)
	CascadeDeleteChat(chatID int64) error
	FindPrivateChatBetween(userA, userB string) (int64, bool, error)
	ListChatsForUser(username string) ([]models.Chat, error)
	ChatParticipants(chatID int64) ([]string, error)

	// Message operations
	AppendMessage(chatID int64, author, body string, isAuto bool) (*models.Message, error)
	ListMessages(chatID int64, requester string) ([]models.Message, error)

	// Request operations
	CreateRequest(chatID int64, fromUser, toUser string) (bool, error)
	DeleteRequest(chatID int64, toUser string) (bool, error)
	ListRequestsFor(username string) ([]models.Request, error)
}
