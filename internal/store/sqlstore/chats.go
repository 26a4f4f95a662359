package sqlstore

import (
	"database/sql"
	"errors"

	"github.com/plarkin/chatline/internal/domain"
	"github.com/plarkin/chatline/internal/models"
)

func (s *SQLStore) CreateGroupChat(name, creator string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, domain.Storage("create group chat", err)
	}
	defer tx.Rollback()

	var chatID int64
	query := s.rebind("INSERT INTO chats (name, is_group) VALUES (?, TRUE) RETURNING id")
	if err := tx.QueryRow(query, name).Scan(&chatID); err != nil {
		return 0, domain.Storage("create group chat", err)
	}

	query = s.rebind("INSERT INTO memberships (chat_id, username) VALUES (?, ?)")
	if _, err := tx.Exec(query, chatID, creator); err != nil {
		return 0, domain.Storage("create group chat", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.Storage("create group chat", err)
	}
	return chatID, nil
}

func (s *SQLStore) CreatePrivateChat(userA, userB string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, domain.Storage("create private chat", err)
	}
	defer tx.Rollback()

	var chatID int64
	query := s.rebind("INSERT INTO chats (is_group) VALUES (FALSE) RETURNING id")
	if err := tx.QueryRow(query).Scan(&chatID); err != nil {
		return 0, domain.Storage("create private chat", err)
	}

	query = s.rebind("INSERT INTO memberships (chat_id, username) VALUES (?, ?), (?, ?)")
	if _, err := tx.Exec(query, chatID, userA, chatID, userB); err != nil {
		return 0, domain.Storage("create private chat", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.Storage("create private chat", err)
	}
	return chatID, nil
}

func (s *SQLStore) ChatIsGroup(chatID int64) (bool, error) {
	var isGroup bool
	query := s.rebind("SELECT is_group FROM chats WHERE id = ?")
	err := s.db.QueryRow(query, chatID).Scan(&isGroup)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrChatNotFound
	}
	if err != nil {
		return false, domain.Storage("chat lookup", err)
	}
	return isGroup, nil
}

func (s *SQLStore) MembershipExists(chatID int64, username string) (bool, error) {
	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM memberships WHERE chat_id = ? AND username = ?)")
	if err := s.db.QueryRow(query, chatID, username).Scan(&exists); err != nil {
		return false, domain.Storage("membership exists", err)
	}
	return exists, nil
}

func (s *SQLStore) InsertMembership(chatID int64, username string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.Storage("insert membership", err)
	}
	defer tx.Rollback()

	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM memberships WHERE chat_id = ? AND username = ?)")
	if err := tx.QueryRow(query, chatID, username).Scan(&exists); err != nil {
		return domain.Storage("insert membership", err)
	}
	if exists {
		return domain.ErrAlreadyMember
	}

	query = s.rebind("INSERT INTO memberships (chat_id, username) VALUES (?, ?)")
	if _, err := tx.Exec(query, chatID, username); err != nil {
		return domain.Storage("insert membership", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Storage("insert membership", err)
	}
	return nil
}

// RemoveMembership deletes one membership and returns the number that remain.
// When the count hits zero the chat, its messages, and its requests are
// removed in the same transaction, so the chat row never outlives an empty
// membership set.
func (s *SQLStore) RemoveMembership(chatID int64, username string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, domain.Storage("remove membership", err)
	}
	defer tx.Rollback()

	query := s.rebind("DELETE FROM memberships WHERE chat_id = ? AND username = ?")
	if _, err := tx.Exec(query, chatID, username); err != nil {
		return 0, domain.Storage("remove membership", err)
	}

	var remaining int64
	query = s.rebind("SELECT COUNT(*) FROM memberships WHERE chat_id = ?")
	if err := tx.QueryRow(query, chatID).Scan(&remaining); err != nil {
		return 0, domain.Storage("remove membership", err)
	}

	if remaining == 0 {
		if err := s.cascadeDeleteChatTx(tx, chatID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, domain.Storage("remove membership", err)
	}
	return remaining, nil
}

func (s *SQLStore) CascadeDeleteChat(chatID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.Storage("cascade delete chat", err)
	}
	defer tx.Rollback()

	if err := s.cascadeDeleteChatTx(tx, chatID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.Storage("cascade delete chat", err)
	}
	return nil
}

func (s *SQLStore) cascadeDeleteChatTx(tx *sql.Tx, chatID int64) error {
	for _, stmt := range []string{
		"DELETE FROM messages WHERE chat_id = ?",
		"DELETE FROM requests WHERE chat_id = ?",
		"DELETE FROM memberships WHERE chat_id = ?",
		"DELETE FROM chats WHERE id = ?",
	} {
		if _, err := tx.Exec(s.rebind(stmt), chatID); err != nil {
			return domain.Storage("cascade delete chat", err)
		}
	}
	return nil
}

func (s *SQLStore) FindPrivateChatBetween(userA, userB string) (int64, bool, error) {
	var chatID int64
	query := s.rebind(`
		SELECT c.id
		FROM chats c
		JOIN memberships m1 ON m1.chat_id = c.id AND m1.username = ?
		JOIN memberships m2 ON m2.chat_id = c.id AND m2.username = ?
		WHERE c.is_group = FALSE
	`)
	err := s.db.QueryRow(query, userA, userB).Scan(&chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, domain.Storage("find private chat", err)
	}
	return chatID, true, nil
}

// ListChatsForUser returns the caller's chats ordered by most recent message,
// falling back to creation time for chats with no messages yet.
func (s *SQLStore) ListChatsForUser(username string) ([]models.Chat, error) {
	query := s.rebind(`
		SELECT c.id, c.name, c.is_group, c.created_at
		FROM chats c
		JOIN memberships m ON m.chat_id = c.id
		LEFT JOIN messages msg ON msg.chat_id = c.id
		WHERE m.username = ?
		GROUP BY c.id, c.name, c.is_group, c.created_at
		ORDER BY COALESCE(MAX(msg.send_at), c.created_at) DESC
	`)
	rows, err := s.db.Query(query, username)
	if err != nil {
		return nil, domain.Storage("list chats", err)
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(&chat.ID, &chat.Name, &chat.IsGroup, &chat.CreatedAt); err != nil {
			return nil, domain.Storage("list chats", err)
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("list chats", err)
	}

	for i := range chats {
		participants, err := s.ChatParticipants(chats[i].ID)
		if err != nil {
			return nil, err
		}
		others := make([]string, 0, len(participants))
		for _, p := range participants {
			if p != username {
				others = append(others, p)
			}
		}
		chats[i].Participants = others
	}
	return chats, nil
}

func (s *SQLStore) ChatParticipants(chatID int64) ([]string, error) {
	query := s.rebind("SELECT username FROM memberships WHERE chat_id = ? ORDER BY username")
	rows, err := s.db.Query(query, chatID)
	if err != nil {
		return nil, domain.Storage("chat participants", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, domain.Storage("chat participants", err)
		}
		usernames = append(usernames, username)
	}
	return usernames, rows.Err()
}
