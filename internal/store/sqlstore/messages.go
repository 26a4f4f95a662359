package sqlstore

import (
	"github.com/plarkin/chatline/internal/domain"
	"github.com/plarkin/chatline/internal/models"
)

// AppendMessage stores a message and returns the canonical row, with the
// server-assigned id and timestamp. The author must hold a membership at
// insertion time; the check and the insert share one transaction.
func (s *SQLStore) AppendMessage(chatID int64, author, body string, isAuto bool) (*models.Message, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, domain.Storage("append message", err)
	}
	defer tx.Rollback()

	var isMember bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM memberships WHERE chat_id = ? AND username = ?)")
	if err := tx.QueryRow(query, chatID, author).Scan(&isMember); err != nil {
		return nil, domain.Storage("append message", err)
	}
	if !isMember {
		return nil, domain.ErrNotAMember
	}

	message := &models.Message{
		ChatID:   chatID,
		FromUser: author,
		Msg:      body,
		IsAuto:   isAuto,
	}
	query = s.rebind("INSERT INTO messages (chat_id, from_user, msg, is_auto) VALUES (?, ?, ?, ?) RETURNING id, send_at")
	if err := tx.QueryRow(query, chatID, author, body, isAuto).Scan(&message.ID, &message.SendAt); err != nil {
		return nil, domain.Storage("append message", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.Storage("append message", err)
	}
	return message, nil
}

func (s *SQLStore) ListMessages(chatID int64, requester string) ([]models.Message, error) {
	isMember, err := s.MembershipExists(chatID, requester)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, domain.ErrNotAMember
	}

	query := s.rebind("SELECT id, chat_id, from_user, msg, is_auto, send_at FROM messages WHERE chat_id = ? ORDER BY id ASC")
	rows, err := s.db.Query(query, chatID)
	if err != nil {
		return nil, domain.Storage("list messages", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.FromUser, &m.Msg, &m.IsAuto, &m.SendAt); err != nil {
			return nil, domain.Storage("list messages", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
