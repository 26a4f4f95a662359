package sqlstore

import (
	"github.com/plarkin/chatline/internal/domain"
	"github.com/plarkin/chatline/internal/models"
)

// CreateRequest records a pending invitation. It reports whether a new
// request was created: an identical pending request is left alone, and a
// request can never coexist with a membership for the same pair.
func (s *SQLStore) CreateRequest(chatID int64, fromUser, toUser string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, domain.Storage("create request", err)
	}
	defer tx.Rollback()

	var isMember bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM memberships WHERE chat_id = ? AND username = ?)")
	if err := tx.QueryRow(query, chatID, toUser).Scan(&isMember); err != nil {
		return false, domain.Storage("create request", err)
	}
	if isMember {
		return false, domain.ErrAlreadyMember
	}

	var pending bool
	query = s.rebind("SELECT EXISTS(SELECT 1 FROM requests WHERE chat_id = ? AND to_user = ?)")
	if err := tx.QueryRow(query, chatID, toUser).Scan(&pending); err != nil {
		return false, domain.Storage("create request", err)
	}
	if pending {
		return false, nil
	}

	query = s.rebind("INSERT INTO requests (chat_id, from_user, to_user) VALUES (?, ?, ?)")
	if _, err := tx.Exec(query, chatID, fromUser, toUser); err != nil {
		return false, domain.Storage("create request", err)
	}

	if err := tx.Commit(); err != nil {
		return false, domain.Storage("create request", err)
	}
	return true, nil
}

// DeleteRequest reports whether a request existed; deleting a missing request
// is not an error.
func (s *SQLStore) DeleteRequest(chatID int64, toUser string) (bool, error) {
	query := s.rebind("DELETE FROM requests WHERE chat_id = ? AND to_user = ?")
	res, err := s.db.Exec(query, chatID, toUser)
	if err != nil {
		return false, domain.Storage("delete request", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, domain.Storage("delete request", err)
	}
	return affected > 0, nil
}

func (s *SQLStore) ListRequestsFor(username string) ([]models.Request, error) {
	query := s.rebind(`
		SELECT r.chat_id, r.from_user, c.name
		FROM requests r
		JOIN chats c ON r.chat_id = c.id
		WHERE r.to_user = ?
		ORDER BY r.chat_id
	`)
	rows, err := s.db.Query(query, username)
	if err != nil {
		return nil, domain.Storage("list requests", err)
	}
	defer rows.Close()

	var requests []models.Request
	for rows.Next() {
		var r models.Request
		if err := rows.Scan(&r.ChatID, &r.FromUser, &r.ChatName); err != nil {
			return nil, domain.Storage("list requests", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
