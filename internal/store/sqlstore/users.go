package sqlstore

import (
	"database/sql"
	"errors"

	"github.com/plarkin/chatline/internal/domain"
	"github.com/plarkin/chatline/internal/models"
)

func (s *SQLStore) CreateUser(user *models.User) error {
	exists, err := s.UserExists(user.Username)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrUsernameExists
	}

	query := s.rebind("INSERT INTO users (username, name, surname, password) VALUES (?, ?, ?, ?)")
	if _, err := s.db.Exec(query, user.Username, user.Name, user.Surname, user.Password); err != nil {
		return domain.Storage("create user", err)
	}
	return nil
}

func (s *SQLStore) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	query := s.rebind("SELECT username, name, surname, password FROM users WHERE username = ?")
	err := s.db.QueryRow(query, username).Scan(&user.Username, &user.Name, &user.Surname, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, domain.Storage("get user", err)
	}
	return &user, nil
}

func (s *SQLStore) UserExists(username string) (bool, error) {
	var exists bool
	query := s.rebind("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)")
	if err := s.db.QueryRow(query, username).Scan(&exists); err != nil {
		return false, domain.Storage("user exists", err)
	}
	return exists, nil
}

func (s *SQLStore) SearchUsers(queryStr string) ([]models.User, error) {
	query := s.rebind("SELECT username, name, surname FROM users WHERE username LIKE ? ORDER BY username LIMIT 10")
	rows, err := s.db.Query(query, queryStr+"%")
	if err != nil {
		return nil, domain.Storage("search users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.Username, &user.Name, &user.Surname); err != nil {
			return nil, domain.Storage("search users", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
