// Package chat implements the membership lifecycle (groups, invitations,
// private chats) and the message pipeline that persists a message and fans it
// out to live connections.
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/plarkin/chatline/internal/domain"
	"github.com/plarkin/chatline/internal/models"
	"github.com/plarkin/chatline/internal/store"
)

// Broadcaster pushes a payload to every live connection of the listed users.
// It is best-effort: users without a connection are skipped and no delivery
// is ever acknowledged.
type Broadcaster interface {
	BroadcastTo(usernames []string, payload []byte)
}

type Service struct {
	store       store.Store
	broadcaster Broadcaster
}

func NewService(st store.Store, b Broadcaster) *Service {
	return &Service{store: st, broadcaster: b}
}

// CreateGroup creates a group chat with creator as its only member and issues
// an invitation to every other listed participant. It returns the chat id and
// the invitees that don't exist.
func (s *Service) CreateGroup(creator, name string, participants []string) (int64, []string, error) {
	chatID, err := s.store.CreateGroupChat(name, creator)
	if err != nil {
		return 0, nil, err
	}

	seen := map[string]bool{creator: true}
	var invitees []string
	for _, p := range participants {
		if seen[p] {
			continue
		}
		seen[p] = true
		invitees = append(invitees, p)
	}

	var notFound []string
	if len(invitees) > 0 {
		notFound, err = s.Invite(chatID, creator, invitees)
		if err != nil {
			return 0, nil, err
		}
	}

	if _, err := s.SendMessage(chatID, creator, fmt.Sprintf("%s created the group", creator), true); err != nil {
		return 0, nil, err
	}
	return chatID, notFound, nil
}

// CreatePrivateChat is idempotent: if a private chat between the pair already
// exists its id is returned with alreadyExists set.
func (s *Service) CreatePrivateChat(creator, other string) (int64, bool, error) {
	exists, err := s.store.UserExists(other)
	if err != nil {
		return 0, false, err
	}
	if !exists {
		return 0, false, domain.ErrUserNotFound
	}

	if chatID, found, err := s.store.FindPrivateChatBetween(creator, other); err != nil {
		return 0, false, err
	} else if found {
		return chatID, true, nil
	}

	chatID, err := s.store.CreatePrivateChat(creator, other)
	if err != nil {
		return 0, false, err
	}

	msg := fmt.Sprintf("%s started a private chat with %s", creator, other)
	if _, err := s.SendMessage(chatID, creator, msg, true); err != nil {
		return 0, false, err
	}
	return chatID, false, nil
}

// Invite creates a pending request for every listed user that exists and is
// not already a member. It returns the usernames that don't exist; when no
// request at all could be created the whole operation fails with
// ErrUserNotFound.
func (s *Service) Invite(chatID int64, fromUser string, toUsers []string) ([]string, error) {
	isGroup, err := s.store.ChatIsGroup(chatID)
	if err != nil {
		return nil, err
	}
	if !isGroup {
		return nil, domain.ErrChatNotFound
	}

	isMember, err := s.store.MembershipExists(chatID, fromUser)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, domain.ErrNotAMember
	}

	var notFound []string
	created := false
	for _, toUser := range toUsers {
		exists, err := s.store.UserExists(toUser)
		if err != nil {
			return nil, err
		}
		if !exists {
			notFound = append(notFound, toUser)
			continue
		}

		ok, err := s.store.CreateRequest(chatID, fromUser, toUser)
		if errors.Is(err, domain.ErrAlreadyMember) {
			// Already in the group: skip silently, no duplicate request.
			continue
		}
		if err != nil {
			return nil, err
		}
		if ok {
			created = true
		}
	}

	if !created {
		return notFound, domain.ErrUserNotFound
	}
	return notFound, nil
}

// AcceptInvite turns a pending request into a membership. Accepting without a
// membership slot free fails with ErrAlreadyMember and changes nothing.
func (s *Service) AcceptInvite(chatID int64, username string) error {
	if err := s.store.InsertMembership(chatID, username); err != nil {
		return err
	}
	if _, err := s.SendMessage(chatID, username, fmt.Sprintf("%s joined the group", username), true); err != nil {
		return err
	}
	_, err := s.store.DeleteRequest(chatID, username)
	return err
}

// DeclineInvite deletes the pending request and reports whether one existed.
// Declining with nothing pending is not an error.
func (s *Service) DeclineInvite(chatID int64, username string) (bool, error) {
	return s.store.DeleteRequest(chatID, username)
}

// LeaveGroup removes the user from a group after recording a departure
// message. When the last member leaves, the store deletes the chat, its
// messages, and its requests in the same transaction as the removal.
func (s *Service) LeaveGroup(chatID int64, username string) error {
	isGroup, err := s.store.ChatIsGroup(chatID)
	if err != nil {
		return err
	}
	if !isGroup {
		return domain.ErrChatNotFound
	}

	isMember, err := s.store.MembershipExists(chatID, username)
	if err != nil {
		return err
	}
	if !isMember {
		return domain.ErrNotAMember
	}

	if _, err := s.SendMessage(chatID, username, fmt.Sprintf("%s has left the group", username), true); err != nil {
		return err
	}

	_, err = s.store.RemoveMembership(chatID, username)
	return err
}

// SendMessage persists the message, re-reads the canonical row, and pushes it
// to every participant's live connections. Persistence failures are returned;
// delivery is fire-and-forget and never fails the call.
func (s *Service) SendMessage(chatID int64, author, body string, isAuto bool) (*models.Message, error) {
	message, err := s.store.AppendMessage(chatID, author, body, isAuto)
	if err != nil {
		return nil, err
	}

	participants, err := s.store.ChatParticipants(chatID)
	if err != nil {
		// The message is durable; the push is best effort.
		log.Printf("chat: participant lookup for broadcast failed: %v", err)
		return message, nil
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("chat: marshal broadcast payload: %v", err)
		return message, nil
	}

	s.broadcaster.BroadcastTo(participants, payload)
	return message, nil
}

func (s *Service) ListChats(username string) ([]models.Chat, error) {
	return s.store.ListChatsForUser(username)
}

func (s *Service) ListMessages(chatID int64, requester string) ([]models.Message, error) {
	return s.store.ListMessages(chatID, requester)
}

func (s *Service) ListRequests(username string) ([]models.Request, error) {
	return s.store.ListRequestsFor(username)
}

// Participants returns the member list of a chat the requester belongs to.
func (s *Service) Participants(chatID int64, requester string) ([]string, error) {
	isMember, err := s.store.MembershipExists(chatID, requester)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, domain.ErrNotAMember
	}
	return s.store.ChatParticipants(chatID)
}
