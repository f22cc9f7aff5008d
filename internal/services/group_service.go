package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harshaaa-5/aivy-1/internal/models"
	"github.com/harshaaa-5/aivy-1/internal/realtime"
	"github.com/harshaaa-5/aivy-1/internal/repository"
	"github.com/rs/zerolog/log"
)

// GroupService layers the realtime fan-out on top of group persistence:
// messages posted over HTTP still reach connected group members immediately.
type GroupService struct {
	repo *repository.GroupRepository
	hub  *realtime.Hub
}

func NewGroupService(repo *repository.GroupRepository, hub *realtime.Hub) *GroupService {
	return &GroupService{repo: repo, hub: hub}
}

func (s *GroupService) Create(ctx context.Context, g *models.StudyGroup) error {
	if err := s.repo.Create(g); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("owner_id", g.OwnerID.String()).Msg("Failed to create study group")
		return fmt.Errorf("create study group: %w", err)
	}
	return nil
}

func (s *GroupService) Join(ctx context.Context, groupID, userID uuid.UUID) error {
	if err := s.repo.AddMember(groupID, userID); err != nil {
		return fmt.Errorf("join study group: %w", err)
	}
	return nil
}

func (s *GroupService) Leave(ctx context.Context, groupID, userID uuid.UUID) error {
	if err := s.repo.RemoveMember(groupID, userID); err != nil {
		return fmt.Errorf("leave study group: %w", err)
	}
	return nil
}

// PostMessage persists a chat message and relays it to the group's room as a
// collaboration-update of type "chat-message".
func (s *GroupService) PostMessage(ctx context.Context, m *models.GroupMessage) error {
	ok, err := s.repo.IsMember(m.GroupID, m.UserID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !ok {
		return repository.ErrNotAMember
	}

	if err := s.repo.CreateMessage(m); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("group_id", m.GroupID.String()).Msg("Failed to store group message")
		return fmt.Errorf("store group message: %w", err)
	}

	content, _ := json.Marshal(map[string]string{"messageId": m.ID.String(), "text": m.Content})
	s.hub.PublishToRoom(realtime.GroupRoom(m.GroupID), realtime.Outbound(
		realtime.KindCollaborationUpdate,
		realtime.CollaborationUpdatePayload{
			UserID:     m.UserID,
			UpdateType: "chat-message",
			Content:    content,
			Timestamp:  time.Now(),
		},
	))
	return nil
}

func (s *GroupService) Messages(ctx context.Context, groupID uuid.UUID, limit int) ([]models.GroupMessage, error) {
	msgs, err := s.repo.ListMessages(groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("list group messages: %w", err)
	}
	return msgs, nil
}
