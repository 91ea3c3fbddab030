package usecase

import (
	"context"
	"strings"

	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// fallbackReply is returned when no rule keyword matches the message
const fallbackReply = "I'm sorry, I can only answer questions about doctors, appointments and clinic hours. Please contact the front desk for anything else."

type ChatUsecase interface {
	Ask(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	chatRuleRepo repository.ChatRuleRepository
}

func NewChatUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	chatRuleRepo repository.ChatRuleRepository,
) ChatUsecase {
	return &chatUsecase{
		db:           db,
		log:          log,
		chatRuleRepo: chatRuleRepo,
	}
}

// Ask matches the message against the knowledge table, rules in priority
// order, first keyword hit wins. Not a state machine: every message is
// answered independently.
func (u *chatUsecase) Ask(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	rules, err := u.chatRuleRepo.FindAllOrdered(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load chat rules: %+v", err)
		return nil, err
	}

	lowered := strings.ToLower(req.Message)
	for _, rule := range rules {
		if rule.Matches(lowered) {
			return &dto.ChatResponse{Reply: rule.Response}, nil
		}
	}

	return &dto.ChatResponse{Reply: fallbackReply}, nil
}
