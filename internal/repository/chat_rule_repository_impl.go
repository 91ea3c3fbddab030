package repository

import (
	"clinic-booking-api/internal/domain/entity"
	domainRepo "clinic-booking-api/internal/domain/repository"

	"gorm.io/gorm"
)

type chatRuleRepository struct{}

func NewChatRuleRepository() domainRepo.ChatRuleRepository {
	return &chatRuleRepository{}
}

func (r *chatRuleRepository) FindAllOrdered(db *gorm.DB) ([]entity.ChatRule, error) {
	var rules []entity.ChatRule
	err := db.Order("priority, id").Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
