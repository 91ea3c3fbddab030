package repository

import (
	"clinic-booking-api/internal/domain/entity"

	"gorm.io/gorm"
)

type ChatRuleRepository interface {
	FindAllOrdered(db *gorm.DB) ([]entity.ChatRule, error)
}
