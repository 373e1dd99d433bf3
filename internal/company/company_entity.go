package company

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionTrial     = "TRIAL"
	SubscriptionActive    = "ACTIVE"
	SubscriptionExpired   = "EXPIRED"
	SubscriptionCancelled = "CANCELLED"
)

type Company struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name               string         `gorm:"type:varchar(150);not null"`
	Email              string         `gorm:"type:varchar(255);index"`
	IsActive           bool           `gorm:"not null;default:true"`
	SubscriptionStatus string         `gorm:"type:varchar(20);not null;default:'TRIAL';index"`
	SubscriptionEndsAt *time.Time     `gorm:"index"`
	CreatedAt          time.Time      `gorm:"not null;default:now()"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (Company) TableName() string {
	return "companies"
}

// HasActiveSubscription: an enabled company on a trial or paid plan whose
// end date, if any, is still ahead of now.
func (c Company) HasActiveSubscription(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.SubscriptionStatus != SubscriptionActive && c.SubscriptionStatus != SubscriptionTrial {
		return false
	}
	return c.SubscriptionEndsAt == nil || c.SubscriptionEndsAt.After(now)
}
