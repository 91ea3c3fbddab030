package entity

import "time"

// Doctor represents an entry in the clinic's doctor directory.
// AvailableDays and TimeSlots are descriptive text shown to patients;
// they are never validated against booking requests.
type Doctor struct {
	ID             int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Specialization string    `gorm:"type:varchar(100);not null;index" json:"specialization"`
	AvailableDays  string    `gorm:"type:varchar(255);not null" json:"available_days"`
	TimeSlots      string    `gorm:"type:varchar(255);not null" json:"time_slots"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}
