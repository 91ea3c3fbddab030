package database

import (
	"fmt"

	"clinic-booking-api/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migrate creates the schema and seeds the fixed reference data: roles,
// the admin account, the sample doctor directory and the chat knowledge
// table. Seeding is idempotent.
func Migrate(db *gorm.DB, adminEmail, adminPassword string) error {
	if err := db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Doctor{},
		&entity.Appointment{},
		&entity.ChatRule{},
		&entity.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := seedRoles(db); err != nil {
		return err
	}
	if err := seedAdmin(db, adminEmail, adminPassword); err != nil {
		return err
	}
	if err := seedDoctors(db); err != nil {
		return err
	}
	if err := seedChatRules(db); err != nil {
		return err
	}

	logrus.Info("Database migration and seeding complete")
	return nil
}

func seedRoles(db *gorm.DB) error {
	roles := []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin, Description: "Clinic administrator"},
		{ID: entity.RoleIDUser, RoleName: entity.RoleUser, Description: "Patient"},
	}
	for _, role := range roles {
		if err := db.Where("id = ?", role.ID).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", role.RoleName, err)
		}
	}
	return nil
}

func seedAdmin(db *gorm.DB, email, password string) error {
	if email == "" {
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &entity.User{
		Email:    email,
		Password: string(hashed),
		FullName: "Admin",
		RoleID:   entity.RoleIDAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	logrus.Infof("Seeded admin account %s", email)
	return nil
}

func seedDoctors(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.Doctor{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count doctors: %w", err)
	}
	if count > 0 {
		return nil
	}

	doctors := []entity.Doctor{
		{Name: "Dr. Sarah Wilson", Specialization: "Cardiologist", AvailableDays: "Mon, Wed, Fri", TimeSlots: "9:00 AM - 12:00 PM, 2:00 PM - 5:00 PM"},
		{Name: "Dr. Michael Chen", Specialization: "Dentist", AvailableDays: "Tue, Thu, Sat", TimeSlots: "10:00 AM - 1:00 PM, 3:00 PM - 6:00 PM"},
		{Name: "Dr. Emily Johnson", Specialization: "Pediatrician", AvailableDays: "Mon, Tue, Wed, Thu, Fri", TimeSlots: "8:00 AM - 4:00 PM"},
		{Name: "Dr. Robert Brown", Specialization: "Orthopedic Surgeon", AvailableDays: "Mon, Wed, Fri", TimeSlots: "10:00 AM - 2:00 PM, 4:00 PM - 7:00 PM"},
		{Name: "Dr. Priya Sharma", Specialization: "Gynecologist", AvailableDays: "Tue, Thu, Sat", TimeSlots: "9:00 AM - 1:00 PM, 3:00 PM - 6:00 PM"},
		{Name: "Dr. David Lee", Specialization: "Dermatologist", AvailableDays: "Mon, Wed, Fri", TimeSlots: "11:00 AM - 3:00 PM, 5:00 PM - 8:00 PM"},
		{Name: "Dr. James Miller", Specialization: "General Physician", AvailableDays: "Mon-Sat", TimeSlots: "9:00 AM - 1:00 PM, 4:00 PM - 7:00 PM"},
	}
	if err := db.Create(&doctors).Error; err != nil {
		return fmt.Errorf("seed doctors: %w", err)
	}

	logrus.Infof("Seeded %d sample doctors", len(doctors))
	return nil
}

func seedChatRules(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.ChatRule{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count chat rules: %w", err)
	}
	if count > 0 {
		return nil
	}

	rules := []entity.ChatRule{
		{Keywords: "book,appointment,schedule", Response: "To book an appointment, open the Doctors page, pick a doctor and choose a date and time. You will get an email once it is confirmed.", Priority: 10},
		{Keywords: "cancel,cancellation", Response: "You can cancel any upcoming appointment from your dashboard. The slot becomes available again immediately.", Priority: 10},
		{Keywords: "hours,open,timing,time", Response: "The clinic is open Monday to Saturday, 8:00 AM to 8:00 PM. Individual doctor hours are listed on the Doctors page.", Priority: 20},
		{Keywords: "doctor,specialist,specialization", Response: "Our directory covers cardiology, dentistry, pediatrics, orthopedics, gynecology, dermatology and general medicine.", Priority: 20},
		{Keywords: "fee,cost,price,payment", Response: "Consultation fees depend on the doctor and are settled at the clinic. We accept cash and all major cards.", Priority: 30},
		{Keywords: "location,address,where", Response: "We are at 12 Harbor Street, opposite the central bus station. Parking is available on site.", Priority: 30},
		{Keywords: "emergency", Response: "For medical emergencies please call 112 or go to the nearest emergency room. This chat cannot handle emergencies.", Priority: 1},
		{Keywords: "hello,hi,hey", Response: "Hello! Ask me about booking appointments, our doctors, clinic hours or directions.", Priority: 90},
	}
	if err := db.Create(&rules).Error; err != nil {
		return fmt.Errorf("seed chat rules: %w", err)
	}

	logrus.Infof("Seeded %d chat rules", len(rules))
	return nil
}
