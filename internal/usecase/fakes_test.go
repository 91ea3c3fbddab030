package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"clinic-booking-api/internal/delivery/http/middleware"
	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Test scaffolding shared by the usecase tests: in-memory repository
// fakes plus a gorm handle backed by sqlmock so the *gorm.DB plumbing
// stays real while no SQL is issued.

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// authedContext mimics what AuthMiddleware puts on the request context
func authedContext(userID uuid.UUID, email string) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	return context.WithValue(ctx, middleware.UserEmailKey, email)
}

func newTestNotifier(t *testing.T) *service.NotificationService {
	t.Helper()
	svc := service.NewNotificationService(newTestLogger(), &dropSender{})
	t.Cleanup(svc.Stop)
	return svc
}

type dropSender struct{}

func (dropSender) Send(n service.Notification) error { return nil }

// slotIndexViolation mirrors what the postgres driver returns when an
// insert or update loses the race on the appointments slot index.
func slotIndexViolation() error {
	return &pgconn.PgError{
		Code:           "23505",
		ConstraintName: entity.UniqueSlotIndex,
		Message:        `duplicate key value violates unique constraint "uniq_appointment_slot"`,
	}
}

// --- appointment repository fake ---

type fakeAppointmentRepo struct {
	created []*entity.Appointment

	createErr  error
	byID       map[int]*entity.Appointment
	byUser     []entity.Appointment
	recent     []entity.Appointment
	all        []entity.Appointment
	userSlot   *entity.Appointment
	doctorSlot *entity.Appointment
	lookupErr  error

	updateAffected int64
	updateErr      error
	updatedTo      entity.AppointmentStatus

	cancelAffected int64
	cancelErr      error

	total    int64
	byStatus map[entity.AppointmentStatus]int64
}

func (f *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	appointment.ID = len(f.created) + 1
	f.created = append(f.created, appointment)
	return nil
}

func (f *fakeAppointmentRepo) FindByID(db *gorm.DB, id int) (*entity.Appointment, error) {
	return f.byID[id], nil
}

func (f *fakeAppointmentRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error) {
	return f.byUser, nil
}

func (f *fakeAppointmentRepo) FindRecent(db *gorm.DB, limit int) ([]entity.Appointment, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeAppointmentRepo) FindAll(db *gorm.DB) ([]entity.Appointment, error) {
	return f.all, nil
}

// The slot lookups honor scripted results first, then fall back to
// scanning the stored appointments with the same non-cancelled filter
// the real queries carry.
func (f *fakeAppointmentRepo) FindActiveByUserSlot(db *gorm.DB, userID uuid.UUID, date time.Time, timeOfDay string) (*entity.Appointment, error) {
	if f.userSlot != nil || f.lookupErr != nil {
		return f.userSlot, f.lookupErr
	}
	for _, a := range f.created {
		if a.UserID == userID && a.Date.Equal(date) && a.Time == timeOfDay && a.Status != entity.AppointmentStatusCancelled {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) FindActiveByDoctorSlot(db *gorm.DB, doctorID int, date time.Time, timeOfDay string) (*entity.Appointment, error) {
	if f.doctorSlot != nil || f.lookupErr != nil {
		return f.doctorSlot, f.lookupErr
	}
	for _, a := range f.created {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Time == timeOfDay && a.Status != entity.AppointmentStatusCancelled {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(db *gorm.DB, id int, status entity.AppointmentStatus) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	f.updatedTo = status
	return f.updateAffected, nil
}

func (f *fakeAppointmentRepo) CancelOwned(db *gorm.DB, id int, userID uuid.UUID) (int64, error) {
	if f.cancelErr != nil {
		return 0, f.cancelErr
	}
	for _, a := range f.created {
		if a.ID == id && a.UserID == userID && a.Status != entity.AppointmentStatusCancelled {
			a.Status = entity.AppointmentStatusCancelled
			return 1, nil
		}
	}
	return f.cancelAffected, nil
}

func (f *fakeAppointmentRepo) Count(db *gorm.DB) (int64, error) {
	return f.total, nil
}

func (f *fakeAppointmentRepo) CountByStatus(db *gorm.DB, status entity.AppointmentStatus) (int64, error) {
	return f.byStatus[status], nil
}

// --- doctor repository fake ---

type fakeDoctorRepo struct {
	doctors map[int]*entity.Doctor
	total   int64
}

func (f *fakeDoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error {
	if f.doctors == nil {
		f.doctors = map[int]*entity.Doctor{}
	}
	doctor.ID = len(f.doctors) + 1
	f.doctors[doctor.ID] = doctor
	return nil
}

func (f *fakeDoctorRepo) FindByID(db *gorm.DB, id int) (*entity.Doctor, error) {
	return f.doctors[id], nil
}

func (f *fakeDoctorRepo) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	doctors := make([]entity.Doctor, 0, len(f.doctors))
	for _, d := range f.doctors {
		doctors = append(doctors, *d)
	}
	return doctors, nil
}

func (f *fakeDoctorRepo) Update(db *gorm.DB, doctor *entity.Doctor) error {
	f.doctors[doctor.ID] = doctor
	return nil
}

func (f *fakeDoctorRepo) Delete(db *gorm.DB, id int) (int64, error) {
	if _, ok := f.doctors[id]; !ok {
		return 0, nil
	}
	delete(f.doctors, id)
	return 1, nil
}

func (f *fakeDoctorRepo) Count(db *gorm.DB) (int64, error) {
	return f.total, nil
}

// --- user repository fake ---

type fakeUserRepo struct {
	createErr error
	byEmail   map[string]*entity.User
	byID      map[uuid.UUID]*entity.User
	byRole    map[int]int64
}

func (f *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return nil
}

func (f *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserRepo) CountByRole(db *gorm.DB, roleID int) (int64, error) {
	return f.byRole[roleID], nil
}

// --- role repository fake ---

type fakeRoleRepo struct {
	roles map[string]*entity.Role
}

func (f *fakeRoleRepo) FindByName(db *gorm.DB, name string) (*entity.Role, error) {
	return f.roles[name], nil
}

func seededRoles() map[string]*entity.Role {
	return map[string]*entity.Role{
		entity.RoleAdmin: {ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin},
		entity.RoleUser:  {ID: entity.RoleIDUser, RoleName: entity.RoleUser},
	}
}

// --- chat rule repository fake ---

type fakeChatRuleRepo struct {
	rules []entity.ChatRule
}

func (f *fakeChatRuleRepo) FindAllOrdered(db *gorm.DB) ([]entity.ChatRule, error) {
	return f.rules, nil
}

// --- audit log repository fake ---

type fakeAuditRepo struct {
	entries []*entity.AuditLog
}

func (f *fakeAuditRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	log.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, log)
	return nil
}

func (f *fakeAuditRepo) FindAll(db *gorm.DB) ([]entity.AuditLog, error) {
	logs := make([]entity.AuditLog, 0, len(f.entries))
	for _, l := range f.entries {
		logs = append(logs, *l)
	}
	return logs, nil
}

func (f *fakeAuditRepo) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	for _, l := range f.entries {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, nil
}

func (f *fakeAuditRepo) actions() []string {
	actions := make([]string, 0, len(f.entries))
	for _, l := range f.entries {
		actions = append(actions, l.Action)
	}
	return actions
}
