package service

import (
	"sync"

	"clinic-booking-api/config"

	"github.com/go-gomail/gomail"
	"github.com/sirupsen/logrus"
)

// Notification is one outbound email: recipient address and display
// name, subject, plain-text body.
type Notification struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// MailSender delivers a single notification. Implementations must be
// safe for use from the dispatch worker goroutine.
type MailSender interface {
	Send(n Notification) error
}

type gomailSender struct {
	cfg config.SMTPConfig
}

func (s *gomailSender) Send(n Notification) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetAddressHeader("To", n.To, n.ToName)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", n.Body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}

// NewMailSender returns a gomail-backed sender, or a log-only stub when
// no SMTP host is configured (local development).
func NewMailSender(cfg config.SMTPConfig, log *logrus.Logger) MailSender {
	if cfg.Host == "" {
		return &stubSender{log: log}
	}
	return &gomailSender{cfg: cfg}
}

type stubSender struct {
	log *logrus.Logger
}

func (s *stubSender) Send(n Notification) error {
	s.log.Infof("SMTP not configured, dropping mail to=%s subject=%q", n.To, n.Subject)
	return nil
}

const notificationQueueSize = 256

// NotificationService dispatches emails fire-and-forget. Dispatch never
// blocks the caller and delivery failures are logged, never returned:
// a lost notification must not fail or roll back the booking or status
// update that triggered it.
type NotificationService struct {
	log    *logrus.Logger
	sender MailSender

	queue chan Notification
	wg    sync.WaitGroup

	// mu orders Dispatch's send against Stop's close of the queue
	mu      sync.RWMutex
	stopped bool
}

// NewNotificationService starts the dispatch worker. Call Stop() during
// graceful shutdown to drain the queue.
func NewNotificationService(log *logrus.Logger, sender MailSender) *NotificationService {
	svc := &NotificationService{
		log:    log,
		sender: sender,
		queue:  make(chan Notification, notificationQueueSize),
	}

	svc.wg.Add(1)
	go svc.dispatchLoop()

	return svc
}

// Dispatch enqueues a notification. When the queue is full or the
// service is stopping the notification is dropped and logged.
// Safe to call concurrently with Stop.
func (s *NotificationService) Dispatch(n Notification) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		s.log.Warnf("Notification service stopped, dropping mail to=%s", n.To)
		return
	}

	select {
	case s.queue <- n:
	default:
		s.log.Warnf("Notification queue full, dropping mail to=%s subject=%q", n.To, n.Subject)
	}
}

// Stop closes the queue and waits for the worker to drain it.
// Safe to call multiple times.
func (s *NotificationService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("NotificationService stopped")
}

func (s *NotificationService) dispatchLoop() {
	defer s.wg.Done()

	for n := range s.queue {
		if err := s.sender.Send(n); err != nil {
			s.log.Warnf("Failed to send mail to=%s subject=%q (non-fatal): %+v", n.To, n.Subject, err)
			continue
		}
		s.log.Debugf("Sent mail to=%s subject=%q", n.To, n.Subject)
	}
}
