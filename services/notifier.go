package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/nivedh-git/attendsysbackend/models"
	"github.com/nivedh-git/attendsysbackend/repository"
)

// Notifier delivers a message to an identity. Delivery is best-effort: a
// failed notification is logged by the caller and never fails the attendance
// write it accompanies.
type Notifier interface {
	Notify(identityID uint, title, message, severity string) error
}

// StoreNotifier persists notifications to the notifications table
type StoreNotifier struct {
	Repo repository.NotificationRepositoryInterface
}

// NewStoreNotifier creates a notifier backed by the notification repository
func NewStoreNotifier(repo repository.NotificationRepositoryInterface) *StoreNotifier {
	return &StoreNotifier{Repo: repo}
}

func (n *StoreNotifier) Notify(identityID uint, title, message, severity string) error {
	return n.Repo.Create(&models.Notification{
		IdentityID: identityID,
		Title:      title,
		Message:    message,
		Severity:   severity,
	})
}

// RedisNotifier publishes notifications as JSON events on a Redis channel
// for realtime subscribers (dashboards, kiosk displays)
type RedisNotifier struct {
	Client  *redis.Client
	Channel string
}

// NewRedisNotifier creates a notifier publishing to the given channel
func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{Client: client, Channel: channel}
}

type notificationEvent struct {
	IdentityID uint   `json:"identity_id"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	Timestamp  int64  `json:"timestamp"`
}

func (n *RedisNotifier) Notify(identityID uint, title, message, severity string) error {
	payload, err := json.Marshal(notificationEvent{
		IdentityID: identityID,
		Title:      title,
		Message:    message,
		Severity:   severity,
		Timestamp:  time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := n.Client.Publish(ctx, n.Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification for identity %d: %w", identityID, err)
	}
	return nil
}

// MultiNotifier fans a notification out to several notifiers. One sink
// failing does not stop the others; failures are logged and swallowed so
// callers see best-effort semantics from a single Notify call.
type MultiNotifier struct {
	Notifiers []Notifier
}

// NewMultiNotifier creates a notifier that delivers to every given sink
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{Notifiers: notifiers}
}

func (n *MultiNotifier) Notify(identityID uint, title, message, severity string) error {
	for _, notifier := range n.Notifiers {
		if err := notifier.Notify(identityID, title, message, severity); err != nil {
			log.Printf("Warning: notification sink %T failed for identity %d: %v", notifier, identityID, err)
		}
	}
	return nil
}
