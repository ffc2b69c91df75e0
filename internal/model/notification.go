package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind is the closed set of severities a notification can carry.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyWarning NotificationKind = "warning"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notification is derived client-side as a side effect of recording a sale
// and lives only in the local cache; the server never sees it.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	Read      bool             `json:"read"` // Monotonic: false -> true only
	CreatedAt time.Time        `json:"created_at"`
}
