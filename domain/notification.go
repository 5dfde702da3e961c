package domain

type NotificationType string

const (
	NotificationTypeMessage     NotificationType = "message"
	NotificationTypeOrder       NotificationType = "order"
	NotificationTypeReservation NotificationType = "reservation"
)

// Notification is a record in the per-user feed. Created by a trigger,
// marked read by the client.
type Notification struct {
	Id      string            `bson:"_id" json:"id"`
	UserId  string            `bson:"userId" json:"userId"`
	Title   string            `bson:"title" json:"title"`
	Message string            `bson:"message" json:"message"`
	Type    NotificationType  `bson:"type" json:"type"`
	Data    map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	Read    bool              `bson:"read" json:"read"`
	Created int64             `bson:"created" json:"createdAt"`
}
