package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidEvent     = errors.New("invalid event")
)

type EventType string

const (
	EventChatMessage              EventType = "chat.message"
	EventOrderCreated             EventType = "order.created"
	EventOrderStatusChanged       EventType = "order.statusChanged"
	EventReservationCreated       EventType = "reservation.created"
	EventReservationStatusChanged EventType = "reservation.statusChanged"
)

const (
	OrderStatusCreated   = "created"
	OrderStatusPaid      = "paid"
	OrderStatusPreparing = "preparing"
	OrderStatusInTransit = "in_transit"
	OrderStatusDelivered = "delivered"
	OrderStatusCanceled  = "canceled"
	OrderStatusRefunded  = "refunded"
)

const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCompleted = "completed"
	ReservationStatusCanceled  = "canceled"
)

const (
	CanceledByCustomer = "customer"
	CanceledByBusiness = "business"
)

// Event is the wire envelope published by the write path on every relevant
// document create/update. Payload stays raw until the matching trigger parses
// it into one of the typed payloads below.
type Event struct {
	Type    EventType       `json:"type"`
	ActorId ID              `json:"actorId,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// EventPayload is a closed set: exactly one implementation per EventType.
type EventPayload interface {
	validate() error
}

// ParsePayload decodes and validates the payload for the envelope's type.
// A payload failing validation never reaches business logic.
func (e Event) ParsePayload() (EventPayload, error) {
	var p EventPayload
	switch e.Type {
	case EventChatMessage:
		p = &ChatMessage{}
	case EventOrderCreated:
		p = &OrderCreated{}
	case EventOrderStatusChanged:
		p = &OrderStatusChanged{}
	case EventReservationCreated:
		p = &ReservationCreated{}
	case EventReservationStatusChanged:
		p = &ReservationStatusChanged{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, e.Type)
	}
	if err := json.Unmarshal(e.Payload, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ID is a user, business or document identifier. The source documents are
// loosely typed, so the same id can arrive as a string or a number; ID
// accepts both and trims whitespace, so comparisons are always value-based.
type ID string

func (i ID) String() string {
	return string(i)
}

func (i *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*i = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*i = ID(n.String())
	return nil
}

type ChatMessage struct {
	ConversationId ID     `json:"conversationId"`
	MessageId      ID     `json:"messageId,omitempty"`
	SenderId       ID     `json:"senderId"`
	SenderName     string `json:"senderName,omitempty"`
	Preview        string `json:"preview,omitempty"`
}

func (m *ChatMessage) validate() error {
	if m.ConversationId == "" || m.SenderId == "" {
		return fmt.Errorf("%w: chat message requires conversationId and senderId", ErrInvalidEvent)
	}
	return nil
}

type OrderCreated struct {
	OrderId      ID      `json:"orderId"`
	BusinessId   ID      `json:"businessId"`
	CustomerId   ID      `json:"customerId"`
	BusinessName string  `json:"businessName,omitempty"`
	Total        float64 `json:"total,omitempty"`
}

func (o *OrderCreated) validate() error {
	if o.OrderId == "" || o.BusinessId == "" {
		return fmt.Errorf("%w: order created requires orderId and businessId", ErrInvalidEvent)
	}
	return nil
}

type OrderStatusChanged struct {
	OrderId    ID     `json:"orderId"`
	BusinessId ID     `json:"businessId"`
	CustomerId ID     `json:"customerId"`
	OldStatus  string `json:"oldStatus"`
	NewStatus  string `json:"newStatus"`
}

func (o *OrderStatusChanged) validate() error {
	if o.OrderId == "" || o.CustomerId == "" || o.NewStatus == "" {
		return fmt.Errorf("%w: order status change requires orderId, customerId and newStatus", ErrInvalidEvent)
	}
	return nil
}

// Changed reports whether the event represents an actual transition.
// Triggers are a no-op when the status did not change.
func (o *OrderStatusChanged) Changed() bool {
	return o.OldStatus != o.NewStatus
}

type ReservationCreated struct {
	ReservationId ID     `json:"reservationId"`
	BusinessId    ID     `json:"businessId"`
	CustomerId    ID     `json:"customerId"`
	BusinessName  string `json:"businessName,omitempty"`
	Date          string `json:"date,omitempty"`
	PartySize     int    `json:"partySize,omitempty"`
}

func (r *ReservationCreated) validate() error {
	if r.ReservationId == "" || r.BusinessId == "" || r.CustomerId == "" {
		return fmt.Errorf("%w: reservation created requires reservationId, businessId and customerId", ErrInvalidEvent)
	}
	return nil
}

type ReservationStatusChanged struct {
	ReservationId ID     `json:"reservationId"`
	BusinessId    ID     `json:"businessId"`
	CustomerId    ID     `json:"customerId"`
	OldStatus     string `json:"oldStatus"`
	NewStatus     string `json:"newStatus"`
	CanceledBy    string `json:"canceledBy,omitempty"`
}

func (r *ReservationStatusChanged) validate() error {
	if r.ReservationId == "" || r.CustomerId == "" || r.NewStatus == "" {
		return fmt.Errorf("%w: reservation status change requires reservationId, customerId and newStatus", ErrInvalidEvent)
	}
	return nil
}

func (r *ReservationStatusChanged) Changed() bool {
	return r.OldStatus != r.NewStatus
}
