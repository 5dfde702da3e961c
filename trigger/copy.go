package trigger

import (
	"fmt"

	"github.com/localfy/notify-server/domain"
	"github.com/localfy/notify-server/resolver"
)

// renderCopy picks the title and body for one recipient group. Unrecognized
// statuses render as a generic change instead of failing the event.
func renderCopy(p domain.EventPayload, audience resolver.Audience) (title, body string) {
	switch ev := p.(type) {
	case *domain.ChatMessage:
		title = "New message"
		if ev.SenderName != "" {
			title = ev.SenderName
		}
		body = "You have a new message"
		if ev.Preview != "" {
			body = ev.Preview
		}
	case *domain.OrderCreated:
		title = "New order"
		body = fmt.Sprintf("Order #%s was placed", ev.OrderId)
		if ev.Total > 0 {
			body = fmt.Sprintf("Order #%s was placed for $%.2f", ev.OrderId, ev.Total)
		}
	case *domain.OrderStatusChanged:
		title = "Order update"
		body = orderStatusBody(ev.NewStatus)
	case *domain.ReservationCreated:
		if audience == resolver.AudienceBusiness {
			title = "New reservation"
			body = "A new reservation was made at your business"
			if ev.PartySize > 0 {
				body = fmt.Sprintf("A new reservation for %d was made at your business", ev.PartySize)
			}
		} else {
			title = "Reservation received"
			body = "Your reservation request has been received"
			if ev.BusinessName != "" {
				body = fmt.Sprintf("Your reservation at %s has been received", ev.BusinessName)
			}
		}
	case *domain.ReservationStatusChanged:
		if audience == resolver.AudienceBusiness {
			title = "Reservation canceled"
			body = "A customer canceled their reservation"
		} else {
			title = "Reservation update"
			body = reservationStatusBody(ev.NewStatus)
		}
	}
	return
}

func orderStatusBody(status string) string {
	switch status {
	case domain.OrderStatusPaid:
		return "Your order has been paid"
	case domain.OrderStatusPreparing:
		return "Your order is being prepared"
	case domain.OrderStatusInTransit:
		return "Your order is on its way"
	case domain.OrderStatusDelivered:
		return "Your order has been delivered"
	case domain.OrderStatusCanceled:
		return "Your order has been canceled"
	case domain.OrderStatusRefunded:
		return "Your order has been refunded"
	}
	return fmt.Sprintf("Order status changed to %s", status)
}

func reservationStatusBody(status string) string {
	switch status {
	case domain.ReservationStatusPending:
		return "Your reservation is pending confirmation"
	case domain.ReservationStatusConfirmed:
		return "Your reservation has been confirmed"
	case domain.ReservationStatusCompleted:
		return "Your reservation has been completed"
	case domain.ReservationStatusCanceled:
		return "Your reservation has been canceled"
	}
	return fmt.Sprintf("Reservation status changed to %s", status)
}

// eventMeta returns the feed record type and the data attached to both push
// payloads and feed records, used by the client for navigation on tap.
func eventMeta(p domain.EventPayload) (t domain.NotificationType, data map[string]string) {
	switch ev := p.(type) {
	case *domain.ChatMessage:
		t = domain.NotificationTypeMessage
		data = map[string]string{
			"conversationId": ev.ConversationId.String(),
		}
		if ev.MessageId != "" {
			data["messageId"] = ev.MessageId.String()
		}
	case *domain.OrderCreated:
		t = domain.NotificationTypeOrder
		data = map[string]string{
			"orderId":    ev.OrderId.String(),
			"businessId": ev.BusinessId.String(),
		}
	case *domain.OrderStatusChanged:
		t = domain.NotificationTypeOrder
		data = map[string]string{
			"orderId": ev.OrderId.String(),
			"status":  ev.NewStatus,
		}
	case *domain.ReservationCreated:
		t = domain.NotificationTypeReservation
		data = map[string]string{
			"reservationId": ev.ReservationId.String(),
			"businessId":    ev.BusinessId.String(),
		}
	case *domain.ReservationStatusChanged:
		t = domain.NotificationTypeReservation
		data = map[string]string{
			"reservationId": ev.ReservationId.String(),
			"status":        ev.NewStatus,
		}
	}
	return
}
