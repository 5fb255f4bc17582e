package dto

import (
	"time"

	"animedrop/internal/microservices/http-api/models"
)

type NotificationResponse struct {
	ID          string       `json:"id"`
	RecipientID string       `json:"recipientId"`
	Sender      *UserSummary `json:"sender"`
	Type        string       `json:"type"`
	Message     string       `json:"message"`
	Link        string       `json:"link"`
	Read        bool         `json:"read"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

func FromModelToNotificationResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Sender:      FromModelToUserSummary(n.Sender),
		Type:        string(n.Type),
		Message:     n.Message,
		Link:        n.Link,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

func FromModelsToNotificationResponses(list []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModelToNotificationResponse(&list[i]))
	}
	return out
}
