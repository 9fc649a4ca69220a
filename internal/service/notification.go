package service

import (
	"context"

	"github.com/enzomar/agrinote/internal/api"
	"github.com/enzomar/agrinote/internal/model"
)

// NotificationService wraps the /notifications endpoints
type NotificationService struct {
	api *api.Client
}

// NewNotificationService creates a notification service on top of client
func NewNotificationService(client *api.Client) *NotificationService {
	return &NotificationService{api: client}
}

// List retrieves all notifications for the operator
func (s *NotificationService) List(ctx context.Context) ([]model.Notification, *api.Response) {
	resp := s.api.Get(ctx, "/notifications")
	var out []model.Notification
	if !resp.Decode(&out) {
		return nil, resp
	}
	return out, resp
}

// MarkRead marks a notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id string) *api.Response {
	return s.api.Put(ctx, "/notifications/"+id+"/read", map[string]string{})
}

// Dismiss removes a notification
func (s *NotificationService) Dismiss(ctx context.Context, id string) *api.Response {
	return s.api.Delete(ctx, "/notifications/"+id)
}
