package reminders

import "github.com/fdg312/nutrilog/internal/storage"

type CreateRequest struct {
	Title string `json:"title"`
	Time  string `json:"time"`
}

type ListResponse struct {
	Reminders []storage.ReminderEntry `json:"reminders"`
}
