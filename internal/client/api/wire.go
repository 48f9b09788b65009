package api

import (
	"time"

	"github.com/biwott-v/campus-connect-cli/internal/client/models"
)

// Wire DTOs mirror the backend's JSON shapes. Conversions to the models
// package happen here so the rest of the client never sees raw payloads.

type authResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}

type resourceDTO struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	FileName      string `json:"file_name"`
	FileSize      int64  `json:"file_size"`
	DownloadCount int64  `json:"download_count"`
	UploaderID    int64  `json:"uploader_id"`
	Uploader      string `json:"uploader"`
	CreatedAt     string `json:"created_at"`
}

func (d resourceDTO) toModel() models.Resource {
	return models.Resource{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		Category:      d.Category,
		FileName:      d.FileName,
		FileSize:      d.FileSize,
		DownloadCount: d.DownloadCount,
		UploaderID:    d.UploaderID,
		Uploader:      d.Uploader,
		CreatedAt:     parseServerTime(d.CreatedAt),
	}
}

type createResourceResponse struct {
	Resource struct {
		ID       int64  `json:"id"`
		Title    string `json:"title"`
		FileName string `json:"file_name"`
	} `json:"resource"`
}

type groupDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	CreatedBy   string `json:"created_by"`
	MemberCount int    `json:"member_count"`
	CreatedAt   string `json:"created_at"`
}

func (d groupDTO) toModel() models.Group {
	return models.Group{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		CreatedBy:   d.CreatedBy,
		MemberCount: d.MemberCount,
		CreatedAt:   parseServerTime(d.CreatedAt),
	}
}

type createGroupResponse struct {
	Group struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"group"`
}

// Group history carries the sender's username only; the sender id is not
// part of that payload, so SenderID stays zero for loaded group messages.
type groupMessageDTO struct {
	ID            int64   `json:"id"`
	Content       string  `json:"content"`
	Sender        string  `json:"sender"`
	ResourceID    *int64  `json:"resource_id"`
	ResourceTitle *string `json:"resource_title"`
	CreatedAt     string  `json:"created_at"`
}

func (d groupMessageDTO) toModel(groupID int64) models.Message {
	m := models.Message{
		ID:         d.ID,
		Content:    d.Content,
		SenderName: d.Sender,
		CreatedAt:  parseServerTime(d.CreatedAt),
		Channel:    models.ChannelRef{Kind: models.ChannelGroup, ID: groupID},
	}
	if d.ResourceID != nil {
		ref := &models.AttachmentRef{ResourceID: *d.ResourceID}
		if d.ResourceTitle != nil {
			ref.Title = *d.ResourceTitle
		}
		m.Attachment = ref
	}
	return m
}

type directMessageDTO struct {
	ID             int64  `json:"id"`
	Content        string `json:"content"`
	SenderID       int64  `json:"sender_id"`
	SenderUsername string `json:"sender_username"`
	ReceiverID     int64  `json:"receiver_id"`
	ResourceID     *int64 `json:"resource_id"`
	CreatedAt      string `json:"created_at"`
}

func (d directMessageDTO) toModel(peerID int64) models.Message {
	m := models.Message{
		ID:         d.ID,
		Content:    d.Content,
		SenderID:   d.SenderID,
		SenderName: d.SenderUsername,
		CreatedAt:  parseServerTime(d.CreatedAt),
		Channel:    models.ChannelRef{Kind: models.ChannelDirect, ID: peerID},
	}
	if d.ResourceID != nil {
		m.Attachment = &models.AttachmentRef{ResourceID: *d.ResourceID}
	}
	return m
}

type sendMessageResponse struct {
	MessageID int64 `json:"message_id"`
}

// parseServerTime handles the backend's isoformat timestamps, which may or
// may not carry a timezone suffix. Unparseable values yield the zero time;
// the client never re-sorts by timestamp, so that stays cosmetic.
func parseServerTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
