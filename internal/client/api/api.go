package api

import (
	"context"
	"io"

	"github.com/biwott-v/campus-connect-cli/internal/client/models"
)

// Profile carries the fields required to register a new account.
type Profile struct {
	Email    string
	Username string
	Password string
	FullName string
}

// ResourceMeta describes an upload: every file submission carries a title,
// a free-form description and a category.
type ResourceMeta struct {
	Title       string
	Description string
	Category    string
}

// ResourcePatch holds a partial resource update; nil fields are left
// untouched on the server.
type ResourcePatch struct {
	Title       *string
	Description *string
	Category    *string
}

// Client is the contract with the Campus Connect backend. The message-send
// operations return only the server-assigned message id; constructing the
// acknowledged Message from it is the caller's job.
type Client interface {
	SetToken(token string)
	ClearToken()

	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Register(ctx context.Context, p Profile) (string, *models.User, error)

	ListUsers(ctx context.Context) ([]models.User, error)

	ListResources(ctx context.Context) ([]models.Resource, error)
	CreateResource(ctx context.Context, file io.Reader, fileName string, meta ResourceMeta) (*models.AttachmentRef, error)
	UpdateResource(ctx context.Context, id int64, patch ResourcePatch) error
	DeleteResource(ctx context.Context, id int64) error
	DownloadResource(ctx context.Context, fileName, destDir string) (string, error)

	ListGroups(ctx context.Context) ([]models.Group, error)
	CreateGroup(ctx context.Context, name, description, category string) (int64, error)
	GetGroup(ctx context.Context, id int64) (*models.Group, error)

	GroupMessages(ctx context.Context, groupID int64) ([]models.Message, error)
	SendGroupMessage(ctx context.Context, groupID int64, content string, resourceID *int64) (int64, error)
	DirectMessages(ctx context.Context, senderID, receiverID int64) ([]models.Message, error)
	SendDirectMessage(ctx context.Context, receiverID int64, content string, resourceID *int64) (int64, error)
}
