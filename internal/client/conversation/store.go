// Package conversation holds the ordered message history for one channel at
// a time and mediates composition of new messages, including attachment
// upload orchestration. One Store is instantiated per surface (group chat,
// direct messages).
package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/biwott-v/campus-connect-cli/internal/client/api"
	"github.com/biwott-v/campus-connect-cli/internal/client/models"
	"github.com/biwott-v/campus-connect-cli/internal/client/session"
	"github.com/biwott-v/campus-connect-cli/internal/client/uploader"
	"github.com/biwott-v/campus-connect-cli/internal/logging"
)

var (
	// ErrNoChannel is returned by Send before any successful Load.
	ErrNoChannel = errors.New("no active channel")

	// ErrNotAuthenticated is returned when an operation needs the current
	// identity and the session is anonymous.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrStale marks a Load whose result was discarded because a newer Load
	// started while it was in flight. The caller can ignore it.
	ErrStale = errors.New("superseded by a newer load")
)

// Store is the conversation state for one surface.
//
// Messages are kept in the order received from Load followed by the order
// appended by Send; no re-sorting by timestamp ever happens. Switching
// channels discards the previous history, and a Load result arriving after
// a newer Load began is dropped rather than appended.
type Store struct {
	client api.Client
	up     *uploader.Uploader
	sess   *session.Manager
	log    logging.Logger

	mu       sync.Mutex
	epoch    uint64
	channel  *models.ChannelRef
	messages []models.Message

	// OnReplace fires when Load installs a channel's history; OnAppend fires
	// for every message appended by Send. Set before first use.
	OnReplace func(models.ChannelRef, []models.Message)
	OnAppend  func(models.Message)
}

func NewStore(client api.Client, up *uploader.Uploader, sess *session.Manager, log logging.Logger) *Store {
	return &Store{client: client, up: up, sess: sess, log: log.With("component", "conversation")}
}

// Channel returns the active channel, or nil before the first Load.
func (s *Store) Channel() *models.ChannelRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.channel == nil {
		return nil
	}
	ref := *s.channel
	return &ref
}

// Messages returns a copy of the current history.
func (s *Store) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Load fetches the full history for ref, plus the group metadata for group
// channels (nil for direct ones), and replaces any previously held
// conversation. Only the most recently requested channel's result is kept.
func (s *Store) Load(ctx context.Context, ref models.ChannelRef) (*models.Group, error) {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.channel = &ref
	s.messages = nil
	s.mu.Unlock()

	var (
		group *models.Group
		msgs  []models.Message
		err   error
	)
	switch ref.Kind {
	case models.ChannelGroup:
		group, err = s.client.GetGroup(ctx, ref.ID)
		if err == nil {
			msgs, err = s.client.GroupMessages(ctx, ref.ID)
		}
	case models.ChannelDirect:
		me := s.sess.Current()
		if me == nil {
			return nil, ErrNotAuthenticated
		}
		msgs, err = s.client.DirectMessages(ctx, me.ID, ref.ID)
	default:
		return nil, fmt.Errorf("unknown channel kind %q", ref.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("load channel: %w", err)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return nil, ErrStale
	}
	s.messages = msgs
	fn := s.OnReplace
	s.mu.Unlock()

	if fn != nil {
		fn(ref, msgs)
	}
	s.log.Debug(ctx, "channel loaded", "kind", ref.Kind, "id", ref.ID, "messages", len(msgs))
	return group, nil
}

// Send composes a message on the active channel. When a file is staged, the
// upload runs first and its failure aborts the whole send: a text-only
// message is never substituted for what the user intended to share. On
// success the acknowledged message is appended to the tail; on failure the
// conversation is left untouched and the caller keeps its draft.
func (s *Store) Send(ctx context.Context, text string, file *uploader.PendingFile) (*models.Message, error) {
	s.mu.Lock()
	if s.channel == nil {
		s.mu.Unlock()
		return nil, ErrNoChannel
	}
	ref := *s.channel
	epoch := s.epoch
	s.mu.Unlock()

	me := s.sess.Current()
	if me == nil {
		return nil, ErrNotAuthenticated
	}

	var attachment *models.AttachmentRef
	if file != nil {
		uploaded, err := s.up.Upload(ctx, *file)
		if err != nil {
			return nil, fmt.Errorf("send aborted: %w", err)
		}
		attachment = uploaded
	}

	var resourceID *int64
	if attachment != nil {
		resourceID = &attachment.ResourceID
	}

	var (
		id  int64
		err error
	)
	switch ref.Kind {
	case models.ChannelGroup:
		id, err = s.client.SendGroupMessage(ctx, ref.ID, text, resourceID)
	case models.ChannelDirect:
		id, err = s.client.SendDirectMessage(ctx, ref.ID, text, resourceID)
	default:
		return nil, fmt.Errorf("unknown channel kind %q", ref.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	msg := models.Message{
		ID:         id,
		Content:    text,
		SenderID:   me.ID,
		SenderName: me.Username,
		Attachment: attachment,
		CreatedAt:  time.Now().UTC(),
		Channel:    ref,
	}

	s.mu.Lock()
	// Append only if the channel was not switched away mid-send.
	appended := s.epoch == epoch
	var fn func(models.Message)
	if appended {
		s.messages = append(s.messages, msg)
		fn = s.OnAppend
	}
	s.mu.Unlock()

	if fn != nil {
		fn(msg)
	}
	s.log.Info(ctx, "message sent", "kind", ref.Kind, "channel", ref.ID, "message_id", id, "attachment", attachment != nil)
	return &msg, nil
}
