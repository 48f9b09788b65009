package conversation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biwott-v/campus-connect-cli/internal/client/api"
	"github.com/biwott-v/campus-connect-cli/internal/client/models"
	"github.com/biwott-v/campus-connect-cli/internal/client/session"
	"github.com/biwott-v/campus-connect-cli/internal/client/uploader"
	"github.com/biwott-v/campus-connect-cli/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

// ---- fakes ----

type memCreds struct {
	token string
	email string
}

func (c *memCreds) Token(ctx context.Context) (string, error)        { return c.token, nil }
func (c *memCreds) AccountEmail(ctx context.Context) (string, error) { return c.email, nil }
func (c *memCreds) Save(ctx context.Context, token, email string) error {
	c.token, c.email = token, email
	return nil
}
func (c *memCreds) Clear(ctx context.Context) error {
	c.token, c.email = "", ""
	return nil
}

// fakeClient is an in-memory backend: it stores sent messages so reloads
// report the same state an append produced.
type fakeClient struct {
	mu         sync.Mutex
	nextID     int64
	groups     map[int64]*models.Group
	groupMsgs  map[int64][]models.Message
	directMsgs map[int64][]models.Message

	me *models.User

	uploadErr   error
	uploadCalls int
	sendErr     error
	sendCalls   int

	// When set for a group id, GroupMessages signals entry on gateEntered
	// and then blocks until the gate closes.
	gates       map[int64]chan struct{}
	gateEntered chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		nextID:     100,
		groups:     map[int64]*models.Group{},
		groupMsgs:  map[int64][]models.Message{},
		directMsgs: map[int64][]models.Message{},
		gates:      map[int64]chan struct{}{},
		me:         &models.User{ID: 7, Username: "ann", Email: "ann@campus.edu"},
	}
}

func (f *fakeClient) SetToken(token string) {}
func (f *fakeClient) ClearToken()           {}

func (f *fakeClient) Me(ctx context.Context) (*models.User, error) { return f.me, nil }

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	return "tok", f.me, nil
}

func (f *fakeClient) Register(ctx context.Context, p api.Profile) (string, *models.User, error) {
	return "tok", f.me, nil
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.User, error) { return nil, nil }
func (f *fakeClient) ListResources(ctx context.Context) ([]models.Resource, error) {
	return nil, nil
}

func (f *fakeClient) CreateResource(ctx context.Context, file io.Reader, fileName string, meta api.ResourceMeta) (*models.AttachmentRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.nextID++
	return &models.AttachmentRef{ResourceID: f.nextID, Title: meta.Title}, nil
}

func (f *fakeClient) UpdateResource(ctx context.Context, id int64, patch api.ResourcePatch) error {
	return nil
}
func (f *fakeClient) DeleteResource(ctx context.Context, id int64) error { return nil }
func (f *fakeClient) DownloadResource(ctx context.Context, fileName, destDir string) (string, error) {
	return "", nil
}

func (f *fakeClient) ListGroups(ctx context.Context) ([]models.Group, error) { return nil, nil }
func (f *fakeClient) CreateGroup(ctx context.Context, name, description, category string) (int64, error) {
	return 0, nil
}

func (f *fakeClient) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.groups[id]; ok {
		return g, nil
	}
	return &models.Group{ID: id, Name: "group"}, nil
}

func (f *fakeClient) GroupMessages(ctx context.Context, groupID int64) ([]models.Message, error) {
	f.mu.Lock()
	gate := f.gates[groupID]
	entered := f.gateEntered
	f.mu.Unlock()
	if gate != nil {
		if entered != nil {
			entered <- struct{}{}
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := make([]models.Message, len(f.groupMsgs[groupID]))
	copy(msgs, f.groupMsgs[groupID])
	return msgs, nil
}

func (f *fakeClient) SendGroupMessage(ctx context.Context, groupID int64, content string, resourceID *int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls++
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	m := models.Message{
		ID:         f.nextID,
		Content:    content,
		SenderName: f.me.Username,
		Channel:    models.ChannelRef{Kind: models.ChannelGroup, ID: groupID},
	}
	if resourceID != nil {
		m.Attachment = &models.AttachmentRef{ResourceID: *resourceID}
	}
	f.groupMsgs[groupID] = append(f.groupMsgs[groupID], m)
	return m.ID, nil
}

func (f *fakeClient) DirectMessages(ctx context.Context, senderID, receiverID int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := make([]models.Message, len(f.directMsgs[receiverID]))
	copy(msgs, f.directMsgs[receiverID])
	return msgs, nil
}

func (f *fakeClient) SendDirectMessage(ctx context.Context, receiverID int64, content string, resourceID *int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls++
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	m := models.Message{
		ID:       f.nextID,
		Content:  content,
		SenderID: f.me.ID,
		Channel:  models.ChannelRef{Kind: models.ChannelDirect, ID: receiverID},
	}
	if resourceID != nil {
		m.Attachment = &models.AttachmentRef{ResourceID: *resourceID}
	}
	f.directMsgs[receiverID] = append(f.directMsgs[receiverID], m)
	return m.ID, nil
}

func setupStore(t *testing.T, fc *fakeClient) *Store {
	t.Helper()
	log := testLogger()
	sess := session.NewManager(fc, &memCreds{}, log, false)
	_, err := sess.Login(context.Background(), "ann@campus.edu", "pw")
	require.NoError(t, err)

	up := uploader.NewUploader(fc, log)
	return NewStore(fc, up, sess, log)
}

// ---- TESTS ----

func TestSendWithoutLoadFails(t *testing.T) {
	s := setupStore(t, newFakeClient())

	_, err := s.Send(context.Background(), "hi", nil)
	require.ErrorIs(t, err, ErrNoChannel)
}

func TestSendTextOnEmptyConversation(t *testing.T) {
	fc := newFakeClient()
	s := setupStore(t, fc)
	ctx := context.Background()

	_, err := s.Load(ctx, models.ChannelRef{Kind: models.ChannelGroup, ID: 5})
	require.NoError(t, err)

	var appended []models.Message
	s.OnAppend = func(m models.Message) { appended = append(appended, m) }

	msg, err := s.Send(ctx, "hello", nil)
	require.NoError(t, err)

	history := s.Messages()
	require.Len(t, history, 1)
	require.Equal(t, "hello", history[0].Content)
	require.Nil(t, history[0].Attachment)
	require.Equal(t, msg.ID, history[0].ID)
	require.Equal(t, "ann", history[0].SenderName)

	require.Len(t, appended, 1)
}

func TestSendUploadFailureLeavesConversationUnchanged(t *testing.T) {
	fc := newFakeClient()
	fc.uploadErr = errors.New("disk on fire")
	s := setupStore(t, fc)
	ctx := context.Background()

	_, err := s.Load(ctx, models.ChannelRef{Kind: models.ChannelGroup, ID: 5})
	require.NoError(t, err)

	file := &uploader.PendingFile{
		Name:   "notes.pdf",
		Reader: strings.NewReader("data"),
		Meta:   uploader.Meta{Title: "notes.pdf", Category: "Chat Attachment"},
	}
	_, err = s.Send(ctx, "see attached", file)
	require.ErrorIs(t, err, uploader.ErrUpload)

	require.Empty(t, s.Messages(), "no message appended after a failed upload")
	require.Zero(t, fc.sendCalls, "message creation never attempted")
}

func TestSendWithAttachment(t *testing.T) {
	fc := newFakeClient()
	s := setupStore(t, fc)
	ctx := context.Background()

	_, err := s.Load(ctx, models.ChannelRef{Kind: models.ChannelGroup, ID: 5})
	require.NoError(t, err)

	file := &uploader.PendingFile{
		Name:   "notes.pdf",
		Reader: strings.NewReader("data"),
		Meta:   uploader.Meta{Title: "notes.pdf", Category: "Chat Attachment"},
	}
	msg, err := s.Send(ctx, "see attached", file)
	require.NoError(t, err)
	require.NotNil(t, msg.Attachment)
	require.Equal(t, 1, fc.uploadCalls)

	history := s.Messages()
	require.Len(t, history, 1)
	require.Equal(t, msg.Attachment.ResourceID, history[0].Attachment.ResourceID)
}

func TestSendFailureLeavesConversationUnchanged(t *testing.T) {
	fc := newFakeClient()
	fc.sendErr = api.ErrUnavailable
	s := setupStore(t, fc)
	ctx := context.Background()

	_, err := s.Load(ctx, models.ChannelRef{Kind: models.ChannelGroup, ID: 5})
	require.NoError(t, err)

	_, err = s.Send(ctx, "hello", nil)
	require.ErrorIs(t, err, api.ErrUnavailable)
	require.Empty(t, s.Messages())
}

func TestLoadKeepsOnlyNewestChannel(t *testing.T) {
	fc := newFakeClient()
	s := setupStore(t, fc)
	ctx := context.Background()

	// Seed histories for both groups.
	_, err := fc.SendGroupMessage(ctx, 1, "from A", nil)
	require.NoError(t, err)
	_, err = fc.SendGroupMessage(ctx, 2, "from B", nil)
	require.NoError(t, err)

	// Group 1's fetch blocks until released, so it resolves after group 2's.
	gate := make(chan struct{})
	fc.gates[1] = gate
	fc.gateEntered = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := s.Load(ctx, models.ChannelRef{Kind: models.ChannelGroup, ID: 1})
		done <- err
	}()

	// Wait until group 1's load is in flight before requesting group 2.
	<-fc.gateEntered

	_, err = s.Load(ctx, models.ChannelRef{Kind: models.ChannelGroup, ID: 2})
	require.NoError(t, err)

	close(gate)
	require.ErrorIs(t, <-done, ErrStale)

	history := s.Messages()
	require.Len(t, history, 1)
	require.Equal(t, "from B", history[0].Content)
	require.Equal(t, int64(2), s.Channel().ID)
}

func TestAppendedMessageMatchesReload(t *testing.T) {
	fc := newFakeClient()
	s := setupStore(t, fc)
	ctx := context.Background()
	ref := models.ChannelRef{Kind: models.ChannelGroup, ID: 5}

	_, err := s.Load(ctx, ref)
	require.NoError(t, err)

	file := &uploader.PendingFile{
		Name:   "notes.pdf",
		Reader: strings.NewReader("data"),
		Meta:   uploader.Meta{Title: "notes.pdf", Category: "Chat Attachment"},
	}
	sent, err := s.Send(ctx, "round trip", file)
	require.NoError(t, err)

	_, err = s.Load(ctx, ref)
	require.NoError(t, err)

	history := s.Messages()
	require.Len(t, history, 1)
	require.Equal(t, sent.ID, history[0].ID)
	require.Equal(t, sent.Content, history[0].Content)
	require.Equal(t, sent.Attachment.ResourceID, history[0].Attachment.ResourceID)
}

func TestDirectChannelLoadAndSend(t *testing.T) {
	fc := newFakeClient()
	s := setupStore(t, fc)
	ctx := context.Background()

	var replaced bool
	s.OnReplace = func(ref models.ChannelRef, msgs []models.Message) { replaced = true }

	group, err := s.Load(ctx, models.ChannelRef{Kind: models.ChannelDirect, ID: 9})
	require.NoError(t, err)
	require.Nil(t, group, "direct channels carry no group metadata")
	require.True(t, replaced)

	msg, err := s.Send(ctx, "psst", nil)
	require.NoError(t, err)
	require.Equal(t, models.ChannelDirect, msg.Channel.Kind)
	require.Equal(t, int64(9), msg.Channel.ID)
	require.Len(t, s.Messages(), 1)
}

func TestOrderingIsLoadThenAppend(t *testing.T) {
	fc := newFakeClient()
	s := setupStore(t, fc)
	ctx := context.Background()

	_, err := fc.SendGroupMessage(ctx, 3, "first", nil)
	require.NoError(t, err)
	_, err = fc.SendGroupMessage(ctx, 3, "second", nil)
	require.NoError(t, err)

	_, err = s.Load(ctx, models.ChannelRef{Kind: models.ChannelGroup, ID: 3})
	require.NoError(t, err)

	_, err = s.Send(ctx, "third", nil)
	require.NoError(t, err)

	var contents []string
	for _, m := range s.Messages() {
		contents = append(contents, m.Content)
	}
	require.Equal(t, []string{"first", "second", "third"}, contents)
}
