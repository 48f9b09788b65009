package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/biwott-v/campus-connect-cli/internal/client/models"
	"github.com/biwott-v/campus-connect-cli/internal/logging"
	"github.com/biwott-v/campus-connect-cli/internal/netx"
)

// HTTPClient talks JSON over HTTP to the Campus Connect backend.
//
// The bearer credential set via SetToken rides on every request until
// ClearToken. An HTTP 401 on an authenticated call clears the token and
// fires the OnUnauthorized hook synchronously, whatever operation produced
// it; a 401 on an anonymous call (a failed login) maps to
// ErrInvalidCredentials instead, since there is no session to expire.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	log     logging.Logger

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     log.With("component", "api"),
	}
}

// SetOnUnauthorized registers the hook fired on session-expiring responses.
// Only the session manager should register here.
func (c *HTTPClient) SetOnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

func (c *HTTPClient) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) unauthorizedHook() func() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onUnauthorized
}

// do executes one request and applies the cross-cutting response rules.
// On success the caller owns the returned body and must close it.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	token := c.currentToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		if token == "" {
			return nil, ErrInvalidCredentials
		}
		c.ClearToken()
		c.log.Warn(ctx, "unauthorized response, tearing down session", "method", method, "path", path)
		if fn := c.unauthorizedHook(); fn != nil {
			fn()
		}
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	case resp.StatusCode >= http.StatusBadRequest:
		defer resp.Body.Close()
		return nil, decodeServerError(resp)
	}

	return resp, nil
}

func decodeServerError(resp *http.Response) error {
	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil {
		if er.Error != "" {
			return fmt.Errorf("server rejected request (%s): %s", resp.Status, er.Error)
		}
		if len(er.Errors) > 0 {
			parts := make([]string, 0, len(er.Errors))
			for field, msg := range er.Errors {
				parts = append(parts, field+": "+msg)
			}
			return fmt.Errorf("server rejected request (%s): %s", resp.Status, strings.Join(parts, "; "))
		}
	}
	return fmt.Errorf("server rejected request: %s", resp.Status)
}

// doJSON runs a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, query, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	in := map[string]string{"email": email, "password": password}
	var out authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, in, &out); err != nil {
		return "", nil, err
	}
	u := out.User
	return out.AccessToken, &u, nil
}

func (c *HTTPClient) Register(ctx context.Context, p Profile) (string, *models.User, error) {
	in := map[string]string{
		"email":     p.Email,
		"username":  p.Username,
		"password":  p.Password,
		"full_name": p.FullName,
	}
	var out authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", nil, in, &out); err != nil {
		return "", nil, err
	}
	u := out.User
	return out.AccessToken, &u, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListResources(ctx context.Context) ([]models.Resource, error) {
	var dtos []resourceDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/resources", nil, nil, &dtos); err != nil {
		return nil, err
	}
	resources := make([]models.Resource, 0, len(dtos))
	for _, d := range dtos {
		resources = append(resources, d.toModel())
	}
	return resources, nil
}

func (c *HTTPClient) CreateResource(ctx context.Context, file io.Reader, fileName string, meta ResourceMeta) (*models.AttachmentRef, error) {
	body, contentType, err := netx.MultipartBody("file", fileName, file, map[string]string{
		"title":       meta.Title,
		"description": meta.Description,
		"category":    meta.Category,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/resources", nil, contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out createResourceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &models.AttachmentRef{ResourceID: out.Resource.ID, Title: out.Resource.Title}, nil
}

func (c *HTTPClient) UpdateResource(ctx context.Context, id int64, patch ResourcePatch) error {
	in := map[string]string{}
	if patch.Title != nil {
		in["title"] = *patch.Title
	}
	if patch.Description != nil {
		in["description"] = *patch.Description
	}
	if patch.Category != nil {
		in["category"] = *patch.Category
	}
	return c.doJSON(ctx, http.MethodPatch, "/api/resources/"+strconv.FormatInt(id, 10), nil, in, nil)
}

func (c *HTTPClient) DeleteResource(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/resources/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// DownloadResource streams an uploaded file into destDir and returns the
// local path it was written to.
func (c *HTTPClient) DownloadResource(ctx context.Context, fileName, destDir string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/uploads/"+url.PathEscape(fileName), nil, "", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	dest := filepath.Join(destDir, filepath.Base(fileName))
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}

func (c *HTTPClient) ListGroups(ctx context.Context) ([]models.Group, error) {
	var dtos []groupDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/groups", nil, nil, &dtos); err != nil {
		return nil, err
	}
	groups := make([]models.Group, 0, len(dtos))
	for _, d := range dtos {
		groups = append(groups, d.toModel())
	}
	return groups, nil
}

func (c *HTTPClient) CreateGroup(ctx context.Context, name, description, category string) (int64, error) {
	in := map[string]string{"name": name, "description": description, "category": category}
	var out createGroupResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/groups", nil, in, &out); err != nil {
		return 0, err
	}
	return out.Group.ID, nil
}

func (c *HTTPClient) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	var d groupDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/groups/"+strconv.FormatInt(id, 10), nil, nil, &d); err != nil {
		return nil, err
	}
	g := d.toModel()
	return &g, nil
}

func (c *HTTPClient) GroupMessages(ctx context.Context, groupID int64) ([]models.Message, error) {
	q := url.Values{"group_id": {strconv.FormatInt(groupID, 10)}}
	var dtos []groupMessageDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/messages", q, nil, &dtos); err != nil {
		return nil, err
	}
	msgs := make([]models.Message, 0, len(dtos))
	for _, d := range dtos {
		msgs = append(msgs, d.toModel(groupID))
	}
	return msgs, nil
}

func (c *HTTPClient) SendGroupMessage(ctx context.Context, groupID int64, content string, resourceID *int64) (int64, error) {
	in := map[string]any{"content": content, "group_id": groupID}
	if resourceID != nil {
		in["resource_id"] = *resourceID
	}
	var out sendMessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/messages", nil, in, &out); err != nil {
		return 0, err
	}
	return out.MessageID, nil
}

func (c *HTTPClient) DirectMessages(ctx context.Context, senderID, receiverID int64) ([]models.Message, error) {
	q := url.Values{
		"sender_id":   {strconv.FormatInt(senderID, 10)},
		"receiver_id": {strconv.FormatInt(receiverID, 10)},
	}
	var dtos []directMessageDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/direct-messages", q, nil, &dtos); err != nil {
		return nil, err
	}
	msgs := make([]models.Message, 0, len(dtos))
	for _, d := range dtos {
		msgs = append(msgs, d.toModel(receiverID))
	}
	return msgs, nil
}

func (c *HTTPClient) SendDirectMessage(ctx context.Context, receiverID int64, content string, resourceID *int64) (int64, error) {
	in := map[string]any{"content": content, "receiver_id": receiverID}
	if resourceID != nil {
		in["resource_id"] = *resourceID
	}
	var out sendMessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/direct-messages", nil, in, &out); err != nil {
		return 0, err
	}
	return out.MessageID, nil
}

var _ Client = (*HTTPClient)(nil)
