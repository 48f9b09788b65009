package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/biwott-v/campus-connect-cli/internal/client/api"
	"github.com/biwott-v/campus-connect-cli/internal/client/config"
	"github.com/biwott-v/campus-connect-cli/internal/client/conversation"
	"github.com/biwott-v/campus-connect-cli/internal/client/models"
	"github.com/biwott-v/campus-connect-cli/internal/client/repositories/credentials"
	"github.com/biwott-v/campus-connect-cli/internal/client/services"
	"github.com/biwott-v/campus-connect-cli/internal/client/session"
	"github.com/biwott-v/campus-connect-cli/internal/client/storage"
	"github.com/biwott-v/campus-connect-cli/internal/client/uploader"
	"github.com/biwott-v/campus-connect-cli/internal/logging"
)

// stagedAttachment records a file chosen via the attach command. The file is
// opened and uploaded only when the next send happens.
type stagedAttachment struct {
	path string
	meta uploader.Meta
}

type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	sess      *session.Manager
	store     *conversation.Store
	uploader  *uploader.Uploader
	resources services.ResourceService
	groups    services.GroupService
	directory services.DirectoryService
	reader    *bufio.Reader
	staged    *stagedAttachment
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewTextLogger(os.Stderr, slog.LevelInfo)

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	creds := credentials.NewSQLiteRepository(db)

	apiClient := api.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, log)
	sess := session.NewManager(apiClient, creds, log, c.AllowDegraded)
	apiClient.SetOnUnauthorized(sess.HandleUnauthorized)

	up := uploader.NewUploader(apiClient, log)
	store := conversation.NewStore(apiClient, up, sess, log)

	app := &App{
		config:    c,
		log:       log,
		db:        db,
		sess:      sess,
		store:     store,
		uploader:  up,
		resources: services.NewResourceService(apiClient),
		groups:    services.NewGroupService(apiClient),
		directory: services.NewDirectoryService(apiClient),
		reader:    bufio.NewReader(os.Stdin),
	}

	sess.OnChange = app.onSessionChange
	store.OnAppend = app.onMessageAppend

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	if err := a.sess.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.sess.IsActive()
}

func (a *App) getStatus() string {
	user := a.sess.Current()
	if user == nil {
		return ""
	}
	s := user.Username
	if a.sess.Status() == session.StatusDegraded {
		s += " degraded"
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) onSessionChange(st session.State) {
	switch st.Status {
	case session.StatusVerified:
		printlnFn(fmt.Sprintf("Signed in as %s", st.User.Username))
	case session.StatusDegraded:
		printlnFn(fmt.Sprintf("Server unreachable, running in degraded demo mode as %s", st.User.Username))
	case session.StatusAnonymous:
		if st.Reason == session.ReasonExpired {
			printlnFn("Session expired, please log in again")
		} else {
			printlnFn("Signed out")
		}
	}
}

func (a *App) onMessageAppend(m models.Message) {
	printlnFn(formatMessage(m))
}
