package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/biwott-v/campus-connect-cli/internal/client/models"
	"github.com/biwott-v/campus-connect-cli/internal/client/uploader"
)

func formatMessage(m models.Message) string {
	sender := m.SenderName
	if sender == "" {
		sender = fmt.Sprintf("user %d", m.SenderID)
	}
	line := fmt.Sprintf("[%s] %s: %s", m.CreatedAt.Local().Format("2006-01-02 15:04"), sender, m.Content)
	if m.Attachment != nil {
		line += fmt.Sprintf(" (attachment: %s, resource %d)", m.Attachment.Title, m.Attachment.ResourceID)
	}
	return line
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", usage, args[0])
	}
	return id, nil
}

// Open loads a group conversation and prints its history.
func (a *App) Open(ctx context.Context, args []string) error {
	id, err := parseID(args, "usage: open <group-id>")
	if err != nil {
		return err
	}

	group, err := a.store.Load(ctx, models.ChannelRef{Kind: models.ChannelGroup, ID: id})
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("== %s ==", group.Name))
	if group.Description != "" {
		printlnFn(group.Description)
	}
	return a.History(ctx)
}

// DM loads a direct conversation with another user and prints its history.
func (a *App) DM(ctx context.Context, args []string) error {
	id, err := parseID(args, "usage: dm <user-id>")
	if err != nil {
		return err
	}

	if _, err := a.store.Load(ctx, models.ChannelRef{Kind: models.ChannelDirect, ID: id}); err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("== direct conversation with user %d ==", id))
	return a.History(ctx)
}

// Attach stages a file for the next send. Title, description and category
// are prompted; an empty title defaults to the file name.
func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: attach <path>")
	}
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("attach: %w", err)
	}

	title, err := getSimpleText(a.reader, "Resource title (empty keeps file name)", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category", os.Stdout)
	if err != nil {
		return err
	}

	a.staged = &stagedAttachment{
		path: path,
		meta: uploader.Meta{Title: title, Description: description, Category: category},
	}
	printlnFn(fmt.Sprintf("Staged %s for the next send", path))
	return nil
}

// Send delivers a message to the open conversation. A staged attachment is
// uploaded first; if the upload fails nothing is sent and the attachment
// stays staged.
func (a *App) Send(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	if text == "" && a.staged == nil {
		return errors.New("usage: send <text> (or stage a file with attach first)")
	}

	var pending *uploader.PendingFile
	if a.staged != nil {
		file, closeFn, err := uploader.FromPath(a.staged.path, a.staged.meta)
		if err != nil {
			return err
		}
		defer closeFn()
		pending = file
	}

	if _, err := a.store.Send(ctx, text, pending); err != nil {
		return err
	}
	a.staged = nil
	return nil
}

// History reprints the open conversation.
func (a *App) History(ctx context.Context) error {
	ref := a.store.Channel()
	if ref == nil {
		printlnFn("No open conversation, use 'open <group-id>' or 'dm <user-id>'")
		return nil
	}
	messages := a.store.Messages()
	if len(messages) == 0 {
		printlnFn("(no messages yet)")
		return nil
	}
	for _, m := range messages {
		printlnFn(formatMessage(m))
	}
	return nil
}
