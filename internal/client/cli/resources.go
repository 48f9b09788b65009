package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/biwott-v/campus-connect-cli/internal/client/api"
	"github.com/biwott-v/campus-connect-cli/internal/client/uploader"
)

// Resources lists the shared study-file library.
func (a *App) Resources(ctx context.Context) error {
	resources, err := a.resources.List(ctx)
	if err != nil {
		return err
	}
	if len(resources) == 0 {
		printlnFn("(no resources yet)")
		return nil
	}
	for _, r := range resources {
		printlnFn(fmt.Sprintf("%d: %s [%s] by %s (%s)", r.ID, r.Title, r.Category, r.Uploader, r.FileName))
	}
	return nil
}

// Upload prompts for a file path and metadata, then adds the file to the
// resource library without sending a message.
func (a *App) Upload(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter file path", os.Stdout)
	if err != nil {
		return err
	}
	title, err := getSimpleText(a.reader, "Title (empty keeps file name)", os.Stdout)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category", os.Stdout)
	if err != nil {
		return err
	}

	file, closeFn, err := uploader.FromPath(path, uploader.Meta{
		Title:       title,
		Description: description,
		Category:    category,
	})
	if err != nil {
		return err
	}
	defer closeFn()

	ref, err := a.uploader.Upload(ctx, *file)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Uploaded %q as resource %d", ref.Title, ref.ResourceID))
	return nil
}

// Edit updates a resource's title, description or category. Empty answers
// leave the field unchanged.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, "usage: edit <resource-id>")
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "New title (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "New description (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "New category (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}

	var patch api.ResourcePatch
	if title != "" {
		patch.Title = &title
	}
	if description != "" {
		patch.Description = &description
	}
	if category != "" {
		patch.Category = &category
	}
	if patch.Title == nil && patch.Description == nil && patch.Category == nil {
		printlnFn("Nothing to change")
		return nil
	}

	if err := a.resources.Update(ctx, id, patch); err != nil {
		return err
	}
	printlnFn("Updated")
	return nil
}

// Delete removes a resource.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "usage: delete <resource-id>")
	if err != nil {
		return err
	}
	if err := a.resources.Delete(ctx, id); err != nil {
		return err
	}
	printlnFn("Deleted")
	return nil
}

// Download fetches a resource's file into ./downloads.
func (a *App) Download(ctx context.Context, args []string) error {
	id, err := parseID(args, "usage: download <resource-id>")
	if err != nil {
		return err
	}
	path, err := a.resources.Download(ctx, id)
	if err != nil {
		return err
	}
	printlnFn("Saved to", path)
	return nil
}
