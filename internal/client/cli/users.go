package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Users lists the peers available for direct messages.
func (a *App) Users(ctx context.Context) error {
	me := a.sess.Current()
	if me == nil {
		return errors.New("log in first")
	}

	peers, err := a.directory.Peers(ctx, me.ID)
	if err != nil {
		return err
	}
	if len(peers) == 0 {
		printlnFn("(no other users yet)")
		return nil
	}
	for _, u := range peers {
		printlnFn(fmt.Sprintf("%d: %s <%s> %s", u.ID, u.Username, u.Email, u.FullName))
	}
	return nil
}

// Groups lists the study groups.
func (a *App) Groups(ctx context.Context) error {
	groups, err := a.groups.List(ctx)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		printlnFn("(no groups yet)")
		return nil
	}
	for _, g := range groups {
		printlnFn(fmt.Sprintf("%d: %s [%s] %s", g.ID, g.Name, g.Category, g.Description))
	}
	return nil
}

// NewGroup prompts for a name, description and category and creates a group.
func (a *App) NewGroup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Group name", os.Stdout)
	if err != nil {
		return err
	}
	if name == "" {
		return errors.New("group name is required")
	}
	description, err := getSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category", os.Stdout)
	if err != nil {
		return err
	}

	id, err := a.groups.Create(ctx, name, description, category)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Created group %d, open it with 'open %d'", id, id))
	return nil
}
