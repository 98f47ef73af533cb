package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/client/services"
)

// Mood handles "mood add|list|delete".
func (a *App) Mood(ctx context.Context, args []string) error {
	sub, rest := subcommand(args, "list")
	switch sub {
	case "add":
		return a.moodAdd(ctx, rest)
	case "list", "ls":
		return a.moodList(ctx, rest)
	case "delete", "rm":
		return a.moodDelete(ctx, rest)
	}
	return errUsage("mood add|list|delete")
}

func (a *App) moodAdd(ctx context.Context, args []string) error {
	var in services.MoodUpsert

	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		if raw, err = GetSimpleText(a.reader, "Mood (1-5)", a.out); err != nil {
			return err
		}
	}
	mood, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("mood %q is not a number", raw)
	}
	in.Mood = &mood

	if len(args) > 1 {
		in.Slot = models.Slot(args[1])
	}
	if len(args) > 2 {
		in.Date = args[2]
	}

	if in.Note, err = GetSimpleText(a.reader, "Note (optional)", a.out); err != nil {
		return err
	}

	entries, err := a.moods.UpsertEntry(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved. %d entries in the log.\n", len(entries))
	return nil
}

func (a *App) moodList(ctx context.Context, args []string) error {
	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return errUsage("mood list [n]")
		}
		limit = n
	}

	entries := a.moods.GetEntries(ctx)
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No mood entries yet.")
		return nil
	}
	for _, e := range entries[:min(limit, len(entries))] {
		fmt.Fprintf(a.out, "%s  %-9s  %d  %s\n", e.Date, e.Slot, e.Mood, shorten(e.Note, 60))
	}
	return nil
}

func (a *App) moodDelete(ctx context.Context, args []string) error {
	var key services.MoodKey
	switch len(args) {
	case 1:
		key.ID = args[0]
	case 2:
		key.Date, key.Slot = args[0], models.Slot(args[1])
	default:
		return errUsage("mood delete <id> | <date> <slot>")
	}

	entries, err := a.moods.DeleteEntry(ctx, key)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted. %d entries left.\n", len(entries))
	return nil
}
