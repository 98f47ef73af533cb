package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Journal handles "journal list|new|open|delete|write|entries". The open
// session is remembered between commands; write without one starts a new
// session.
func (a *App) Journal(ctx context.Context, args []string) error {
	sub, rest := subcommand(args, "list")
	switch sub {
	case "list", "ls":
		return a.journalList(ctx)
	case "new":
		s, err := a.journal.CreateJournalSession(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		a.session = s.ID
		fmt.Fprintf(a.out, "Started %q (%s)\n", s.Title, s.ID)
		return nil
	case "open":
		if len(rest) != 1 {
			return errUsage("journal open <id>")
		}
		for _, s := range a.journal.GetJournalSessions(ctx) {
			if s.ID == rest[0] {
				a.session = s.ID
				fmt.Fprintf(a.out, "Opened %q\n", s.Title)
				return nil
			}
		}
		return fmt.Errorf("no session %q", rest[0])
	case "delete", "rm":
		if len(rest) != 1 {
			return errUsage("journal delete <id>")
		}
		left, err := a.journal.DeleteJournalSession(ctx, rest[0])
		if err != nil {
			return err
		}
		if a.session == rest[0] {
			a.session = ""
		}
		fmt.Fprintf(a.out, "Deleted. %d sessions left.\n", len(left))
		return nil
	case "write", "w":
		return a.journalWrite(ctx)
	case "entries":
		return a.journalEntries(ctx, rest)
	}
	return errUsage("journal list|new|open|delete|write|entries")
}

func (a *App) journalList(ctx context.Context) error {
	sessions := a.journal.GetJournalSessions(ctx)
	if len(sessions) == 0 {
		fmt.Fprintln(a.out, "No journal sessions yet.")
		return nil
	}
	for _, s := range sessions {
		marker := " "
		if s.ID == a.session {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %s  %d exchanges, %s (%.2f)\n",
			marker, s.ID, shorten(s.Title, 40), len(s.Entries), s.MoodTrend, s.AverageMood)
	}
	return nil
}

func (a *App) journalWrite(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "What's on your mind?", a.out)
	if err != nil {
		return err
	}

	res, err := a.journal.Reflect(ctx, a.session, text)
	if err != nil {
		return err
	}
	a.session = res.SessionID

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, res.AssistantMessage.Text)
	return nil
}

func (a *App) journalEntries(ctx context.Context, args []string) error {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return errUsage("journal entries [n]")
		}
		limit = n
	}

	entries := a.journal.GetAllJournalEntries(ctx)
	for _, e := range entries[:min(limit, len(entries))] {
		fmt.Fprintf(a.out, "%s  %-8s %+.2f  [%s] %s\n",
			e.Date.Local().Format("2006-01-02 15:04"), e.MoodTag, e.SentimentScore, shorten(e.SessionTitle, 24), shorten(e.Text, 60))
	}
	return nil
}
