package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
)

// Insights prints the range summary, its prompt cost and the chart series.
// Without an argument the profile's default range is used. "generate"
// asks the model for a written insight and "circle" lists the people the
// journal mentions.
func (a *App) Insights(ctx context.Context, args []string) error {
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "generate", "gen":
			return a.generateInsight(ctx, args[1:])
		case "circle":
			return a.circle(ctx)
		}
	}

	raw := strings.ToLower(a.profile.GetProfile(ctx).DefaultInsightRange)
	if len(args) > 0 {
		raw = strings.ToLower(args[0])
	}
	r, err := models.ParseRange(raw)
	if err != nil {
		r = models.RangeWeek
		if len(args) > 0 {
			return err
		}
	}

	payload, tokens := a.insights.Payload(ctx, r)
	if err := printJSON(a.out, payload); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "~%d tokens\n\n", tokens)

	daily := a.insights.DailyAverages(ctx)
	for _, d := range daily[max(0, len(daily)-7):] {
		fmt.Fprintf(a.out, "%s  %+.2f  (%d)\n", d.Date, d.Average, d.Count)
	}
	for _, p := range a.insights.SlotSeries(ctx) {
		fmt.Fprintf(a.out, "%s  %+.2f  (%d)\n", p.Label, p.Value, p.Count)
	}
	return nil
}

func (a *App) generateInsight(ctx context.Context, args []string) error {
	var r models.Range
	if len(args) > 0 {
		var err error
		if r, err = models.ParseRange(strings.ToLower(args[0])); err != nil {
			return err
		}
	}

	res, err := a.insights.Generate(ctx, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n\n(%s, %d insights left today)\n", res.Insight, res.SelectedRangeUsed, res.LimitRemaining)
	return nil
}

func (a *App) circle(ctx context.Context) error {
	c := a.insights.Circle(ctx)
	if len(c.People) == 0 {
		fmt.Fprintln(a.out, "Nobody is mentioned often enough yet.")
		return nil
	}
	for _, p := range c.People {
		fmt.Fprintf(a.out, "%-16s %2d mentions  %+.2f  %s\n", p.Person, p.MentionCount, p.AvgMood, p.MoodCorrelation)
	}
	return nil
}

// Sync reads every collection once so local and remote converge, and makes
// sure the remote memory documents exist.
func (a *App) Sync(ctx context.Context) error {
	a.memory.EnsureMemoryScaffold(ctx)

	moods := a.moods.GetEntries(ctx)
	sessions := a.journal.GetJournalSessions(ctx)
	a.profile.GetProfile(ctx)
	a.memory.GetMemoryContext(ctx)

	fmt.Fprintf(a.out, "Synced %d mood entries and %d journal sessions.\n", len(moods), len(sessions))
	return nil
}
