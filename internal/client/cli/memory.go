package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/client/services"
	"github.com/samber/lo"
)

// Memory handles "memory show|set|clear|refresh|names".
func (a *App) Memory(ctx context.Context, args []string) error {
	sub, rest := subcommand(args, "show")
	switch sub {
	case "show":
		return printJSON(a.out, a.memory.GetMemoryContext(ctx))
	case "set":
		if len(rest) != 1 {
			return errUsage("memory set <field>")
		}
		return a.memorySet(ctx, rest[0])
	case "clear":
		if len(rest) != 1 {
			return errUsage("memory clear <field>")
		}
		f, err := parseField(rest[0])
		if err != nil {
			return err
		}
		if _, err := a.memory.ClearOverride(ctx, f); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s is managed automatically again.\n", f)
		return nil
	case "refresh":
		if a.memory.MaybeRefreshLongTermSummary(ctx, services.RefreshInput{Force: true}) {
			fmt.Fprintln(a.out, "Long-term summary refreshed.")
		} else {
			fmt.Fprintln(a.out, "Long-term summary unchanged.")
		}
		return nil
	case "names":
		names := a.memory.SuggestManualTags(ctx, strings.Join(rest, " "))
		if len(names) == 0 {
			fmt.Fprintln(a.out, "No names found.")
			return nil
		}
		fmt.Fprintln(a.out, strings.Join(names, ", "))
		return nil
	}
	return errUsage("memory show|set|clear|refresh|names")
}

func parseField(s string) (models.Field, error) {
	for _, f := range models.EditableFields {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

func (a *App) memorySet(ctx context.Context, name string) error {
	f, err := parseField(name)
	if err != nil {
		return err
	}

	var patch models.LongTermPatch
	switch f {
	case models.FieldManualTags:
		pairs, err := GetPairs(a.reader, "Enter tags as label=name", a.out)
		if err != nil {
			return err
		}
		tags := lo.Map(pairs, func(p [2]string, _ int) models.ManualTag {
			return models.ManualTag{Label: p[0], Name: p[1]}
		})
		patch.ManualTags = &tags
	case models.FieldEmotionalTriggers, models.FieldSupportPatterns,
		models.FieldRecurringThemes, models.FieldRelationshipPatterns:
		raw, err := GetSimpleText(a.reader, "Enter comma-separated values", a.out)
		if err != nil {
			return err
		}
		setList(&patch, f, splitList(raw))
	default:
		raw, err := GetSimpleText(a.reader, "Enter new value", a.out)
		if err != nil {
			return err
		}
		setText(&patch, f, raw)
	}

	if _, err := a.memory.SaveLongTermSummary(ctx, patch, models.SourceManual); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %s.\n", f)
	return nil
}

func splitList(raw string) []string {
	return lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}

func setList(p *models.LongTermPatch, f models.Field, v []string) {
	switch f {
	case models.FieldEmotionalTriggers:
		p.EmotionalTriggers = &v
	case models.FieldSupportPatterns:
		p.SupportPatterns = &v
	case models.FieldRecurringThemes:
		p.RecurringThemes = &v
	case models.FieldRelationshipPatterns:
		p.RelationshipPatterns = &v
	}
}

func setText(p *models.LongTermPatch, f models.Field, v string) {
	switch f {
	case models.FieldProfileSummary:
		p.ProfileSummary = &v
	case models.FieldEmotionalBaselineSummary:
		p.EmotionalBaselineSummary = &v
	case models.FieldPersonalityPattern:
		p.PersonalityPattern = &v
	case models.FieldStressBaseline:
		p.StressBaseline = &v
	}
}
