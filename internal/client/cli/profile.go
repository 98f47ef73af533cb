package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/moodkeeper/internal/client/services"
)

// Profile handles "profile show|set <field> <value>".
func (a *App) Profile(ctx context.Context, args []string) error {
	sub, rest := subcommand(args, "show")
	switch sub {
	case "show":
		return printJSON(a.out, a.profile.GetProfile(ctx))
	case "set":
		if len(rest) < 2 {
			return errUsage("profile set <field> <value>")
		}
		u, err := profileUpdate(rest[0], strings.Join(rest[1:], " "))
		if err != nil {
			return err
		}
		p, err := a.profile.UpdateProfile(ctx, u)
		if err != nil {
			return err
		}
		return printJSON(a.out, p)
	}
	return errUsage("profile show|set")
}

func profileUpdate(field, value string) (services.ProfileUpdate, error) {
	var u services.ProfileUpdate
	s := &value

	switch strings.ToLower(field) {
	case "name":
		u.Name = s
	case "age":
		u.Age = s
	case "profession":
		u.Profession = s
	case "weight":
		u.Weight = s
	case "height":
		u.Height = s
	case "gender":
		u.Gender = s
	case "about":
		u.About = s
	case "stresslevel":
		u.StressLevel = s
	case "sleepaverage":
		u.SleepAverage = s
	case "energypattern":
		u.EnergyPattern = s
	case "emotionalsensitivity":
		u.EmotionalSensitivity = s
	case "aitone":
		u.AITone = s
	case "suggestiondepth":
		u.SuggestionDepth = s
	case "defaultinsightrange":
		u.DefaultInsightRange = s
	case "allowlongtermanalysis", "showprofessionalsupportsuggestions":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return u, fmt.Errorf("%s expects true or false", field)
		}
		if strings.EqualFold(field, "allowLongTermAnalysis") {
			u.AllowLongTermAnalysis = &b
		} else {
			u.ShowProfessionalSupportSuggestions = &b
		}
	default:
		return u, fmt.Errorf("unknown profile field %q", field)
	}
	return u, nil
}
