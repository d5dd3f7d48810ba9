package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var errNotInteractive = errors.New("survey needs an interactive terminal; use `timesplit submit` instead")

func newSurveyCmd(app *App) *cobra.Command {
	var name, team, role, strategy string

	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Fill in the survey with interactive sliders",
		Long: `Answer the survey in the terminal.

Each category has a slider. With the proportional strategy every change
rescales the other sliders so the total stays at 100%. With lock_aware
changes only touch the selected slider; lock the ones you are sure about
with space and press a to spread the rest over the unlocked sliders.

Examples:
  survey
  survey --name "Ada" --role qa --team "Content Quality"
  survey --strategy lock_aware`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errNotInteractive
			}

			strat := app.Strategy
			if cmd.Flags().Changed("strategy") {
				s, err := allocation.ParseStrategy(strategy)
				if err != nil {
					return err
				}
				strat = s
			}

			var r domain.Role
			if role != "" {
				r = domain.NormalizeRole(role)
			}
			identity, spec, err := askIdentity(app.Catalog, name, team, r)
			if err != nil {
				return err
			}

			model, err := newSurveyModel(cmd.Context(), app.Survey, spec, identity, strat)
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("running survey: %w", err)
			}
			if m, ok := final.(*surveyModel); ok && m.result == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Survey cancelled, nothing was saved.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name (asked when empty)")
	cmd.Flags().StringVar(&team, "team", "", "your team (asked when empty)")
	cmd.Flags().StringVar(&role, "role", "", "server, frontend or qa (asked when empty)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "proportional or lock_aware")
	return cmd
}

// askIdentity fills in whatever the flags left empty with a huh form.
func askIdentity(cat *catalog.Catalog, name, team string, role domain.Role) (surveyIdentity, catalog.RoleSpec, error) {
	roleValue := string(role)

	var fields []huh.Field
	if name == "" {
		fields = append(fields, huh.NewInput().
			Title("Your name").
			Value(&name).
			Validate(func(s string) error {
				_, _, err := domain.NormalizeIdentity(s, "-")
				return err
			}))
	}
	if roleValue == "" {
		roleValue = string(cat.DefaultRole())
		options := make([]huh.Option[string], 0, len(cat.Roles()))
		for _, spec := range cat.Roles() {
			options = append(options, huh.NewOption(spec.Label, string(spec.Role)))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Your role").
			Options(options...).
			Value(&roleValue))
	}
	if len(fields) > 0 {
		form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(timesplitHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return surveyIdentity{}, catalog.RoleSpec{}, fmt.Errorf("identity form: %w", err)
		}
	}

	spec, ok := cat.Lookup(domain.Role(roleValue))
	if !ok {
		return surveyIdentity{}, catalog.RoleSpec{}, fmt.Errorf("unknown role %q", roleValue)
	}

	if team == "" {
		if err := teamForm(spec, &team).Run(); err != nil {
			return surveyIdentity{}, catalog.RoleSpec{}, fmt.Errorf("team form: %w", err)
		}
	}

	cleanName, cleanTeam, err := domain.NormalizeIdentity(name, team)
	if err != nil {
		return surveyIdentity{}, catalog.RoleSpec{}, err
	}
	return surveyIdentity{Name: cleanName, Team: cleanTeam}, spec, nil
}

// teamForm offers the role's teams, or a free text input when the role
// lists none.
func teamForm(spec catalog.RoleSpec, team *string) *huh.Form {
	var field huh.Field
	if len(spec.Teams) == 0 {
		field = huh.NewInput().Title("Your team").Value(team)
	} else {
		field = huh.NewSelect[string]().
			Title(spec.Label + " team").
			Options(huh.NewOptions(spec.Teams...)...).
			Value(team)
	}
	return huh.NewForm(huh.NewGroup(field)).WithTheme(timesplitHuhTheme()).WithShowHelp(false)
}
