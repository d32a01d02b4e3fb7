package client

import (
	"context"
	"fmt"
	"io"

	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/notice"
	"github.com/cloo-solutions/jobfinder/internal/search"
	"github.com/cloo-solutions/jobfinder/internal/view"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func PreferencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "preferences",
		Aliases: []string{"prefs"},
		Short:   "Show or change notification and search preferences",
	}

	cmd.AddCommand(PreferencesGetCmd())
	cmd.AddCommand(PreferencesSetCmd())

	return cmd
}

func PreferencesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show preferences",
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			if err := app.requireLogin("view preferences"); err != nil {
				return err
			}
			prefs, err := app.API.Preferences(ctx)
			if err != nil {
				return app.fail("Failed to load preferences", err)
			}
			return app.Render(prefs, func(w io.Writer) { view.Preferences(w, *prefs) })
		}),
	}
}

func PreferencesSetCmd() *cobra.Command {
	var addPreset, presetFile string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change preferences",
		Long:  "Change preferences. Only flags given on the command line are sent.",
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			if err := app.requireLogin("update preferences"); err != nil {
				return err
			}

			update, err := preferencesUpdate(cmd.Flags())
			if err != nil {
				return err
			}

			if addPreset != "" {
				if update.SavedSearches, err = savedSearchesWith(ctx, app, presetFile, addPreset); err != nil {
					return err
				}
			}

			if update.IsEmpty() {
				return fmt.Errorf("nothing to update (see --help for the available flags)")
			}

			prefs, err := app.API.UpdatePreferences(ctx, update)
			if err != nil {
				return app.fail("Failed to update preferences", err)
			}
			app.Notifier.Notify(notice.Notice{Kind: notice.KindSuccess, Title: "Preferences updated"})
			return app.Render(prefs, func(w io.Writer) { view.Preferences(w, *prefs) })
		}),
	}

	flags := cmd.Flags()
	flags.Bool("email-notifications", false, "Email notifications")
	flags.Bool("new-job-alerts", false, "Alerts for new matching jobs")
	flags.Bool("application-updates", false, "Application status updates")
	flags.Bool("marketing-emails", false, "Marketing emails")
	flags.StringSlice("preferred-job-types", nil, "Preferred job types (comma separated)")
	flags.StringVar(&addPreset, "add-saved-search", "", "Append a search preset to your saved searches")
	flags.StringVar(&presetFile, "preset-file", "", "Preset file path")

	return cmd
}

func preferencesUpdate(flags *pflag.FlagSet) (domain.PreferencesUpdate, error) {
	var update domain.PreferencesUpdate

	boolFlag := func(name string) (*bool, error) {
		if !flags.Changed(name) {
			return nil, nil
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}

	var err error
	if update.EmailNotifications, err = boolFlag("email-notifications"); err != nil {
		return update, err
	}
	if update.NewJobAlerts, err = boolFlag("new-job-alerts"); err != nil {
		return update, err
	}
	if update.ApplicationUpdates, err = boolFlag("application-updates"); err != nil {
		return update, err
	}
	if update.MarketingEmails, err = boolFlag("marketing-emails"); err != nil {
		return update, err
	}
	if flags.Changed("preferred-job-types") {
		types, err := flags.GetStringSlice("preferred-job-types")
		if err != nil {
			return update, err
		}
		update.PreferredJobTypes = append([]string{}, types...)
	}
	return update, nil
}

// savedSearchesWith returns the current saved searches plus the named preset.
func savedSearchesWith(ctx context.Context, app *App, presetFile, name string) ([]domain.SearchFilters, error) {
	if presetFile == "" {
		p, err := defaultPresetPath()
		if err != nil {
			return nil, err
		}
		presetFile = p
	}
	presets, err := search.LoadPresets(presetFile)
	if err != nil {
		return nil, err
	}
	filters, err := presets.Filters(name)
	if err != nil {
		return nil, err
	}

	current, err := app.API.Preferences(ctx)
	if err != nil {
		return nil, app.fail("Failed to load preferences", err)
	}
	return append(append([]domain.SearchFilters{}, current.SavedSearches...), filters), nil
}
