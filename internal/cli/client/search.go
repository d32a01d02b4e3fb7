package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/search"
	"github.com/cloo-solutions/jobfinder/internal/state"
	"github.com/cloo-solutions/jobfinder/internal/view"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// filterFlags maps search flags to filter fields.
var filterFlags = []struct {
	flag  string
	field string
}{
	{"keywords", domain.FieldKeywords},
	{"role", domain.FieldRole},
	{"location", domain.FieldLocation},
	{"job-type", domain.FieldJobType},
	{"experience", domain.FieldExperienceLevel},
	{"min-salary", domain.FieldMinSalary},
	{"remote", domain.FieldRemoteOnly},
	{"recent", domain.FieldRecentOnly},
	{"category", domain.FieldCategories},
}

type searchOptions struct {
	preset     string
	presetFile string
	savePreset string
	listOnly   bool
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [keywords]",
		Short: "Search jobs",
		Long: `Search job postings. Filters left at "all", false or empty are not sent.

Presets are named filter sets in a YAML file (default: <config dir>/jobfinder/presets.yaml):

  presets:
    remote-go:
      keywords: golang
      remote_only: true
      categories: [engineering]`,
		Args: cobra.MaximumNArgs(1),
		RunE: withApp(func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !cmd.Flags().Changed("keywords") {
				if err := cmd.Flags().Set("keywords", args[0]); err != nil {
					return err
				}
			}
			return runSearch(ctx, app, cmd.Flags(), opts)
		}),
	}

	addFilterFlags(cmd.Flags())
	cmd.Flags().StringVar(&opts.preset, "preset", "", "Start from a named preset")
	cmd.Flags().StringVar(&opts.presetFile, "preset-file", "", "Preset file path")
	cmd.Flags().StringVar(&opts.savePreset, "save-preset", "", "Save the resulting filters under this name")
	cmd.Flags().BoolVar(&opts.listOnly, "list-presets", false, "List preset names and exit")

	return cmd
}

func addFilterFlags(flags *pflag.FlagSet) {
	flags.StringP("keywords", "k", "", "Keywords, comma or space separated")
	flags.String("role", "", "Role title")
	flags.StringP("location", "l", "", "Location")
	flags.String("job-type", domain.AllValue, "Job type (full-time, part-time, contract, ... or all)")
	flags.String("experience", domain.AllValue, "Experience level (entry, mid, senior, ... or all)")
	flags.Float64("min-salary", domain.DefaultMinSalary, "Minimum salary in thousands")
	flags.Bool("remote", false, "Remote jobs only")
	flags.Bool("recent", false, "Recently posted jobs only")
	flags.StringSlice("category", nil, "Category (repeatable or comma separated)")
}

// applyFilterFlags pushes every explicitly set filter flag through the
// controller so flag values get the same coercion as any other input.
func applyFilterFlags(ctrl *search.Controller, flags *pflag.FlagSet) error {
	for _, ff := range filterFlags {
		f := flags.Lookup(ff.flag)
		if f == nil || !f.Changed {
			continue
		}

		var value any
		switch ff.field {
		case domain.FieldCategories:
			v, err := flags.GetStringSlice(ff.flag)
			if err != nil {
				return err
			}
			value = v
		default:
			value = f.Value.String()
		}

		if err := ctrl.UpdateFilter(ff.field, value); err != nil {
			return fmt.Errorf("--%s: %w", ff.flag, err)
		}
	}
	return nil
}

func runSearch(ctx context.Context, app *App, flags *pflag.FlagSet, opts searchOptions) error {
	presetFile := opts.presetFile
	if presetFile == "" && (opts.preset != "" || opts.savePreset != "" || opts.listOnly) {
		p, err := defaultPresetPath()
		if err != nil {
			return err
		}
		presetFile = p
	}

	if opts.listOnly {
		presets, err := search.LoadPresets(presetFile)
		if err != nil {
			return err
		}
		names := presets.Names()
		return app.Render(names, func(w io.Writer) {
			for _, n := range names {
				fmt.Fprintln(w, n)
			}
		})
	}

	if opts.preset != "" {
		if err := app.Search.ApplyPreset(presetFile, opts.preset); err != nil {
			return err
		}
	}
	if err := applyFilterFlags(app.Search, flags); err != nil {
		return err
	}

	if opts.savePreset != "" {
		if err := search.SavePreset(presetFile, opts.savePreset, app.State.State().Filters); err != nil {
			return err
		}
		fmt.Fprintf(app.Err, "Preset %q saved to %s\n", opts.savePreset, presetFile)
	}

	app.LoadSaved(ctx)

	searchErr := app.Search.Submit(ctx)
	if searchErr != nil && errors.Is(searchErr, state.ErrStaleSearch) {
		searchErr = nil
	}

	s := app.State.State()
	if err := app.Render(s, func(w io.Writer) {
		view.Filters(w, s.Filters)
		fmt.Fprintln(w)
		view.Results(w, s)
	}); err != nil {
		return err
	}
	return reported(searchErr)
}
