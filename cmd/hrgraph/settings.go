package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"hrgraph/internal/filter"
	"hrgraph/internal/settings"

	"github.com/spf13/cobra"
)

var (
	filterCompanies   []string
	filterDepartments []string
	filterRelations   []string
	showSensitive     bool
	hideLowWeight     bool
	edgeLimit         int
	colorBlind        bool
	centralitySize    bool
	departmentColors  bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show, change and persist filters and visual settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings and the available filter values",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		data, err := settings.Marshal(sess.state.Settings())
		if err != nil {
			return err
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, data, "", "  "); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, pretty.String())

		opts := sess.state.FilterOptions()
		fmt.Fprintf(out, "companies: %s\n", strings.Join(opts.Companies, ", "))
		fmt.Fprintf(out, "departments: %s\n", strings.Join(opts.Departments, ", "))
		fmt.Fprintf(out, "relations: %s\n", strings.Join(opts.Relations, ", "))
		return nil
	},
}

var settingsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Apply the given filter flags and save the settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		flags := cmd.Flags()
		st := sess.state.Filter()
		if flags.Changed("company") {
			st.Companies = filter.NewSet(filterCompanies...)
		}
		if flags.Changed("department") {
			st.Departments = filter.NewSet(filterDepartments...)
		}
		if flags.Changed("relation") {
			st.Relations = filter.NewSet(filterRelations...)
		}
		if flags.Changed("sensitive") {
			st.SensitiveVisible = showSensitive
		}
		if flags.Changed("hide-low-weight") {
			st.HideLowWeight = hideLowWeight
		}
		if flags.Changed("edge-limit") {
			st.EdgeLimit = edgeLimit
		}
		if err := sess.state.SetFilter(st); err != nil {
			return fmt.Errorf("%w (pass --yes to confirm)", err)
		}

		b := sess.state.Settings()
		if flags.Changed("color-blind") {
			b.Settings.ColorBlindMode = colorBlind
		}
		if flags.Changed("centrality-size") {
			b.Settings.CentralityBasedSize = centralitySize
		}
		if flags.Changed("department-colors") {
			b.Settings.DepartmentColors = departmentColors
		}
		sess.state.SetSettings(b)

		if err := sess.state.SaveSettings(ctx); err != nil {
			return err
		}
		vis := sess.state.Visibility()
		fmt.Fprintf(cmd.OutOrStdout(), "💾 Settings saved. %d of %d edges visible.\n", vis.VisibleEdges(), len(vis.Edges))
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the reset values and forget saved settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		if err := sess.state.ResetSettings(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings reset.")
		return nil
	},
}

var settingsPresetCmd = &cobra.Command{
	Use:   "preset <name>",
	Short: fmt.Sprintf("Apply and save a preset (%s or custom)", strings.Join(settings.Presets(), ", ")),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		if args[0] == "custom" {
			err = sess.state.ApplyCustomPreset(ctx)
		} else {
			err = sess.state.ApplyPreset(args[0])
		}
		if err != nil {
			return err
		}
		if err := sess.state.SaveSettings(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Preset %q applied.\n", args[0])
		return nil
	},
}

var settingsSavePresetCmd = &cobra.Command{
	Use:   "save-preset",
	Short: "Store the current visual settings as the custom preset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, err := openSession(ctx, cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		if err := sess.state.SaveCustomPreset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Custom preset saved.")
		return nil
	},
}

func init() {
	f := settingsSaveCmd.Flags()
	f.StringSliceVar(&filterCompanies, "company", nil, "Show only nodes of these companies")
	f.StringSliceVar(&filterDepartments, "department", nil, "Show only nodes of these departments")
	f.StringSliceVar(&filterRelations, "relation", nil, "Show only edges of these relations")
	f.BoolVar(&showSensitive, "sensitive", false, "Show spouse and kinship relations")
	f.BoolVar(&hideLowWeight, "hide-low-weight", false, "Hide edges with weight below 2")
	f.IntVar(&edgeLimit, "edge-limit", settings.DefaultEdgeLimit, "Maximum number of visible edges (0 for no limit)")
	f.BoolVar(&colorBlind, "color-blind", false, "Use the colour-blind palette")
	f.BoolVar(&centralitySize, "centrality-size", false, "Size nodes by degree")
	f.BoolVar(&departmentColors, "department-colors", false, "Colour people by department")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSaveCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsPresetCmd)
	settingsCmd.AddCommand(settingsSavePresetCmd)
}
