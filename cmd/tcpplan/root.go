package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/tcp-planner/internal/config"
	"github.com/kingrea/tcp-planner/internal/plan"
	"github.com/kingrea/tcp-planner/internal/tui"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func newRootCmd() *cobra.Command {
	var projectDir string

	edit := func(cmd *cobra.Command, args []string) error {
		return runEdit(projectDir, args)
	}

	root := &cobra.Command{
		Use:   "tcpplan [plan.json]",
		Short: "Traffic control plan editor",
		Long: `tcpplan lays out traffic control signs and devices on a map and
sketches lane closures as polylines. Plans are exported as JSON documents
that can be imported again for further editing.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE:          edit,
	}
	root.PersistentFlags().StringVarP(&projectDir, "dir", "C", "", "project directory (default: current directory)")

	root.AddCommand(&cobra.Command{
		Use:   "edit [plan.json]",
		Short: "Open the editor, optionally importing a plan",
		Args:  cobra.MaximumNArgs(1),
		RunE:  edit,
	})
	root.AddCommand(newValidateCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tcpplan v%s (plan format v%d)\n", version, plan.Version)
		},
	}
}

func resolveProjectDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

func runEdit(projectDir string, args []string) error {
	dir, err := resolveProjectDir(projectDir)
	if err != nil {
		return sysError(err)
	}
	if err := config.InitPlannerDir(dir); err != nil {
		return sysError(fmt.Errorf("initialize %s directory: %w", config.PlannerDir, err))
	}

	var opts []tui.AppOption
	if len(args) == 1 {
		opts = append(opts, tui.WithInitialPlan(args[0]))
	}
	app, err := tui.NewApp(dir, opts...)
	if err != nil {
		if errors.Is(err, plan.ErrInvalidPlan) || errors.Is(err, plan.ErrNotPlanFile) || errors.Is(err, os.ErrNotExist) {
			return userError(err)
		}
		return sysError(err)
	}

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),       // Use alternate screen buffer (like vim does)
		tea.WithMouseCellMotion(), // Clicks, drags and the wheel reach the map
	)
	if _, err := p.Run(); err != nil {
		return sysError(fmt.Errorf("running editor: %w", err))
	}
	return nil
}
