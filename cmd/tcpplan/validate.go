package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kingrea/tcp-planner/internal/catalog"
	"github.com/kingrea/tcp-planner/internal/plan"
)

var (
	okColor      = color.New(color.FgGreen, color.Bold)
	invalidColor = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.FgHiBlack)
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan.json>...",
		Short: "Check plan files without opening the editor",
		Long: `Strictly validates each plan file and lists every problem found.
Exits 1 when any file is invalid or missing, and 2 when an existing file
cannot be read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateFiles(cmd.OutOrStdout(), catalog.Default(), args)
		},
	}
}

func validateFiles(w io.Writer, signs *catalog.Catalog, paths []string) error {
	var worst error
	for _, path := range paths {
		err := validateFile(w, signs, path)
		if err == nil {
			continue
		}
		var ee *exitError
		if worst == nil || (errors.As(err, &ee) && ee.code == exitSysError) {
			worst = err
		}
	}
	return worst
}

// validateFile reports on one plan. Unknown sign types are legal but are
// listed as warnings since the editor can only draw them as placeholders.
func validateFile(w io.Writer, signs *catalog.Catalog, path string) error {
	p, err := plan.ReadFile(path)
	if err == nil {
		okColor.Fprint(w, "OK: ")
		fmt.Fprintf(w, "%s (%d objects, %d vertices)\n", path, len(p.Objects), len(p.Polyline))
		for _, obj := range p.Objects {
			if _, ok := signs.Lookup(obj.Type); !ok {
				warnColor.Fprintf(w, "  ! %s: unknown sign type %q\n", obj.ID, obj.Type)
			}
		}
		return nil
	}

	var verr *plan.ValidationError
	var perr *plan.ParseError
	switch {
	case errors.As(err, &verr):
		invalidColor.Fprint(w, "Invalid: ")
		fmt.Fprintln(w, path)
		for _, issue := range verr.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	case errors.As(err, &perr):
		invalidColor.Fprint(w, "Invalid: ")
		fmt.Fprintln(w, path)
		fmt.Fprintf(w, "  - malformed JSON: %v\n", perr.Err)
	case errors.Is(err, plan.ErrNotPlanFile):
		invalidColor.Fprint(w, "Invalid: ")
		fmt.Fprintln(w, path)
		dimColor.Fprintln(w, "  - expected a .json or .json.zst file")
	case errors.Is(err, os.ErrNotExist):
		return userError(err)
	default:
		return sysError(err)
	}
	return &exitError{code: exitUserError, err: err, quiet: true}
}
