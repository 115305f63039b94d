package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/tcp-planner/internal/catalog"
	"github.com/kingrea/tcp-planner/internal/plan"
)

func init() {
	color.NoColor = true
}

func writePlanFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}

func TestValidateValidPlan(t *testing.T) {
	path := writePlanFile(t, "ok.json",
		`{"version":1,"objects":[{"id":"a","type":"W20-1","lat":10,"lng":20,"rotate":0,"scale":1}],"polyline":[[10,20],[10.1,20.1]]}`)
	var out bytes.Buffer
	err := validateFiles(&out, catalog.Default(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, "OK: "+path+" (1 objects, 2 vertices)\n", out.String())
}

func TestValidateWarnsOnUnknownSign(t *testing.T) {
	path := writePlanFile(t, "odd.json",
		`{"objects":[{"id":"a","type":"ZZ-9","lat":1,"lng":2,"rotate":0,"scale":1}],"polyline":[]}`)
	var out bytes.Buffer
	require.NoError(t, validateFiles(&out, catalog.Default(), []string{path}))
	assert.Contains(t, out.String(), `unknown sign type "ZZ-9"`)
}

func TestValidateListsEveryIssue(t *testing.T) {
	path := writePlanFile(t, "bad.json", `{"foo":1}`)
	var out bytes.Buffer
	err := validateFiles(&out, catalog.Default(), []string{path})
	assert.Equal(t, exitUserError, exitCode(err))
	assert.True(t, errors.Is(err, plan.ErrInvalidPlan))

	report := out.String()
	assert.True(t, strings.HasPrefix(report, "Invalid: "+path+"\n"), report)
	assert.Contains(t, report, "  - objects: ")
	assert.Contains(t, report, "  - polyline: ")
}

func TestValidateMalformedAndWrongExtension(t *testing.T) {
	bad := writePlanFile(t, "broken.json", `{"objects": [`)
	txt := writePlanFile(t, "plan.txt", `{}`)
	var out bytes.Buffer
	err := validateFiles(&out, catalog.Default(), []string{bad, txt})
	assert.Equal(t, exitUserError, exitCode(err))
	assert.Contains(t, out.String(), "malformed JSON")
	assert.Contains(t, out.String(), "expected a .json or .json.zst file")
}

func TestValidateMissingFile(t *testing.T) {
	var out bytes.Buffer
	err := validateFiles(&out, catalog.Default(), []string{filepath.Join(t.TempDir(), "nope.json")})
	assert.Equal(t, exitUserError, exitCode(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, newValidateCmd().Long, "invalid or missing")
}

func TestValidateUnreadableFileIsSystemError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.Mkdir(dir, 0o755))
	var out bytes.Buffer
	err := validateFiles(&out, catalog.Default(), []string{dir})
	assert.Equal(t, exitSysError, exitCode(err))
}

func TestPrintCatalog(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printCatalog(&out, catalog.Default()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, catalog.Default().Len()+1)
	assert.Contains(t, lines[1], "W20-1")
	assert.Contains(t, lines[len(lines)-1], "channelizer")
}

func TestRunExitCodes(t *testing.T) {
	assert.Equal(t, exitSuccess, run([]string{"version"}))

	bad := writePlanFile(t, "bad.json", `{"foo":1}`)
	assert.Equal(t, exitUserError, run([]string{"validate", bad}))
	assert.Equal(t, exitUserError, run([]string{"validate"}), "missing argument is a usage error")
}
