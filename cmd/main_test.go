package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/AdguardTeam/golibs/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wikitools/watchlist/rules"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)

	os.Exit(m.Run())
}

func TestCreateJob(t *testing.T) {
	j, err := createJob(afero.NewMemMapFs(), Options{
		Mode:       "ends-with",
		These:      []string{`/doc,/sandbox`, `/a\,b`},
		Exceptions: []string{"Template:"},
		Quiet:      true,
	})
	require.NoError(t, err)
	require.Len(t, j.Steps, 1)
	assert.False(t, j.Save)

	s := j.Steps[0]
	assert.Equal(t, rules.ModeEndsWith, s.Mode)
	assert.Equal(t, []string{"/doc", "/sandbox", "/a,b"}, s.These)
	assert.Equal(t, []string{"Template:"}, s.Options.Exceptions)
	assert.False(t, s.Options.Log)
	assert.False(t, s.Options.Save)

	_, err = createJob(afero.NewMemMapFs(), Options{})
	assert.Error(t, err)

	_, err = createJob(afero.NewMemMapFs(), Options{Mode: "all"})
	assert.ErrorIs(t, err, rules.ErrUnknownMode)
}

func TestRun_raw(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "watchlist.txt")
	require.NoError(t, os.WriteFile(input, []byte("Template:Foo/doc\nBar\n"), 0o600))

	code := run(Options{
		Input: input,
		Mode:  "endswith",
		These: []string{"/doc"},
		Save:  true,
		Quiet: true,
	})
	assert.Equal(t, 0, code)

	data, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, "\nBar\n", string(data))
}

func TestRun_html(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "htmlpage", "testdata", "edit.html"))
	require.NoError(t, err)

	dir := t.TempDir()
	input := filepath.Join(dir, "edit.html")
	require.NoError(t, os.WriteFile(input, data, 0o600))

	formOut := filepath.Join(dir, "form.txt")
	code := run(Options{
		Input:     input,
		Mode:      "namespace",
		Namespace: "10",
		Save:      true,
		Quiet:     true,
		OutPage:   filepath.Join(dir, "out.html"),
		FormOut:   formOut,
	})
	assert.Equal(t, 0, code)

	assert.FileExists(t, filepath.Join(dir, "out.html"))

	payload, err := os.ReadFile(formOut)
	require.NoError(t, err)

	vals, err := url.ParseQuery(string(payload))
	require.NoError(t, err)
	assert.NotEmpty(t, vals["wpTitlesNs10[]"])
	assert.Empty(t, vals["wpTitlesNs0[]"])
}

func TestRun_job(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "watchlist.txt")
	require.NoError(t, os.WriteFile(input, []byte("Template:Foo/doc\nTemplate:Bar\n"), 0o600))

	jobFile := filepath.Join(dir, "job.yaml")
	jobData := "save: true\nsteps:\n  - mode: endswith\n    these: [\"/doc\"]\n    log: false\n  - mode: redirects\n"
	require.NoError(t, os.WriteFile(jobFile, []byte(jobData), 0o600))

	logFile := filepath.Join(dir, "run.log")
	code := run(Options{
		Input:     input,
		JobFile:   jobFile,
		LogOutput: logFile,
	})
	log.SetOutput(io.Discard)
	assert.Equal(t, 1, code)

	data, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, "\nTemplate:Bar\n", string(data))

	logData, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "endswith: flagged 1 titles")
}

func TestRun_errors(t *testing.T) {
	assert.Equal(t, 2, run(Options{Input: "missing.txt"}))
	assert.Equal(t, 1, run(Options{Input: filepath.Join(t.TempDir(), "missing.txt"), Mode: "redlinks"}))

	dir := t.TempDir()
	input := filepath.Join(dir, "watchlist.txt")
	require.NoError(t, os.WriteFile(input, []byte("Foo\n"), 0o600))

	assert.Equal(t, 1, run(Options{Input: input, Mode: "redlinks", Quiet: true}))
}
