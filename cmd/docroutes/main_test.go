package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/pkg/codec"
	"github.com/vango-dev/docroutes/pkg/routetable"
	"github.com/vango-dev/docroutes/pkg/server"
)

// fixturePath is resolved before any test changes directory.
var fixturePath, _ = filepath.Abs(filepath.Join("..", "..", "pkg", "codec", "testdata", "routes.js"))

func fixture(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, fixturePath)
	return fixturePath
}

// run executes the root command in an empty working directory so no
// docroutes.yaml is picked up.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runContext(t, context.Background(), args...)
}

func runContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	return runIn(t, ctx, t.TempDir(), args...)
}

func runIn(t *testing.T, ctx context.Context, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)

	var stdout, stderr bytes.Buffer
	root := (&cli{}).rootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestValidate(t *testing.T) {
	src := fixture(t)
	out, _, err := run(t, "validate", "-s", src)
	require.NoError(t, err)

	assert.Contains(t, out, src+" is valid")
	assert.Contains(t, out, "22 entries, 19 leaves, depth 4")
	assert.Contains(t, out, "fingerprint ")
}

func TestValidateReportsProblems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.json")
	require.NoError(t, os.WriteFile(path, []byte(noFallbackJSON), 0o644))

	_, _, err := run(t, "validate", "-s", path)
	require.Error(t, err)
	coded := errors.Classify(err)
	assert.Equal(t, "E301", coded.Code)
	assert.Contains(t, strings.Join(coded.Findings, "\n"), "MISSING_FALLBACK")

	_, _, err = run(t, "validate", "-s", path, "--allow-missing-fallback")
	assert.NoError(t, err)
}

const noFallbackJSON = `[{"path":"/blog","component":{"module":"/blog","hash":"a6a"},"exact":true}]`

func TestConfigFileSettings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes.json"), []byte(noFallbackJSON), 0o644))
	configPath := filepath.Join(dir, "docroutes.yaml")
	config := "source: routes.json\nvalidate:\n  allowMissingFallback: true\n"
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o644))

	// The relative source is read next to the config, not the working directory.
	out, _, err := run(t, "--config", configPath, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "routes.json")+" is valid")
}

func TestSourceFlagIsRelativeToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(fixture(t))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes"), data, 0o644))

	configDir := t.TempDir()
	configPath := filepath.Join(configDir, "docroutes.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("format: js\n"), 0o644))

	out, _, err := runIn(t, context.Background(), dir, "--config", configPath, "validate", "-s", "routes")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "routes")+" is valid")
}

func TestMissingSource(t *testing.T) {
	_, _, err := run(t, "validate", "-s", filepath.Join(t.TempDir(), "routes.js"))
	require.Error(t, err)
	assert.Equal(t, "E201", errors.Classify(err).Code)
}

func TestSyntaxErrorCarriesLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.js")
	require.NoError(t, os.WriteFile(path, []byte("export default [\n  {path: '/',\n"), 0o644))

	_, _, err := run(t, "validate", "-s", path)
	require.Error(t, err)
	coded := errors.Classify(err)
	assert.Equal(t, "E202", coded.Code)
	require.NotNil(t, coded.Location)
	assert.Equal(t, path, coded.Location.File)
}

func TestJSONSyntaxErrorCarriesExcerpt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	require.NoError(t, os.WriteFile(path, []byte("[\n  {\"path\": \"/a\",,}\n]\n"), 0o644))

	_, _, err := run(t, "validate", "-s", path)
	coded := errors.Classify(err)
	assert.Equal(t, "E202", coded.Code)
	require.NotNil(t, coded.Location)
	assert.Equal(t, 2, coded.Location.Line)
	require.NotNil(t, coded.Excerpt)
	assert.Equal(t, 1, coded.Excerpt.First)
	assert.Equal(t, `  {"path": "/a",,}`, coded.Excerpt.Lines[1])
}

func TestReportError(t *testing.T) {
	errors.DisableColors()
	defer errors.EnableColors()

	path := filepath.Join(t.TempDir(), "routes.js")
	require.NoError(t, os.WriteFile(path, []byte("export default [\n  {path: '/',\n"), 0o644))
	_, _, err := run(t, "validate", "-s", path)
	require.Error(t, err)

	var text bytes.Buffer
	(&cli{}).reportError(&text, err)
	assert.Contains(t, text.String(), "ERROR E202: Route table syntax error")
	assert.Contains(t, text.String(), path+":")

	var out bytes.Buffer
	(&cli{logFormat: "json"}).reportError(&out, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "E202", record["code"])
	assert.Equal(t, "parse", record["category"])
	msg, _ := record["msg"].(string)
	assert.True(t, strings.HasPrefix(msg, path+":"), "msg %q should start with the location", msg)
	assert.Contains(t, msg, "E202: Route table syntax error")
}

func TestReportErrorFollowsConfigLogFormat(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "docroutes.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  format: json\n"), 0o644))

	c := &cli{configFile: configPath}
	root := c.rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", configPath, "validate", "-s", filepath.Join(dir, "missing.js")})
	err := root.Execute()
	require.Error(t, err)

	var out bytes.Buffer
	c.reportError(&out, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &record))
	assert.Equal(t, "E201", record["code"])
}

func TestResolve(t *testing.T) {
	out, _, err := run(t, "resolve", "-s", fixture(t), "/docs/api/constants", "/nowhere")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "/docs/api/constants@d5f")
	assert.Contains(t, lines[0], "sidebar=tutorialSidebar")
	assert.Contains(t, lines[0], "layouts=/docs@0e7,/docs@133,/docs@0e9")
	assert.Contains(t, lines[1], "(fallback)")
}

func TestResolveJSON(t *testing.T) {
	out, _, err := run(t, "resolve", "-s", fixture(t), "--json", "/blog/archive")
	require.NoError(t, err)

	var matches []server.MatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "/blog/archive", matches[0].Pattern)
	assert.Equal(t, "182", matches[0].Component.Hash)
	assert.False(t, matches[0].Fallback)
}

func TestResolveInvalidPath(t *testing.T) {
	_, _, err := run(t, "resolve", "-s", fixture(t), `/docs\api`)
	require.Error(t, err)
	assert.Equal(t, "E401", errors.Classify(err).Code)
}

func TestConvert(t *testing.T) {
	src := fixture(t)
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	want, err := codec.Decode(codec.FormatJS, data)
	require.NoError(t, err)

	for _, format := range []codec.Format{codec.FormatJSON, codec.FormatYAML, codec.FormatTOML, codec.FormatJS} {
		t.Run(string(format), func(t *testing.T) {
			out, _, err := run(t, "convert", "-s", src, "--to", string(format))
			require.NoError(t, err)

			got, err := codec.Decode(format, []byte(out))
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "converted table differs")
		})
	}
}

func TestConvertToFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "routes.yaml")
	_, stderr, err := run(t, "convert", "-s", fixture(t), "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote "+dest+" (yaml)")

	out, _, err := run(t, "stats", "-s", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Entries:     22")
}

func TestQuery(t *testing.T) {
	out, _, err := run(t, "query", "-s", fixture(t), "$[*].path")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 14)
	assert.Equal(t, "/__docusaurus/debug", lines[0])
	assert.Equal(t, "*", lines[13])

	_, _, err = run(t, "query", "-s", fixture(t), "$[")
	require.Error(t, err)
	assert.Equal(t, "E302", errors.Classify(err).Code)
}

func TestLeaves(t *testing.T) {
	out, _, err := run(t, "leaves", "-s", fixture(t), "--sidebar", "tutorialSidebar")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "PATH"))
	assert.True(t, strings.HasPrefix(lines[1], "/docs/api/ "))

	out, _, err = run(t, "leaves", "-s", fixture(t), "--json")
	require.NoError(t, err)
	var leaves []routetable.Leaf
	require.NoError(t, json.Unmarshal([]byte(out), &leaves))
	assert.Len(t, leaves, 19)
}

func TestStatsJSON(t *testing.T) {
	out, _, err := run(t, "stats", "-s", fixture(t), "--json")
	require.NoError(t, err)

	var s statsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 22, s.Entries)
	assert.Equal(t, 3, s.Branches)
	assert.Equal(t, []string{"tutorialSidebar"}, s.Sidebars)
	assert.Len(t, s.Fingerprint, 64)
	assert.Positive(t, s.Size)
}

func TestVersionShort(t *testing.T) {
	out, _, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version+"\n", out)
}

func TestInvalidFlagValue(t *testing.T) {
	_, _, err := run(t, "validate", "-s", fixture(t), "--log-format", "xml")
	require.Error(t, err)
	assert.Equal(t, "E102", errors.Classify(err).Code)
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, _, err := runContext(t, ctx, "serve", "-s", fixture(t), "--host", "127.0.0.1", "--port", "0", "--watch")
	assert.NoError(t, err)
}

func TestServeRejectsStdin(t *testing.T) {
	_, _, err := run(t, "serve", "-s", "-")
	require.Error(t, err)
	assert.Equal(t, "E103", errors.Classify(err).Code)
}
