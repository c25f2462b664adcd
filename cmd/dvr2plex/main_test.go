package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dvr2plex-go/internal/config"
	"dvr2plex-go/pkg/ui"
	"dvr2plex-go/test/testutils"
)

// run executes the root command with args and returns what it printed.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	config.ResetFlags()
	t.Setenv("HOME", testutils.CreateTempDir(t))

	var out, errOut bytes.Buffer
	config.RootCmd.SetOut(&out)
	config.RootCmd.SetErr(&errOut)
	config.RootCmd.SetIn(strings.NewReader(stdin))
	config.RootCmd.SetArgs(args)
	t.Cleanup(func() {
		config.RootCmd.SetOut(nil)
		config.RootCmd.SetErr(nil)
		config.RootCmd.SetIn(nil)
	})

	err := config.RootCmd.Execute()
	return out.String(), err
}

func TestBuildInfo(t *testing.T) {
	tests := []struct {
		name     string
		variable *string
		expected string
	}{
		{"version", &version, "v1.0.0"},
		{"commit", &commit, "unknown"},
		{"date", &date, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if *tt.variable != tt.expected {
				t.Errorf("Expected %s to be '%s', got '%s'", tt.name, tt.expected, *tt.variable)
			}
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"parse", "explain", "series", "mkln", "watch", "version", "config"} {
		cmd, _, err := config.RootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, config.RunProcessing)
}

func TestRootPrintsDestinations(t *testing.T) {
	lib := testutils.CreateLibrary(t, testutils.CreateTempDir(t), "Castle (2009)", "Doctor Who")

	out, err := run(t, "Doctor Who E1203.ts\n",
		"-d", lib, "-t", "{DestSeries}/{SeasonFolder}/{DestSeries} - S{Season}E{Episode}{Extension}",
		"/rec/Castle S01E02.mpg", "-")
	require.NoError(t, err)
	assert.Equal(t,
		"Castle (2009)/Season 01/Castle (2009) - S01E02.mpg\n"+
			"Doctor Who/Season 12/Doctor Who - S12E03.ts\n", out)
}

func TestRootRequiresTemplate(t *testing.T) {
	_, err := run(t, "", "-d", testutils.CreateTempDir(t), "Castle S01E01.mpg")
	assert.Error(t, err)
}

func TestParseJSON(t *testing.T) {
	lib := testutils.CreateLibrary(t, testutils.CreateTempDir(t), "MacGyver (2016)")

	out, err := run(t, "", "parse", "--format", "json", "-d", lib, "/rec/MacGyver S02E05 Skull.mkv")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "MacGyver (2016)", got["dest_series"])
	assert.Equal(t, "02", got["season"])
	assert.Equal(t, "05", got["episode"])
	assert.Equal(t, "Skull", got["title"])
	assert.Equal(t, ".mkv", got["extension"])
}

func TestParseRendersEnvironmentTemplate(t *testing.T) {
	t.Setenv("Template", "{Series} S{Season}E{Episode}")

	out, err := run(t, "", "parse", "/rec/Castle S01E02.mpg")
	require.NoError(t, err)
	assert.Contains(t, out, "  -> Castle S01E02\n")
	assert.NotContains(t, out, "!!")
}

func TestParseWithoutTemplate(t *testing.T) {
	out, err := run(t, "", "parse", "--format", "json", "/rec/Castle.mpg")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Castle", got["series"])
	assert.NotContains(t, got, "output")
	assert.NotContains(t, got, "error")
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := run(t, "", "parse", "--format", "xml", "Castle S01E01.mpg")
	assert.Error(t, err)
}

func TestExplain(t *testing.T) {
	ui.SetColorEnabled(false)
	out, err := run(t, "", "explain", "--no-color", "-t", "{Series}", "Castle S01E01.mpg")
	require.NoError(t, err)
	assert.Contains(t, out, "SeasonEpisode")
	assert.Contains(t, out, "→ Castle")
}

func TestSeriesLookup(t *testing.T) {
	ui.SetColorEnabled(false)
	lib := testutils.CreateLibrary(t, testutils.CreateTempDir(t), "Castle", "S.W.A.T. (2017)")

	out, err := run(t, "", "series", "-d", lib)
	require.NoError(t, err)
	assert.Equal(t, "  Castle\n  S.W.A.T. (2017)\n", out)

	out, err = run(t, "", "series", "-d", lib, "--lookup", "SWAT Pilot")
	require.NoError(t, err)
	assert.Contains(t, out, "SWAT -> S.W.A.T. (2017)")
	assert.Contains(t, out, "remainder: Pilot")

	_, err = run(t, "", "series", "--lookup", "")
	assert.Error(t, err)
}

func TestMkln(t *testing.T) {
	root := testutils.CreateTempDir(t)
	original := filepath.Join(root, "Castle S01E01.mpg")
	testutils.WriteTestFile(t, original, "video")
	target := filepath.Join(root, "tv", "Castle", "Season 01", "Castle - S01E01.mpg")

	_, err := run(t, "", "mkln", original, target)
	require.NoError(t, err)

	a, _ := os.Stat(original)
	b, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, os.SameFile(a, b))

	_, err = run(t, "", "mkln", original)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "dvr2plex "))
}
