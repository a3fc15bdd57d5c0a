package main

import (
	"os"
	"path/filepath"
	"testing"

	"4d63.com/testcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigTableOrder(t *testing.T) {
	cfg, err := parseConfig([]byte(`
repo = "facade"

[repos]
zeta = "../zeta"
alpha = "../alpha"
"mid dle" = "../middle"
`))
	require.NoError(t, err)
	assert.Equal(t, "facade", cfg.Repo)
	assert.Equal(t, BeforeCommit, cfg.WatermarkOrder)
	assert.Equal(t, []Source{
		{Name: "zeta", Path: "../zeta"},
		{Name: "alpha", Path: "../alpha"},
		{Name: "mid dle", Path: "../middle"},
	}, cfg.Sources)
}

func TestParseConfigInlineTable(t *testing.T) {
	cfg, err := parseConfig([]byte(`
repo = "facade"
repos = { b = "/src/b", a = "/src/a" }
watermark_order = "after-commit"
`))
	require.NoError(t, err)
	assert.Equal(t, AfterCommit, cfg.WatermarkOrder)
	assert.Equal(t, []Source{
		{Name: "b", Path: "/src/b"},
		{Name: "a", Path: "/src/a"},
	}, cfg.Sources)
}

func TestParseConfigDottedKeys(t *testing.T) {
	cfg, err := parseConfig([]byte(`
repos.second = "/src/2"
repo = "facade"
repos.first = "/src/1"
`))
	require.NoError(t, err)
	assert.Equal(t, []Source{
		{Name: "second", Path: "/src/2"},
		{Name: "first", Path: "/src/1"},
	}, cfg.Sources)
}

func TestParseConfigNoSources(t *testing.T) {
	cfg, err := parseConfig([]byte(`
repo = "facade"
[repos]
`))
	require.NoError(t, err)
	assert.Empty(t, cfg.Sources)
}

func TestParseConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"missing repo":      "[repos]\na = \"/a\"\n",
		"missing repos":     "repo = \"facade\"\n",
		"repo not a string": "repo = 1\n[repos]\n",
		"repos not a table": "repo = \"facade\"\nrepos = \"/a\"\n",
		"source not string": "repo = \"facade\"\n[repos]\na = 1\n",
		"bad order":         "repo = \"facade\"\nwatermark_order = \"sometimes\"\n[repos]\n",
		"not toml":          "repo = \n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfig([]byte(content))
			require.Error(t, err)
			assert.True(t, ErrConfigInvalid.Is(err), "unexpected error: %v", err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	dir := testcli.MkdirTemp(t)

	_, err := loadConfig(filepath.Join(dir, defaultConfigFile))
	require.Error(t, err)
	assert.True(t, ErrConfigRead.Is(err))
	assert.Equal(t, "Failed to read file: "+filepath.Join(dir, defaultConfigFile), err.Error())
}

func TestLoadConfigFile(t *testing.T) {
	dir := testcli.MkdirTemp(t)
	testcli.Chdir(t, dir)
	require.NoError(t, os.WriteFile(defaultConfigFile, []byte("repo = \"out\"\n[repos]\nlib = \"../lib\"\n"), 0644))

	cfg, err := loadConfig(defaultConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Repo)
	assert.Equal(t, []Source{{Name: "lib", Path: "../lib"}}, cfg.Sources)
}
