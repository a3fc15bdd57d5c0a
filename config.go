package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
)

// defaultConfigFile is looked up in the working directory
const defaultConfigFile = ".gitfacade.toml"

// WatermarkOrder decides whether the watermark is persisted before or after
// the façade commit it covers.
type WatermarkOrder string

const (
	// BeforeCommit persists the watermark, then writes the façade commit.
	BeforeCommit WatermarkOrder = "before-commit"
	// AfterCommit writes the façade commit, then persists the watermark.
	AfterCommit WatermarkOrder = "after-commit"
)

// Config is the content of .gitfacade.toml
type Config struct {
	// Repo is the façade repository path.
	Repo string `toml:"repo"`
	// Repos maps source names to source repository paths.
	Repos          map[string]string `toml:"repos"`
	WatermarkOrder WatermarkOrder    `toml:"watermark_order"`

	// Sources lists Repos in document order.
	Sources []Source `toml:"-"`
}

// loadConfig reads and validates the configuration file at path
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrConfigRead.New(path)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, ErrConfigInvalid.Wrap(err, "content")
	}

	if cfg.Repo == "" {
		return nil, ErrConfigInvalid.New("content: missing key \"repo\"")
	}

	switch cfg.WatermarkOrder {
	case "":
		cfg.WatermarkOrder = BeforeCommit
	case BeforeCommit, AfterCommit:
	default:
		return nil, ErrConfigInvalid.New(fmt.Sprintf("content: watermark_order %q is not one of %q, %q",
			cfg.WatermarkOrder, BeforeCommit, AfterCommit))
	}

	names, found, err := sourceOrder(data)
	if err != nil {
		return nil, ErrConfigInvalid.Wrap(err, "content")
	}
	if !found {
		return nil, ErrConfigInvalid.New("content: missing key \"repos\"")
	}
	if cfg.Repos == nil {
		cfg.Repos = map[string]string{}
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		path, ok := cfg.Repos[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		cfg.Sources = append(cfg.Sources, Source{Name: name, Path: path})
	}

	// keys the scan could not place keep a stable order after the rest
	var rest []string
	for name := range cfg.Repos {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		cfg.Sources = append(cfg.Sources, Source{Name: name, Path: cfg.Repos[name]})
	}

	return &cfg, nil
}

// sourceOrder returns the keys of the repos table in the order they appear
// in the document, and whether the document defines repos at all. It
// understands a [repos] table, an inline table and dotted repos.<name> keys.
func sourceOrder(data []byte) ([]string, bool, error) {
	var (
		p       unstable.Parser
		names   []string
		found   bool
		inRepos bool
		atRoot  = true
	)

	p.Reset(data)
	for p.NextExpression() {
		e := p.Expression()

		switch e.Kind {
		case unstable.Table, unstable.ArrayTable:
			key := keyOf(e.Key())
			atRoot = false
			inRepos = e.Kind == unstable.Table && len(key) == 1 && key[0] == "repos"
			found = found || inRepos

		case unstable.KeyValue:
			key := keyOf(e.Key())
			switch {
			case inRepos && len(key) >= 1:
				names = append(names, key[0])
			case atRoot && len(key) >= 2 && key[0] == "repos":
				found = true
				names = append(names, key[1])
			case atRoot && len(key) == 1 && key[0] == "repos" && e.Value().Kind == unstable.InlineTable:
				found = true
				it := e.Value().Children()
				for it.Next() {
					kv := it.Node()
					if kv.Kind != unstable.KeyValue {
						continue
					}
					if k := keyOf(kv.Key()); len(k) >= 1 {
						names = append(names, k[0])
					}
				}
			}
		}
	}

	return names, found, p.Error()
}

// keyOf copies the parts of a dotted key
func keyOf(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}
