// Package config loads mock tables from YAML or JSON files and the server
// configuration from the environment.
//
// A mock file lists request/response pairs:
//
//	mocks:
//	  - request:
//	      path: /api/users
//	      method: GET
//	    response:
//	      statusCode: 200
//	      headers:
//	        Content-Type: application/json
//	      body: '[{"id": 1}]'
//	options:
//	  canonicalJsonBodies: true
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/mockinizer/mockinizer/pkg/mock"
)

// File is the on-disk mock table format. JSON files parse through the same
// schema (YAML is a superset).
type File struct {
	Mocks   []mock.Entry `yaml:"mocks" json:"mocks"`
	Options Options      `yaml:"options,omitempty" json:"options,omitempty"`
}

// Options are table-wide construction options.
type Options struct {
	// CanonicalJSONBodies enables JSON body canonicalization on the table.
	CanonicalJSONBodies bool `yaml:"canonicalJsonBodies,omitempty" json:"canonicalJsonBodies,omitempty"`
}

// Load reads a mock file and builds its table.
func Load(path string) (*mock.Table, error) {
	entries, opts, err := LoadEntries(path)
	if err != nil {
		return nil, err
	}
	return buildTable(entries, opts)
}

// LoadEntries reads a mock file and returns its raw entries and options,
// for callers that merge multiple files before building a table.
func LoadEntries(path string) ([]mock.Entry, Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Options{}, fmt.Errorf("reading mock file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, Options{}, fmt.Errorf("parsing mock file %s: %w", path, err)
	}
	if len(f.Mocks) == 0 {
		return nil, Options{}, fmt.Errorf("mock file %s defines no mocks", path)
	}
	return f.Mocks, f.Options, nil
}

// LoadGlob loads every mock file matching the pattern and merges them into
// one table. Supports ** for recursive directory matching. Files are merged
// in sorted path order, so duplicate fingerprints resolve deterministically
// (last file wins). Options are OR-ed across files.
func LoadGlob(pattern string) (*mock.Table, error) {
	matches, err := expandGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no mock files match %q", pattern)
	}
	sort.Strings(matches)

	var all []mock.Entry
	var merged Options
	for _, path := range matches {
		entries, opts, err := LoadEntries(path)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
		merged.CanonicalJSONBodies = merged.CanonicalJSONBodies || opts.CanonicalJSONBodies
	}
	return buildTable(all, merged)
}

// LoadDir loads all .yaml, .yml, and .json mock files directly in dir.
func LoadDir(dir string) (*mock.Table, error) {
	return LoadGlob(filepath.Join(dir, "*.{yaml,yml,json}"))
}

func buildTable(entries []mock.Entry, opts Options) (*mock.Table, error) {
	var tableOpts []mock.TableOption
	if opts.CanonicalJSONBodies {
		tableOpts = append(tableOpts, mock.WithJSONBodyCanonicalization())
	}
	table, err := mock.NewTable(entries, tableOpts...)
	if err != nil {
		return nil, fmt.Errorf("building mock table: %w", err)
	}
	return table, nil
}

// expandGlob expands a glob pattern to matching file paths, using
// doublestar so ** and {a,b} alternation work on every platform.
func expandGlob(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		// Plain path, no glob.
		if _, err := os.Stat(pattern); err != nil {
			return nil, err
		}
		return []string{pattern}, nil
	}
	return doublestar.FilepathGlob(pattern)
}
