// Package loader reads calendar test vectors from YAML files.
//
// A vector file names an anniversary and a list of current samples with the
// interval, match and display digits expected for each. Samples are written
// in the YY-MM-DD-hh-mm-ss form.
package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseVectors parses a vector file from YAML bytes.
func ParseVectors(data []byte) (*VectorFile, error) {
	var vf VectorFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if len(vf.Cases) == 0 {
		return nil, &LoadError{
			Message: "vector file must have at least one case",
		}
	}

	seen := make(map[string]bool, len(vf.Cases))
	for i := range vf.Cases {
		c := &vf.Cases[i]
		if c.ID == "" {
			return nil, &LoadError{Message: "case ID is required"}
		}
		if seen[c.ID] {
			return nil, &LoadError{Case: c.ID, Message: "duplicate case ID"}
		}
		seen[c.ID] = true

		if c.Anniversary == nil {
			if vf.Anniversary == nil {
				return nil, &LoadError{Case: c.ID, Message: "no anniversary in case or file"}
			}
			ann := *vf.Anniversary
			c.Anniversary = &ann
		}
		if c.Elapsed == nil && c.Match == nil && c.Digits == nil {
			return nil, &LoadError{Case: c.ID, Message: "case has no expectation"}
		}
	}

	return &vf, nil
}

// LoadFile loads a vector file.
func LoadFile(path string) (*VectorFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	vf, err := ParseVectors(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}

	vf.Path = path
	if vf.Name == "" {
		vf.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return vf, nil
}

// LoadDirectory loads every .yaml or .yml file in dir, sorted by name.
func LoadDirectory(dir string) ([]*VectorFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{
			File:    dir,
			Message: "failed to read directory",
			Cause:   err,
		}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	files := make([]*VectorFile, 0, len(names))
	for _, name := range names {
		vf, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files = append(files, vf)
	}
	return files, nil
}
