// Package project finds the Fox sources of a directory tree and parses
// them.
//
// A project is a directory with an optional fox.json manifest:
//
//	{"name": "demo", "fox": ">=0.4", "sources": ["src"]}
//
// Without a manifest the directory itself is the only source root.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/dhamidi/fox/fox/ast"
	"github.com/tliron/commonlog"
)

// LanguageVersion is the version of Fox this front end accepts.
const LanguageVersion = "0.4.0"

const (
	ManifestName = "fox.json"
	Extension    = ".fox"
)

var log = commonlog.GetLogger("fox.project")

type Manifest struct {
	Name string `json:"name"`
	// Fox is a semver constraint on LanguageVersion, e.g. ">=0.4".
	Fox     string   `json:"fox,omitempty"`
	Sources []string `json:"sources,omitempty"`
}

// ReadManifest decodes the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &m, nil
}

// CheckVersion reports an error when the manifest's constraint does not
// admit version.
func (m *Manifest) CheckVersion(version string) error {
	if m.Fox == "" {
		return nil
	}
	c, err := semver.NewConstraint(m.Fox)
	if err != nil {
		return fmt.Errorf("invalid fox constraint %q: %w", m.Fox, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid language version %q: %w", version, err)
	}
	if ok, errs := c.Validate(v); !ok {
		return fmt.Errorf("project requires fox %s: %w", m.Fox, errors.Join(errs...))
	}
	return nil
}

type Project struct {
	Name    string
	RootDir string
	// Manifest is nil when the directory has none.
	Manifest   *Manifest
	SourceDirs []string
}

func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom reads the manifest of rootDir, if any, and checks that the
// project accepts LanguageVersion.
func LoadFrom(rootDir string) (*Project, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("load project: %s is not a directory", rootDir)
	}

	proj := &Project{
		Name:       filepath.Base(absOr(rootDir)),
		RootDir:    rootDir,
		SourceDirs: []string{rootDir},
	}

	manifestPath := filepath.Join(rootDir, ManifestName)
	if _, err := os.Stat(manifestPath); errors.Is(err, fs.ErrNotExist) {
		log.Debugf("no %s in %s", ManifestName, rootDir)
		return proj, nil
	}
	m, err := ReadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if err := m.CheckVersion(LanguageVersion); err != nil {
		return nil, err
	}
	proj.Manifest = m
	if m.Name != "" {
		proj.Name = m.Name
	}
	if len(m.Sources) > 0 {
		proj.SourceDirs = proj.SourceDirs[:0]
		for _, dir := range m.Sources {
			if filepath.IsAbs(dir) || strings.HasPrefix(filepath.Clean(dir), "..") {
				return nil, fmt.Errorf("source directory %q is outside the project", dir)
			}
			proj.SourceDirs = append(proj.SourceDirs, filepath.Join(rootDir, dir))
		}
	}
	return proj, nil
}

func absOr(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Files returns every .fox file below the source directories, sorted.
// Hidden directories are skipped.
func (p *Project) Files() ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, dir := range p.SourceDirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !IsSource(path) || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan fox files in %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsSource reports whether path names a Fox source file.
func IsSource(path string) bool {
	return strings.HasSuffix(path, Extension)
}

// Entrypoint is a parameterless function named main.
type Entrypoint struct {
	File string
	Func *ast.FuncDecl
}

// FindEntrypoints returns the main functions of the parsed files.
func FindEntrypoints(results []*FileResult) []Entrypoint {
	var entrypoints []Entrypoint
	for _, r := range results {
		if r.Unit == nil {
			continue
		}
		for _, d := range r.Unit.Decls {
			fn := ast.AsFuncDecl(d)
			if fn == nil || fn.IsInvalid() || fn.Ident().String() != "main" || len(fn.Params) != 0 {
				continue
			}
			entrypoints = append(entrypoints, Entrypoint{File: r.Path, Func: fn})
		}
	}
	return entrypoints
}
