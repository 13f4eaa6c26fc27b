package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/dhamidi/fox/fox/lexer"
)

const mainSource = `func main() {
	let greeting: string = "hello";
}
`

// ValidName reports whether name can be used as a project name: a Fox
// identifier that is not a keyword.
func ValidName(name string) bool {
	tokens := lexer.Lex(1, name, nil)
	return len(tokens) == 2 && tokens[0].Kind == lexer.TokenIdent && tokens[0].Text == name
}

// Init creates a project in dir: a manifest admitting the current
// language minor version, and main.fox unless dir already holds sources.
// An empty name defaults to the base name of dir.
func Init(dir, name string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}
	if name == "" {
		name = filepath.Base(abs)
	}
	if !ValidName(name) {
		return nil, fmt.Errorf("invalid project name %q: must be a Fox identifier", name)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	manifestPath := filepath.Join(abs, ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return nil, fmt.Errorf("%s already exists", manifestPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v := semver.MustParse(LanguageVersion)
	m := Manifest{Name: name, Fox: fmt.Sprintf("~%d.%d", v.Major(), v.Minor())}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(manifestPath, append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	log.Infof("created %s", manifestPath)

	p, err := LoadFrom(abs)
	if err != nil {
		return nil, err
	}
	files, err := p.Files()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		mainPath := filepath.Join(abs, "main"+Extension)
		if err := os.WriteFile(mainPath, []byte(mainSource), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", mainPath, err)
		}
		log.Infof("created %s", mainPath)
	}
	return p, nil
}
