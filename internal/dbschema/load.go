package dbschema

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Load error codes.
const (
	ErrCodeNotFound   = "S001" // schema file does not exist
	ErrCodeReadFailed = "S002" // schema file could not be read
	ErrCodeParse      = "S003" // not valid JSON or YAML
	ErrCodeSchema     = "S004" // does not match the table schema
	ErrCodeCatalog    = "S005" // declarations are inconsistent
)

// ErrNotFound is matched by a LoadError for a missing file.
var ErrNotFound = errors.New("schema file not found")

// LoadError reports a schema file that could not be loaded.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrNotFound && e.Code == ErrCodeNotFound
}

// LoadFile reads a schema file. Files ending in .yaml or .yml are read as
// YAML, everything else as JSON.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "file does not exist", Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: err.Error(), Err: err}
	}
	return Load(path, data)
}

// Load validates and compiles schema data. filename selects the format and
// is used in error positions.
func Load(filename string, data []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("dbschema: embedded schema: %w", err)
	}

	var value cue.Value
	if isYAML(filename) {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &LoadError{Code: ErrCodeParse, Path: filename, Message: err.Error(), Err: err}
		}
		value = ctx.Encode(doc)
	} else {
		value = ctx.CompileBytes(data, cue.Filename(filename))
	}
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeParse, filename, err)
	}

	value = schema.LookupPath(cue.ParsePath("#Schema")).Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeSchema, filename, err)
	}

	var file File
	if err := value.Decode(&file); err != nil {
		return nil, cueLoadError(ErrCodeSchema, filename, err)
	}

	catalog, err := NewCatalog(file.Tables)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeCatalog, Path: filename, Message: err.Error(), Err: err}
	}
	return catalog, nil
}

func isYAML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// cueLoadError keeps the first CUE error and its position.
func cueLoadError(code, path string, err error) *LoadError {
	le := &LoadError{Code: code, Path: path, Message: err.Error(), Err: err}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	le.Message = errs[0].Error()
	if positions := cueerrors.Positions(errs[0]); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
