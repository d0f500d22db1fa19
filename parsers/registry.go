// Package parsers defines the declaration parser interface and registry.
package parsers

import (
	"fmt"
	"io/fs"

	"github.com/itohatweb/slashgen/model"
)

type Parser interface {
	Parse(fsys fs.FS, root string, opts *ParseOptions) (*model.DataModel, error)
}

var registry = make(map[string]Parser)

func Register(name string, p Parser) {
	registry[name] = p
}

func Get(name string) (Parser, error) {
	if p, ok := registry[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("parser %s not found", name)
}
