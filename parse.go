// Package slashgen generates slash-command option parsers and registration
// builders from annotated Go struct declarations.
package slashgen

import (
	"os"

	"github.com/itohatweb/slashgen/model"
	"github.com/itohatweb/slashgen/parsers"
	_ "github.com/itohatweb/slashgen/parsers/attrv1" // register the default parser
)

// DefaultParser is the parser used when none is named.
const DefaultParser = "attr-v1"

// parse builds the command model for a module directory using the named
// registered parser.
func parse(dir string, parserName string, opts *parsers.ParseOptions) (*model.DataModel, error) {
	if parserName == "" {
		parserName = DefaultParser
	}
	p, err := parsers.Get(parserName)
	if err != nil {
		return nil, err
	}
	return p.Parse(os.DirFS(dir), ".", opts)
}
