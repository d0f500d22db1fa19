package slashgen

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/itohatweb/slashgen/parsers"
	"github.com/itohatweb/slashgen/schema"
)

// Manifest parses the annotated declarations under dir and writes the full
// command set as a registration manifest, sorted by command name. Supported
// formats: "yaml" (default) and "json".
func Manifest(w io.Writer, dir string, parserName string, format string, opts *parsers.ParseOptions) error {
	dataModel, err := parse(dir, parserName, opts)
	if err != nil {
		return err
	}

	var commands []schema.Command
	for _, cmd := range dataModel.Commands() {
		commands = append(commands, cmd.Data())
	}
	for _, grp := range dataModel.Groups() {
		commands = append(commands, grp.Data(dataModel))
	}
	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })

	switch format {
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(commands); err != nil {
			return fmt.Errorf("failed to encode manifest: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(commands); err != nil {
			return fmt.Errorf("failed to encode manifest: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown manifest format %q (expected yaml or json)", format)
	}
}
