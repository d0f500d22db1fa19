package slashgen

import (
	"fmt"

	"github.com/itohatweb/slashgen/parsers"
)

// Validate parses the annotated declarations under dir and reports the first
// error, without writing anything.
func Validate(dir string, parserName string, opts *parsers.ParseOptions) error {
	_, err := parse(dir, parserName, opts)
	if err != nil {
		return err
	}
	fmt.Println("Validation successful.")
	return nil
}

// List prints the commands and subcommand groups found under dir.
func List(dir string, parserName string, opts *parsers.ParseOptions) error {
	dataModel, err := parse(dir, parserName, opts)
	if err != nil {
		return err
	}
	for _, pkg := range dataModel.Packages {
		fmt.Printf("Package: %s\n", pkg.ImportPath)
		for _, cmd := range pkg.Commands {
			fmt.Printf("  Command: /%s (%s)\n", cmd.Name, cmd.Ident)
			for _, opt := range cmd.Options {
				req := "optional"
				if opt.Required {
					req = "required"
				}
				fmt.Printf("    Option: %s %s (%s) %s\n", opt.Name, opt.Kind, req, opt.Description)
			}
		}
		for _, grp := range pkg.Groups {
			fmt.Printf("  Group: /%s (%s)\n", grp.Name, grp.Ident)
			for _, sub := range grp.Subcommands {
				fmt.Printf("    Subcommand: %s -> %s\n", sub.Name, sub.Inner)
			}
		}
	}
	return nil
}
