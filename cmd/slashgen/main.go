package main

import (
	"os"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/itohatweb/slashgen"
	"github.com/itohatweb/slashgen/parsers"
)

type commonFlags struct {
	Dir       string   `short:"d" default:"." help:"Project root directory containing go.mod."`
	Parser    string   `default:"attr-v1" help:"Declaration parser to use."`
	Path      []string `help:"Paths to search for annotated declarations, relative to dir."`
	Recursive bool     `default:"true" negatable:"" help:"Search the paths recursively."`
}

func (c *commonFlags) options() *parsers.ParseOptions {
	return &parsers.ParseOptions{SearchPaths: c.Path, Recursive: c.Recursive}
}

type generateCmd struct {
	commonFlags
}

func (c *generateCmd) Run() error {
	return slashgen.Generate(c.Dir, c.Parser, c.options())
}

type listCmd struct {
	commonFlags
}

func (c *listCmd) Run() error {
	return slashgen.List(c.Dir, c.Parser, c.options())
}

type validateCmd struct {
	commonFlags
}

func (c *validateCmd) Run() error {
	return slashgen.Validate(c.Dir, c.Parser, c.options())
}

type manifestCmd struct {
	commonFlags
	Format string `default:"yaml" enum:"yaml,json" help:"Manifest output format."`
	Output string `short:"o" help:"Write the manifest to a file instead of stdout."`
}

func (c *manifestCmd) Run() error {
	w := os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return slashgen.Manifest(w, c.Dir, c.Parser, c.Format, c.options())
}

type initCmd struct {
	Dir string `short:"d" default:"." help:"Project root directory."`
}

func (c *initCmd) Run() error {
	return slashgen.Init(c.Dir)
}

var cli struct {
	Generate generateCmd `cmd:"" help:"Generate option parsers and registration builders."`
	List     listCmd     `cmd:"" help:"List the annotated commands and groups."`
	Validate validateCmd `cmd:"" help:"Validate the annotated declarations without writing anything."`
	Manifest manifestCmd `cmd:"" help:"Print the command set as a registration manifest."`
	Init     initCmd     `cmd:"" help:"Write a slashgen.toml configuration scaffold."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("slashgen"),
		kong.Description("Generates slash-command option parsers and registration builders from annotated Go structs."),
		kong.UsageOnError(),
		// Flags override values loaded from project configuration files.
		kong.Configuration(kongtoml.Loader, "slashgen.toml", ".slashgen.toml"),
		kong.Configuration(kongyaml.Loader, "slashgen.yaml", ".slashgen.yaml"),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
