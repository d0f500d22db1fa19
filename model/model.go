// Package model holds the normalized slash-command model produced by the
// declaration parsers and consumed by code generation and manifest output.
package model

import (
	"go/token"
	"sort"
	"strings"

	"github.com/itohatweb/slashgen/schema"
)

// SchemaImportPath is the import path of the schema package generated code
// depends on. Annotated declarations reference its resolved option types.
const SchemaImportPath = "github.com/itohatweb/slashgen/schema"

// DataModel is the parsed command model for one Go module.
type DataModel struct {
	// FileSet is the token.FileSet used for parsing; it resolves every Pos in
	// the model to file:line:column.
	FileSet *token.FileSet
	// ModulePath is the module path from go.mod.
	ModulePath string
	// Packages lists every scanned package containing at least one annotated
	// declaration, ordered by import path.
	Packages []*Package
}

// Package groups the annotated declarations of one Go package. Generated code
// is emitted once per package.
type Package struct {
	// Dir is the package directory relative to the module root.
	Dir string
	// Name is the package name.
	Name string
	// ImportPath is the package's full import path.
	ImportPath string
	// Commands lists the leaf commands declared in the package, by name.
	Commands []*Command
	// Groups lists the subcommand groups declared in the package, by name.
	Groups []*Group
}

// Command is one leaf slash command: a named-field or empty struct.
type Command struct {
	// Ident is the declared Go type name.
	Ident string
	// Name is the resolved command name, 1-32 characters.
	Name string
	// Description is the resolved description, 1-100 characters.
	Description string
	// DefaultPermission is whether the command is enabled by default.
	DefaultPermission bool
	// DefinitionFile is the file the declaration lives in.
	DefinitionFile string
	// Pos is the position of the type identifier.
	Pos token.Pos
	// Options lists the command's options in declaration order.
	Options []*Option
}

// Option is one command option, produced from one struct field.
type Option struct {
	// FieldIdent is the Go field name.
	FieldIdent string
	// Name is the resolved option name (rename or field identifier).
	Name string
	// Description is the option description; may be empty when the field has
	// neither a desc key nor a documentation comment.
	Description string
	// Type is the field type as written in source, e.g. "*int64" or "schema.User".
	Type string
	// Kind is the platform option type the field type maps to.
	Kind schema.OptionType
	// Required is true for non-pointer fields.
	Required bool
	// ImportPath is the import path of the type's package for selector types,
	// empty for builtin types.
	ImportPath string
	// Pos is the position of the field identifier.
	Pos token.Pos
}

// IsPointer reports whether the field type is a pointer (an optional option).
func (o *Option) IsPointer() bool {
	return strings.HasPrefix(o.Type, "*")
}

// BaseType returns the field type with any pointer stripped; this is the type
// generated parsers assert option values to.
func (o *Option) BaseType() string {
	return strings.TrimPrefix(o.Type, "*")
}

// KindConst returns the schema package constant name for the option's kind,
// for use in generated code.
func (o *Option) KindConst() string {
	switch o.Kind {
	case schema.OptionString:
		return "OptionString"
	case schema.OptionInteger:
		return "OptionInteger"
	case schema.OptionBoolean:
		return "OptionBoolean"
	case schema.OptionNumber:
		return "OptionNumber"
	case schema.OptionUser:
		return "OptionUser"
	case schema.OptionChannel:
		return "OptionChannel"
	case schema.OptionRole:
		return "OptionRole"
	case schema.OptionMentionable:
		return "OptionMentionable"
	case schema.OptionAttachment:
		return "OptionAttachment"
	default:
		return "OptionType(0)"
	}
}

// Data returns the option's registration payload.
func (o *Option) Data() schema.Option {
	return schema.Option{
		Type:        o.Kind,
		Name:        o.Name,
		Description: o.Description,
		Required:    o.Required,
	}
}

// Data returns the command's registration payload.
func (c *Command) Data() schema.Command {
	data := schema.Command{
		Name:              c.Name,
		Description:       c.Description,
		DefaultPermission: c.DefaultPermission,
	}
	for _, o := range c.Options {
		data.Options = append(data.Options, o.Data())
	}
	return data
}

// Group is one subcommand group: a struct whose fields are the subcommands.
type Group struct {
	// Ident is the declared Go type name.
	Ident string
	// Name is the resolved group name, 1-32 characters.
	Name string
	// Description is the resolved description, 1-100 characters.
	Description string
	// DefaultPermission is whether the group is enabled by default.
	DefaultPermission bool
	// DefinitionFile is the file the declaration lives in.
	DefinitionFile string
	// Pos is the position of the type identifier.
	Pos token.Pos
	// Subcommands lists the group's variants in declaration order. The order
	// is meaningful for deterministic builder output; invocation dispatch is
	// by name.
	Subcommands []*Variant
}

// Variant is one subcommand of a group, produced from one struct field.
type Variant struct {
	// FieldIdent is the Go field name.
	FieldIdent string
	// Name is the subcommand name from the directive.
	Name string
	// Inner is the field type as written in source, e.g. "EditCommand" or
	// "perms.EditCommand".
	Inner string
	// ImportPath is the import path of the inner type's package for selector
	// types, empty for same-package types.
	ImportPath string
	// Pos is the position of the field identifier.
	Pos token.Pos
}

// InnerIdent returns the inner type name without any package qualifier.
func (v *Variant) InnerIdent() string {
	if i := strings.LastIndex(v.Inner, "."); i >= 0 {
		return v.Inner[i+1:]
	}
	return v.Inner
}

// InnerQualifier returns the package qualifier of the inner type, or "" for
// same-package types.
func (v *Variant) InnerQualifier() string {
	if i := strings.LastIndex(v.Inner, "."); i >= 0 {
		return v.Inner[:i]
	}
	return ""
}

// ParseFunc returns the generated parse function for the inner type, qualified
// the same way the field type is.
func (v *Variant) ParseFunc() string {
	if q := v.InnerQualifier(); q != "" {
		return q + ".Parse" + v.InnerIdent()
	}
	return "Parse" + v.InnerIdent()
}

// AddCommand inserts a command keeping the package's commands sorted by name.
func (p *Package) AddCommand(c *Command) {
	p.Commands = append(p.Commands, c)
	sort.Slice(p.Commands, func(i, j int) bool { return p.Commands[i].Name < p.Commands[j].Name })
}

// AddGroup inserts a group keeping the package's groups sorted by name.
func (p *Package) AddGroup(g *Group) {
	p.Groups = append(p.Groups, g)
	sort.Slice(p.Groups, func(i, j int) bool { return p.Groups[i].Name < p.Groups[j].Name })
}

// Imports returns the extra import paths generated code for this package
// needs, keyed by path with the qualifier used in source as value.
func (p *Package) Imports() map[string]string {
	imports := make(map[string]string)
	for _, c := range p.Commands {
		for _, o := range c.Options {
			if o.ImportPath == "" {
				continue
			}
			base := o.BaseType()
			if i := strings.LastIndex(base, "."); i >= 0 {
				// The schema package is always imported under its own name.
				if o.ImportPath == SchemaImportPath && base[:i] == "schema" {
					continue
				}
				imports[o.ImportPath] = base[:i]
			}
		}
	}
	for _, g := range p.Groups {
		for _, v := range g.Subcommands {
			if v.ImportPath != "" {
				imports[v.ImportPath] = v.InnerQualifier()
			}
		}
	}
	return imports
}

// Data returns the group's registration payload. Subcommand option lists are
// resolved through the model when the inner command was scanned; external
// inner types contribute name-only entries.
func (g *Group) Data(m *DataModel) schema.Command {
	data := schema.Command{
		Name:              g.Name,
		Description:       g.Description,
		DefaultPermission: g.DefaultPermission,
	}
	for _, v := range g.Subcommands {
		opt := schema.Option{
			Type: schema.OptionSubCommand,
			Name: v.Name,
		}
		if inner := m.FindCommand(v.InnerIdent()); inner != nil {
			opt.Description = inner.Description
			for _, o := range inner.Options {
				opt.Options = append(opt.Options, o.Data())
			}
		}
		data.Options = append(data.Options, opt)
	}
	return data
}

// FindCommand looks up a scanned command by its Go type name.
func (m *DataModel) FindCommand(ident string) *Command {
	for _, p := range m.Packages {
		for _, c := range p.Commands {
			if c.Ident == ident {
				return c
			}
		}
	}
	return nil
}

// Commands returns every leaf command in the model, in package then name order.
func (m *DataModel) Commands() []*Command {
	var out []*Command
	for _, p := range m.Packages {
		out = append(out, p.Commands...)
	}
	return out
}

// Groups returns every subcommand group in the model, in package then name order.
func (m *DataModel) Groups() []*Group {
	var out []*Group
	for _, p := range m.Packages {
		out = append(out, p.Groups...)
	}
	return out
}

// SortPackages orders packages by import path for deterministic output.
func (m *DataModel) SortPackages() {
	sort.Slice(m.Packages, func(i, j int) bool {
		return m.Packages[i].ImportPath < m.Packages[j].ImportPath
	})
}
