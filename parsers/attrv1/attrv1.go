// Package attrv1 parses slash-command declarations: struct types annotated
// with //command, //group, //option and //subcommand doc directives. It
// validates the directives and the declaration shapes against the platform's
// schema constraints and produces the normalized model.
package attrv1

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/itohatweb/slashgen/model"
	"github.com/itohatweb/slashgen/parsers"
	"github.com/itohatweb/slashgen/schema"
)

// Name is the registry name of this parser.
const Name = "attr-v1"

// GeneratedFileName is the per-package output file; it is skipped on rescans.
const GeneratedFileName = "zz_generated_slashgen.go"

type Parser struct{}

func init() {
	parsers.Register(Name, &Parser{})
}

// Parse walks the Go files in the provided filesystem and builds the command
// model. It expects a go.mod file at the root.
func (Parser) Parse(fsys fs.FS, root string, opts *parsers.ParseOptions) (*model.DataModel, error) {
	fset := token.NewFileSet()

	goModBytes, err := fs.ReadFile(fsys, filepath.Join(root, "go.mod"))
	if err != nil {
		return nil, fmt.Errorf("go.mod not found in the root of the repository: %w", err)
	}
	modPath := modfile.ModulePath(goModBytes)

	m := &model.DataModel{
		FileSet:    fset,
		ModulePath: modPath,
	}
	pkgs := make(map[string]*model.Package)

	err = fs.WalkDir(fsys, root, func(pathStr string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := path.Base(pathStr)
		if d.IsDir() {
			if pathStr != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(pathStr, ".go") || strings.HasSuffix(pathStr, "_test.go") || base == GeneratedFileName {
			return nil
		}

		rel, err := filepath.Rel(root, pathStr)
		if err != nil {
			rel = pathStr // Fallback
		}
		rel = filepath.ToSlash(rel)
		if !selected(rel, opts) {
			return nil
		}

		src, err := fs.ReadFile(fsys, pathStr)
		if err != nil {
			return err
		}

		dir := path.Dir(rel)
		if dir == "." {
			dir = ""
		}
		return parseGoFile(fset, pathStr, src, modPath, dir, pkgs)
	})
	if err != nil {
		return nil, err
	}

	for _, p := range pkgs {
		m.Packages = append(m.Packages, p)
	}
	m.SortPackages()
	return m, nil
}

// selected reports whether a file (module-relative, slash separated) falls
// inside the configured search paths.
func selected(rel string, opts *parsers.ParseOptions) bool {
	if opts == nil || len(opts.SearchPaths) == 0 {
		return true
	}
	dir := path.Dir(rel)
	for _, sp := range opts.SearchPaths {
		sp = path.Clean(filepath.ToSlash(sp))
		if dir == sp {
			return true
		}
		if opts.Recursive && (sp == "." || strings.HasPrefix(dir+"/", sp+"/")) {
			return true
		}
	}
	return false
}

// parseGoFile parses one file and folds its annotated declarations into the
// package map.
func parseGoFile(fset *token.FileSet, filename string, src []byte, modPath, dir string, pkgs map[string]*model.Package) error {
	f, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution|parser.ParseComments)
	if err != nil {
		return err
	}
	imports := importsOf(f)

	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, s := range gd.Specs {
			spec, ok := s.(*ast.TypeSpec)
			if !ok {
				continue
			}
			doc := spec.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}

			var perr error
			switch {
			case findAttr(doc, dirCommand) != nil:
				var cmd *model.Command
				cmd, perr = parseCommand(spec, doc, imports, filename)
				if perr == nil {
					pkg(pkgs, f, modPath, dir).AddCommand(cmd)
				}
			case findAttr(doc, dirGroup) != nil:
				var grp *model.Group
				grp, perr = parseGroup(spec, doc, filename, imports)
				if perr == nil {
					pkg(pkgs, f, modPath, dir).AddGroup(grp)
				}
			}
			if perr != nil {
				var e *Error
				if errors.As(perr, &e) {
					// Keep the typed error but anchor the message at the
					// offending token.
					return &Error{Code: e.Code, Pos: e.Pos, Msg: e.Diagnostic(fset)}
				}
				return perr
			}
		}
	}
	return nil
}

func pkg(pkgs map[string]*model.Package, f *ast.File, modPath, dir string) *model.Package {
	p, ok := pkgs[dir]
	if !ok {
		p = &model.Package{
			Dir:        dir,
			Name:       f.Name.Name,
			ImportPath: path.Join(modPath, dir),
		}
		pkgs[dir] = p
	}
	return p
}

// fileImports maps a file's package qualifiers to import paths.
type fileImports map[string]string

func importsOf(f *ast.File) fileImports {
	m := make(fileImports)
	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := path.Base(p)
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			name = imp.Name.Name
		}
		m[name] = p
	}
	return m
}

// parseCommand normalizes one //command annotated type: a named-field struct
// (each field one option) or an empty struct (a command with no options).
func parseCommand(spec *ast.TypeSpec, doc *ast.CommentGroup, imports fileImports, filename string) (*model.Command, error) {
	ta, err := parseTypeAttr(findAttr(doc, dirCommand))
	if err != nil {
		return nil, err
	}
	desc := ta.Desc
	if desc == "" {
		if desc, err = parseDocDescription(doc, spec.Name.Pos()); err != nil {
			return nil, err
		}
	}

	st, ok := spec.Type.(*ast.StructType)
	if !ok {
		return nil, newError(ErrUnsupportedShape, spec.Name.Pos(), "unsupported declaration shape, expected a struct")
	}

	cmd := &model.Command{
		Ident:             spec.Name.Name,
		Name:              ta.Name,
		Description:       desc,
		DefaultPermission: ta.DefaultPermission,
		DefinitionFile:    filename,
		Pos:               spec.Name.Pos(),
	}

	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			return nil, newError(ErrUnsupportedShape, field.Pos(), "embedded fields are not supported, expected a named field")
		}

		fa := &fieldAttr{}
		if a := findAttr(fieldDoc(field), dirOption); a != nil {
			if fa, err = parseFieldAttr(a); err != nil {
				return nil, err
			}
		}
		optDesc := fa.Desc
		if optDesc == "" {
			if optDesc, err = optionalDocDescription(fieldDoc(field), field.Pos()); err != nil {
				return nil, err
			}
		}

		kind, typeStr, importPath, required, err := optionType(field.Type, imports)
		if err != nil {
			return nil, err
		}

		for _, name := range field.Names {
			cmd.Options = append(cmd.Options, &model.Option{
				FieldIdent:  name.Name,
				Name:        fa.nameOr(name.Name),
				Description: optDesc,
				Type:        typeStr,
				Kind:        kind,
				Required:    required,
				ImportPath:  importPath,
				Pos:         name.Pos(),
			})
		}
	}
	return cmd, nil
}

// parseGroup normalizes one //group annotated type: a struct with at least one
// field, each a single named field of a plain type path carrying a mandatory
// //subcommand directive. Field order becomes the subcommand order.
func parseGroup(spec *ast.TypeSpec, doc *ast.CommentGroup, filename string, imports fileImports) (*model.Group, error) {
	ta, err := parseTypeAttr(findAttr(doc, dirGroup))
	if err != nil {
		return nil, err
	}
	desc := ta.Desc
	if desc == "" {
		if desc, err = parseDocDescription(doc, spec.Name.Pos()); err != nil {
			return nil, err
		}
	}

	st, ok := spec.Type.(*ast.StructType)
	if !ok {
		return nil, newError(ErrUnsupportedShape, spec.Name.Pos(), "unsupported declaration shape, expected a struct")
	}
	if len(st.Fields.List) == 0 {
		return nil, newError(ErrEmptyGroup, spec.Name.Pos(), "group must have at least one subcommand")
	}

	grp := &model.Group{
		Ident:             spec.Name.Name,
		Name:              ta.Name,
		Description:       desc,
		DefaultPermission: ta.DefaultPermission,
		DefinitionFile:    filename,
		Pos:               spec.Name.Pos(),
	}

	for _, field := range st.Fields.List {
		if len(field.Names) != 1 {
			return nil, newError(ErrInvalidVariantShape, field.Pos(), "subcommand must be a single named field")
		}

		inner, importPath, err := typePath(field.Type, imports)
		if err != nil {
			return nil, err
		}

		a := findAttr(fieldDoc(field), dirSubcommand)
		if a == nil {
			return nil, newError(ErrMissingRequiredAttribute, field.Pos(), "missing required //subcommand(..) directive")
		}
		va, err := parseVariantAttr(a)
		if err != nil {
			return nil, err
		}

		grp.Subcommands = append(grp.Subcommands, &model.Variant{
			FieldIdent: field.Names[0].Name,
			Name:       va.Name,
			Inner:      inner,
			ImportPath: importPath,
			Pos:        field.Names[0].Pos(),
		})
	}
	return grp, nil
}

// fieldDoc returns the comment group directives and descriptions for a field
// are read from: the doc comment, or the trailing line comment if there is no
// doc comment.
func fieldDoc(field *ast.Field) *ast.CommentGroup {
	if field.Doc != nil {
		return field.Doc
	}
	return field.Comment
}

// optionalDocDescription is the field-level doc fallback: unlike the type
// level, a missing description is allowed.
func optionalDocDescription(doc *ast.CommentGroup, pos token.Pos) (string, error) {
	desc, err := parseDocDescription(doc, pos)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Code == ErrDescriptionRequired {
			return "", nil
		}
		return "", err
	}
	return desc, nil
}

// optionType maps a command field type to its platform option type. Pointer
// types mark the option as not required.
func optionType(expr ast.Expr, imports fileImports) (kind schema.OptionType, typeStr, importPath string, required bool, err error) {
	required = true
	t := expr
	if star, ok := t.(*ast.StarExpr); ok {
		required = false
		t = star.X
	}

	switch t := t.(type) {
	case *ast.Ident:
		switch t.Name {
		case "string":
			kind = schema.OptionString
		case "int64":
			kind = schema.OptionInteger
		case "bool":
			kind = schema.OptionBoolean
		case "float64":
			kind = schema.OptionNumber
		default:
			return 0, "", "", false, newError(ErrUnsupportedFieldType, t.Pos(), "unsupported option type %s", t.Name)
		}
		typeStr = t.Name
	case *ast.SelectorExpr:
		x, ok := t.X.(*ast.Ident)
		if !ok {
			return 0, "", "", false, newError(ErrUnsupportedFieldType, t.Pos(), "unsupported option type")
		}
		importPath = imports[x.Name]
		if importPath != model.SchemaImportPath {
			return 0, "", "", false, newError(ErrUnsupportedFieldType, t.Pos(), "unsupported option type %s.%s", x.Name, t.Sel.Name)
		}
		switch t.Sel.Name {
		case "User":
			kind = schema.OptionUser
		case "Channel":
			kind = schema.OptionChannel
		case "Role":
			kind = schema.OptionRole
		case "Mentionable":
			kind = schema.OptionMentionable
		case "Attachment":
			kind = schema.OptionAttachment
		default:
			return 0, "", "", false, newError(ErrUnsupportedFieldType, t.Pos(), "unsupported option type %s.%s", x.Name, t.Sel.Name)
		}
		typeStr = x.Name + "." + t.Sel.Name
	default:
		return 0, "", "", false, newError(ErrUnsupportedFieldType, expr.Pos(), "unsupported option type")
	}

	if !required {
		typeStr = "*" + typeStr
	}
	return kind, typeStr, importPath, required, nil
}

// typePath renders a group field type, which must be a plain type path:
// an identifier or a package-qualified identifier.
func typePath(expr ast.Expr, imports fileImports) (string, string, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name, "", nil
	case *ast.SelectorExpr:
		x, ok := t.X.(*ast.Ident)
		if !ok {
			return "", "", newError(ErrUnsupportedFieldType, t.Pos(), "unsupported type, expected a type path")
		}
		importPath, ok := imports[x.Name]
		if !ok {
			return "", "", newError(ErrUnsupportedFieldType, t.Pos(), "unknown package qualifier %s", x.Name)
		}
		return x.Name + "." + t.Sel.Name, importPath, nil
	default:
		return "", "", newError(ErrUnsupportedFieldType, expr.Pos(), "unsupported type, expected a type path")
	}
}
