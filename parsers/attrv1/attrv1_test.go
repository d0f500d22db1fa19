package attrv1

import (
	"go/token"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohatweb/slashgen/model"
	"github.com/itohatweb/slashgen/parsers"
	"github.com/itohatweb/slashgen/schema"
)

// parseSrc runs the declaration parser over a single in-memory file.
func parseSrc(t *testing.T, src string) (*token.FileSet, map[string]*model.Package, error) {
	t.Helper()
	fset := token.NewFileSet()
	pkgs := make(map[string]*model.Package)
	err := parseGoFile(fset, "test.go", []byte(src), "example.com/demo", "", pkgs)
	return fset, pkgs, err
}

func onlyPackage(t *testing.T, pkgs map[string]*model.Package) *model.Package {
	t.Helper()
	require.Len(t, pkgs, 1)
	for _, p := range pkgs {
		return p
	}
	return nil
}

func TestParseCommandStruct(t *testing.T) {
	src := `package demo

import "github.com/itohatweb/slashgen/schema"

// Demo command for testing purposes.
//
//command(name = "demo")
type DemoCommand struct {
	//option(rename = "member", desc = "test")
	user   schema.User
	text   string
	number *int64
}
`
	_, pkgs, err := parseSrc(t, src)
	require.NoError(t, err)
	pkg := onlyPackage(t, pkgs)
	require.Len(t, pkg.Commands, 1)

	cmd := pkg.Commands[0]
	assert.Equal(t, "DemoCommand", cmd.Ident)
	assert.Equal(t, "demo", cmd.Name)
	assert.Equal(t, "Demo command for testing purposes.", cmd.Description)
	assert.True(t, cmd.DefaultPermission)

	require.Len(t, cmd.Options, 3)
	assert.Equal(t, "member", cmd.Options[0].Name)
	assert.Equal(t, "user", cmd.Options[0].FieldIdent)
	assert.Equal(t, "test", cmd.Options[0].Description)
	assert.Equal(t, schema.OptionUser, cmd.Options[0].Kind)
	assert.True(t, cmd.Options[0].Required)

	assert.Equal(t, "text", cmd.Options[1].Name)
	assert.Equal(t, schema.OptionString, cmd.Options[1].Kind)
	assert.True(t, cmd.Options[1].Required)

	assert.Equal(t, "number", cmd.Options[2].Name)
	assert.Equal(t, schema.OptionInteger, cmd.Options[2].Kind)
	assert.False(t, cmd.Options[2].Required)
	assert.Equal(t, "*int64", cmd.Options[2].Type)
}

func TestParseCommandEmptyStruct(t *testing.T) {
	src := `package demo

// Pings the bot.
//
//command(name = "ping")
type PingCommand struct{}
`
	_, pkgs, err := parseSrc(t, src)
	require.NoError(t, err)
	cmd := onlyPackage(t, pkgs).Commands[0]
	assert.Equal(t, "ping", cmd.Name)
	assert.Empty(t, cmd.Options)
}

func TestParseCommandDescOverridesDoc(t *testing.T) {
	src := `package demo

// Doc text that should not be used.
//
//command(name = "ping", desc = "Explicit description")
type PingCommand struct{}
`
	_, pkgs, err := parseSrc(t, src)
	require.NoError(t, err)
	assert.Equal(t, "Explicit description", onlyPackage(t, pkgs).Commands[0].Description)
}

func TestParseCommandDescriptionRequired(t *testing.T) {
	src := `package demo

//command(name = "ping")
type PingCommand struct{}
`
	_, _, err := parseSrc(t, src)
	assert.Equal(t, ErrDescriptionRequired, errCode(t, err))
}

func TestParseCommandDefaultPermissionFalse(t *testing.T) {
	src := `package demo

// Admin only.
//
//command(name = "admin", default_permission = false)
type AdminCommand struct{}
`
	_, pkgs, err := parseSrc(t, src)
	require.NoError(t, err)
	assert.False(t, onlyPackage(t, pkgs).Commands[0].DefaultPermission)
}

func TestParseCommandNonStruct(t *testing.T) {
	src := `package demo

// Not a struct.
//
//command(name = "bad")
type BadCommand int
`
	_, _, err := parseSrc(t, src)
	assert.Equal(t, ErrUnsupportedShape, errCode(t, err))
}

func TestParseCommandEmbeddedField(t *testing.T) {
	src := `package demo

// Bad shape.
//
//command(name = "bad")
type BadCommand struct {
	string
}
`
	_, _, err := parseSrc(t, src)
	assert.Equal(t, ErrUnsupportedShape, errCode(t, err))
}

func TestParseCommandUnsupportedOptionType(t *testing.T) {
	src := `package demo

// Bad option type.
//
//command(name = "bad")
type BadCommand struct {
	count int
}
`
	fset, _, err := parseSrc(t, src)
	require.Equal(t, ErrUnsupportedFieldType, errCode(t, err))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 7, fset.Position(e.Pos).Line)
}

func TestParseCommandUnrecognizedOptionKey(t *testing.T) {
	src := `package demo

// Bad option key.
//
//command(name = "bad")
type BadCommand struct {
	//option(name = "x")
	text string
}
`
	_, _, err := parseSrc(t, src)
	assert.Equal(t, ErrUnrecognizedParameter, errCode(t, err))
}

func TestParseCommandNameTooLong(t *testing.T) {
	src := `package demo

// Too long.
//
//command(name = "abcdefghijklmnopqrstuvwxyzabcdefg")
type BadCommand struct{}
`
	_, _, err := parseSrc(t, src)
	assert.Equal(t, ErrNameLengthOutOfRange, errCode(t, err))
}

func TestParseCommandOptionDocFallback(t *testing.T) {
	src := `package demo

// Echoes text back.
//
//command(name = "echo")
type EchoCommand struct {
	// The text to echo.
	text string
}
`
	_, pkgs, err := parseSrc(t, src)
	require.NoError(t, err)
	cmd := onlyPackage(t, pkgs).Commands[0]
	assert.Equal(t, "The text to echo.", cmd.Options[0].Description)
}

func TestParseGroup(t *testing.T) {
	src := `package demo

// Edits permissions.
//
//command(name = "edit")
type EditCommand struct{}

// Shows permissions.
//
//command(name = "show")
type ShowCommand struct{}

// Manages permissions.
//
//group(name = "permissions")
type PermissionsCommand struct {
	//subcommand(name = "edit")
	Edit EditCommand
	//subcommand(name = "show")
	Show ShowCommand
}
`
	_, pkgs, err := parseSrc(t, src)
	require.NoError(t, err)
	pkg := onlyPackage(t, pkgs)
	require.Len(t, pkg.Groups, 1)

	grp := pkg.Groups[0]
	assert.Equal(t, "permissions", grp.Name)
	require.Len(t, grp.Subcommands, 2)
	// Declaration order is preserved.
	assert.Equal(t, "edit", grp.Subcommands[0].Name)
	assert.Equal(t, "EditCommand", grp.Subcommands[0].Inner)
	assert.Equal(t, "show", grp.Subcommands[1].Name)
	assert.Equal(t, "ShowCommand", grp.Subcommands[1].Inner)
}

func TestParseGroupEmpty(t *testing.T) {
	src := `package demo

// Empty group.
//
//group(name = "empty")
type EmptyGroup struct{}
`
	_, _, err := parseSrc(t, src)
	assert.Equal(t, ErrEmptyGroup, errCode(t, err))
}

func TestParseGroupMultiNameField(t *testing.T) {
	src := `package demo

// Bad group.
//
//group(name = "bad")
type BadGroup struct {
	//subcommand(name = "x")
	A, B SubCmd
}

// Sub.
//
//command(name = "sub")
type SubCmd struct{}
`
	_, _, err := parseSrc(t, src)
	assert.Equal(t, ErrInvalidVariantShape, errCode(t, err))
}

func TestParseGroupEmbeddedField(t *testing.T) {
	src := `package demo

// Bad group.
//
//group(name = "bad")
type BadGroup struct {
	//subcommand(name = "x")
	SubCmd
}

// Sub.
//
//command(name = "sub")
type SubCmd struct{}
`
	_, _, err := parseSrc(t, src)
	assert.Equal(t, ErrInvalidVariantShape, errCode(t, err))
}

func TestParseGroupNonPathFieldType(t *testing.T) {
	src := `package demo

// Bad group.
//
//group(name = "bad")
type BadGroup struct {
	//subcommand(name = "x")
	Edit *EditCommand
}

// Edits.
//
//command(name = "edit")
type EditCommand struct{}
`
	_, _, err := parseSrc(t, src)
	assert.Equal(t, ErrUnsupportedFieldType, errCode(t, err))
}

func TestParseGroupMissingSubcommandDirective(t *testing.T) {
	src := `package demo

// Bad group.
//
//group(name = "bad")
type BadGroup struct {
	Edit EditCommand
}

// Edits.
//
//command(name = "edit")
type EditCommand struct{}
`
	_, _, err := parseSrc(t, src)
	assert.Equal(t, ErrMissingRequiredAttribute, errCode(t, err))
}

func TestParseWalksModule(t *testing.T) {
	fsys := fstest.MapFS{
		"go.mod": &fstest.MapFile{Data: []byte("module example.com/demo\n\ngo 1.23\n")},
		"ping.go": &fstest.MapFile{Data: []byte(`package demo

// Pings the bot.
//
//command(name = "ping")
type PingCommand struct{}
`)},
		"mod/admin.go": &fstest.MapFile{Data: []byte(`package mod

// Bans a user.
//
//command(name = "ban", default_permission = false)
type BanCommand struct {
	// The reason for the ban.
	reason string
}
`)},
		"mod/admin_test.go": &fstest.MapFile{Data: []byte("package mod\n\n//command(name = \"ignored\")\ntype Ignored int\n")},
		"untouched.go":      &fstest.MapFile{Data: []byte("package demo\n\ntype Plain struct{}\n")},
	}

	var p Parser
	m, err := p.Parse(fsys, ".", nil)
	require.NoError(t, err)
	require.NotNil(t, m.FileSet)
	assert.Equal(t, "example.com/demo", m.ModulePath)

	require.Len(t, m.Packages, 2)
	assert.Equal(t, "example.com/demo", m.Packages[0].ImportPath)
	assert.Equal(t, "example.com/demo/mod", m.Packages[1].ImportPath)

	require.Len(t, m.Packages[1].Commands, 1)
	ban := m.Packages[1].Commands[0]
	assert.Equal(t, "ban", ban.Name)
	assert.False(t, ban.DefaultPermission)
	require.Len(t, ban.Options, 1)
	assert.Equal(t, "The reason for the ban.", ban.Options[0].Description)
}

func TestParseSearchPaths(t *testing.T) {
	fsys := fstest.MapFS{
		"go.mod": &fstest.MapFile{Data: []byte("module example.com/demo\n\ngo 1.23\n")},
		"a/a.go": &fstest.MapFile{Data: []byte(`package a

// A.
//
//command(name = "a")
type A struct{}
`)},
		"b/b.go": &fstest.MapFile{Data: []byte(`package b

// B.
//
//command(name = "b")
type B struct{}
`)},
	}

	var p Parser
	m, err := p.Parse(fsys, ".", &parsers.ParseOptions{SearchPaths: []string{"a"}})
	require.NoError(t, err)
	require.Len(t, m.Packages, 1)
	assert.Equal(t, "example.com/demo/a", m.Packages[0].ImportPath)
}

func TestParseSearchPathsRecursive(t *testing.T) {
	fsys := fstest.MapFS{
		"go.mod": &fstest.MapFile{Data: []byte("module example.com/demo\n\ngo 1.23\n")},
		"a/b/c.go": &fstest.MapFile{Data: []byte(`package b

// C.
//
//command(name = "c")
type C struct{}
`)},
	}

	var p Parser
	m, err := p.Parse(fsys, ".", &parsers.ParseOptions{SearchPaths: []string{"a"}})
	require.NoError(t, err)
	assert.Empty(t, m.Packages)

	m, err = p.Parse(fsys, ".", &parsers.ParseOptions{SearchPaths: []string{"a"}, Recursive: true})
	require.NoError(t, err)
	require.Len(t, m.Packages, 1)
	assert.Equal(t, "example.com/demo/a/b", m.Packages[0].ImportPath)
}

func TestParseMissingGoMod(t *testing.T) {
	var p Parser
	_, err := p.Parse(fstest.MapFS{}, ".", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "go.mod")
}

func TestParseErrorCarriesFilePosition(t *testing.T) {
	fsys := fstest.MapFS{
		"go.mod": &fstest.MapFile{Data: []byte("module example.com/demo\n\ngo 1.23\n")},
		"bad.go": &fstest.MapFile{Data: []byte(`package demo

// Broken.
//
//command(name = "abcdefghijklmnopqrstuvwxyzabcdefg")
type Broken struct{}
`)},
	}

	var p Parser
	_, err := p.Parse(fsys, ".", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.go:5")
}
