package attrv1

import (
	"go/ast"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Directive names recognized on declarations. The recognized key set differs
// per directive; see the parse functions below.
const (
	dirCommand    = "command"
	dirOption     = "option"
	dirGroup      = "group"
	dirSubcommand = "subcommand"
)

var directiveNames = []string{dirCommand, dirOption, dirGroup, dirSubcommand}

// attr is one located doc-comment directive, e.g. `//command(name = "ping")`.
// pos is the first character of the directive name, bodyPos the first character
// between the parens. Both point into the file the declaration came from.
type attr struct {
	name    string
	body    string
	list    bool
	pos     token.Pos
	bodyPos token.Pos
}

// findAttr scans a doc comment group for a directive with the given name.
// Returns nil when the declaration carries no such directive.
func findAttr(doc *ast.CommentGroup, name string) *attr {
	if doc == nil {
		return nil
	}
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, "//") {
			continue
		}
		line := c.Text[2:]
		if !strings.HasPrefix(line, name) {
			continue
		}
		rest := line[len(name):]
		pos := c.Slash + 2

		if rest == "" {
			return &attr{name: name, pos: pos}
		}
		if rest[0] != '(' {
			continue
		}
		if !strings.HasSuffix(strings.TrimRight(rest, " \t"), ")") {
			// Unterminated list, reported as a malformed list by the caller.
			return &attr{name: name, pos: pos}
		}
		trimmed := strings.TrimRight(rest, " \t")
		body := trimmed[1 : len(trimmed)-1]
		return &attr{
			name:    name,
			body:    body,
			list:    true,
			pos:     pos,
			bodyPos: pos + token.Pos(len(name)) + 1,
		}
	}
	return nil
}

// litKind is the syntactic kind of a directive value literal.
type litKind int

const (
	litString litKind = iota
	litBool
	litInt
	litFloat
	litChar
)

func (k litKind) String() string {
	switch k {
	case litString:
		return "string"
	case litBool:
		return "boolean"
	case litInt:
		return "integer"
	case litFloat:
		return "float"
	default:
		return "char"
	}
}

// Value is one literal extracted from a directive, with its source position.
type Value struct {
	kind litKind
	str  string
	b    bool
	pos  token.Pos
}

// Pos returns the literal's source position.
func (v Value) Pos() token.Pos { return v.pos }

// ParseString returns the literal's text if it is a string literal.
func (v Value) ParseString() (string, error) {
	if v.kind != litString {
		return "", newError(ErrInvalidAttributeType, v.pos, "invalid attribute type, expected string")
	}
	return v.str, nil
}

// ParseBool returns the literal's value if it is a boolean literal.
func (v Value) ParseBool() (bool, error) {
	if v.kind != litBool {
		return false, newError(ErrInvalidAttributeType, v.pos, "invalid attribute type, expected boolean")
	}
	return v.b, nil
}

// namedAttrs is the parsed body of one directive: a flat key to literal table.
// Every key present was validated against the directive's recognized set.
// Duplicate keys overwrite, last occurrence wins.
type namedAttrs map[string]Value

func (n namedAttrs) get(key string) (Value, bool) {
	v, ok := n[key]
	return v, ok
}

// parseNamedAttrs validates a directive body as a comma-separated list of
// `key = literal` entries whose keys are all in the expected set. The body is
// tokenized with go/scanner; every reported position maps back into the
// original file.
func parseNamedAttrs(a *attr, expected []string) (namedAttrs, error) {
	if !a.list {
		return nil, newError(ErrExpectedNamedList, a.pos, "expected named parameters list")
	}

	// Scan against a throwaway file; token offsets are rebased onto the
	// directive's true position afterwards.
	lfset := token.NewFileSet()
	file := lfset.AddFile("", -1, len(a.body))
	rebase := func(p token.Pos) token.Pos {
		return a.bodyPos + token.Pos(file.Offset(p))
	}

	var scanErr *Error
	var s scanner.Scanner
	s.Init(file, []byte(a.body), func(pos token.Position, msg string) {
		if scanErr == nil {
			scanErr = newError(ErrExpectedNamedParameter, a.bodyPos+token.Pos(pos.Offset), "expected named parameter")
		}
	}, 0)

	values := make(namedAttrs)
	expectedList := strings.Join(expected, ", ")

	for {
		pos, tok, lit := s.Scan()
		if scanErr != nil {
			return nil, scanErr
		}
		if tok == token.EOF {
			break
		}
		// go/scanner inserts a synthetic semicolon at the end of input.
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		if tok != token.IDENT {
			return nil, newError(ErrExpectedNamedParameter, rebase(pos), "expected named parameter")
		}
		key := lit
		keyPos := rebase(pos)

		pos, tok, _ = s.Scan()
		if tok != token.ASSIGN {
			return nil, newError(ErrExpectedNamedParameter, rebase(pos), "expected named parameter")
		}

		pos, tok, lit = s.Scan()
		val, ok := scanValue(tok, lit, rebase(pos))
		if !ok {
			return nil, newError(ErrExpectedNamedParameter, rebase(pos), "expected named parameter")
		}

		found := false
		for _, e := range expected {
			if e == key {
				found = true
				break
			}
		}
		if !found {
			return nil, newError(ErrUnrecognizedParameter, keyPos, "invalid parameter name (expected %s)", expectedList)
		}
		values[key] = val

		pos, tok, lit = s.Scan()
		if tok == token.EOF || (tok == token.SEMICOLON && lit == "\n") {
			break
		}
		if tok != token.COMMA {
			return nil, newError(ErrExpectedNamedParameter, rebase(pos), "expected named parameter")
		}
	}
	if scanErr != nil {
		return nil, scanErr
	}

	return values, nil
}

// scanValue converts one scanned token into a Value if it is a literal.
func scanValue(tok token.Token, lit string, pos token.Pos) (Value, bool) {
	switch tok {
	case token.STRING:
		text, err := strconv.Unquote(lit)
		if err != nil {
			return Value{}, false
		}
		return Value{kind: litString, str: text, pos: pos}, true
	case token.IDENT:
		switch lit {
		case "true":
			return Value{kind: litBool, b: true, pos: pos}, true
		case "false":
			return Value{kind: litBool, b: false, pos: pos}, true
		}
		return Value{}, false
	case token.INT:
		return Value{kind: litInt, str: lit, pos: pos}, true
	case token.FLOAT:
		return Value{kind: litFloat, str: lit, pos: pos}, true
	case token.CHAR:
		return Value{kind: litChar, str: lit, pos: pos}, true
	}
	return Value{}, false
}

// parseName validates a command, option or subcommand name: 1-32 characters,
// counted in Unicode code points.
func parseName(v Value) (string, error) {
	s, err := v.ParseString()
	if err != nil {
		return "", err
	}
	if n := utf8.RuneCountInString(s); n < 1 || n > 32 {
		return "", newError(ErrNameLengthOutOfRange, v.Pos(), "name must be between 1 and 32 characters")
	}
	return s, nil
}

// parseDescription validates a description: 1-100 characters.
func parseDescription(v Value) (string, error) {
	s, err := v.ParseString()
	if err != nil {
		return "", err
	}
	if n := utf8.RuneCountInString(s); n < 1 || n > 100 {
		return "", newError(ErrDescriptionLengthOutOfRange, v.Pos(), "description must be between 1 and 100 characters")
	}
	return s, nil
}

// parseDocDescription builds a description from a declaration's documentation
// comment: directive lines are skipped, the remaining lines are joined by
// newlines and the result trimmed. Used when no desc key is present.
func parseDocDescription(doc *ast.CommentGroup, fallback token.Pos) (string, error) {
	var b strings.Builder
	if doc != nil {
		for _, c := range doc.List {
			if !strings.HasPrefix(c.Text, "//") {
				continue
			}
			line := c.Text[2:]
			if isDirectiveLine(line) {
				continue
			}
			b.WriteString(strings.TrimPrefix(line, " "))
			b.WriteString("\n")
		}
	}

	text := strings.TrimSpace(b.String())
	switch n := utf8.RuneCountInString(text); {
	case n == 0:
		return "", newError(ErrDescriptionRequired, fallback, "description is required (documentation comment or `desc` attribute)")
	case n > 100:
		return "", newError(ErrDescriptionLengthOutOfRange, fallback, "description must be between 1 and 100 characters")
	}
	return text, nil
}

// isDirectiveLine reports whether a doc line (after the `//`) is a slashgen
// directive or a standard Go tool directive like `go:generate`.
func isDirectiveLine(line string) bool {
	for _, name := range directiveNames {
		if line == name || strings.HasPrefix(line, name+"(") {
			return true
		}
	}
	// Tool directives have no space after the slashes and a lowercase word
	// before a colon, e.g. `go:generate` or `lint:ignore`.
	if len(line) > 0 && line[0] != ' ' && line[0] != '\t' {
		if i := strings.Index(line, ":"); i > 0 {
			for _, r := range line[:i] {
				if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
					return false
				}
			}
			return true
		}
	}
	return false
}

// typeAttr is the parsed `//command(...)` or `//group(...)` directive on a
// type declaration.
type typeAttr struct {
	// Name is the command name, always present.
	Name string
	// Desc overrides the documentation comment when set.
	Desc string
	// DefaultPermission is whether the command is enabled by default.
	DefaultPermission bool
}

// parseTypeAttr parses a type-level directive. Recognized keys: name (required),
// desc, default_permission (defaults to true).
func parseTypeAttr(a *attr) (*typeAttr, error) {
	attrs, err := parseNamedAttrs(a, []string{"name", "desc", "default_permission"})
	if err != nil {
		return nil, err
	}

	parsed := &typeAttr{DefaultPermission: true}

	v, ok := attrs.get("name")
	if !ok {
		return nil, newError(ErrMissingRequiredAttribute, a.pos, "missing required attribute `name`")
	}
	if parsed.Name, err = parseName(v); err != nil {
		return nil, err
	}
	if v, ok := attrs.get("desc"); ok {
		if parsed.Desc, err = parseDescription(v); err != nil {
			return nil, err
		}
	}
	if v, ok := attrs.get("default_permission"); ok {
		if parsed.DefaultPermission, err = v.ParseBool(); err != nil {
			return nil, err
		}
	}
	return parsed, nil
}

// fieldAttr is the parsed `//option(...)` directive on a command field. The
// zero value is used for fields without a directive.
type fieldAttr struct {
	// Rename replaces the field identifier as the option name when set.
	Rename string
	// Desc overrides the field's documentation comment when set.
	Desc string
}

// parseFieldAttr parses a field-level directive. Recognized keys: rename, desc,
// channel_types; all optional. channel_types is accepted but not yet consumed.
func parseFieldAttr(a *attr) (*fieldAttr, error) {
	attrs, err := parseNamedAttrs(a, []string{"rename", "desc", "channel_types"})
	if err != nil {
		return nil, err
	}

	parsed := &fieldAttr{}
	if v, ok := attrs.get("rename"); ok {
		if parsed.Rename, err = parseName(v); err != nil {
			return nil, err
		}
	}
	if v, ok := attrs.get("desc"); ok {
		if parsed.Desc, err = parseDescription(v); err != nil {
			return nil, err
		}
	}
	return parsed, nil
}

// nameOr resolves the effective option name, falling back to the field's
// declared identifier when no rename is present.
func (f *fieldAttr) nameOr(def string) string {
	if f.Rename != "" {
		return f.Rename
	}
	return def
}

// variantAttr is the parsed `//subcommand(...)` directive on a group field.
type variantAttr struct {
	// Name is the subcommand name, always present.
	Name string
}

// parseVariantAttr parses a subcommand directive. Recognized keys: name (required).
func parseVariantAttr(a *attr) (*variantAttr, error) {
	attrs, err := parseNamedAttrs(a, []string{"name"})
	if err != nil {
		return nil, err
	}

	v, ok := attrs.get("name")
	if !ok {
		return nil, newError(ErrMissingRequiredAttribute, a.pos, "missing required attribute `name`")
	}
	name, err := parseName(v)
	if err != nil {
		return nil, err
	}
	return &variantAttr{Name: name}, nil
}
