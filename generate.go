package slashgen

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/itohatweb/slashgen/model"
	"github.com/itohatweb/slashgen/parsers"
	"github.com/itohatweb/slashgen/parsers/attrv1"
)

//go:embed templates/*.gotmpl
var templatesFS embed.FS

var templates *template.Template

func initTemplates() error {
	if templates != nil {
		return nil
	}
	var err error
	templates, err = template.New("").Funcs(template.FuncMap{
		"lower": strings.ToLower,
		"quote": func(s string) string { return fmt.Sprintf("%q", s) },
	}).ParseFS(templatesFS, "templates/*.gotmpl")
	if err != nil {
		return fmt.Errorf("error parsing templates: %w", err)
	}
	return nil
}

// FileWriter interface allows mocking file system writes
type FileWriter interface {
	WriteFile(path string, content []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

// OSFileWriter implements FileWriter using the os package
type OSFileWriter struct{}

func (w *OSFileWriter) WriteFile(path string, content []byte, perm os.FileMode) error {
	return os.WriteFile(path, content, perm)
}

func (w *OSFileWriter) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// packageData is the template payload for one generated file.
type packageData struct {
	Pkg *model.Package
}

// Generate parses the annotated declarations under dir and writes one
// generated file per package containing the option parsers and the
// registration builders.
func Generate(dir string, parserName string, opts *parsers.ParseOptions) error {
	return GenerateWithWriter(&OSFileWriter{}, dir, parserName, opts)
}

// GenerateWithWriter generates code through the provided writer.
func GenerateWithWriter(writer FileWriter, dir string, parserName string, opts *parsers.ParseOptions) error {
	if err := initTemplates(); err != nil {
		return err
	}

	dataModel, err := parse(dir, parserName, opts)
	if err != nil {
		return err
	}
	if len(dataModel.Packages) == 0 {
		return fmt.Errorf("no annotated command declarations found in %s", dir)
	}

	for _, pkg := range dataModel.Packages {
		content, err := renderPackage(pkg)
		if err != nil {
			return err
		}
		outDir := filepath.Join(dir, filepath.FromSlash(pkg.Dir))
		if err := writer.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", outDir, err)
		}
		outPath := filepath.Join(outDir, attrv1.GeneratedFileName)
		if err := writer.WriteFile(outPath, content, 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", outPath, err)
		}
		fmt.Printf("Generated %s\n", outPath)
	}
	return nil
}

// generateFile renders one template into a file through the writer, without
// Go formatting.
func generateFile(writer FileWriter, dir, fileName, templateName string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	if err := writer.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	filePath := filepath.Join(dir, fileName)
	if err := writer.WriteFile(filePath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	return nil
}

// renderPackage executes the command template for one package and formats the
// result.
func renderPackage(pkg *model.Package) ([]byte, error) {
	if err := initTemplates(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "command.gotmpl", &packageData{Pkg: pkg}); err != nil {
		return nil, fmt.Errorf("failed to execute template for package %s: %w", pkg.ImportPath, err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code for %s: %w\n%s", pkg.ImportPath, err, buf.String())
	}
	return formatted, nil
}
