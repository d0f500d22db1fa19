package slashgen

import (
	"fmt"
	"path/filepath"
)

// Init writes a slashgen.toml configuration scaffold into dir so flags like
// the parser name and manifest format can be pinned per project.
func Init(dir string) error {
	return InitWithWriter(&OSFileWriter{}, dir)
}

func InitWithWriter(writer FileWriter, dir string) error {
	if err := initTemplates(); err != nil {
		return err
	}
	if err := generateFile(writer, dir, "slashgen.toml", "slashgen.toml.gotmpl", nil); err != nil {
		return err
	}
	fmt.Printf("Generated %s\n", filepath.Join(dir, "slashgen.toml"))
	return nil
}
