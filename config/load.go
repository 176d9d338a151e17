package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// File names of the rule tables inside a rule directory.
const (
	OpcodeChangeFile      = "opcode_change.yaml"
	ExtModifyFile         = "ext_modify.yaml"
	ExtRemovalFile        = "ext_removal.yaml"
	WholeRegistersFile    = "whole_registers.yaml"
	ChangeInstructionFile = "change_instruction.yaml"
	UnsupportedFile       = "unsupported.yaml"
)

//go:embed default/*.yaml
var defaultFS embed.FS

// DefaultTables returns the rule tables shipped with the tool.
func DefaultTables() RuleTables {
	sub, err := fs.Sub(defaultFS, "default")
	if err != nil {
		panic(err)
	}

	t, err := Load(sub)
	if err != nil {
		panic(fmt.Sprintf("embedded rule tables are invalid: %v", err))
	}

	return t
}

// LoadDir loads the rule tables from the YAML files in a directory.
func LoadDir(dir string) (RuleTables, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return RuleTables{}, fmt.Errorf("rule directory: %w", err)
	}

	if !info.IsDir() {
		return RuleTables{}, fmt.Errorf("rule directory %s is not a directory", dir)
	}

	return Load(os.DirFS(dir))
}

// Load loads the rule tables from the six YAML files at the root of fsys.
// Mappings keep their document order.
func Load(fsys fs.FS) (RuleTables, error) {
	var (
		t   RuleTables
		err error
	)

	if t.opcodeRename, err = loadMapping(fsys, OpcodeChangeFile); err != nil {
		return RuleTables{}, err
	}

	if t.attributeRename, err = loadMapping(fsys, ExtModifyFile); err != nil {
		return RuleTables{}, err
	}

	lists := []struct {
		file string
		dst  *[]string
	}{
		{ExtRemovalFile, &t.attributeRemoval},
		{WholeRegistersFile, &t.wholeRegisterOps},
		{ChangeInstructionFile, &t.miscChangeOps},
		{UnsupportedFile, &t.unsupportedOps},
	}

	for _, l := range lists {
		if *l.dst, err = loadList(fsys, l.file); err != nil {
			return RuleTables{}, err
		}
	}

	return t, nil
}

func loadDocument(fsys fs.FS, name string) (*yaml.Node, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	// An empty file decodes to a zero node.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	return doc.Content[0], nil
}

func loadMapping(fsys fs.FS, name string) ([]Rename, error) {
	node, err := loadDocument(fsys, name)
	if err != nil || node == nil {
		return nil, err
	}

	if node.Kind != yaml.MappingNode {
		return nil, &TableError{File: name, Line: node.Line, Msg: "expected a mapping"}
	}

	renames := make([]Rename, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, &TableError{File: name, Line: k.Line, Msg: "expected scalar key and value"}
		}

		// Node values keep the source text, so "099" stays "099".
		renames = append(renames, Rename{From: k.Value, To: v.Value})
	}

	return renames, nil
}

func loadList(fsys fs.FS, name string) ([]string, error) {
	node, err := loadDocument(fsys, name)
	if err != nil || node == nil {
		return nil, err
	}

	if node.Kind != yaml.SequenceNode {
		return nil, &TableError{File: name, Line: node.Line, Msg: "expected a sequence"}
	}

	list := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, &TableError{File: name, Line: item.Line, Msg: "expected a scalar entry"}
		}

		list = append(list, item.Value)
	}

	return list, nil
}

// TableError reports a rule table with an unexpected shape.
type TableError struct {
	File string
	Line int
	Msg  string
}

func (e *TableError) Error() string {
	return fmt.Sprintf("%s:%d: %s", path.Base(e.File), e.Line, e.Msg)
}

// IsMissingTable tells if err was caused by a rule table file that does not
// exist.
func IsMissingTable(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
