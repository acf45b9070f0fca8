package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveDBPath records the database path in the config file's db section, so a
// later plain `windrow` run browses the same database the seed command wrote.
// Comments and formatting in other sections are preserved by editing the
// yaml.Node tree instead of re-marshaling the whole config.
func SaveDBPath(configPath, dbPath string) error {
	doc, err := loadDocument(configPath)
	if err != nil {
		return err
	}

	root := ensureRootMapping(doc)
	dbNode := upsertMapping(root, "db")
	upsertScalar(dbNode, "path", dbPath)

	return writeDocument(configPath, doc)
}

// loadDocument parses the config file into a yaml.Node tree. A missing file
// yields an empty document.
func loadDocument(configPath string) (*yaml.Node, error) {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path is the user's config file
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	return &doc, nil
}

// ensureRootMapping returns the document's top-level mapping, creating the
// document structure for an empty or new file.
func ensureRootMapping(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		return doc.Content[0]
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	doc.Kind = yaml.DocumentNode
	doc.Content = []*yaml.Node{root}
	return root
}

// upsertMapping finds the mapping value for key, appending an empty one when
// the key is missing or bound to a non-mapping value.
func upsertMapping(parent *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(parent.Content)-1; i += 2 {
		if parent.Content[i].Value == key {
			if parent.Content[i+1].Kind == yaml.MappingNode {
				return parent.Content[i+1]
			}
			node := &yaml.Node{Kind: yaml.MappingNode}
			parent.Content[i+1] = node
			return node
		}
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	parent.Content = append(parent.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		node,
	)
	return node
}

// upsertScalar sets key to value within a mapping. An existing node is
// mutated in place, which keeps its attached comments.
func upsertScalar(parent *yaml.Node, key, value string) {
	for i := 0; i < len(parent.Content)-1; i += 2 {
		if parent.Content[i].Value == key {
			parent.Content[i+1].SetString(value)
			return
		}
	}

	valueNode := &yaml.Node{}
	valueNode.SetString(value)
	parent.Content = append(parent.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		valueNode,
	)
}

// writeDocument encodes the tree and swaps it into place atomically.
func writeDocument(configPath string, doc *yaml.Node) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_ = enc.Close()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Stage in the target directory so the rename stays on one filesystem.
	temp, err := os.CreateTemp(filepath.Dir(configPath), ".windrow.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("staging config: %w", err)
	}

	_, writeErr := temp.Write(buf.Bytes())
	if err := errors.Join(writeErr, temp.Close()); err != nil {
		_ = os.Remove(temp.Name())
		return fmt.Errorf("staging config: %w", err)
	}

	if err := os.Rename(temp.Name(), configPath); err != nil {
		_ = os.Remove(temp.Name())
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}
