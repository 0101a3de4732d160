package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleDocument []byte

var (
	sampleOnce    sync.Once
	sampleCatalog *Catalog
	sampleErr     error
)

// Load decodes a YAML catalog document from r. Unknown fields are rejected
// so typos in hand-written catalogs surface early.
func Load(r io.Reader) (*Catalog, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("catalog: empty document")
		}
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return New(doc)
}

// LoadFile reads a catalog from path. Files ending in ".json" or ".jsonc"
// are decoded as JSON, everything else as YAML.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer f.Close()
	load := Load
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		load = LoadJSON
	}
	c, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("%w (file %q)", err, path)
	}
	return c, nil
}

// Sample returns the small catalog embedded in the module. It is meant for
// the CLI and examples, not as authoritative game data.
func Sample() (*Catalog, error) {
	sampleOnce.Do(func() {
		sampleCatalog, sampleErr = Load(bytes.NewReader(sampleDocument))
	})
	return sampleCatalog, sampleErr
}

// Marshal encodes the catalog back into YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.Document()); err != nil {
		return nil, fmt.Errorf("catalog: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("catalog: encode: %w", err)
	}
	return buf.Bytes(), nil
}
