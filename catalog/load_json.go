package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-factory-settings/internal/hydrate"
)

// camelKeys maps the camelCase top-level keys some exported game data uses
// onto the catalog's own names.
var camelKeys = map[string]string{
	"colorSchemes": "color_schemes",
}

// LoadJSON decodes a JSON catalog document from r. Comments and trailing
// commas (JSONC) are stripped first. Top-level camelCase keys are accepted
// alongside snake_case; unknown fields are rejected.
func LoadJSON(r io.Reader) (*Catalog, error) {
	return loadJSON(r, "json document")
}

func loadJSON(r io.Reader, source string) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", source, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("catalog: empty document")
	}
	pipeline := hydrate.New[Document](
		hydrate.Rewrite[Document](hydrate.RenameKeys(camelKeys)),
		hydrate.Strict[Document](),
	)
	doc, err := pipeline.JSON(source, data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return New(doc)
}
