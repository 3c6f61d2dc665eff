package metadata

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/slicenferqin/sql-zen/internal/catalog"
	"github.com/slicenferqin/sql-zen/internal/config"
	"github.com/slicenferqin/sql-zen/pkg/errorbank"
)

// Module provides the metadata writer to Fx.
var Module = fx.Provide(NewWriter)

// Writer renders the metadata documents into the schema directory layout the
// query engine loads from: tables/, joins/, and cubes/.
type Writer struct {
	dir     string
	catalog catalog.Catalog
	logger  *zap.Logger
}

// NewWriter constructs a Writer targeting the configured schema directory.
func NewWriter(cfg config.Config, cat catalog.Catalog, logger *zap.Logger) *Writer {
	return &Writer{
		dir:     cfg.Metadata.SchemaDir,
		catalog: cat,
		logger:  logger,
	}
}

// WriteAll emits every metadata document. Output is deterministic, so
// rerunning over an existing schema directory rewrites identical bytes.
func (w *Writer) WriteAll() error {
	for _, sub := range []string{"tables", "joins", "cubes"} {
		if err := os.MkdirAll(filepath.Join(w.dir, sub), 0o755); err != nil {
			return errorbank.Internal(fmt.Sprintf("create %s directory", sub), errorbank.WithCause(err))
		}
	}

	for _, doc := range TableDocuments(w.catalog) {
		path := filepath.Join(w.dir, "tables", doc.Table.Name+".yaml")
		if err := w.writeDocument(path, doc); err != nil {
			return err
		}
	}

	if err := w.writeDocument(filepath.Join(w.dir, "joins", "relationships.yaml"), JoinsDocumentFor()); err != nil {
		return err
	}

	for _, cube := range CubeDocuments(w.catalog) {
		name := strings.ReplaceAll(cube.Cube, "_", "-") + ".yaml"
		if err := w.writeDocument(filepath.Join(w.dir, "cubes", name), cube); err != nil {
			return err
		}
	}

	return nil
}

func (w *Writer) writeDocument(path string, doc any) error {
	data, err := Render(doc)
	if err != nil {
		return errorbank.Internal(fmt.Sprintf("render %s", path), errorbank.WithCause(err))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errorbank.Internal(fmt.Sprintf("write %s", path), errorbank.WithCause(err))
	}
	if w.logger != nil {
		w.logger.Info("metadata document written", zap.String("path", path))
	}
	return nil
}

// Render marshals a metadata document with the canonical YAML settings.
func Render(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
