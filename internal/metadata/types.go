// Package metadata synthesizes the declarative documents consumed by the
// natural-language query engine: per-table schema descriptors, the join
// graph, and the semantic cube definitions. Everything is derived from the
// shared catalog vocabulary and rendering is fully deterministic, so
// regenerating the documents reproduces them byte for byte.
package metadata

// TableDocument is one schema-layer file describing a single table.
type TableDocument struct {
	Table           TableInfo `yaml:"table"`
	Columns         []Column  `yaml:"columns"`
	BusinessContext string    `yaml:"business_context"`
}

// TableInfo names and describes the table itself.
type TableInfo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Column describes one column: structure, key role, and value constraints.
type Column struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	PrimaryKey  bool     `yaml:"primary_key,omitempty"`
	Unique      bool     `yaml:"unique,omitempty"`
	ForeignKey  string   `yaml:"foreign_key,omitempty"`
	Enum        []string `yaml:"enum,omitempty,flow"`
	Nullable    bool     `yaml:"nullable,omitempty"`
	Default     string   `yaml:"default,omitempty"`
}

// JoinsDocument is the join-layer file: the relationship edge list plus a
// documentation block of example composite query patterns.
type JoinsDocument struct {
	Relationships []Relationship `yaml:"relationships"`
	CommonJoins   string         `yaml:"common_joins"`
}

// Relationship is one edge of the join graph.
type Relationship struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Type        string `yaml:"type"`
	Join        string `yaml:"join"`
}

// CubeDocument is one semantic-layer file covering an analytical subject area.
type CubeDocument struct {
	Cube        string      `yaml:"cube"`
	Description string      `yaml:"description"`
	Dimensions  []Dimension `yaml:"dimensions"`
	Metrics     []Metric    `yaml:"metrics"`
	Filters     []Filter    `yaml:"filters"`
}

// Dimension is an attribute usable to group or slice metrics, optionally with
// a join path and a time-granularity hierarchy.
type Dimension struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Column      string             `yaml:"column"`
	Join        string             `yaml:"join,omitempty"`
	Granularity []GranularityLevel `yaml:"granularity,omitempty"`
}

// GranularityLevel is one level of a time hierarchy with its derivation rule.
// It marshals as a single-key mapping ("- day: {sql, description}") to match
// the format the query engine parses.
type GranularityLevel struct {
	Name        string
	SQL         string
	Description string
}

type granularityRule struct {
	SQL         string `yaml:"sql"`
	Description string `yaml:"description"`
}

// MarshalYAML renders the level under its name key.
func (g GranularityLevel) MarshalYAML() (any, error) {
	return map[string]granularityRule{
		g.Name: {SQL: g.SQL, Description: g.Description},
	}, nil
}

// Metric is a named aggregation formula with its kind and unit.
type Metric struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	SQL         string `yaml:"sql"`
	Type        string `yaml:"type"`
	Unit        string `yaml:"unit,omitempty"`
	Join        string `yaml:"join,omitempty"`
}

// Filter is a reusable, named boolean predicate.
type Filter struct {
	Name        string `yaml:"name"`
	SQL         string `yaml:"sql"`
	Description string `yaml:"description"`
}
