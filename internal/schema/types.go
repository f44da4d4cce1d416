// Package schema defines the point-in-time description of a database's
// structure (tables, columns, foreign keys) used to build completion prompts.
package schema

// Column describes a single column in a table.
type Column struct {
	Name         string
	DeclaredType string  // catalog type as declared; "TEXT" when the catalog stores none
	Nullable     bool
	IsPrimaryKey bool
	DefaultValue *string // nil if no default is declared
}

// ForeignKey describes one declared foreign-key edge of a table.
// Edges are descriptive only; no referential integrity is enforced here.
type ForeignKey struct {
	FromColumn string
	ToTable    string
	ToColumn   string
}

// Table describes a table, its columns in catalog declaration order, and its
// foreign keys. ForeignKeys is empty (never nil semantics matter to callers)
// for tables without any.
type Table struct {
	Name        string
	Columns     []Column
	ForeignKeys []ForeignKey
}

// Snapshot is a fully-materialized description of a database's structure,
// built fresh on every attach. Table order is the engine's catalog order;
// it drives example generation and must be preserved.
type Snapshot struct {
	Tables []Table
}

// TableNames returns the table names in snapshot order.
func (s *Snapshot) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

// Table returns the table with the given name, or nil if absent.
func (s *Snapshot) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// HasTable reports whether a table with the given name exists in the snapshot.
func (s *Snapshot) HasTable(name string) bool {
	return s.Table(name) != nil
}
