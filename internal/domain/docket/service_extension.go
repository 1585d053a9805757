package docket

import "sort"

// ExtensionTable maps service methods to added days for one jurisdiction.
// PERSONAL is always 0 and need not appear in a table.
type ExtensionTable map[ServiceMethod]int

// ExtensionResolver maps (jurisdiction, service method) to the number of extra
// days granted because notice was served by a non-instantaneous method.
type ExtensionResolver interface {
	// Extension returns the added days and whether the jurisdiction has a
	// configured table.  An unknown jurisdiction yields (0, false): the
	// calculation proceeds with no extension and the gap is surfaced as a
	// warning, never an error.
	Extension(jurisdiction string, method ServiceMethod) (days int, known bool)
}

// TableResolver is an ExtensionResolver backed by an open per-jurisdiction
// table map.  Jurisdictions are registered individually rather than hardcoded
// so that onboarding a new one is a data change, not a code change.
type TableResolver struct {
	tables map[string]ExtensionTable
}

// NewTableResolver builds a resolver pre-loaded with the standard federal and
// Florida state tables.
func NewTableResolver() *TableResolver {
	r := &TableResolver{tables: make(map[string]ExtensionTable)}
	r.Register("federal", ExtensionTable{
		ServiceCertifiedMail:  3,
		ServiceFirstClassMail: 3,
		ServiceElectronic:     3,
	})
	r.Register("florida_state", ExtensionTable{
		ServiceCertifiedMail:  5,
		ServiceFirstClassMail: 5,
		ServiceElectronic:     0,
	})
	return r
}

// Register installs or replaces the extension table for a jurisdiction.
func (r *TableResolver) Register(jurisdiction string, table ExtensionTable) {
	r.tables[jurisdiction] = table
}

func (r *TableResolver) Extension(jurisdiction string, method ServiceMethod) (int, bool) {
	if method == ServicePersonal {
		_, known := r.tables[jurisdiction]
		return 0, known
	}
	table, known := r.tables[jurisdiction]
	if !known {
		return 0, false
	}
	return table[method], true
}

// Jurisdictions lists the jurisdictions with configured tables, sorted.
func (r *TableResolver) Jurisdictions() []string {
	out := make([]string, 0, len(r.tables))
	for j := range r.tables {
		out = append(out, j)
	}
	sort.Strings(out)
	return out
}
