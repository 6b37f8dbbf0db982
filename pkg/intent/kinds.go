// Package intent maps intent kinds to their backing table and query class.
//
// Kinds follow a fixed grammar over the known tables: "search_<plural>"
// (select), "count_<plural>" (count), and "get_<singular>_details"
// (select_single). The registry is generated from the table list at init
// so the three kind families stay in lockstep with the schema fallback
// tables.
package intent

import (
	"sort"

	"github.com/jinzhu/inflection"

	"github.com/orza-hq/orza-engine/pkg/models"
)

// Binding ties one intent kind to a table and query class.
type Binding struct {
	Table string
	Class models.QueryClass
}

// Tables lists every known queryable table.
var Tables = []string{
	"candidates",
	"job_postings",
	"applications",
	"activities",
	"attachments",
	"departments",
	"eeocs",
	"integrations",
	"job_interview_stages",
	"offers",
	"offices",
	"query_failures",
	"reject_reasons",
	"scheduled_interviews",
	"scorecards",
	"tags",
}

// kindAliases overrides the token used in kind names where it differs from
// the table name. "search_jobs" queries job_postings.
var kindAliases = map[string]string{
	"job_postings": "jobs",
}

var bindings = buildBindings()

func buildBindings() map[string]Binding {
	m := make(map[string]Binding, len(Tables)*3)
	for _, table := range Tables {
		token := table
		if alias, ok := kindAliases[table]; ok {
			token = alias
		}
		m["search_"+token] = Binding{Table: table, Class: models.ClassSelect}
		m["count_"+token] = Binding{Table: table, Class: models.ClassCount}
		m["get_"+inflection.Singular(token)+"_details"] = Binding{Table: table, Class: models.ClassSingle}
	}
	return m
}

// Resolve looks up the binding for an intent kind. The second return is
// false for unknown kinds, including the extractor's "unknown" sentinel.
func Resolve(kind string) (Binding, bool) {
	b, ok := bindings[kind]
	return b, ok
}

// Kinds returns every supported intent kind in sorted order. Used to build
// the extraction prompt so the model only ever sees kinds the pipeline can
// resolve.
func Kinds() []string {
	out := make([]string, 0, len(bindings))
	for k := range bindings {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
