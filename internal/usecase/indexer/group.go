package indexer

import (
	"github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/document"
	domidx "github.com/shanholmes/silverstripe-search-service-elastic/internal/domain/index"
)

// group is one physical index's ordered batch of documents.
type group struct {
	physical string
	docs     []document.Document
}

// groupByIndex partitions documents per resolved physical index, preserving
// input order within each group and first-seen order across groups.
// Documents without an identifier or source index are skipped.
func groupByIndex(resolver *domidx.Resolver, docs []document.Document) []group {
	positions := make(map[string]int)
	groups := make([]group, 0)

	for _, d := range docs {
		if !d.Indexable() {
			continue
		}
		physical := resolver.Resolve(d.Source())
		i, seen := positions[physical]
		if !seen {
			i = len(groups)
			positions[physical] = i
			groups = append(groups, group{physical: physical})
		}
		groups[i].docs = append(groups[i].docs, d)
	}
	return groups
}
