package build

import (
	"sort"
	"strings"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

func (b *Builder) makeSummaries() {
	for _, host := range b.annotationHosts() {
		for _, groups := range host.AnnotationsByCv() {
			for _, group := range groups {
				cv := b.cvConfigOfGroup(group)
				group.Summary = b.summarize(&cv, group)
			}
		}
	}
}

// cvConfigOfGroup resolves the curation policy through the group's term,
// so groups filed under a split-by-parents display name still get their
// real CV's policy.
func (b *Builder) cvConfigOfGroup(group *domain.OntTermAnnotations) config.CvConfig {
	if term := b.terms[group.Term]; term != nil {
		return b.cfg.CvConfigByName(term.CvName)
	}
	return config.CvConfig{}
}

// annotationHosts lists every entity carrying annotations: genes, terms,
// genotypes and references.
func (b *Builder) annotationHosts() []domain.AnnotationHost {
	var hosts []domain.AnnotationHost
	for _, gene := range b.genes {
		hosts = append(hosts, gene)
	}
	for _, term := range b.terms {
		hosts = append(hosts, term)
	}
	for _, genotype := range b.genotypes {
		hosts = append(hosts, genotype)
	}
	for _, ref := range b.references {
		hosts = append(hosts, ref)
	}
	return hosts
}

// summaryAcc accumulates the details that collapse into one summary row.
type summaryAcc struct {
	genes          []string
	genotypes      []string
	rest           []domain.ExtPart
	geneRelNames   []string
	genesByGeneRel map[string][][]string
}

// summarize collapses a group's annotations into summary rows.  Details
// that differ only by annotated gene/genotype merge into one row; gene
// ranges of the CV's configured collect relations merge into summary
// gene groups, and the CV's hidden relations are left out of summaries
// entirely ("ALL" hides every extension part).
func (b *Builder) summarize(cv *config.CvConfig, group *domain.OntTermAnnotations) []domain.TermSummaryRow {
	accs := map[string]*summaryAcc{}
	var order []string

	hideAll := hasString(cv.SummaryRelationsToHide, "ALL")

	for _, detailID := range group.Annotations {
		detail := b.details[detailID]
		if detail == nil {
			continue
		}

		var rest []domain.ExtPart
		geneParts := map[string][]string{}
		var geneRelNames []string
		for _, part := range detail.Extension {
			if hideAll || hasString(cv.SummaryRelationsToHide, part.RelTypeName) {
				continue
			}
			if part.ExtRange.IsGene() && hasString(cv.SummaryRelationRangesToCollect, part.RelTypeName) {
				if _, seen := geneParts[part.RelTypeName]; !seen {
					geneRelNames = append(geneRelNames, part.RelTypeName)
				}
				geneParts[part.RelTypeName] = append(geneParts[part.RelTypeName], part.ExtRange.Value)
				continue
			}
			rest = append(rest, part)
		}
		rest = b.orderExtParts(rest)
		sort.Strings(geneRelNames)

		key := domain.ExtensionKey(rest) + "\x00" +
			strings.Join(geneRelNames, ",") + "\x00" + detail.Genotype
		acc, ok := accs[key]
		if !ok {
			acc = &summaryAcc{
				rest:           rest,
				geneRelNames:   geneRelNames,
				genesByGeneRel: map[string][][]string{},
			}
			accs[key] = acc
			order = append(order, key)
		}

		if detail.Genotype != "" {
			acc.genotypes = appendUniqueString(acc.genotypes, detail.Genotype)
		} else {
			for _, geneUniquename := range b.genesOfDetail(detail) {
				acc.genes = appendUniqueString(acc.genes, geneUniquename)
			}
		}
		for relName, genes := range geneParts {
			acc.genesByGeneRel[relName] = appendUniqueGeneGroup(acc.genesByGeneRel[relName], genes)
		}
	}

	rows := make([]domain.TermSummaryRow, 0, len(order))
	for _, key := range order {
		acc := accs[key]
		sort.Strings(acc.genes)
		sort.Strings(acc.genotypes)

		extension := append([]domain.ExtPart{}, acc.rest...)
		for _, relName := range acc.geneRelNames {
			groups := acc.genesByGeneRel[relName]
			sort.Slice(groups, func(i, j int) bool {
				return strings.Join(groups[i], " and ") < strings.Join(groups[j], " and ")
			})
			extension = append(extension, domain.ExtPart{
				RelTypeName:        relName,
				RelTypeDisplayName: b.cfg.ExtensionDisplayName(relName),
				ExtRange: domain.ExtRange{
					Kind:         domain.ExtRangeSummaryGenes,
					SummaryGenes: groups,
				},
			})
		}
		extension = b.orderExtParts(extension)

		rows = append(rows, domain.TermSummaryRow{
			GeneUniquenames:     acc.genes,
			GenotypeUniquenames: acc.genotypes,
			Extension:           extension,
		})
	}

	// plain rows (no extension) first, then by extension content
	sort.SliceStable(rows, func(i, j int) bool {
		a, c := rows[i], rows[j]
		if (len(a.Extension) == 0) != (len(c.Extension) == 0) {
			return len(a.Extension) == 0
		}
		keyA, keyC := domain.ExtensionKey(a.Extension), domain.ExtensionKey(c.Extension)
		if keyA != keyC {
			return keyA < keyC
		}
		return firstID(a) < firstID(c)
	})

	return rows
}

func firstID(row domain.TermSummaryRow) string {
	if len(row.GenotypeUniquenames) > 0 {
		return row.GenotypeUniquenames[0]
	}
	if len(row.GeneUniquenames) > 0 {
		return row.GeneUniquenames[0]
	}
	return ""
}

func hasString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func appendUniqueGeneGroup(groups [][]string, group []string) [][]string {
	joined := strings.Join(group, "\x00")
	for _, existing := range groups {
		if strings.Join(existing, "\x00") == joined {
			return groups
		}
	}
	return append(groups, group)
}

// orderExtParts sorts extension parts by the configured relation order.
// Relations in the always-last list sort after everything else; ties
// break by relation name then range value.
func (b *Builder) orderExtParts(parts []domain.ExtPart) []domain.ExtPart {
	if len(parts) < 2 {
		return parts
	}
	ordered := append([]domain.ExtPart{}, parts...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, c := ordered[i], ordered[j]
		lastA, lastC := b.isAlwaysLast(a.RelTypeName), b.isAlwaysLast(c.RelTypeName)
		if lastA != lastC {
			return !lastA
		}
		orderA, orderC := b.relOrderIndex(a.RelTypeName), b.relOrderIndex(c.RelTypeName)
		if orderA != orderC {
			return orderA < orderC
		}
		if a.RelTypeName != c.RelTypeName {
			return a.RelTypeName < c.RelTypeName
		}
		return a.ExtRange.DisplayValue() < c.ExtRange.DisplayValue()
	})
	return ordered
}

func (b *Builder) isAlwaysLast(relName string) bool {
	for _, last := range b.cfg.ExtensionRelationOrder.AlwaysLast {
		if last == relName {
			return true
		}
	}
	return false
}

// relOrderIndex returns the configured position of a relation, or a
// position after every configured relation for the rest.
func (b *Builder) relOrderIndex(relName string) int {
	for i, name := range b.cfg.ExtensionRelationOrder.RelationOrder {
		if name == relName {
			return i
		}
	}
	return len(b.cfg.ExtensionRelationOrder.RelationOrder)
}
