package build

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// CV names that hold relation types and internal terms rather than
// annotatable terms.
var nonAnnotationCvNames = map[string]bool{
	"relationship":         true,
	"relations":            true,
	"cvterm_property_type": true,
	"synonym_type":         true,
}

func (b *Builder) processTerms() error {
	b.termsByCvtermID = make(map[int]*domain.TermDetails, len(b.raw.Cvterms))
	b.terms = make(map[string]*domain.TermDetails, len(b.raw.Cvterms))

	for _, row := range b.raw.Cvterms {
		if nonAnnotationCvNames[row.CvName] {
			continue
		}
		cvConf := b.cfg.CvConfigByName(row.CvName)
		term := &domain.TermDetails{
			Name:                  row.Name,
			CvName:                row.CvName,
			AnnotationFeatureType: cvConf.FeatureType,
			TermID:                row.TermID,
			Definition:            row.Definition,
			IsObsolete:            row.IsObsolete,
			AnnotationBlock:       newAnnotationBlock(),
		}
		b.termsByCvtermID[row.CvtermID] = term
		if _, dup := b.terms[row.TermID]; dup {
			return fmt.Errorf("duplicate termid in cvterm table: %s", row.TermID)
		}
		b.terms[row.TermID] = term
	}

	for _, syn := range b.raw.CvtermSynonyms {
		term, ok := b.termsByCvtermID[syn.CvtermID]
		if !ok {
			continue
		}
		term.Synonyms = append(term.Synonyms, domain.SynonymDetails{
			Name:        syn.Synonym,
			SynonymType: syn.SynonymType,
		})
	}

	for _, prop := range b.raw.Cvtermprops {
		term, ok := b.termsByCvtermID[prop.CvtermID]
		if !ok {
			continue
		}
		switch prop.TypeName {
		case "in_subset", "canto_subset":
			term.InSubsets = appendUniqueString(term.InSubsets, prop.Value)
		}
	}

	for _, xref := range b.raw.CvtermDbxrefs {
		term, ok := b.termsByCvtermID[xref.CvtermID]
		if !ok {
			continue
		}
		if term.Xrefs == nil {
			term.Xrefs = map[string]domain.TermXref{}
		}
		term.Xrefs[xref.DBName] = domain.TermXref{
			XrefID: xref.DBName + ":" + xref.Accession,
		}
	}

	for _, term := range b.terms {
		sort.Slice(term.InSubsets, func(i, j int) bool {
			return term.InSubsets[i] < term.InSubsets[j]
		})
		sort.Slice(term.Synonyms, func(i, j int) bool {
			if term.Synonyms[i].Name != term.Synonyms[j].Name {
				return term.Synonyms[i].Name < term.Synonyms[j].Name
			}
			return term.Synonyms[i].SynonymType < term.Synonyms[j].SynonymType
		})
	}

	return nil
}

func (b *Builder) processTermRelationships() {
	b.parentEdges = map[string][]termEdge{}

	for _, rel := range b.raw.CvtermRelationships {
		subject, okS := b.termsByCvtermID[rel.SubjectID]
		object, okO := b.termsByCvtermID[rel.ObjectID]
		if !okS || !okO {
			continue
		}
		subject.DirectAncestors = append(subject.DirectAncestors, domain.TermAndRelation{
			TermID:       object.TermID,
			TermName:     object.Name,
			RelationName: rel.RelName,
		})
		b.parentEdges[subject.TermID] = append(b.parentEdges[subject.TermID], termEdge{
			parentTermID: object.TermID,
			relName:      rel.RelName,
		})
	}

	for _, term := range b.terms {
		sort.Slice(term.DirectAncestors, func(i, j int) bool {
			a, c := term.DirectAncestors[i], term.DirectAncestors[j]
			if a.TermID != c.TermID {
				return a.TermID < c.TermID
			}
			return a.RelationName < c.RelationName
		})
		b.setInterestingParents(term)
	}
}

// ancestorWalk calls visit for every (ancestor termid, first-hop relation
// name) reachable from the start term along the configured relation
// allowlist.  A visited set guards against cycles in malformed ontology
// input.
func (b *Builder) ancestorWalk(startTermID, cvName string, visit func(ancestorTermID, relName string)) {
	visited := map[string]bool{startTermID: true}
	type walkItem struct {
		termID  string
		relName string
	}
	var queue []walkItem
	for _, edge := range b.parentEdges[startTermID] {
		if config.IsDescendantRel(edge.relName, cvName) {
			queue = append(queue, walkItem{edge.parentTermID, edge.relName})
		}
	}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if visited[item.termID] {
			continue
		}
		visited[item.termID] = true
		visit(item.termID, item.relName)
		for _, edge := range b.parentEdges[item.termID] {
			if config.IsDescendantRel(edge.relName, cvName) {
				queue = append(queue, walkItem{edge.parentTermID, item.relName})
			}
		}
	}
}

// allAncestors walks every relation type (not just the propagation
// allowlist), used for interesting-parent computation.
func (b *Builder) allAncestors(startTermID string, visit func(ancestorTermID, relName string)) {
	visited := map[string]bool{startTermID: true}
	type walkItem struct {
		termID  string
		relName string
	}
	var queue []walkItem
	for _, edge := range b.parentEdges[startTermID] {
		queue = append(queue, walkItem{edge.parentTermID, edge.relName})
	}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if visited[item.termID] {
			continue
		}
		visited[item.termID] = true
		visit(item.termID, item.relName)
		for _, edge := range b.parentEdges[item.termID] {
			queue = append(queue, walkItem{edge.parentTermID, item.relName})
		}
	}
}

// setInterestingParents keeps the transitive ancestors that match a
// configured (termid, relation) pair.
func (b *Builder) setInterestingParents(term *domain.TermDetails) {
	interesting := map[string]bool{}
	b.allAncestors(term.TermID, func(ancestorTermID, relName string) {
		for _, ip := range b.cfg.InterestingParents {
			if ip.TermID == ancestorTermID && ip.RelName == relName {
				interesting[ancestorTermID] = true
			}
		}
	})
	if len(interesting) == 0 {
		return
	}
	term.InterestingParents = make([]string, 0, len(interesting))
	for termID := range interesting {
		term.InterestingParents = append(term.InterestingParents, termID)
	}
	sort.Strings(term.InterestingParents)
}

// termIDPattern reports whether a string looks like a term id (DB:ACC).
func looksLikeTermID(s string) bool {
	idx := strings.IndexByte(s, ':')
	if idx <= 0 || idx == len(s)-1 {
		return false
	}
	for i := idx + 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func appendUniqueString(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

func newAnnotationBlock() domain.AnnotationBlock {
	return domain.AnnotationBlock{
		CvAnnotations:     domain.OntAnnotationMap{},
		AnnotationDetails: map[int]*domain.OntAnnotationDetail{},
		GenesByUniquename: map[string]*domain.GeneShort{},
		TermsByTermID:     map[string]*domain.TermShort{},
		GenotypesByID:     map[string]*domain.GenotypeShort{},
		AllelesByID:       map[string]*domain.AlleleShort{},
		ReferencesByID:    map[string]*domain.ReferenceShort{},
	}
}
