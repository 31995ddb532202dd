package build

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// hostGroups tracks the annotation groups of one host, keyed by termid
// (with a "|not" suffix for negated groups).
type hostGroups map[string]*domain.OntTermAnnotations

func (b *Builder) processAnnotations() error {
	b.details = map[int]*domain.OntAnnotationDetail{}
	b.detailCvName = map[int]string{}
	groupsByHost := map[*domain.AnnotationBlock]hostGroups{}

	for _, fc := range b.raw.FeatureCvterms {
		term, ok := b.termsByCvtermID[fc.CvtermID]
		if !ok {
			return fmt.Errorf("annotation %d references a cvterm (%d) missing from the term table",
				fc.FeatureCvtermID, fc.CvtermID)
		}

		feature, ok := b.featuresByID[fc.FeatureID]
		if !ok {
			return fmt.Errorf("annotation %d references missing feature %d",
				fc.FeatureCvtermID, fc.FeatureID)
		}

		gene, genotype := b.annotatedEntity(feature.FeatureID)
		if gene == nil && genotype == nil {
			// annotation on a feature type we don't export
			continue
		}

		detail, err := b.makeDetail(fc.FeatureCvtermID, fc.PubUniquename, gene, genotype)
		if err != nil {
			return err
		}
		b.details[detail.ID] = detail
		b.detailCvName[detail.ID] = term.CvName

		// the hosts this annotation is indexed under
		var hosts []*domain.AnnotationBlock
		var hostGenes []*domain.GeneDetails
		if gene != nil {
			hostGenes = append(hostGenes, gene)
		}
		if genotype != nil {
			hosts = append(hosts, &genotype.AnnotationBlock)
			hostGenes = append(hostGenes, b.genesOfGenotype(genotype)...)
		}
		for _, hostGene := range hostGenes {
			hosts = append(hosts, &hostGene.AnnotationBlock)
		}
		if ref, ok := b.references[fc.PubUniquename]; ok {
			hosts = append(hosts, &ref.AnnotationBlock)
		}
		hosts = append(hosts, &term.AnnotationBlock)

		for _, host := range hosts {
			if groupsByHost[host] == nil {
				groupsByHost[host] = hostGroups{}
			}
			b.attachDetail(host, groupsByHost[host], term, fc.IsNot, detail, "")
		}

		// propagate to ancestors along the configured relations; the
		// direct annotation's containers get the ancestor groups too
		b.ancestorWalk(term.TermID, term.CvName, func(ancestorTermID, relName string) {
			ancestor, ok := b.terms[ancestorTermID]
			if !ok {
				return
			}
			ancestorHosts := append([]*domain.AnnotationBlock{&ancestor.AnnotationBlock}, hosts[:len(hosts)-1]...)
			for _, host := range ancestorHosts {
				if groupsByHost[host] == nil {
					groupsByHost[host] = hostGroups{}
				}
				b.attachDetail(host, groupsByHost[host], ancestor, fc.IsNot, detail, relName)
			}
		})
	}

	return nil
}

// annotatedEntity resolves the annotated feature to a gene or genotype.
// Annotations on transcripts are attached to the transcript's gene.
func (b *Builder) annotatedEntity(featureID int) (*domain.GeneDetails, *domain.GenotypeDetails) {
	if gene, ok := b.geneByFeatureID[featureID]; ok {
		return gene, nil
	}
	if genotype, ok := b.genotypeByFID[featureID]; ok {
		return nil, genotype
	}
	if gene := b.geneOfTranscript(featureID); gene != nil {
		return gene, nil
	}
	return nil, nil
}

func (b *Builder) makeDetail(fcID int, pubUniquename string,
	gene *domain.GeneDetails, genotype *domain.GenotypeDetails) (*domain.OntAnnotationDetail, error) {

	detail := &domain.OntAnnotationDetail{
		ID:         fcID,
		Genes:      []string{},
		Extension:  []domain.ExtPart{},
		Qualifiers: []string{},
	}
	if pubUniquename != "null" {
		detail.Reference = pubUniquename
	}
	if gene != nil {
		detail.Genes = append(detail.Genes, gene.Uniquename)
	}
	if genotype != nil {
		detail.Genotype = genotype.DisplayUniquename
		detail.GenotypeBackground = genotype.Background
	}

	props := b.fcProps[fcID]
	sort.SliceStable(props, func(i, j int) bool { return props[i].Rank < props[j].Rank })

	var geneEx domain.GeneExProps
	for _, prop := range props {
		switch prop.TypeName {
		case "evidence":
			detail.Evidence = b.cfg.EvidenceAbbrev(prop.Value)
			if b.params.EcoMapping != nil {
				goRef := ""
				if strings.HasPrefix(detail.Reference, "GO_REF:") {
					goRef = detail.Reference
				}
				detail.EcoEvidence = b.params.EcoMapping.Lookup(detail.Evidence, goRef)
			}
		case "with":
			detail.Withs = append(detail.Withs, b.makeWithFromValue(prop.Value))
		case "from":
			detail.Froms = append(detail.Froms, b.makeWithFromValue(prop.Value))
		case "qualifier":
			detail.Qualifiers = append(detail.Qualifiers, prop.Value)
		case "condition":
			detail.Conditions = appendUniqueString(detail.Conditions, prop.Value)
		case "annotation_extension":
			detail.Extension = append(detail.Extension, b.parseExtension(prop.Value)...)
		case "assigned_by":
			detail.AssignedBy = prop.Value
		case "annotation_throughput_type":
			switch prop.Value {
			case "high throughput":
				detail.Throughput = domain.HighThroughput
			case "low throughput":
				detail.Throughput = domain.LowThroughput
			case "non-experimental":
				detail.Throughput = domain.NonExperimental
			}
		case "residue":
			detail.Residue = prop.Value
		case "copies_per_cell":
			geneEx.CopiesPerCell = prop.Value
		case "avg_copies_per_cell":
			geneEx.AvgCopiesPerCell = prop.Value
		case "scale":
			geneEx.Scale = prop.Value
		}
	}
	if geneEx != (domain.GeneExProps{}) {
		detail.GeneExProps = &geneEx
	}
	sort.Strings(detail.Conditions)

	return detail, nil
}

// makeWithFromValue classifies a with/from value as a gene of the load
// organism, a term, or a plain identifier.
func (b *Builder) makeWithFromValue(value string) domain.WithFromValue {
	trimmed := strings.TrimPrefix(value, b.cfg.DatabaseName+":")
	if gene, ok := b.genes[trimmed]; ok {
		short := gene.Short()
		return domain.WithFromValue{Gene: &short}
	}
	if term, ok := b.terms[value]; ok {
		short := term.Short()
		return domain.WithFromValue{Term: &short}
	}
	return domain.WithFromValue{Identifier: value}
}

// parseExtension parses an extension string of the form
// "rel1(range1),rel2(range2)" into typed parts.
func (b *Builder) parseExtension(value string) []domain.ExtPart {
	var parts []domain.ExtPart
	for _, piece := range splitExtension(value) {
		open := strings.IndexByte(piece, '(')
		if open <= 0 || !strings.HasSuffix(piece, ")") {
			continue
		}
		relName := strings.TrimSpace(piece[:open])
		rangeValue := piece[open+1 : len(piece)-1]
		parts = append(parts, domain.ExtPart{
			RelTypeName:        relName,
			RelTypeDisplayName: b.cfg.ExtensionDisplayName(relName),
			ExtRange:           b.makeExtRange(rangeValue),
		})
	}
	return parts
}

// splitExtension splits on commas outside parentheses.
func splitExtension(value string) []string {
	var pieces []string
	depth, start := 0, 0
	for i := 0; i < len(value); i++ {
		switch value[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				pieces = append(pieces, strings.TrimSpace(value[start:i]))
				start = i + 1
			}
		}
	}
	if start < len(value) {
		pieces = append(pieces, strings.TrimSpace(value[start:]))
	}
	return pieces
}

func (b *Builder) makeExtRange(value string) domain.ExtRange {
	trimmed := strings.TrimPrefix(value, b.cfg.DatabaseName+":")
	if _, ok := b.genes[trimmed]; ok {
		return domain.GeneExtRange(trimmed)
	}
	if looksLikeTermID(value) {
		if _, ok := b.terms[value]; ok {
			return domain.TermExtRange(value)
		}
	}
	return domain.MiscExtRange(value)
}

// attachDetail adds the detail to the host's group for (term, isNot) and
// fills the host's lookup maps with everything the detail references.
func (b *Builder) attachDetail(host *domain.AnnotationBlock, groups hostGroups,
	term *domain.TermDetails, isNot bool, detail *domain.OntAnnotationDetail, relName string) {

	key := term.TermID
	if isNot {
		key += "|not"
	}
	group, ok := groups[key]
	if !ok {
		group = &domain.OntTermAnnotations{
			Term:  term.TermID,
			IsNot: isNot,
		}
		groups[key] = group
		displayCv := b.annotationDisplayCv(term)
		host.CvAnnotations[displayCv] = append(host.CvAnnotations[displayCv], group)
	}
	if relName != "" {
		group.RelNames = appendUniqueString(group.RelNames, relName)
	}
	for _, existing := range group.Annotations {
		if existing == detail.ID {
			b.fillLookups(host, term, detail)
			return
		}
	}
	group.Annotations = append(group.Annotations, detail.ID)
	b.fillLookups(host, term, detail)
}

// annotationDisplayCv returns the key a term's annotation groups file
// under.  CVs configured with split_by_parents file each term under the
// first configured parent found in the term's ancestry; terms under no
// configured parent stay under the plain CV name.
func (b *Builder) annotationDisplayCv(term *domain.TermDetails) string {
	cv := b.cfg.CvConfigByName(term.CvName)
	if len(cv.SplitByParents) == 0 {
		return term.CvName
	}
	ancestry := map[string]bool{term.TermID: true}
	b.allAncestors(term.TermID, func(ancestorTermID, relName string) {
		ancestry[ancestorTermID] = true
	})
	for _, parent := range cv.SplitByParents {
		if ancestry[parent.TermID] {
			if parent.Name != "" {
				return parent.Name
			}
			return term.CvName
		}
	}
	return term.CvName
}

// fillLookups records every entity the detail references in the host's
// lookup maps.  Genes outside the load organism get an explicit nil.
func (b *Builder) fillLookups(host *domain.AnnotationBlock, term *domain.TermDetails, detail *domain.OntAnnotationDetail) {
	host.AnnotationDetails[detail.ID] = detail
	b.recordTermShort(host, term.TermID)

	for _, geneUniquename := range detail.Genes {
		b.recordGeneShort(host, geneUniquename)
	}
	for _, wf := range append(append([]domain.WithFromValue{}, detail.Withs...), detail.Froms...) {
		if wf.Gene != nil {
			b.recordGeneShort(host, wf.Gene.Uniquename)
		}
		if wf.Term != nil {
			b.recordTermShort(host, wf.Term.TermID)
		}
	}
	for _, part := range detail.Extension {
		switch part.ExtRange.Kind {
		case domain.ExtRangeGene, domain.ExtRangePromoter:
			b.recordGeneShort(host, part.ExtRange.Value)
		case domain.ExtRangeTerm:
			b.recordTermShort(host, part.ExtRange.Value)
		}
	}
	for _, condition := range detail.Conditions {
		b.recordTermShort(host, condition)
	}
	if detail.Genotype != "" {
		if genotype, ok := b.genotypes[detail.Genotype]; ok {
			short := genotype.Short()
			host.GenotypesByID[detail.Genotype] = &short
			for _, expressed := range genotype.ExpressedAlleles {
				if allele, ok := b.alleles[expressed.AlleleUniquename]; ok {
					alleleShort := allele.Short()
					host.AllelesByID[allele.Uniquename] = &alleleShort
					b.recordGeneShort(host, allele.Gene.Uniquename)
				}
			}
		}
	}
	if detail.Reference != "" {
		if ref, ok := b.references[detail.Reference]; ok {
			short := ref.Short()
			host.ReferencesByID[detail.Reference] = &short
		} else {
			host.ReferencesByID[detail.Reference] = nil
		}
	}
}

func (b *Builder) recordGeneShort(host *domain.AnnotationBlock, uniquename string) {
	if gene, ok := b.genes[uniquename]; ok {
		short := gene.Short()
		host.GenesByUniquename[uniquename] = &short
		return
	}
	// deliberately excluded (eg. other organism): explicit absence
	host.GenesByUniquename[uniquename] = nil
}

func (b *Builder) recordTermShort(host *domain.AnnotationBlock, termID string) {
	if term, ok := b.terms[termID]; ok {
		short := term.Short()
		host.TermsByTermID[termID] = &short
		return
	}
	if looksLikeTermID(termID) {
		host.TermsByTermID[termID] = nil
	}
}

// genesOfDetail resolves the genes an annotation is about: its direct
// genes, or the genes of its genotype.
func (b *Builder) genesOfDetail(detail *domain.OntAnnotationDetail) []string {
	if len(detail.Genes) > 0 {
		return detail.Genes
	}
	if detail.Genotype == "" {
		return nil
	}
	genotype, ok := b.genotypes[detail.Genotype]
	if !ok {
		return nil
	}
	var uniquenames []string
	for _, gene := range b.genesOfGenotype(genotype) {
		uniquenames = append(uniquenames, gene.Uniquename)
	}
	return uniquenames
}

// sortAnnotationGroups fixes the order of every annotation group list:
// terms ordered by name then termid, "not" groups after normal groups for
// the same term.
func (b *Builder) sortAnnotationGroups() {
	sortHost := func(block *domain.AnnotationBlock) {
		for _, groups := range block.CvAnnotations {
			sort.SliceStable(groups, func(i, j int) bool {
				a, c := groups[i], groups[j]
				termA, termC := b.terms[a.Term], b.terms[c.Term]
				if termA != nil && termC != nil && termA.Name != termC.Name {
					return termA.Name < termC.Name
				}
				if a.Term != c.Term {
					return a.Term < c.Term
				}
				return !a.IsNot && c.IsNot
			})
			for _, group := range groups {
				cv := b.cvConfigOfGroup(group)
				b.sortDetailIDs(&cv, group.Annotations)
				sort.Strings(group.RelNames)
			}
		}
	}

	for _, gene := range b.genes {
		sortHost(&gene.AnnotationBlock)
	}
	for _, term := range b.terms {
		sortHost(&term.AnnotationBlock)
	}
	for _, genotype := range b.genotypes {
		sortHost(&genotype.AnnotationBlock)
	}
	for _, ref := range b.references {
		sortHost(&ref.AnnotationBlock)
	}
}

// sortDetailIDs orders a group's annotation detail ids.  With no
// configured sort keys the ids sort numerically; otherwise the details
// sort by the configured keys ("gene" or "genotype") with the id as the
// final tie-break.
func (b *Builder) sortDetailIDs(cv *config.CvConfig, ids []int) {
	if len(cv.SortDetailsBy) == 0 {
		sort.Ints(ids)
		return
	}
	keyOf := func(id int, key string) string {
		detail := b.details[id]
		if detail == nil {
			return ""
		}
		switch key {
		case "gene":
			if len(detail.Genes) > 0 {
				return detail.Genes[0]
			}
		case "genotype":
			return detail.Genotype
		}
		return ""
	}
	sort.SliceStable(ids, func(i, j int) bool {
		for _, key := range cv.SortDetailsBy {
			a, c := keyOf(ids[i], key), keyOf(ids[j], key)
			if a != c {
				return a < c
			}
		}
		return ids[i] < ids[j]
	})
}
