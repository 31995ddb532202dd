package build

import (
	"sort"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// processFeatureRels turns feature-relationship rows into interaction,
// ortholog and paralog annotation.
func (b *Builder) processFeatureRels() {
	for _, rel := range b.raw.FeatureRelationships {
		var relConf *config.FeatureRelConfig
		for i := range config.FeatureRelConfigs {
			if config.FeatureRelConfigs[i].RelTypeName == rel.RelName {
				relConf = &config.FeatureRelConfigs[i]
				break
			}
		}
		if relConf == nil {
			continue
		}

		subjectGene, ok := b.geneByFeatureID[rel.SubjectID]
		if !ok {
			continue
		}
		objectFeature, ok := b.featuresByID[rel.ObjectID]
		if !ok {
			continue
		}

		evidence := ""
		reference := ""
		for _, prop := range b.relProps[rel.FeatureRelationshipID] {
			switch prop.TypeName {
			case "evidence":
				evidence = prop.Value
			case "source_database", "reference":
				reference = prop.Value
			}
		}

		switch relConf.AnnotationType {
		case config.FeatureRelInteraction:
			objectGene, ok := b.geneByFeatureID[rel.ObjectID]
			if !ok {
				continue
			}
			annotation := domain.InteractionAnnotation{
				GeneUniquename:       subjectGene.Uniquename,
				InteractorUniquename: objectGene.Uniquename,
				Evidence:             evidence,
				ReferenceUniquename:  reference,
			}
			if rel.RelName == "interacts_physically" {
				subjectGene.PhysicalInteractions = append(subjectGene.PhysicalInteractions, annotation)
				if objectGene != subjectGene {
					objectGene.PhysicalInteractions = append(objectGene.PhysicalInteractions, annotation)
				}
			} else {
				subjectGene.GeneticInteractions = append(subjectGene.GeneticInteractions, annotation)
				if objectGene != subjectGene {
					objectGene.GeneticInteractions = append(objectGene.GeneticInteractions, annotation)
				}
			}
			if ref, ok := b.references[reference]; ok {
				if rel.RelName == "interacts_physically" {
					ref.PhysicalInteractions = append(ref.PhysicalInteractions, annotation)
				} else {
					ref.GeneticInteractions = append(ref.GeneticInteractions, annotation)
				}
			}

		case config.FeatureRelOrtholog:
			annotation := domain.OrthologAnnotation{
				GeneUniquename:      subjectGene.Uniquename,
				OrthologTaxonID:     b.taxonIDOf(objectFeature.OrganismID),
				OrthologUniquename:  objectFeature.Uniquename,
				Evidence:            evidence,
				ReferenceUniquename: reference,
			}
			subjectGene.OrthologAnnotations = append(subjectGene.OrthologAnnotations, annotation)
			if ref, ok := b.references[reference]; ok {
				ref.OrthologAnnotations = append(ref.OrthologAnnotations, annotation)
			}

		case config.FeatureRelParalog:
			annotation := domain.ParalogAnnotation{
				GeneUniquename:      subjectGene.Uniquename,
				ParalogUniquename:   objectFeature.Uniquename,
				Evidence:            evidence,
				ReferenceUniquename: reference,
			}
			subjectGene.ParalogAnnotations = append(subjectGene.ParalogAnnotations, annotation)
			if ref, ok := b.references[reference]; ok {
				ref.ParalogAnnotations = append(ref.ParalogAnnotations, annotation)
			}
		}
	}

	for _, gene := range b.genes {
		sortInteractions(gene.PhysicalInteractions)
		sortInteractions(gene.GeneticInteractions)
		sort.Slice(gene.OrthologAnnotations, func(i, j int) bool {
			a, c := gene.OrthologAnnotations[i], gene.OrthologAnnotations[j]
			if a.OrthologTaxonID != c.OrthologTaxonID {
				return a.OrthologTaxonID < c.OrthologTaxonID
			}
			return a.OrthologUniquename < c.OrthologUniquename
		})
		sort.Slice(gene.ParalogAnnotations, func(i, j int) bool {
			return gene.ParalogAnnotations[i].ParalogUniquename <
				gene.ParalogAnnotations[j].ParalogUniquename
		})
	}
}

func sortInteractions(interactions []domain.InteractionAnnotation) {
	sort.Slice(interactions, func(i, j int) bool {
		a, c := interactions[i], interactions[j]
		if a.GeneUniquename != c.GeneUniquename {
			return a.GeneUniquename < c.GeneUniquename
		}
		return a.InteractorUniquename < c.InteractorUniquename
	})
}

// processTargetOf records the reciprocal of every gene-pointing extension
// part on the pointed-at gene.
func (b *Builder) processTargetOf() {
	detailIDs := make([]int, 0, len(b.details))
	for id := range b.details {
		detailIDs = append(detailIDs, id)
	}
	sort.Ints(detailIDs)

	for _, detailID := range detailIDs {
		detail := b.details[detailID]
		cvName := b.detailCvName[detailID]
		for _, part := range detail.Extension {
			if !part.ExtRange.IsGene() {
				continue
			}
			target, ok := b.genes[part.ExtRange.Value]
			if !ok {
				continue
			}
			annotation := domain.TargetOfAnnotation{
				OntologyName:        cvName,
				ExtRelDisplayName:   part.RelTypeDisplayName,
				Genes:               b.genesOfDetail(detail),
				GenotypeUniquename:  detail.Genotype,
				ReferenceUniquename: detail.Reference,
			}
			if !containsTargetOf(target.TargetOfAnnotations, annotation) {
				target.TargetOfAnnotations = append(target.TargetOfAnnotations, annotation)
			}
		}
	}
}

func containsTargetOf(list []domain.TargetOfAnnotation, annotation domain.TargetOfAnnotation) bool {
	for _, existing := range list {
		if existing.OntologyName == annotation.OntologyName &&
			existing.ExtRelDisplayName == annotation.ExtRelDisplayName &&
			existing.GenotypeUniquename == annotation.GenotypeUniquename &&
			existing.ReferenceUniquename == annotation.ReferenceUniquename &&
			sameStrings(existing.Genes, annotation.Genes) {
			return true
		}
	}
	return false
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// setDeletionViability classifies each gene from the phenotype
// annotations of its single-allele deletion genotypes.
func (b *Builder) setDeletionViability() {
	for _, gene := range b.genes {
		hasViable := b.hasDeletionAnnotation(gene, b.cfg.ViabilityTerms.Viable)
		hasInviable := b.hasDeletionAnnotation(gene, b.cfg.ViabilityTerms.Inviable)
		switch {
		case hasViable && hasInviable:
			gene.DeletionViability = domain.ViabilityDependsOnConditions
		case hasViable:
			gene.DeletionViability = domain.ViabilityViable
		case hasInviable:
			gene.DeletionViability = domain.ViabilityInviable
		default:
			gene.DeletionViability = domain.ViabilityUnknown
		}
	}
}

func (b *Builder) hasDeletionAnnotation(gene *domain.GeneDetails, termID string) bool {
	if termID == "" {
		return false
	}
	for _, groups := range gene.CvAnnotations {
		for _, group := range groups {
			if group.Term != termID || group.IsNot {
				continue
			}
			for _, detailID := range group.Annotations {
				detail := b.details[detailID]
				if detail == nil || detail.Genotype == "" {
					continue
				}
				genotype, ok := b.genotypes[detail.Genotype]
				if !ok || genotype.IsMultiAllele() {
					continue
				}
				for _, expressed := range genotype.ExpressedAlleles {
					allele, ok := b.alleles[expressed.AlleleUniquename]
					if ok && allele.Gene.Uniquename == gene.Uniquename &&
						allele.AlleleType == "deletion" {
						return true
					}
				}
			}
		}
	}
	return false
}

// setGeneNeighbourhoods fills the window of genes around each gene on its
// chromosome.
func (b *Builder) setGeneNeighbourhoods() {
	byChromosome := map[string][]*domain.GeneDetails{}
	for _, gene := range b.genes {
		if gene.Location == nil {
			continue
		}
		name := gene.Location.ChromosomeName
		byChromosome[name] = append(byChromosome[name], gene)
	}

	for _, genes := range byChromosome {
		sort.Slice(genes, func(i, j int) bool {
			if genes[i].Location.StartPos != genes[j].Location.StartPos {
				return genes[i].Location.StartPos < genes[j].Location.StartPos
			}
			return genes[i].Uniquename < genes[j].Uniquename
		})
		for i, gene := range genes {
			start := i - config.GeneNeighbourhoodDistance
			if start < 0 {
				start = 0
			}
			end := i + config.GeneNeighbourhoodDistance
			if end >= len(genes) {
				end = len(genes) - 1
			}
			for j := start; j <= end; j++ {
				gene.GeneNeighbourhood = append(gene.GeneNeighbourhood, genes[j].Short())
			}
		}
	}

	for _, chr := range b.chromosomes {
		sort.Strings(chr.GeneUniquenames)
	}
}

// setCounts fills the per-term and per-reference rollups, the gene subset
// term ids, and refreshes the short forms recorded in lookup maps so they
// carry the final counts.
func (b *Builder) setCounts() {
	for _, term := range b.terms {
		genes := map[string]bool{}
		genotypes := map[string]bool{}
		singleAllele := map[string]bool{}
		for _, groups := range term.CvAnnotations {
			for _, group := range groups {
				if group.IsNot {
					continue
				}
				for _, detailID := range group.Annotations {
					detail := b.details[detailID]
					if detail == nil {
						continue
					}
					for _, geneUniquename := range b.genesOfDetail(detail) {
						genes[geneUniquename] = true
					}
					if detail.Genotype != "" {
						genotypes[detail.Genotype] = true
						if genotype, ok := b.genotypes[detail.Genotype]; ok && !genotype.IsMultiAllele() {
							singleAllele[detail.Genotype] = true
						}
					}
				}
			}
		}
		term.GeneCount = len(genes)
		term.GenotypeCount = len(genotypes)
		term.GenesAnnotatedWith = sortedKeys(genes)
		term.SingleAlleleGenotypes = sortedKeys(singleAllele)
	}

	for _, ref := range b.references {
		genes := map[string]bool{}
		genotypes := map[string]bool{}
		for _, detail := range ref.AnnotationDetails {
			for _, geneUniquename := range b.genesOfDetail(detail) {
				genes[geneUniquename] = true
			}
			if detail.Genotype != "" {
				genotypes[detail.Genotype] = true
			}
		}
		for _, interaction := range ref.PhysicalInteractions {
			genes[interaction.GeneUniquename] = true
			genes[interaction.InteractorUniquename] = true
		}
		for _, interaction := range ref.GeneticInteractions {
			genes[interaction.GeneUniquename] = true
			genes[interaction.InteractorUniquename] = true
		}
		ref.GeneUniquenames = sortedKeys(genes)
		ref.GenotypeUniquenames = sortedKeys(genotypes)
	}

	b.setGeneSubsetTermIDs()
	b.refreshShorts()
}

// setGeneSubsetTermIDs records, per gene, the configured slim terms its
// annotation closure reaches.
func (b *Builder) setGeneSubsetTermIDs() {
	var slimTerms []config.TermAndName
	slimTerms = append(slimTerms, b.cfg.GoSlimTerms...)
	for _, slim := range b.cfg.Slims {
		slimTerms = append(slimTerms, slim.Terms...)
	}

	for _, gene := range b.genes {
		seen := map[string]bool{}
		for _, slimTerm := range slimTerms {
			if seen[slimTerm.TermID] {
				continue
			}
			if b.geneHasTermAnnotation(gene, slimTerm.TermID) {
				seen[slimTerm.TermID] = true
			}
		}
		gene.SubsetTermIDs = sortedKeys(seen)
	}
}

func (b *Builder) geneHasTermAnnotation(gene *domain.GeneDetails, termID string) bool {
	for _, groups := range gene.CvAnnotations {
		for _, group := range groups {
			if group.Term == termID && !group.IsNot {
				return true
			}
		}
	}
	return false
}

// refreshShorts rewrites the term and reference shorts stored in every
// lookup map so they include counts computed after attachment.
func (b *Builder) refreshShorts() {
	refresh := func(block *domain.AnnotationBlock) {
		for termID, short := range block.TermsByTermID {
			if short == nil {
				continue
			}
			if term, ok := b.terms[termID]; ok {
				updated := term.Short()
				block.TermsByTermID[termID] = &updated
			}
		}
		for refID, short := range block.ReferencesByID {
			if short == nil {
				continue
			}
			if ref, ok := b.references[refID]; ok {
				updated := ref.Short()
				block.ReferencesByID[refID] = &updated
			}
		}
	}
	for _, gene := range b.genes {
		refresh(&gene.AnnotationBlock)
	}
	for _, term := range b.terms {
		refresh(&term.AnnotationBlock)
	}
	for _, genotype := range b.genotypes {
		refresh(&genotype.AnnotationBlock)
	}
	for _, ref := range b.references {
		refresh(&ref.AnnotationBlock)
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
