package build

import (
	"sort"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

const recentReferenceCount = 20

func (b *Builder) assembleWebData() *domain.WebData {
	web := &domain.WebData{
		Genes:         b.genes,
		Terms:         b.terms,
		References:    b.references,
		Genotypes:     b.genotypes,
		Alleles:       b.alleles,
		Chromosomes:   b.chromosomes,
		OtherFeatures: b.otherFeatures,
	}

	web.GeneSummaries = b.makeGeneSummaries()
	web.SolrData = b.makeSolrData()
	web.RecentRefs = b.makeRecentReferences()
	web.Stats = b.makeStats()
	web.Metadata = domain.Metadata{
		DBCreationDatetime: b.params.DBCreationDatetime,
		ExportProgName:     b.params.ProgName,
		ExportProgVersion:  b.params.ProgVersion,
		GeneCount:          len(b.genes),
		TermCount:          len(b.terms),
	}
	web.APIMaps = b.makeAPIMaps()
	return web
}

func (b *Builder) sortedGenes() []*domain.GeneDetails {
	genes := make([]*domain.GeneDetails, 0, len(b.genes))
	for _, gene := range b.genes {
		genes = append(genes, gene)
	}
	sort.Slice(genes, func(i, j int) bool {
		return domain.GeneShortLess(genes[i].Short(), genes[j].Short())
	})
	return genes
}

func (b *Builder) makeGeneSummaries() []domain.GeneSummary {
	summaries := make([]domain.GeneSummary, 0, len(b.genes))
	for _, gene := range b.sortedGenes() {
		summary := domain.GeneSummary{
			Uniquename:        gene.Uniquename,
			Name:              gene.Name,
			Product:           gene.Product,
			UniprotIdentifier: gene.UniprotIdentifier,
			Synonyms:          joinSynonyms(gene.Synonyms),
			FeatureType:       gene.FeatureType,
			TaxonID:           gene.TaxonID,
		}
		if gene.Location != nil {
			summary.Chromosome = gene.Location.ChromosomeName
			summary.StartPos = gene.Location.StartPos
			summary.EndPos = gene.Location.EndPos
			summary.Strand = gene.Location.Strand
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func joinSynonyms(synonyms []domain.SynonymDetails) string {
	var joined string
	for i, syn := range synonyms {
		if i > 0 {
			joined += ","
		}
		joined += syn.Name
	}
	return joined
}

func (b *Builder) makeSolrData() domain.SolrData {
	solr := domain.SolrData{
		TermSummaries:      []domain.SolrTermSummary{},
		GeneSummaries:      []domain.SolrGeneSummary{},
		ReferenceSummaries: []domain.SolrReferenceSummary{},
	}

	termIDs := make([]string, 0, len(b.terms))
	for termID := range b.terms {
		termIDs = append(termIDs, termID)
	}
	sort.Strings(termIDs)
	for _, termID := range termIDs {
		term := b.terms[termID]
		if term.IsObsolete {
			continue
		}
		summary := domain.SolrTermSummary{
			ID:                 term.TermID,
			CvName:             term.CvName,
			Name:               term.Name,
			InterestingParents: term.InterestingParents,
			Definition:         term.Definition,
			GeneCount:          term.GeneCount,
			GenotypeCount:      term.GenotypeCount,
			TermID:             term.TermID,
		}
		for _, syn := range term.Synonyms {
			if syn.SynonymType == "exact" || syn.SynonymType == "narrow" {
				summary.CloseSynonyms = append(summary.CloseSynonyms, syn.Name)
			} else {
				summary.DistantSynonyms = append(summary.DistantSynonyms, syn.Name)
			}
		}
		summary.CloseSynonymWords = joinWords(summary.CloseSynonyms)
		summary.DistantSynonymWords = joinWords(summary.DistantSynonyms)
		solr.TermSummaries = append(solr.TermSummaries, summary)
	}

	geneIDs := make([]string, 0, len(b.genes))
	for geneID := range b.genes {
		geneIDs = append(geneIDs, geneID)
	}
	sort.Strings(geneIDs)
	for _, geneID := range geneIDs {
		gene := b.genes[geneID]
		summary := domain.SolrGeneSummary{
			ID:          gene.Uniquename,
			Name:        gene.Name,
			TaxonID:     gene.TaxonID,
			Product:     gene.Product,
			UniprotID:   gene.UniprotIdentifier,
			FeatureType: gene.FeatureType,
		}
		for _, syn := range gene.Synonyms {
			summary.Synonyms = append(summary.Synonyms, syn.Name)
		}
		summary.SynonymWords = joinWords(summary.Synonyms)
		solr.GeneSummaries = append(solr.GeneSummaries, summary)
	}

	refIDs := make([]string, 0, len(b.references))
	for refID := range b.references {
		refIDs = append(refIDs, refID)
	}
	sort.Strings(refIDs)
	for _, refID := range refIDs {
		ref := b.references[refID]
		solr.ReferenceSummaries = append(solr.ReferenceSummaries, domain.SolrReferenceSummary{
			ID:                    ref.Uniquename,
			Title:                 ref.Title,
			Citation:              ref.Citation,
			PubmedAbstract:        ref.PubmedAbstract,
			Authors:               ref.Authors,
			AuthorsAbbrev:         ref.AuthorsAbbrev,
			PubmedPublicationDate: ref.PubmedPublicationDate,
			PublicationYear:       ref.PublicationYear,
			GeneCount:             len(ref.GeneUniquenames),
			GenotypeCount:         len(ref.GenotypeUniquenames),
		})
	}

	return solr
}

func joinWords(items []string) string {
	var joined string
	for i, item := range items {
		if i > 0 {
			joined += " "
		}
		joined += item
	}
	return joined
}

func (b *Builder) makeRecentReferences() domain.RecentReferences {
	var all []*domain.ReferenceDetails
	for _, ref := range b.references {
		all = append(all, ref)
	}

	byPubmedDate := append([]*domain.ReferenceDetails{}, all...)
	sort.Slice(byPubmedDate, func(i, j int) bool {
		a, c := byPubmedDate[i], byPubmedDate[j]
		if a.PubmedPublicationDate != c.PubmedPublicationDate {
			return a.PubmedPublicationDate > c.PubmedPublicationDate
		}
		return a.Uniquename < c.Uniquename
	})

	recent := domain.RecentReferences{
		Pubmed:           []domain.ReferenceShort{},
		AdminCurated:     []domain.ReferenceShort{},
		CommunityCurated: []domain.ReferenceShort{},
	}
	for _, ref := range byPubmedDate {
		if ref.PubmedPublicationDate == "" || len(recent.Pubmed) >= recentReferenceCount {
			continue
		}
		recent.Pubmed = append(recent.Pubmed, ref.Short())
	}

	byApproved := append([]*domain.ReferenceDetails{}, all...)
	sort.Slice(byApproved, func(i, j int) bool {
		a, c := byApproved[i], byApproved[j]
		if a.ApprovedDate != c.ApprovedDate {
			return a.ApprovedDate > c.ApprovedDate
		}
		return a.Uniquename < c.Uniquename
	})
	for _, ref := range byApproved {
		if ref.ApprovedDate == "" {
			continue
		}
		switch ref.CantoCuratorRole {
		case "community":
			if len(recent.CommunityCurated) < recentReferenceCount {
				recent.CommunityCurated = append(recent.CommunityCurated, ref.Short())
			}
		case "":
		default:
			if len(recent.AdminCurated) < recentReferenceCount {
				recent.AdminCurated = append(recent.AdminCurated, ref.Short())
			}
		}
	}
	return recent
}

func (b *Builder) makeStats() domain.Stats {
	stats := domain.Stats{ByTaxon: map[int]domain.StatCountsByTaxon{}}
	for _, gene := range b.genes {
		counts := stats.ByTaxon[gene.TaxonID]
		counts.Genes++
		counts.Annotations += len(gene.AnnotationDetails)
		stats.ByTaxon[gene.TaxonID] = counts
	}
	return stats
}

func (b *Builder) makeAPIMaps() domain.APIMaps {
	maps := domain.APIMaps{
		GeneSummaries:       map[string]*domain.APIGeneSummary{},
		GeneQueryData:       map[string]*domain.GeneQueryData{},
		TermidsByGene:       map[string][]string{},
		GenesByTermID:       map[string][]string{},
		GeneSummariesByName: map[string]string{},
		Interactors:         map[string][]domain.APIInteractor{},
		Genes:               b.genes,
		Terms:               b.terms,
		References:          b.references,
		Genotypes:           b.genotypes,
		Alleles:             map[string]*domain.APIAlleleDetails{},
		GenotypeAnnotations: map[string][]domain.APIGenotypeAnnotation{},
		ChromosomeDetails:   b.chromosomes,
		TermSubsets:         b.makeTermSubsets(),
		GeneSubsets:         b.makeGeneSubsets(),
	}

	for _, gene := range b.genes {
		maps.GeneSummaries[gene.Uniquename] = b.makeAPIGeneSummary(gene)
		maps.GeneQueryData[gene.Uniquename] = b.makeGeneQueryData(gene)
		if gene.Name != "" {
			maps.GeneSummariesByName[gene.Name] = gene.Uniquename
		}
		for _, interaction := range gene.PhysicalInteractions {
			maps.Interactors[gene.Uniquename] = append(maps.Interactors[gene.Uniquename],
				domain.APIInteractor{
					InteractionType: domain.InteractionPhysical,
					Interactor:      otherGene(interaction, gene.Uniquename),
				})
		}
		for _, interaction := range gene.GeneticInteractions {
			maps.Interactors[gene.Uniquename] = append(maps.Interactors[gene.Uniquename],
				domain.APIInteractor{
					InteractionType: domain.InteractionGenetic,
					Interactor:      otherGene(interaction, gene.Uniquename),
				})
		}
	}

	for _, term := range b.terms {
		if len(term.GenesAnnotatedWith) > 0 {
			maps.GenesByTermID[term.TermID] = term.GenesAnnotatedWith
			for _, geneUniquename := range term.GenesAnnotatedWith {
				maps.TermidsByGene[geneUniquename] =
					appendUniqueString(maps.TermidsByGene[geneUniquename], term.TermID)
			}
		}
	}
	for _, termIDs := range maps.TermidsByGene {
		sort.Strings(termIDs)
	}

	for _, allele := range b.alleles {
		api := &domain.APIAlleleDetails{Allele: allele.Short()}
		for genotypeID, genotype := range b.genotypes {
			for _, expressed := range genotype.ExpressedAlleles {
				if expressed.AlleleUniquename == allele.Uniquename {
					api.Genotypes = appendUniqueString(api.Genotypes, genotypeID)
				}
			}
		}
		sort.Strings(api.Genotypes)
		maps.Alleles[allele.Uniquename] = api
	}

	for genotypeID, genotype := range b.genotypes {
		var annotations []domain.APIGenotypeAnnotation
		for _, detail := range genotype.AnnotationDetails {
			annotations = append(annotations, domain.APIGenotypeAnnotation{
				IsMultiAllele: genotype.IsMultiAllele(),
				Conditions:    detail.Conditions,
			})
		}
		if len(annotations) > 0 {
			maps.GenotypeAnnotations[genotypeID] = annotations
		}
	}

	return maps
}

func otherGene(interaction domain.InteractionAnnotation, self string) string {
	if interaction.GeneUniquename == self {
		return interaction.InteractorUniquename
	}
	return interaction.GeneUniquename
}

func (b *Builder) makeAPIGeneSummary(gene *domain.GeneDetails) *domain.APIGeneSummary {
	summary := &domain.APIGeneSummary{
		Uniquename:        gene.Uniquename,
		Name:              gene.Name,
		Product:           gene.Product,
		UniprotIdentifier: gene.UniprotIdentifier,
		Location:          gene.Location,
		FeatureType:       gene.FeatureType,
		TMDomainCount:     len(gene.TMDomainCoords),
		ExonCount:         gene.ExonCount(),
		TranscriptCount:   len(gene.Transcripts),
	}
	for _, syn := range gene.Synonyms {
		summary.Synonyms = append(summary.Synonyms, syn.Name)
	}
	for _, ortholog := range gene.OrthologAnnotations {
		summary.OrthologIDs = append(summary.OrthologIDs, domain.IdNameAndOrganism{
			Identifier: ortholog.OrthologUniquename,
			TaxonID:    ortholog.OrthologTaxonID,
		})
	}
	return summary
}

func (b *Builder) makeGeneQueryData(gene *domain.GeneDetails) *domain.GeneQueryData {
	data := &domain.GeneQueryData{
		GeneUniquename:    gene.Uniquename,
		DeletionViability: gene.DeletionViability,
		SubsetTermIDs:     gene.SubsetTermIDs,
		Location:          gene.Location,
		TMDomainCount:     len(gene.TMDomainCoords),
		ExonCount:         gene.ExonCount(),
	}
	if protein := gene.Protein(); protein != nil {
		data.ProteinLength = len(protein.Sequence)
		data.ProteinMolWeight = protein.MolecularWeight
	}

	var termIDs []string
	perTerm := map[string]*domain.GeneQueryTermData{}
	for _, groups := range gene.CvAnnotations {
		for _, group := range groups {
			termData, ok := perTerm[group.Term]
			if !ok {
				termData = &domain.GeneQueryTermData{TermID: group.Term, IsNot: group.IsNot}
				perTerm[group.Term] = termData
				termIDs = append(termIDs, group.Term)
			}
			if !group.IsNot {
				termData.IsNot = false
			}
			for _, detailID := range group.Annotations {
				detail := b.details[detailID]
				if detail == nil || detail.Genotype == "" {
					continue
				}
				genotype, ok := b.genotypes[detail.Genotype]
				if !ok {
					continue
				}
				if genotype.IsMultiAllele() {
					termData.MultiAllele = true
				} else {
					termData.SingleAllele = true
				}
				for _, expressed := range genotype.ExpressedAlleles {
					if expressed.Expression != "" {
						termData.ExpressionLevels =
							appendUniqueString(termData.ExpressionLevels, expressed.Expression)
					}
				}
			}
		}
	}
	sort.Strings(termIDs)
	for _, termID := range termIDs {
		termData := perTerm[termID]
		sort.Strings(termData.ExpressionLevels)
		data.OntAnnotations = append(data.OntAnnotations, *termData)
	}
	return data
}

func (b *Builder) makeTermSubsets() map[string]*domain.TermSubsetDetails {
	subsets := map[string]*domain.TermSubsetDetails{}
	for slimName, slim := range b.cfg.Slims {
		details := &domain.TermSubsetDetails{Name: slimName}
		allGenes := map[string]bool{}
		terms := append([]string{}, slimTermIDs(slim.Terms)...)
		sort.Strings(terms)
		for _, termID := range terms {
			term, ok := b.terms[termID]
			if !ok {
				continue
			}
			details.Elements = append(details.Elements, domain.TermSubsetElement{
				Name:      term.Name,
				TermID:    term.TermID,
				GeneCount: term.GeneCount,
			})
			for _, geneUniquename := range term.GenesAnnotatedWith {
				allGenes[geneUniquename] = true
			}
		}
		details.TotalGeneCount = len(allGenes)
		subsets[slimName] = details
	}
	return subsets
}

func slimTermIDs(terms []config.TermAndName) []string {
	ids := make([]string, 0, len(terms))
	for _, term := range terms {
		ids = append(ids, term.TermID)
	}
	return ids
}

// makeGeneSubsets groups genes by InterPro match id and by match
// database.
func (b *Builder) makeGeneSubsets() map[string]*domain.GeneSubsetDetails {
	subsets := map[string]*domain.GeneSubsetDetails{}
	add := func(key, displayName, geneUniquename string) {
		subset, ok := subsets[key]
		if !ok {
			subset = &domain.GeneSubsetDetails{Name: key, DisplayName: displayName}
			subsets[key] = subset
		}
		subset.Elements = appendUniqueString(subset.Elements, geneUniquename)
	}

	for _, gene := range b.sortedGenes() {
		for _, match := range gene.InterProMatches {
			add("interpro:"+match.ID, match.Name, gene.Uniquename)
			if match.InterProID != "" {
				add("interpro:"+match.InterProID, match.Name, gene.Uniquename)
			}
		}
	}
	for _, subset := range subsets {
		sort.Strings(subset.Elements)
	}
	return subsets
}
