package build

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kimrutherford/pombase-chado-json/internal/bio"
	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

var geneFeatureTypes = map[string]bool{
	"gene":       true,
	"pseudogene": true,
}

// standalone chromosome features exported to GFF without a gene parent
var otherFeatureTypes = map[string]bool{
	"repeat_region":         true,
	"long_terminal_repeat":  true,
	"LTR_retrotransposon":   true,
	"centromere":            true,
	"regional_centromere":   true,
	"telomere":              true,
	"origin_of_replication": true,
	"low_complexity_region": true,
	"mating_type_region":    true,
}

func (b *Builder) processFeatures() error {
	b.genes = map[string]*domain.GeneDetails{}
	b.geneByFeatureID = map[int]*domain.GeneDetails{}
	b.genotypes = map[string]*domain.GenotypeDetails{}
	b.genotypeByFID = map[int]*domain.GenotypeDetails{}
	b.alleles = map[string]*domain.AlleleDetails{}
	b.alleleByFID = map[int]*domain.AlleleDetails{}
	b.chromosomes = map[string]*domain.ChromosomeDetails{}

	b.processChromosomes()
	b.processGenes()
	if err := b.processTranscripts(); err != nil {
		return err
	}
	if err := b.processAllelesAndGenotypes(); err != nil {
		return err
	}
	b.processOtherFeatures()
	return nil
}

// processOtherFeatures collects the located non-gene chromosome features
// (repeats, centromere parts, origins) written to the GFF exports.
func (b *Builder) processOtherFeatures() {
	for _, f := range b.raw.Features {
		if !otherFeatureTypes[f.TypeName] {
			continue
		}
		location := b.locationOf(f.FeatureID)
		if location == nil {
			continue
		}
		b.otherFeatures = append(b.otherFeatures, domain.FeatureShort{
			FeatureType: f.TypeName,
			Uniquename:  f.Uniquename,
			Location:    *location,
		})
	}
	sort.Slice(b.otherFeatures, func(i, j int) bool {
		left, right := b.otherFeatures[i].Location, b.otherFeatures[j].Location
		if left.ChromosomeName != right.ChromosomeName {
			return left.ChromosomeName < right.ChromosomeName
		}
		return left.StartPos < right.StartPos
	})
}

func (b *Builder) processChromosomes() {
	for _, f := range b.raw.Features {
		if f.TypeName != "chromosome" {
			continue
		}
		chr := &domain.ChromosomeDetails{
			Name:     f.Uniquename,
			Residues: f.Residues,
			TaxonID:  b.taxonIDOf(f.OrganismID),
		}
		for _, xref := range b.xrefsByFeature[f.FeatureID] {
			if xref.DBName == "EMBL" || xref.DBName == "ENA" {
				chr.ENAIdentifier = xref.Accession
			}
		}
		b.chromosomes[f.Uniquename] = chr
	}
}

func (b *Builder) processGenes() {
	for _, f := range b.raw.Features {
		if !geneFeatureTypes[f.TypeName] {
			continue
		}
		if f.OrganismID != b.loadOrgID {
			// other-organism genes only appear as ortholog partners
			continue
		}
		gene := &domain.GeneDetails{
			Uniquename:             f.Uniquename,
			Name:                   f.Name,
			TaxonID:                b.taxonIDOf(f.OrganismID),
			Product:                b.featureProp(f.FeatureID, "product"),
			DeletionViability:      domain.ViabilityUnknown,
			FeatureType:            f.TypeName,
			CharacterisationStatus: b.featureProp(f.FeatureID, "characterisation_status"),
			TaxonomicDistribution:  b.featureProp(f.FeatureID, "taxonomic_distribution"),
			Location:               b.locationOf(f.FeatureID),
			InterProMatches:        b.filterInterProMatches(b.params.DomainData.InterProMatches[f.Uniquename]),
			PfamData:               b.params.PfamData.Motifs[f.Uniquename],
			TMDomainCoords:         b.params.DomainData.TMDomains[f.Uniquename],
			RfamAnnotations:        b.params.NcRNAData.RfamAnnotations[f.Uniquename],
			Synonyms:               []domain.SynonymDetails{},
			GeneNeighbourhood:      []domain.GeneShort{},
			FeaturePublications:    b.pubsByFeature[f.FeatureID],
			AnnotationBlock:        newAnnotationBlock(),
		}
		if gene.InterProMatches == nil {
			gene.InterProMatches = []domain.InterProMatch{}
		}
		if gene.TMDomainCoords == nil {
			gene.TMDomainCoords = []domain.MatchLocation{}
		}
		for _, prop := range b.propsByFeature[f.FeatureID] {
			if prop.TypeName == "name_description" {
				gene.NameDescriptions = append(gene.NameDescriptions, prop.Value)
			}
		}
		for _, syn := range b.synsByFeature[f.FeatureID] {
			gene.Synonyms = append(gene.Synonyms, domain.SynonymDetails{
				Name:        syn.Synonym,
				SynonymType: syn.SynonymType,
			})
		}
		for _, xref := range b.xrefsByFeature[f.FeatureID] {
			full := xref.DBName + ":" + xref.Accession
			if xref.DBName == "UniProtKB" {
				gene.UniprotIdentifier = xref.Accession
			}
			gene.Dbxrefs = append(gene.Dbxrefs, full)
		}
		sort.Strings(gene.Dbxrefs)
		sort.Strings(gene.FeaturePublications)
		sort.Slice(gene.Synonyms, func(i, j int) bool {
			return gene.Synonyms[i].Name < gene.Synonyms[j].Name
		})

		b.genes[f.Uniquename] = gene
		b.geneByFeatureID[f.FeatureID] = gene

		if gene.Location != nil {
			if chr, ok := b.chromosomes[gene.Location.ChromosomeName]; ok {
				chr.GeneUniquenames = append(chr.GeneUniquenames, gene.Uniquename)
			}
		}
	}
}

// filterInterProMatches drops matches from the member databases the
// config excludes.
func (b *Builder) filterInterProMatches(matches []domain.InterProMatch) []domain.InterProMatch {
	if len(b.cfg.InterProDBNamesToFilter) == 0 {
		return matches
	}
	var kept []domain.InterProMatch
	for _, match := range matches {
		if !hasString(b.cfg.InterProDBNamesToFilter, match.DBName) {
			kept = append(kept, match)
		}
	}
	return kept
}

// locationOf converts a featureloc row to a 1-based inclusive location.
// Chado stores interbase (0-based, exclusive start) coordinates.
func (b *Builder) locationOf(featureID int) *domain.ChromosomeLocation {
	loc, ok := b.featurelocsByID[featureID]
	if !ok {
		return nil
	}
	result := &domain.ChromosomeLocation{
		ChromosomeName: loc.SrcFeatureName,
		StartPos:       loc.Fmin + 1,
		EndPos:         loc.Fmax,
		Strand:         strandOf(loc.Strand),
	}
	if loc.Phase != nil {
		switch *loc.Phase {
		case 0:
			result.Phase = domain.PhaseZero
		case 1:
			result.Phase = domain.PhaseOne
		case 2:
			result.Phase = domain.PhaseTwo
		}
	}
	return result
}

func strandOf(strand int) domain.Strand {
	switch {
	case strand > 0:
		return domain.StrandForward
	case strand < 0:
		return domain.StrandReverse
	default:
		return domain.StrandUnstranded
	}
}

func isTranscriptType(typeName string) bool {
	for _, t := range config.TranscriptFeatureTypes {
		if t == typeName {
			return true
		}
	}
	return false
}

func isTranscriptPartType(typeName string) bool {
	for _, t := range config.TranscriptPartTypes {
		if t == typeName {
			return true
		}
	}
	return false
}

func (b *Builder) processTranscripts() error {
	for _, f := range b.raw.Features {
		if !isTranscriptType(f.TypeName) {
			continue
		}
		gene := b.geneOfTranscript(f.FeatureID)
		if gene == nil {
			continue
		}
		loc := b.locationOf(f.FeatureID)
		if loc == nil {
			return fmt.Errorf("transcript %s has no location", f.Uniquename)
		}
		transcript := domain.TranscriptDetails{
			Uniquename:     f.Uniquename,
			Location:       *loc,
			TranscriptType: f.TypeName,
		}

		parts, err := b.transcriptParts(f.FeatureID, *loc)
		if err != nil {
			return err
		}
		transcript.Parts = parts
		transcript.CdsLocation = cdsLocation(parts, loc.Strand)
		transcript.Protein = b.proteinOf(f.FeatureID)

		gene.Transcripts = append(gene.Transcripts, transcript)
		if gene.TranscriptSoTermID == "" {
			gene.TranscriptSoTermID = b.featureProp(f.FeatureID, "so_id")
		}
	}

	for _, gene := range b.genes {
		sort.Slice(gene.Transcripts, func(i, j int) bool {
			return gene.Transcripts[i].Uniquename < gene.Transcripts[j].Uniquename
		})
	}
	return nil
}

func (b *Builder) geneOfTranscript(transcriptFID int) *domain.GeneDetails {
	for _, rel := range b.relsBySubject[transcriptFID] {
		if rel.RelName != "part_of" {
			continue
		}
		if gene, ok := b.geneByFeatureID[rel.ObjectID]; ok {
			return gene
		}
	}
	return nil
}

// transcriptParts collects exon and UTR features of a transcript, fills
// the intron gaps between exons, and orders the parts in transcription
// order.
func (b *Builder) transcriptParts(transcriptFID int, transcriptLoc domain.ChromosomeLocation) ([]domain.FeatureShort, error) {
	var parts []domain.FeatureShort
	for _, rel := range b.relsByObject[transcriptFID] {
		if rel.RelName != "part_of" {
			continue
		}
		part, ok := b.featuresByID[rel.SubjectID]
		if !ok || !isTranscriptPartType(part.TypeName) {
			continue
		}
		partLoc := b.locationOf(part.FeatureID)
		if partLoc == nil {
			return nil, fmt.Errorf("transcript part %s has no location", part.Uniquename)
		}
		parts = append(parts, domain.FeatureShort{
			FeatureType: partFeatureType(part.TypeName),
			Uniquename:  part.Uniquename,
			Location:    *partLoc,
			Residues:    b.residuesAt(*partLoc),
		})
	}

	sort.Slice(parts, func(i, j int) bool {
		return parts[i].Location.StartPos < parts[j].Location.StartPos
	})

	// fill intron gaps between adjacent exons
	var withIntrons []domain.FeatureShort
	for i, part := range parts {
		if i > 0 &&
			parts[i-1].FeatureType == domain.FeatureTypeExon &&
			part.FeatureType == domain.FeatureTypeExon {
			gapStart := parts[i-1].Location.EndPos + 1
			gapEnd := part.Location.StartPos - 1
			if gapStart <= gapEnd {
				intronLoc := domain.ChromosomeLocation{
					ChromosomeName: transcriptLoc.ChromosomeName,
					StartPos:       gapStart,
					EndPos:         gapEnd,
					Strand:         transcriptLoc.Strand,
				}
				withIntrons = append(withIntrons, domain.FeatureShort{
					FeatureType: domain.FeatureTypeCdsIntron,
					Uniquename:  fmt.Sprintf("%s:intron:%d", transcriptLoc.ChromosomeName, gapStart),
					Location:    intronLoc,
					Residues:    b.residuesAt(intronLoc),
				})
			}
		}
		withIntrons = append(withIntrons, part)
	}

	if transcriptLoc.Strand == domain.StrandReverse {
		for i, j := 0, len(withIntrons)-1; i < j; i, j = i+1, j-1 {
			withIntrons[i], withIntrons[j] = withIntrons[j], withIntrons[i]
		}
		for i := range withIntrons {
			withIntrons[i].Residues = bio.RevComp(withIntrons[i].Residues)
		}
	}
	return withIntrons, nil
}

// residuesAt extracts the sequence of a location from its chromosome.
func (b *Builder) residuesAt(loc domain.ChromosomeLocation) string {
	chr, ok := b.chromosomes[loc.ChromosomeName]
	if !ok {
		return ""
	}
	if loc.StartPos < 1 || loc.EndPos > len(chr.Residues) || loc.StartPos > loc.EndPos {
		return ""
	}
	return chr.Residues[loc.StartPos-1 : loc.EndPos]
}

func partFeatureType(typeName string) string {
	switch typeName {
	case "exon", "pseudogenic_exon":
		return domain.FeatureTypeExon
	case "five_prime_UTR":
		return domain.FeatureTypeFivePrimeUTR
	case "three_prime_UTR":
		return domain.FeatureTypeThreePrimeUTR
	default:
		return typeName
	}
}

// cdsLocation spans the exons that fall outside the UTRs.
func cdsLocation(parts []domain.FeatureShort, strand domain.Strand) *domain.ChromosomeLocation {
	start, end := 0, 0
	var chromosomeName string
	for _, part := range parts {
		if part.FeatureType != domain.FeatureTypeExon {
			continue
		}
		chromosomeName = part.Location.ChromosomeName
		partStart, partEnd := part.Location.StartPos, part.Location.EndPos
		if start == 0 || partStart < start {
			start = partStart
		}
		if partEnd > end {
			end = partEnd
		}
	}
	if start == 0 {
		return nil
	}
	for _, part := range parts {
		switch part.FeatureType {
		case domain.FeatureTypeFivePrimeUTR, domain.FeatureTypeThreePrimeUTR:
			// clip the exon span by the UTRs
			if part.Location.StartPos <= start && part.Location.EndPos >= start {
				start = part.Location.EndPos + 1
			}
			if part.Location.EndPos >= end && part.Location.StartPos <= end {
				end = part.Location.StartPos - 1
			}
		}
	}
	if start > end {
		return nil
	}
	return &domain.ChromosomeLocation{
		ChromosomeName: chromosomeName,
		StartPos:       start,
		EndPos:         end,
		Strand:         strand,
	}
}

func (b *Builder) proteinOf(transcriptFID int) *domain.ProteinDetails {
	for _, rel := range b.relsByObject[transcriptFID] {
		if rel.RelName != "derives_from" {
			continue
		}
		peptide, ok := b.featuresByID[rel.SubjectID]
		if !ok || peptide.TypeName != "polypeptide" || peptide.Residues == "" {
			continue
		}
		return &domain.ProteinDetails{
			Uniquename:           peptide.Uniquename,
			Sequence:             peptide.Residues,
			MolecularWeight:      bio.MolecularWeight(peptide.Residues),
			AverageResidueWeight: bio.AverageResidueWeight(peptide.Residues),
			ChargeAtPH7:          bio.ChargeAtPH(peptide.Residues, 7),
			IsoelectricPoint:     bio.IsoelectricPoint(peptide.Residues),
			CodonAdaptationIndex: b.featurePropFloat(peptide.FeatureID, "codon_adaptation_index"),
		}
	}
	return nil
}

func (b *Builder) processAllelesAndGenotypes() error {
	for _, f := range b.raw.Features {
		if f.TypeName != "allele" {
			continue
		}
		gene := b.alleleGene(f.FeatureID)
		if gene == nil {
			return fmt.Errorf("allele %s has no gene", f.Uniquename)
		}
		allele := &domain.AlleleDetails{
			Uniquename:  f.Uniquename,
			Name:        f.Name,
			AlleleType:  b.featureProp(f.FeatureID, "allele_type"),
			Description: b.featureProp(f.FeatureID, "description"),
			Gene:        gene.Short(),
		}
		b.alleles[f.Uniquename] = allele
		b.alleleByFID[f.FeatureID] = allele
	}

	for _, f := range b.raw.Features {
		if f.TypeName != "genotype" {
			continue
		}
		genotype := &domain.GenotypeDetails{
			DisplayUniquename: f.Uniquename,
			Name:              f.Name,
			Background:        b.featureProp(f.FeatureID, "genotype_background"),
			AnnotationBlock:   newAnnotationBlock(),
		}
		for _, rel := range b.relsByObject[f.FeatureID] {
			if rel.RelName != "part_of" {
				continue
			}
			allele, ok := b.alleleByFID[rel.SubjectID]
			if !ok {
				continue
			}
			expressed := domain.ExpressedAllele{AlleleUniquename: allele.Uniquename}
			for _, prop := range b.relProps[rel.FeatureRelationshipID] {
				if prop.TypeName == "expression" {
					expressed.Expression = prop.Value
				}
			}
			genotype.ExpressedAlleles = append(genotype.ExpressedAlleles, expressed)
		}
		sort.Slice(genotype.ExpressedAlleles, func(i, j int) bool {
			return genotype.ExpressedAlleles[i].AlleleUniquename <
				genotype.ExpressedAlleles[j].AlleleUniquename
		})
		genotype.DisplayName = b.genotypeDisplayName(genotype)
		b.genotypes[f.Uniquename] = genotype
		b.genotypeByFID[f.FeatureID] = genotype
	}
	return nil
}

func (b *Builder) alleleGene(alleleFID int) *domain.GeneDetails {
	for _, rel := range b.relsBySubject[alleleFID] {
		if rel.RelName != "instance_of" {
			continue
		}
		if gene, ok := b.geneByFeatureID[rel.ObjectID]; ok {
			return gene
		}
	}
	return nil
}

func (b *Builder) genotypeDisplayName(genotype *domain.GenotypeDetails) string {
	if genotype.Name != "" {
		return genotype.Name
	}
	var names []string
	for _, expressed := range genotype.ExpressedAlleles {
		if allele, ok := b.alleles[expressed.AlleleUniquename]; ok {
			if allele.Name != "" {
				names = append(names, allele.Name)
			} else {
				names = append(names, allele.Uniquename)
			}
		}
	}
	return strings.Join(names, " ")
}

// genesOfGenotype returns the distinct genes of a genotype's alleles, in
// allele order.
func (b *Builder) genesOfGenotype(genotype *domain.GenotypeDetails) []*domain.GeneDetails {
	var genes []*domain.GeneDetails
	seen := map[string]bool{}
	for _, expressed := range genotype.ExpressedAlleles {
		allele, ok := b.alleles[expressed.AlleleUniquename]
		if !ok {
			continue
		}
		if seen[allele.Gene.Uniquename] {
			continue
		}
		seen[allele.Gene.Uniquename] = true
		if gene, ok := b.genes[allele.Gene.Uniquename]; ok {
			genes = append(genes, gene)
		}
	}
	return genes
}
