package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// writeMisc writes the tab-separated report family under misc/.
func (w *Writer) writeMisc(web *domain.WebData) error {
	genes := sortedGenes(web)

	steps := []func() error{
		func() error { return w.writeProductTables(genes) },
		func() error { return w.writeNameTables(genes) },
		func() error { return w.writePeptideStats(genes) },
		func() error { return w.writeProteinFeatures(genes) },
		func() error { return w.writeAAComposition(genes) },
		func() error { return w.writeViabilityTable(genes) },
		func() error { return w.writeSlimTables() },
		func() error { return w.writeTMDomainTable(genes) },
		func() error { return w.writeCoordTables(web, genes) },
		func() error { return w.writeComplexAnnotation(web) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func writeTSV(path string, header []string, rows [][]string) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if len(header) > 0 {
		if _, err := fmt.Fprintln(file, strings.Join(header, "\t")); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(file, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return file.Close()
}

func transcriptType(gene *domain.GeneDetails) string {
	if len(gene.Transcripts) == 0 {
		return ""
	}
	return gene.Transcripts[0].TranscriptType
}

func geneSynonymNames(gene *domain.GeneDetails) string {
	var names []string
	for _, synonym := range gene.Synonyms {
		names = append(names, synonym.Name)
	}
	return strings.Join(names, ",")
}

// writeProductTables writes the coding, RNA and pseudogene product lists.
func (w *Writer) writeProductTables(genes []*domain.GeneDetails) error {
	var codingRows, rnaRows, pseudogeneRows [][]string
	for _, gene := range genes {
		row := []string{gene.Uniquename, gene.Name, geneSynonymNames(gene), gene.Product}
		switch {
		case gene.FeatureType == "pseudogene":
			pseudogeneRows = append(pseudogeneRows, row)
		case transcriptType(gene) == "mRNA":
			codingRows = append(codingRows, row)
		case transcriptType(gene) != "":
			rnaRows = append(rnaRows, append(row, transcriptType(gene)))
		}
	}
	if err := writeTSV(w.path("misc", "sysID2product.tsv"), nil, codingRows); err != nil {
		return err
	}
	if err := writeTSV(w.path("misc", "sysID2product.rna.tsv"), nil, rnaRows); err != nil {
		return err
	}
	return writeTSV(w.path("misc", "pseudogeneIDs.tsv"), nil, pseudogeneRows)
}

func (w *Writer) writeNameTables(genes []*domain.GeneDetails) error {
	var idRows, fullRows [][]string
	for _, gene := range genes {
		idRows = append(idRows, []string{gene.Uniquename, gene.Name})
		fullRows = append(fullRows, []string{
			gene.Uniquename,
			gene.Name,
			gene.FeatureType,
			gene.Product,
			gene.UniprotIdentifier,
			geneSynonymNames(gene),
		})
	}
	if err := writeTSV(w.path("misc", "gene_IDs_names.tsv"), nil, idRows); err != nil {
		return err
	}
	return writeTSV(w.path("misc", "gene_IDs_names_products.tsv"), nil, fullRows)
}

func (w *Writer) writePeptideStats(genes []*domain.GeneDetails) error {
	header := []string{
		"Systematic_ID", "Mass (kDa)", "pI", "Charge",
		"Residues", "Avg Residue Mass", "CAI",
	}
	var rows [][]string
	for _, gene := range genes {
		protein := gene.Protein()
		if protein == nil {
			continue
		}
		rows = append(rows, []string{
			gene.Uniquename,
			fmt.Sprintf("%.2f", protein.MolecularWeight/1000),
			fmt.Sprintf("%.2f", protein.IsoelectricPoint),
			fmt.Sprintf("%.2f", protein.ChargeAtPH7),
			fmt.Sprintf("%d", len(protein.Sequence)),
			fmt.Sprintf("%.2f", protein.AverageResidueWeight),
			fmt.Sprintf("%.2f", protein.CodonAdaptationIndex),
		})
	}
	return writeTSV(w.path("misc", "PeptideStats.tsv"), header, rows)
}

func (w *Writer) writeProteinFeatures(genes []*domain.GeneDetails) error {
	header := []string{
		"systematic_id", "gene_name", "peptide_id", "domain_id",
		"database", "seq_start", "seq_end",
	}
	var rows [][]string
	for _, gene := range genes {
		protein := gene.Protein()
		if protein == nil {
			continue
		}
		for _, match := range gene.InterProMatches {
			for _, location := range match.Locations {
				rows = append(rows, []string{
					gene.Uniquename,
					gene.Name,
					protein.Uniquename,
					match.ID,
					w.dbDisplayName(match.DBName),
					fmt.Sprintf("%d", location.Start),
					fmt.Sprintf("%d", location.End),
				})
			}
		}
	}
	return writeTSV(w.path("misc", "ProteinFeatures.tsv"), header, rows)
}

// dbDisplayName maps a match database alias to its display name.
func (w *Writer) dbDisplayName(dbName string) string {
	if name, ok := w.cfg.DatabaseAliases[strings.ToLower(dbName)]; ok {
		return name
	}
	return dbName
}

// writeAAComposition counts each residue of each peptide.  The column set
// is the union of residues seen in the dataset.
func (w *Writer) writeAAComposition(genes []*domain.GeneDetails) error {
	counts := map[string]map[byte]int{}
	residueSet := map[byte]bool{}
	for _, gene := range genes {
		protein := gene.Protein()
		if protein == nil {
			continue
		}
		geneCounts := map[byte]int{}
		for i := 0; i < len(protein.Sequence); i++ {
			residue := protein.Sequence[i]
			if residue == '*' {
				continue
			}
			geneCounts[residue]++
			residueSet[residue] = true
		}
		counts[gene.Uniquename] = geneCounts
	}

	var residues []byte
	for residue := range residueSet {
		residues = append(residues, residue)
	}
	sort.Slice(residues, func(i, j int) bool { return residues[i] < residues[j] })

	header := []string{"Systematic_ID"}
	for _, residue := range residues {
		header = append(header, string(residue))
	}
	var rows [][]string
	for _, uniquename := range sortedKeys(counts) {
		row := []string{uniquename}
		for _, residue := range residues {
			row = append(row, fmt.Sprintf("%d", counts[uniquename][residue]))
		}
		rows = append(rows, row)
	}
	return writeTSV(w.path("misc", "aa_composition.tsv"), header, rows)
}

func (w *Writer) writeViabilityTable(genes []*domain.GeneDetails) error {
	var rows [][]string
	for _, gene := range genes {
		rows = append(rows, []string{gene.Uniquename, string(gene.DeletionViability)})
	}
	return writeTSV(w.path("misc", "FYPOviability.tsv"), nil, rows)
}

func (w *Writer) writeSlimTables() error {
	for _, slimName := range sortedSlimNames(w.cfg.Slims) {
		slim := w.cfg.Slims[slimName]
		var rows [][]string
		for _, term := range slim.Terms {
			rows = append(rows, []string{term.TermID, term.Name})
		}
		path := w.path("misc", slimName+"_ids_and_names.tsv")
		if err := writeTSV(path, nil, rows); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeTMDomainTable(genes []*domain.GeneDetails) error {
	header := []string{"systematic_id", "name", "count", "coords", "seqs"}
	var rows [][]string
	for _, gene := range genes {
		protein := gene.Protein()
		if protein == nil || len(gene.TMDomainCoords) == 0 {
			continue
		}
		var coords, seqs []string
		for _, domainCoords := range gene.TMDomainCoords {
			coords = append(coords, fmt.Sprintf("%d..%d", domainCoords.Start, domainCoords.End))
			seqs = append(seqs, peptideRegion(protein.Sequence, domainCoords))
		}
		rows = append(rows, []string{
			gene.Uniquename,
			gene.Name,
			fmt.Sprintf("%d", len(gene.TMDomainCoords)),
			strings.Join(coords, ","),
			strings.Join(seqs, ","),
		})
	}
	return writeTSV(w.path("misc", "transmembrane_domain_coords_and_seqs.tsv"), header, rows)
}

// peptideRegion extracts a 1-based inclusive peptide range, clipped to the
// sequence.
func peptideRegion(sequence string, coords domain.MatchLocation) string {
	start := coords.Start - 1
	end := coords.End
	if start < 0 {
		start = 0
	}
	if end > len(sequence) {
		end = len(sequence)
	}
	if start >= end {
		return ""
	}
	return sequence[start:end]
}

// writeCoordTables writes per-chromosome gene, CDS and exon coordinate
// tables. UTRs are separate transcript parts, so for coding transcripts
// the exon parts are the CDS segments.
func (w *Writer) writeCoordTables(web *domain.WebData, genes []*domain.GeneDetails) error {
	geneRows := map[string][][]string{}
	cdsRows := map[string][][]string{}
	exonRows := map[string][][]string{}
	for _, gene := range genes {
		if gene.Location == nil {
			continue
		}
		chromosomeName := gene.Location.ChromosomeName
		geneRows[chromosomeName] = append(geneRows[chromosomeName], []string{
			gene.Uniquename,
			fmt.Sprintf("%d", gene.Location.StartPos),
			fmt.Sprintf("%d", gene.Location.EndPos),
			gene.Location.Strand.GFFString(),
		})
		for _, transcript := range gene.Transcripts {
			for _, part := range transcript.Parts {
				if part.FeatureType != domain.FeatureTypeExon {
					continue
				}
				row := []string{
					gene.Uniquename,
					transcript.Uniquename,
					fmt.Sprintf("%d", part.Location.StartPos),
					fmt.Sprintf("%d", part.Location.EndPos),
					part.Location.Strand.GFFString(),
				}
				exonRows[chromosomeName] = append(exonRows[chromosomeName], row)
				if transcript.Protein != nil {
					cdsRows[chromosomeName] = append(cdsRows[chromosomeName], row)
				}
			}
		}
	}
	for _, chromosome := range sortedChromosomes(web) {
		fileID := w.chromosomeFileID(chromosome.Name)
		genePath := w.path("misc", "coords", fileID+".gene_coords.tsv")
		if err := writeTSV(genePath, nil, geneRows[chromosome.Name]); err != nil {
			return err
		}
		cdsPath := w.path("misc", "coords", fileID+".cds_coords.tsv")
		if err := writeTSV(cdsPath, nil, cdsRows[chromosome.Name]); err != nil {
			return err
		}
		exonPath := w.path("misc", "coords", fileID+".exon_coords.tsv")
		if err := writeTSV(exonPath, nil, exonRows[chromosome.Name]); err != nil {
			return err
		}
	}
	return nil
}

// writeComplexAnnotation lists the genes annotated with macromolecular
// complex terms, scoped by the configured parent term.
func (w *Writer) writeComplexAnnotation(web *domain.WebData) error {
	complexesConfig := w.cfg.FileExports.MacromolecularComplexes
	if complexesConfig == nil {
		return nil
	}
	excluded := map[string]bool{}
	for _, termID := range complexesConfig.ExcludedTermIDs {
		excluded[termID] = true
	}

	header := []string{"acc", "term_name", "systematic_id", "gene_name", "evidence", "reference"}
	var rows [][]string
	for _, termID := range sortedTermIDs(web.Terms) {
		term := web.Terms[termID]
		if excluded[termID] || !isComplexTerm(term, complexesConfig.ParentComplexTermID) {
			continue
		}
		for _, detailID := range sortedDetailIDs(term.AnnotationDetails) {
			detail := term.AnnotationDetails[detailID]
			for _, geneUniquename := range detail.Genes {
				geneName := ""
				if gene, ok := web.Genes[geneUniquename]; ok && gene != nil {
					geneName = gene.Name
				}
				rows = append(rows, []string{
					termID, term.Name, geneUniquename, geneName,
					detail.Evidence, detail.Reference,
				})
			}
		}
	}
	return writeTSV(w.path("misc", "Complex_annotation.tsv"), header, dedupRows(rows))
}

func isComplexTerm(term *domain.TermDetails, parentTermID string) bool {
	if term.TermID == parentTermID {
		return true
	}
	for _, parent := range term.InterestingParents {
		if parent == parentTermID {
			return true
		}
	}
	return false
}

func dedupRows(rows [][]string) [][]string {
	seen := map[string]bool{}
	var out [][]string
	for _, row := range rows {
		key := strings.Join(row, "\t")
		if !seen[key] {
			seen[key] = true
			out = append(out, row)
		}
	}
	return out
}

func sortedKeys(counts map[string]map[byte]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedSlimNames(slims map[string]*config.SlimConfig) []string {
	names := make([]string, 0, len(slims))
	for name := range slims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedTermIDs(terms map[string]*domain.TermDetails) []string {
	termIDs := make([]string, 0, len(terms))
	for termID := range terms {
		termIDs = append(termIDs, termID)
	}
	sort.Strings(termIDs)
	return termIDs
}

func sortedDetailIDs(details map[int]*domain.OntAnnotationDetail) []int {
	detailIDs := make([]int, 0, len(details))
	for detailID := range details {
		detailIDs = append(detailIDs, detailID)
	}
	sort.Ints(detailIDs)
	return detailIDs
}
