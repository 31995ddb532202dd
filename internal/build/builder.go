package build

import (
	"strconv"

	"github.com/kimrutherford/pombase-chado-json/internal/chado"
	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
)

// Builder turns one Chado snapshot into the denormalized web data set.
// All passes run single-threaded; the builder either completes or fails
// as a whole.
type Builder struct {
	cfg    *config.Config
	raw    *chado.Raw
	params Params
	log    *logger.Logger

	organismsByID map[int]chado.OrganismRow
	loadOrgID     int

	termsByCvtermID map[int]*domain.TermDetails
	terms           map[string]*domain.TermDetails
	// parent edges by child termid, in input order
	parentEdges map[string][]termEdge

	featuresByID    map[int]chado.FeatureRow
	featurelocsByID map[int]chado.FeaturelocRow
	propsByFeature  map[int][]chado.FeaturepropRow
	synsByFeature   map[int][]chado.FeatureSynonymRow
	xrefsByFeature  map[int][]chado.FeatureDbxrefRow
	pubsByFeature   map[int][]string
	// subject feature id -> relationships where it is the subject
	relsBySubject map[int][]chado.FeatureRelationshipRow
	relsByObject  map[int][]chado.FeatureRelationshipRow
	relProps      map[int][]chado.FeatureRelationshippropRow
	fcProps       map[int][]chado.FeatureCvtermpropRow

	genes           map[string]*domain.GeneDetails
	geneByFeatureID map[int]*domain.GeneDetails
	genotypes       map[string]*domain.GenotypeDetails
	genotypeByFID   map[int]*domain.GenotypeDetails
	alleles         map[string]*domain.AlleleDetails
	alleleByFID     map[int]*domain.AlleleDetails
	references      map[string]*domain.ReferenceDetails
	chromosomes     map[string]*domain.ChromosomeDetails
	otherFeatures   []domain.FeatureShort

	details map[int]*domain.OntAnnotationDetail
	// cv name of the directly annotated term, by detail id
	detailCvName map[int]string
}

type termEdge struct {
	parentTermID string
	relName      string
}

// Build runs the full denormalization pipeline.
func Build(raw *chado.Raw, cfg *config.Config, params Params, log *logger.Logger) (*domain.WebData, error) {
	if params.DomainData == nil {
		params.DomainData = &DomainData{
			InterProMatches: map[string][]domain.InterProMatch{},
			TMDomains:       map[string][]domain.MatchLocation{},
		}
	}
	if params.PfamData == nil {
		params.PfamData = &PfamData{
			Motifs: map[string][]domain.PfamMotif{},
		}
	}
	if params.NcRNAData == nil {
		params.NcRNAData = &NcRNAData{
			RfamAnnotations: map[string][]domain.RfamAnnotation{},
		}
	}
	b := &Builder{
		cfg:    cfg,
		raw:    raw,
		params: params,
		log:    log.With("component", "build"),
	}

	b.indexRaw()
	if err := b.processTerms(); err != nil {
		return nil, err
	}
	b.processTermRelationships()
	b.processReferences()
	if err := b.processFeatures(); err != nil {
		return nil, err
	}
	if err := b.processAnnotations(); err != nil {
		return nil, err
	}
	b.processFeatureRels()
	b.processTargetOf()
	b.setDeletionViability()
	b.setGeneNeighbourhoods()
	b.setCounts()
	b.makeSummaries()
	b.sortAnnotationGroups()

	web := b.assembleWebData()
	b.log.Info("build complete",
		"genes", len(b.genes),
		"terms", len(b.terms),
		"genotypes", len(b.genotypes),
		"references", len(b.references))
	return web, nil
}

func (b *Builder) indexRaw() {
	b.organismsByID = make(map[int]chado.OrganismRow, len(b.raw.Organisms))
	for _, org := range b.raw.Organisms {
		b.organismsByID[org.OrganismID] = org
		if org.TaxonID == b.cfg.LoadOrganismTaxonID {
			b.loadOrgID = org.OrganismID
		}
	}

	b.featuresByID = make(map[int]chado.FeatureRow, len(b.raw.Features))
	for _, f := range b.raw.Features {
		b.featuresByID[f.FeatureID] = f
	}
	b.featurelocsByID = make(map[int]chado.FeaturelocRow, len(b.raw.Featurelocs))
	for _, l := range b.raw.Featurelocs {
		b.featurelocsByID[l.FeatureID] = l
	}
	b.propsByFeature = map[int][]chado.FeaturepropRow{}
	for _, p := range b.raw.Featureprops {
		b.propsByFeature[p.FeatureID] = append(b.propsByFeature[p.FeatureID], p)
	}
	b.synsByFeature = map[int][]chado.FeatureSynonymRow{}
	for _, s := range b.raw.FeatureSynonyms {
		b.synsByFeature[s.FeatureID] = append(b.synsByFeature[s.FeatureID], s)
	}
	b.xrefsByFeature = map[int][]chado.FeatureDbxrefRow{}
	for _, x := range b.raw.FeatureDbxrefs {
		b.xrefsByFeature[x.FeatureID] = append(b.xrefsByFeature[x.FeatureID], x)
	}
	b.pubsByFeature = map[int][]string{}
	for _, fp := range b.raw.FeaturePubs {
		b.pubsByFeature[fp.FeatureID] = append(b.pubsByFeature[fp.FeatureID], fp.PubUniquename)
	}
	b.relsBySubject = map[int][]chado.FeatureRelationshipRow{}
	b.relsByObject = map[int][]chado.FeatureRelationshipRow{}
	for _, r := range b.raw.FeatureRelationships {
		b.relsBySubject[r.SubjectID] = append(b.relsBySubject[r.SubjectID], r)
		b.relsByObject[r.ObjectID] = append(b.relsByObject[r.ObjectID], r)
	}
	b.relProps = map[int][]chado.FeatureRelationshippropRow{}
	for _, p := range b.raw.FeatureRelProps {
		b.relProps[p.FeatureRelationshipID] = append(b.relProps[p.FeatureRelationshipID], p)
	}
	b.fcProps = map[int][]chado.FeatureCvtermpropRow{}
	for _, p := range b.raw.FeatureCvtermprops {
		b.fcProps[p.FeatureCvtermID] = append(b.fcProps[p.FeatureCvtermID], p)
	}
}

func (b *Builder) featureProp(featureID int, typeName string) string {
	for _, p := range b.propsByFeature[featureID] {
		if p.TypeName == typeName {
			return p.Value
		}
	}
	return ""
}

// featurePropFloat reads a numeric feature property; a missing or
// unparseable value yields zero.
func (b *Builder) featurePropFloat(featureID int, typeName string) float64 {
	value, err := strconv.ParseFloat(b.featureProp(featureID, typeName), 64)
	if err != nil {
		return 0
	}
	return value
}

func (b *Builder) taxonIDOf(organismID int) int {
	return b.organismsByID[organismID].TaxonID
}
