package chado

// Flat rows scanned from the Chado snapshot.  Each struct mirrors one
// query in load.go, not one table: joins against cv, db and dbxref are
// folded in so the builder never needs the relational ids.

type OrganismRow struct {
	OrganismID int    `gorm:"column:organism_id"`
	Genus      string `gorm:"column:genus"`
	Species    string `gorm:"column:species"`
	TaxonID    int    `gorm:"column:taxonid"`
}

type CvtermRow struct {
	CvtermID   int    `gorm:"column:cvterm_id"`
	Name       string `gorm:"column:name"`
	CvName     string `gorm:"column:cv_name"`
	TermID     string `gorm:"column:termid"`
	Definition string `gorm:"column:definition"`
	IsObsolete bool   `gorm:"column:is_obsolete"`
}

type CvtermSynonymRow struct {
	CvtermID    int    `gorm:"column:cvterm_id"`
	Synonym     string `gorm:"column:synonym"`
	SynonymType string `gorm:"column:synonym_type"`
}

// CvtermpropRow carries term properties, eg. in_subset membership and
// canto_subset annotations.
type CvtermpropRow struct {
	CvtermID int    `gorm:"column:cvterm_id"`
	TypeName string `gorm:"column:type_name"`
	Value    string `gorm:"column:value"`
}

type CvtermDbxrefRow struct {
	CvtermID  int    `gorm:"column:cvterm_id"`
	Accession string `gorm:"column:accession"`
	DBName    string `gorm:"column:db_name"`
}

type CvtermRelationshipRow struct {
	SubjectID int    `gorm:"column:subject_id"`
	ObjectID  int    `gorm:"column:object_id"`
	RelName   string `gorm:"column:rel_name"`
}

type PubRow struct {
	PubID      int    `gorm:"column:pub_id"`
	Uniquename string `gorm:"column:uniquename"`
	Title      string `gorm:"column:title"`
	Miniref    string `gorm:"column:miniref"`
	PubType    string `gorm:"column:pub_type"`
}

type PubpropRow struct {
	PubID    int    `gorm:"column:pub_id"`
	TypeName string `gorm:"column:type_name"`
	Value    string `gorm:"column:value"`
}

type FeatureRow struct {
	FeatureID  int    `gorm:"column:feature_id"`
	Uniquename string `gorm:"column:uniquename"`
	Name       string `gorm:"column:name"`
	TypeName   string `gorm:"column:type_name"`
	OrganismID int    `gorm:"column:organism_id"`
	Residues   string `gorm:"column:residues"`
}

type FeaturelocRow struct {
	FeatureID      int    `gorm:"column:feature_id"`
	SrcFeatureName string `gorm:"column:src_feature_name"`
	Fmin           int    `gorm:"column:fmin"`
	Fmax           int    `gorm:"column:fmax"`
	Strand         int    `gorm:"column:strand"`
	Phase          *int   `gorm:"column:phase"`
}

type FeatureRelationshipRow struct {
	FeatureRelationshipID int    `gorm:"column:feature_relationship_id"`
	SubjectID             int    `gorm:"column:subject_id"`
	ObjectID              int    `gorm:"column:object_id"`
	RelName               string `gorm:"column:rel_name"`
}

// FeatureRelationshippropRow carries relationship properties, eg. allele
// expression in a genotype.
type FeatureRelationshippropRow struct {
	FeatureRelationshipID int    `gorm:"column:feature_relationship_id"`
	TypeName              string `gorm:"column:type_name"`
	Value                 string `gorm:"column:value"`
}

type FeaturepropRow struct {
	FeatureID int    `gorm:"column:feature_id"`
	TypeName  string `gorm:"column:type_name"`
	Value     string `gorm:"column:value"`
}

type FeatureSynonymRow struct {
	FeatureID   int    `gorm:"column:feature_id"`
	Synonym     string `gorm:"column:synonym"`
	SynonymType string `gorm:"column:synonym_type"`
}

type FeatureDbxrefRow struct {
	FeatureID int    `gorm:"column:feature_id"`
	Accession string `gorm:"column:accession"`
	DBName    string `gorm:"column:db_name"`
}

type FeaturePubRow struct {
	FeatureID     int    `gorm:"column:feature_id"`
	PubUniquename string `gorm:"column:pub_uniquename"`
}

// FeatureCvtermRow is one annotation: a feature (gene or genotype
// feature) linked to a term with provenance.
type FeatureCvtermRow struct {
	FeatureCvtermID int    `gorm:"column:feature_cvterm_id"`
	FeatureID       int    `gorm:"column:feature_id"`
	CvtermID        int    `gorm:"column:cvterm_id"`
	PubUniquename   string `gorm:"column:pub_uniquename"`
	IsNot           bool   `gorm:"column:is_not"`
}

// FeatureCvtermpropRow carries annotation properties: evidence,
// with/from, qualifiers, conditions, annotation extensions, assigned_by,
// throughput and genotype background.
type FeatureCvtermpropRow struct {
	FeatureCvtermID int    `gorm:"column:feature_cvterm_id"`
	TypeName        string `gorm:"column:type_name"`
	Value           string `gorm:"column:value"`
	Rank            int    `gorm:"column:rank"`
}

// Raw is the read-only snapshot of one Chado load.
type Raw struct {
	Organisms            []OrganismRow
	Cvterms              []CvtermRow
	CvtermSynonyms       []CvtermSynonymRow
	Cvtermprops          []CvtermpropRow
	CvtermDbxrefs        []CvtermDbxrefRow
	CvtermRelationships  []CvtermRelationshipRow
	Pubs                 []PubRow
	Pubprops             []PubpropRow
	Features             []FeatureRow
	Featurelocs          []FeaturelocRow
	FeatureRelationships []FeatureRelationshipRow
	FeatureRelProps      []FeatureRelationshippropRow
	Featureprops         []FeaturepropRow
	FeatureSynonyms      []FeatureSynonymRow
	FeatureDbxrefs       []FeatureDbxrefRow
	FeaturePubs          []FeaturePubRow
	FeatureCvterms       []FeatureCvtermRow
	FeatureCvtermprops   []FeatureCvtermpropRow
}
