package chado

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
)

// Load reads the whole Chado snapshot in one pass.  The returned Raw is
// never written again.
func Load(db *gorm.DB, log *logger.Logger) (*Raw, error) {
	loadLog := log.With("component", "chado")
	raw := &Raw{}

	queries := []struct {
		name string
		sql  string
		dest interface{}
	}{
		{
			"organisms",
			`SELECT o.organism_id, o.genus, o.species,
			        CAST(op.value AS integer) AS taxonid
			   FROM organism o
			   JOIN organismprop op ON op.organism_id = o.organism_id
			   JOIN cvterm pt ON pt.cvterm_id = op.type_id
			  WHERE pt.name = 'taxon_id'`,
			&raw.Organisms,
		},
		{
			"cvterms",
			`SELECT t.cvterm_id, t.name, cv.name AS cv_name,
			        db.name || ':' || x.accession AS termid,
			        COALESCE(t.definition, '') AS definition,
			        t.is_obsolete <> 0 AS is_obsolete
			   FROM cvterm t
			   JOIN cv ON cv.cv_id = t.cv_id
			   JOIN dbxref x ON x.dbxref_id = t.dbxref_id
			   JOIN db ON db.db_id = x.db_id`,
			&raw.Cvterms,
		},
		{
			"cvterm synonyms",
			`SELECT s.cvterm_id, s.synonym, st.name AS synonym_type
			   FROM cvtermsynonym s
			   JOIN cvterm st ON st.cvterm_id = s.type_id`,
			&raw.CvtermSynonyms,
		},
		{
			"cvtermprops",
			`SELECT p.cvterm_id, pt.name AS type_name, p.value
			   FROM cvtermprop p
			   JOIN cvterm pt ON pt.cvterm_id = p.type_id`,
			&raw.Cvtermprops,
		},
		{
			"cvterm dbxrefs",
			`SELECT cx.cvterm_id, x.accession, db.name AS db_name
			   FROM cvterm_dbxref cx
			   JOIN dbxref x ON x.dbxref_id = cx.dbxref_id
			   JOIN db ON db.db_id = x.db_id`,
			&raw.CvtermDbxrefs,
		},
		{
			"cvterm relationships",
			`SELECT r.subject_id, r.object_id, rt.name AS rel_name
			   FROM cvterm_relationship r
			   JOIN cvterm rt ON rt.cvterm_id = r.type_id`,
			&raw.CvtermRelationships,
		},
		{
			"pubs",
			`SELECT p.pub_id, p.uniquename,
			        COALESCE(p.title, '') AS title,
			        COALESCE(p.miniref, '') AS miniref,
			        pt.name AS pub_type
			   FROM pub p
			   JOIN cvterm pt ON pt.cvterm_id = p.type_id`,
			&raw.Pubs,
		},
		{
			"pubprops",
			`SELECT p.pub_id, pt.name AS type_name, p.value
			   FROM pubprop p
			   JOIN cvterm pt ON pt.cvterm_id = p.type_id`,
			&raw.Pubprops,
		},
		{
			"features",
			`SELECT f.feature_id, f.uniquename,
			        COALESCE(f.name, '') AS name,
			        ft.name AS type_name, f.organism_id,
			        COALESCE(f.residues, '') AS residues
			   FROM feature f
			   JOIN cvterm ft ON ft.cvterm_id = f.type_id`,
			&raw.Features,
		},
		{
			"featurelocs",
			`SELECT l.feature_id, src.uniquename AS src_feature_name,
			        l.fmin, l.fmax, COALESCE(l.strand, 0) AS strand, l.phase
			   FROM featureloc l
			   JOIN feature src ON src.feature_id = l.srcfeature_id`,
			&raw.Featurelocs,
		},
		{
			"feature relationships",
			`SELECT r.feature_relationship_id, r.subject_id, r.object_id,
			        rt.name AS rel_name
			   FROM feature_relationship r
			   JOIN cvterm rt ON rt.cvterm_id = r.type_id`,
			&raw.FeatureRelationships,
		},
		{
			"feature relationship props",
			`SELECT p.feature_relationship_id, pt.name AS type_name, p.value
			   FROM feature_relationshipprop p
			   JOIN cvterm pt ON pt.cvterm_id = p.type_id`,
			&raw.FeatureRelProps,
		},
		{
			"featureprops",
			`SELECT p.feature_id, pt.name AS type_name,
			        COALESCE(p.value, '') AS value
			   FROM featureprop p
			   JOIN cvterm pt ON pt.cvterm_id = p.type_id`,
			&raw.Featureprops,
		},
		{
			"feature synonyms",
			`SELECT fs.feature_id, s.name AS synonym,
			        st.name AS synonym_type
			   FROM feature_synonym fs
			   JOIN synonym s ON s.synonym_id = fs.synonym_id
			   JOIN cvterm st ON st.cvterm_id = s.type_id`,
			&raw.FeatureSynonyms,
		},
		{
			"feature dbxrefs",
			`SELECT fx.feature_id, x.accession, db.name AS db_name
			   FROM feature_dbxref fx
			   JOIN dbxref x ON x.dbxref_id = fx.dbxref_id
			   JOIN db ON db.db_id = x.db_id`,
			&raw.FeatureDbxrefs,
		},
		{
			"feature pubs",
			`SELECT fp.feature_id, p.uniquename AS pub_uniquename
			   FROM feature_pub fp
			   JOIN pub p ON p.pub_id = fp.pub_id`,
			&raw.FeaturePubs,
		},
		{
			"feature cvterms",
			`SELECT fc.feature_cvterm_id, fc.feature_id, fc.cvterm_id,
			        p.uniquename AS pub_uniquename, fc.is_not
			   FROM feature_cvterm fc
			   JOIN pub p ON p.pub_id = fc.pub_id`,
			&raw.FeatureCvterms,
		},
		{
			"feature cvtermprops",
			`SELECT p.feature_cvterm_id, pt.name AS type_name,
			        COALESCE(p.value, '') AS value, p.rank
			   FROM feature_cvtermprop p
			   JOIN cvterm pt ON pt.cvterm_id = p.type_id`,
			&raw.FeatureCvtermprops,
		},
	}

	for _, q := range queries {
		if err := db.Raw(q.sql).Scan(q.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", q.name, err)
		}
	}

	loadLog.Info("chado snapshot loaded",
		"features", len(raw.Features),
		"cvterms", len(raw.Cvterms),
		"annotations", len(raw.FeatureCvterms),
		"pubs", len(raw.Pubs))

	return raw, nil
}
