package build

import (
	"strings"

	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

func (b *Builder) processReferences() {
	b.references = make(map[string]*domain.ReferenceDetails, len(b.raw.Pubs))

	propMap := map[int]map[string]string{}
	for _, prop := range b.raw.Pubprops {
		if propMap[prop.PubID] == nil {
			propMap[prop.PubID] = map[string]string{}
		}
		propMap[prop.PubID][prop.TypeName] = prop.Value
	}

	for _, pub := range b.raw.Pubs {
		if pub.Uniquename == "null" {
			continue
		}
		props := propMap[pub.PubID]
		ref := &domain.ReferenceDetails{
			Uniquename:                pub.Uniquename,
			Title:                     pub.Title,
			Citation:                  pub.Miniref,
			PubmedAbstract:            props["pubmed_abstract"],
			PubmedDOI:                 props["pubmed_doi"],
			Authors:                   props["pubmed_authors"],
			PubmedPublicationDate:     props["pubmed_publication_date"],
			PubmedEntrezDate:          props["pubmed_entrez_date"],
			PublicationYear:           props["pubmed_publication_year"],
			CantoTriageStatus:         props["canto_triage_status"],
			CantoCuratorName:          props["canto_curator_name"],
			CantoCuratorRole:          props["canto_curator_role"],
			CantoFirstApprovedDate:    props["canto_first_approved_date"],
			CantoApprovedDate:         props["canto_approved_date"],
			CantoSessionSubmittedDate: props["canto_session_submitted_date"],
			CantoAddedDate:            props["canto_added_date"],
			CantoAnnotationStatus:     props["canto_annotation_status"],
			AnnotationBlock:           newAnnotationBlock(),
		}
		ref.AuthorsAbbrev = abbrevAuthors(ref.Authors)
		if ref.PublicationYear == "" {
			ref.PublicationYear = yearFromCitation(ref.Citation)
		}
		ref.ApprovedDate = approvedDate(ref.CantoFirstApprovedDate, ref.CantoApprovedDate)
		b.references[pub.Uniquename] = ref
	}
}

// abbrevAuthors shortens a full author list to "First author et al."
func abbrevAuthors(authors string) string {
	if authors == "" {
		return ""
	}
	if idx := strings.Index(authors, ","); idx >= 0 {
		return authors[:idx] + " et al."
	}
	return authors
}

// yearFromCitation extracts a leading year from citations of the form
// "Journal 2005;12:34-56".
func yearFromCitation(citation string) string {
	fields := strings.Fields(citation)
	for _, field := range fields {
		trimmed := strings.TrimRight(field, ";.,")
		if len(trimmed) == 4 && allDigits(trimmed) {
			return trimmed
		}
	}
	return ""
}

// approvedDate picks the first-approved date, falling back to the
// approved date, trimmed to the day.
func approvedDate(firstApproved, approved string) string {
	date := firstApproved
	if date == "" {
		date = approved
	}
	if idx := strings.IndexByte(date, ' '); idx >= 0 {
		date = date[:idx]
	}
	return date
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
