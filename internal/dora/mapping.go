// Package dora maps SOC 2 Trust Services Criteria controls onto DORA
// articles and scores compliance coverage. This is the deterministic
// half of the document-extraction pipeline: the extraction service
// returns structured controls, this package does the rest.
package dora

// Test result values for extracted controls.
const (
	ResultOperatingEffectively = "operating_effectively"
	ResultException            = "exception"
	ResultNotTested            = "not_tested"
)

// Coverage levels per article.
const (
	CoverageFull    = "full"
	CoveragePartial = "partial"
	CoverageNone    = "none"
)

// Control is one control extracted from a SOC 2 report.
type Control struct {
	ControlID   string  `json:"controlId" validate:"required"`
	TSCCategory string  `json:"tscCategory" validate:"required"`
	Description string  `json:"description"`
	TestResult  string  `json:"testResult" validate:"omitempty,oneof=operating_effectively exception not_tested"`
	Confidence  float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// Article describes one DORA article and the TSC categories whose
// controls evidence it.
type Article struct {
	ID            string
	Title         string
	Description   string
	TSCCategories []string
	Weight        float64
}

// Mapping links a DORA article to the SOC 2 controls that cover it.
type Mapping struct {
	Article       string  `json:"doraArticle"`
	CoverageLevel string  `json:"coverageLevel"`
	Confidence    float64 `json:"confidence"`
	SOC2ControlID string  `json:"soc2ControlId"`
}

// articles is the DORA article / TSC category matrix, in article order.
var articles = []Article{
	// Chapter II - ICT risk management
	{ID: "Article 5", Title: "ICT risk management framework",
		Description:   "Governance and accountability for ICT risk management",
		TSCCategories: []string{"CC1", "CC3", "CC4", "CC9"}, Weight: 1.0},
	{ID: "Article 6", Title: "ICT systems, protocols and tools",
		Description:   "ICT systems resilience and protection",
		TSCCategories: []string{"CC6", "CC7", "CC8", "A"}, Weight: 1.0},
	{ID: "Article 7", Title: "Identification",
		Description:   "Identification of ICT risks and business functions",
		TSCCategories: []string{"CC3", "CC6"}, Weight: 0.8},
	{ID: "Article 8", Title: "Protection and prevention",
		Description:   "ICT security policies and access controls",
		TSCCategories: []string{"CC5", "CC6", "CC7", "C"}, Weight: 1.0},
	{ID: "Article 9", Title: "Detection",
		Description:   "Detection of anomalous activities and incidents",
		TSCCategories: []string{"CC7", "CC4"}, Weight: 0.8},
	{ID: "Article 10", Title: "Response and recovery",
		Description:   "Incident response and recovery procedures",
		TSCCategories: []string{"CC7", "CC9", "A"}, Weight: 1.0},
	{ID: "Article 11", Title: "Backup policies and procedures",
		Description:   "Data backup and restoration",
		TSCCategories: []string{"A", "CC7", "CC9"}, Weight: 0.9},
	{ID: "Article 12", Title: "Learning and evolving",
		Description:   "Lessons learned and continuous improvement",
		TSCCategories: []string{"CC4", "CC3"}, Weight: 0.6},
	{ID: "Article 13", Title: "Communication",
		Description:   "Crisis communication procedures",
		TSCCategories: []string{"CC2", "CC7"}, Weight: 0.7},

	// Chapter III - ICT incident reporting
	{ID: "Article 17", Title: "ICT-related incident management process",
		Description:   "Incident classification and management",
		TSCCategories: []string{"CC7", "CC2"}, Weight: 1.0},
	{ID: "Article 18", Title: "Classification of ICT-related incidents",
		Description:   "Incident classification criteria",
		TSCCategories: []string{"CC7"}, Weight: 0.8},
	{ID: "Article 19", Title: "Reporting of major ICT-related incidents",
		Description:   "Regulatory incident reporting",
		TSCCategories: []string{"CC7", "CC2"}, Weight: 1.0},

	// Chapter IV - digital operational resilience testing
	{ID: "Article 24", Title: "General requirements for testing",
		Description:   "Testing program requirements",
		TSCCategories: []string{"CC4", "CC7", "A"}, Weight: 0.9},
	{ID: "Article 25", Title: "Testing of ICT tools and systems",
		Description:   "Vulnerability assessments and testing",
		TSCCategories: []string{"CC7", "CC8", "A"}, Weight: 0.8},

	// Chapter V - third-party risk management
	{ID: "Article 28", Title: "General principles for third-party risk",
		Description:   "Third-party ICT risk management strategy",
		TSCCategories: []string{"CC9"}, Weight: 1.0},
	{ID: "Article 29", Title: "Preliminary assessment of ICT concentration risk",
		Description:   "Concentration risk assessment",
		TSCCategories: []string{"CC3", "CC9"}, Weight: 0.8},
	{ID: "Article 30", Title: "Key contractual provisions",
		Description:   "Contract requirements for ICT services",
		TSCCategories: []string{"CC9"}, Weight: 0.9},

	// Chapter VI - information sharing
	{ID: "Article 45", Title: "Information sharing arrangements",
		Description:   "Threat intelligence sharing",
		TSCCategories: []string{"CC2", "CC7"}, Weight: 0.5},
}

var articleByID = func() map[string]Article {
	m := make(map[string]Article, len(articles))
	for _, a := range articles {
		m[a.ID] = a
	}
	return m
}()

// Articles returns the article matrix in article order.
func Articles() []Article {
	out := make([]Article, len(articles))
	copy(out, articles)
	return out
}

// MapControls maps extracted SOC 2 controls onto DORA articles based
// on TSC category membership. One mapping is produced per article, in
// article order:
//
//   - full: control count reaches the article's category count
//     (confidence 0.85, or 0.95 at double coverage)
//   - partial: some but fewer controls than categories
//   - none: no control touches any of the article's categories
func MapControls(controls []Control) []Mapping {
	byCategory := make(map[string][]Control)
	for _, c := range controls {
		cat := normalizeCategory(c.TSCCategory)
		byCategory[cat] = append(byCategory[cat], c)
	}

	mappings := make([]Mapping, 0, len(articles))
	for _, a := range articles {
		var matched []Control
		for _, cat := range a.TSCCategories {
			matched = append(matched, byCategory[cat]...)
		}

		m := Mapping{Article: a.ID}
		switch {
		case len(matched) == 0:
			m.CoverageLevel = CoverageNone
		case len(matched) >= len(a.TSCCategories)*2:
			m.CoverageLevel = CoverageFull
			m.Confidence = 0.95
			m.SOC2ControlID = matched[0].ControlID
		case len(matched) >= len(a.TSCCategories):
			m.CoverageLevel = CoverageFull
			m.Confidence = 0.85
			m.SOC2ControlID = matched[0].ControlID
		default:
			m.CoverageLevel = CoveragePartial
			m.Confidence = 0.6 + float64(len(matched))/float64(len(a.TSCCategories))*0.25
			m.SOC2ControlID = matched[0].ControlID
		}
		mappings = append(mappings, m)
	}
	return mappings
}

func normalizeCategory(cat string) string {
	out := make([]byte, 0, len(cat))
	for i := 0; i < len(cat); i++ {
		c := cat[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
