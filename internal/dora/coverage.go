package dora

import (
	"math"
	"sort"
	"strings"
)

// ArticleCoverage is the per-article slice of a coverage result.
type ArticleCoverage struct {
	Title         string  `json:"title"`
	CoverageLevel string  `json:"coverageLevel"`
	Confidence    float64 `json:"confidence"`
	SOC2Control   string  `json:"soc2Control"`
	Weight        float64 `json:"weight"`
}

// Coverage is the overall DORA compliance coverage score.
type Coverage struct {
	OverallScore    float64                    `json:"overallScore"`
	ArticlesCovered int                        `json:"articlesCovered"`
	ArticlesTotal   int                        `json:"articlesTotal"`
	ByArticle       map[string]ArticleCoverage `json:"coverageByArticle"`
}

// Gap is a DORA article with missing or partial coverage and a
// remediation hint.
type Gap struct {
	Article               string   `json:"article"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	CoverageLevel         string   `json:"coverageLevel"`
	RequiredTSCCategories []string `json:"requiredTscCategories"`
	Remediation           string   `json:"remediation"`
}

var coverageScores = map[string]float64{
	CoverageFull:    1.0,
	CoveragePartial: 0.5,
	CoverageNone:    0.0,
}

// CalculateCoverage scores mappings into an overall weighted coverage
// result. The overall score is rounded to three decimals.
func CalculateCoverage(mappings []Mapping) Coverage {
	cov := Coverage{
		ArticlesTotal: len(articles),
		ByArticle:     make(map[string]ArticleCoverage, len(mappings)),
	}
	if len(mappings) == 0 {
		return cov
	}

	var weighted, totalWeight float64
	for _, m := range mappings {
		a := articleByID[m.Article]
		weight := a.Weight
		if weight == 0 {
			weight = 1.0
		}

		weighted += coverageScores[m.CoverageLevel] * weight * m.Confidence
		totalWeight += weight

		if m.CoverageLevel == CoverageFull || m.CoverageLevel == CoveragePartial {
			cov.ArticlesCovered++
		}

		cov.ByArticle[m.Article] = ArticleCoverage{
			Title:         a.Title,
			CoverageLevel: m.CoverageLevel,
			Confidence:    m.Confidence,
			SOC2Control:   m.SOC2ControlID,
			Weight:        weight,
		}
	}

	if totalWeight > 0 {
		cov.OverallScore = math.Round(weighted/totalWeight*1000) / 1000
	}
	return cov
}

// Gaps lists the articles with none or partial coverage, highest
// weight first, each with a remediation suggestion.
func Gaps(cov Coverage) []Gap {
	var gaps []Gap
	for id, data := range cov.ByArticle {
		if data.CoverageLevel != CoverageNone && data.CoverageLevel != CoveragePartial {
			continue
		}
		a := articleByID[id]
		gaps = append(gaps, Gap{
			Article:               id,
			Title:                 a.Title,
			Description:           a.Description,
			CoverageLevel:         data.CoverageLevel,
			RequiredTSCCategories: a.TSCCategories,
			Remediation: "Implement controls addressing " +
				strings.Join(a.TSCCategories, ", ") + " to meet " + id + " requirements.",
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		wi := articleByID[gaps[i].Article].Weight
		wj := articleByID[gaps[j].Article].Weight
		if wi != wj {
			return wi > wj
		}
		return gaps[i].Article < gaps[j].Article
	})
	return gaps
}
