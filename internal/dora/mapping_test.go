package dora

import "testing"

func control(id, cat string) Control {
	return Control{ControlID: id, TSCCategory: cat, TestResult: ResultOperatingEffectively}
}

func mappingFor(t *testing.T, mappings []Mapping, article string) Mapping {
	t.Helper()
	for _, m := range mappings {
		if m.Article == article {
			return m
		}
	}
	t.Fatalf("no mapping for %s", article)
	return Mapping{}
}

func TestMapControlsEmpty(t *testing.T) {
	mappings := MapControls(nil)
	if len(mappings) != len(articles) {
		t.Fatalf("mappings = %d, want %d", len(mappings), len(articles))
	}
	for _, m := range mappings {
		if m.CoverageLevel != CoverageNone {
			t.Errorf("%s coverage = %s, want none", m.Article, m.CoverageLevel)
		}
		if m.Confidence != 0 || m.SOC2ControlID != "" {
			t.Errorf("%s should carry no confidence or control", m.Article)
		}
	}
}

func TestMapControlsOrderMatchesArticles(t *testing.T) {
	mappings := MapControls(nil)
	for i, a := range Articles() {
		if mappings[i].Article != a.ID {
			t.Fatalf("mapping %d = %s, want %s", i, mappings[i].Article, a.ID)
		}
	}
}

func TestMapControlsFullCoverage(t *testing.T) {
	// Article 18 needs only CC7: one control reaches full at 0.85
	mappings := MapControls([]Control{control("CC7.1", "CC7")})
	m := mappingFor(t, mappings, "Article 18")
	if m.CoverageLevel != CoverageFull || m.Confidence != 0.85 {
		t.Errorf("Article 18 = %s/%.2f, want full/0.85", m.CoverageLevel, m.Confidence)
	}
	if m.SOC2ControlID != "CC7.1" {
		t.Errorf("SOC2ControlID = %q", m.SOC2ControlID)
	}

	// Double coverage raises confidence to 0.95
	mappings = MapControls([]Control{control("CC7.1", "CC7"), control("CC7.2", "CC7")})
	m = mappingFor(t, mappings, "Article 18")
	if m.CoverageLevel != CoverageFull || m.Confidence != 0.95 {
		t.Errorf("Article 18 = %s/%.2f, want full/0.95", m.CoverageLevel, m.Confidence)
	}
}

func TestMapControlsPartialCoverage(t *testing.T) {
	// Article 5 needs CC1, CC3, CC4, CC9: one matching control of four
	mappings := MapControls([]Control{control("CC1.1", "CC1")})
	m := mappingFor(t, mappings, "Article 5")
	if m.CoverageLevel != CoveragePartial {
		t.Fatalf("Article 5 coverage = %s, want partial", m.CoverageLevel)
	}
	want := 0.6 + 1.0/4.0*0.25
	if m.Confidence != want {
		t.Errorf("confidence = %v, want %v", m.Confidence, want)
	}
}

func TestMapControlsCategoryNormalization(t *testing.T) {
	mappings := MapControls([]Control{control("CC7.1", "cc7")})
	m := mappingFor(t, mappings, "Article 18")
	if m.CoverageLevel != CoverageFull {
		t.Errorf("lowercase category not matched: %s", m.CoverageLevel)
	}
}
