package roi

import "testing"

func TestEnumerationRoundTrip(t *testing.T) {
	e := NewEnumeration(
		EnumPair{Internal: "yes", External: "eba_BT:x28"},
		EnumPair{Internal: "no", External: "eba_BT:x29"},
	)

	for _, internal := range e.Internals() {
		ext, ok := e.External(internal)
		if !ok {
			t.Fatalf("External(%q) not found", internal)
		}
		back, ok := e.Internal(ext)
		if !ok || back != internal {
			t.Errorf("round trip %q -> %q -> %q", internal, ext, back)
		}
	}

	if e.Len() != 2 {
		t.Errorf("Len() = %d, want 2", e.Len())
	}
	if !e.HasInternal("yes") || e.HasInternal("eba_BT:x28") {
		t.Error("HasInternal should match internal values only")
	}
}

func TestEnumerationDuplicateInternalPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate internal value")
		}
	}()
	NewEnumeration(
		EnumPair{Internal: "yes", External: "a"},
		EnumPair{Internal: "yes", External: "b"},
	)
}

func TestEnumerationDuplicateExternalPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate external code")
		}
	}()
	NewEnumeration(
		EnumPair{Internal: "a", External: "same"},
		EnumPair{Internal: "b", External: "same"},
	)
}

func TestEnumerationInternalsIsCopy(t *testing.T) {
	e := NewEnumeration(EnumPair{Internal: "one", External: "ext:one"})
	vals := e.Internals()
	vals[0] = "mutated"
	if e.Internals()[0] != "one" {
		t.Error("Internals() exposed internal slice")
	}
}
