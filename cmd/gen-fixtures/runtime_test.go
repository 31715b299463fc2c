package main

import "testing"

func TestBuildAll(t *testing.T) {
	vectors, err := BuildAll()
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(vectors) == 0 {
		t.Fatal("expected at least one generated vector")
	}

	seen := map[string]bool{}
	for _, v := range vectors {
		if v.ScenarioID == "" {
			t.Fatal("vector with empty scenario id")
		}
		if seen[v.ScenarioID] {
			t.Fatalf("duplicate scenario id %s", v.ScenarioID)
		}
		seen[v.ScenarioID] = true
	}
	if !seen["E1/06-next-batch"] {
		t.Fatal("expected E1 lifecycle to reach next-batch")
	}
	if !seen["E2/forced-inclusion-violation"] {
		t.Fatal("expected E2 scenario to be generated")
	}
}

func TestBuildE2_RejectsForcedInclusionViolation(t *testing.T) {
	v, err := buildE2()
	if err != nil {
		t.Fatalf("buildE2: %v", err)
	}
	if v.Accepted {
		t.Fatal("E2 must record a rejection, not an acceptance")
	}
}
