package observability

import "testing"

func TestNormalizedPath(t *testing.T) {
	got := normalizedPath("/api/v1/results/6b7f9a3c-1c2d-4e5f-8a9b-0c1d2e3f4a5b/review")
	want := "/api/v1/results/{id}/review"
	if got != want {
		t.Fatalf("normalizedPath mismatch got=%s want=%s", got, want)
	}

	got = normalizedPath("/api/v1/assessments/42/report")
	want = "/api/v1/assessments/{id}/report"
	if got != want {
		t.Fatalf("normalizedPath mismatch got=%s want=%s", got, want)
	}
}

func TestLooksLikeID(t *testing.T) {
	if !looksLikeID("123") {
		t.Fatalf("numeric segment should look like an id")
	}
	if !looksLikeID("6b7f9a3c-1c2d-4e5f-8a9b-0c1d2e3f4a5b") {
		t.Fatalf("uuid segment should look like an id")
	}
	if looksLikeID("results") {
		t.Fatalf("plain word should not look like an id")
	}
}
