package patterns

import "testing"

func TestParseSeverityRoundTrip(t *testing.T) {
	for _, sev := range AllSeverities() {
		parsed, err := ParseSeverity(sev.String())
		if err != nil {
			t.Fatalf("ParseSeverity(%q): %v", sev.String(), err)
		}
		if parsed != sev {
			t.Fatalf("round trip mismatch: %v != %v", parsed, sev)
		}
	}
	if _, err := ParseSeverity("SEVERE"); err == nil {
		t.Fatal("expected error for unknown severity name")
	}
}

func TestMinSeverity(t *testing.T) {
	if got := MinSeverity(SeverityCritical, SeverityHigh); got != SeverityHigh {
		t.Fatalf("MinSeverity(CRITICAL, HIGH) = %v", got)
	}
	if got := MinSeverity(SeverityLow, SeverityMedium); got != SeverityLow {
		t.Fatalf("MinSeverity(LOW, MEDIUM) = %v", got)
	}
}

func TestSeverityOrdering(t *testing.T) {
	if !(SeverityCritical > SeverityHigh && SeverityHigh > SeverityMedium &&
		SeverityMedium > SeverityLow && SeverityLow > SeverityInfo) {
		t.Fatal("severity ordering broken")
	}
}
