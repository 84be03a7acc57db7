package validator

import (
	"math"
	"testing"
)

func TestShannonEntropy(t *testing.T) {
	if got := ShannonEntropy(""); got != 0 {
		t.Fatalf("entropy of empty string = %v, want 0", got)
	}
	if got := ShannonEntropy("aaaaaaaa"); got != 0 {
		t.Fatalf("entropy of uniform string = %v, want 0", got)
	}
	// Two symbols in equal proportion carry exactly one bit each.
	if got := ShannonEntropy("abababab"); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("entropy of ab pattern = %v, want 1.0", got)
	}
	// 16 distinct equiprobable symbols carry four bits each.
	if got := ShannonEntropy("0123456789abcdef"); math.Abs(got-4.0) > 1e-9 {
		t.Fatalf("entropy of hex alphabet = %v, want 4.0", got)
	}
}

func TestShannonEntropyOrdersRealAgainstPlaceholder(t *testing.T) {
	genuine := ShannonEntropy("wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY")
	placeholder := ShannonEntropy("your-api-key-here")
	if genuine <= placeholder {
		t.Fatalf("expected genuine secret entropy %v > placeholder entropy %v", genuine, placeholder)
	}
	if genuine < 4.3 {
		t.Fatalf("genuine AWS secret entropy %v below its threshold", genuine)
	}
}
