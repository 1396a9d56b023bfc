package utils

import (
	"strings"
	"testing"
)

func TestGenerateListingIDFormat(t *testing.T) {
	id := GenerateListingID()

	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		t.Fatalf("GenerateListingID() = %q, expected three dash-separated parts", id)
	}
	if parts[0] != "GS" {
		t.Errorf("prefix = %q, expected GS", parts[0])
	}
	if len(parts[2]) != 6 {
		t.Errorf("random suffix %q has length %d, expected 6", parts[2], len(parts[2]))
	}
	if id != strings.ToUpper(id) {
		t.Errorf("listing id %q is not uppercased", id)
	}
	for _, part := range parts[1:] {
		for _, c := range part {
			if !strings.ContainsRune("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ", c) {
				t.Errorf("listing id %q contains non-base36 character %q", id, c)
			}
		}
	}
}

func TestGenerateListingIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateListingID()
		if seen[id] {
			t.Fatalf("duplicate listing id generated: %q", id)
		}
		seen[id] = true
	}
}
