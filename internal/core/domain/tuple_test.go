package domain

import (
	"testing"
	"time"
)

func TestTupleActive(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	if !(PermissionTuple{}).Active(now) {
		t.Error("Tuple without expiry should be active")
	}
	if !(PermissionTuple{ExpiresAt: &future}).Active(now) {
		t.Error("Tuple expiring in the future should be active")
	}
	if (PermissionTuple{ExpiresAt: &past}).Active(now) {
		t.Error("Expired tuple should be inactive")
	}
	if (PermissionTuple{ExpiresAt: &now}).Active(now) {
		t.Error("Tuple expiring exactly now should be inactive")
	}
}

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		in   Page
		want Page
	}{
		{Page{}, Page{Number: 1, Size: 20}},
		{Page{Number: -3, Size: 0}, Page{Number: 1, Size: 20}},
		{Page{Number: 2, Size: 50}, Page{Number: 2, Size: 50}},
		{Page{Number: 1, Size: 500}, Page{Number: 1, Size: 100}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	if off := (Page{Number: 3, Size: 20}).Offset(); off != 40 {
		t.Errorf("Expected offset 40, got %d", off)
	}
}
