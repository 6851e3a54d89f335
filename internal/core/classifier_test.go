package core

import "testing"

func TestClassifyTransfer(t *testing.T) {
	cases := []struct {
		title string
		want  TransferClass
	}{
		{"oficina", TransferToOffice},
		{"Oficina", TransferToOffice},
		{"OFICINA ", TransferToOffice},
		{"  oficina  ", TransferToOffice},
		{"tesoro", TransferToTreasury},
		{"TESORO", TransferToTreasury},
		{" Tesoro ", TransferToTreasury},
		{"Proveedor", Addition},
		{"", Addition},
		{"oficina central", Addition}, // exact match only
		{"tesorería", Addition},
	}
	for _, tc := range cases {
		if got := ClassifyTransfer(tc.title); got != tc.want {
			t.Fatalf("ClassifyTransfer(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12.34", 12.34},
		{"12,34", 12.34},
		{" 1500 ", 1500},
		{"-250", -250},
		{"", 0},
		{"abc", 0},
		{"12..3", 0},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if NormalizeName("  Doña María ") != "doña maría" {
		t.Fatalf("unexpected normalization: %q", NormalizeName("  Doña María "))
	}
}
