package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
)

func TestRiskID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.RiskID
		wantErr bool
	}{
		{"valid", "R01", false},
		{"valid high number", "R99", false},
		{"empty", "", true},
		{"lowercase", "r01", true},
		{"single digit", "R1", true},
		{"three digits", "R100", true},
		{"suffix", "R01 copy", true},
		{"other prefix", "S01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("RiskID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsRiskSheetName(t *testing.T) {
	gt.Bool(t, types.IsRiskSheetName("R03")).True()
	gt.Bool(t, types.IsRiskSheetName("6-Risk Analysis")).False()
	gt.Bool(t, types.IsRiskSheetName("R03 (2)")).False()
}

func TestNewElementID(t *testing.T) {
	tests := []struct {
		kind    types.ElementKind
		ordinal int
		want    types.ElementID
	}{
		{types.ElementKindRecommendation, 1, "REC01"},
		{types.ElementKindRecommendation, 12, "REC12"},
		{types.ElementKindSecurityMeasure, 3, "SM03"},
		{types.ElementKindSecurityMeasure, 100, "SM100"},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			gt.Value(t, types.NewElementID(tt.kind, tt.ordinal)).Equal(tt.want)
		})
	}
}

func TestElementKind_IsValid(t *testing.T) {
	for _, k := range types.AllElementKinds() {
		gt.Bool(t, k.IsValid()).True()
		gt.String(t, k.IDPrefix()).NotEqual("")
	}
	gt.Bool(t, types.ElementKind("action").IsValid()).False()
	gt.Value(t, types.ElementKind("action").IDPrefix()).Equal("")
}

func TestColor_Hex(t *testing.T) {
	gt.Value(t, types.RGB(0xFF, 0x66, 0x66).Hex()).Equal("FF6666")
	gt.Value(t, types.RGB(0, 0, 0x0A).Hex()).Equal("00000A")
	gt.Value(t, types.RGB(0x92, 0xD0, 0x50).String()).Equal("#92D050")
}
