package billing

import (
	"testing"

	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/mrstraders/paddybill/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate_PaddyScenario(t *testing.T) {
	in := CalcInput{
		Entries: []entity.WeighingEntry{
			{Weight: dec("1000"), Bags: 20},
			{Weight: dec("500"), Bags: 10},
		},
		TarePerBag:       dec("2"),
		Rate:             dec("2000"),
		LabourRatePerBag: dec("12"),
		Adjustments: []entity.Adjustment{
			{Kind: enum.AdjustmentSubtract, Amount: dec("500"), Note: "cash"},
		},
	}

	got := Calculate(in)

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"totalWeight", got.TotalWeight, "1500"},
		{"tareWeight", got.TareWeight, "60"},
		{"netWeight", got.NetWeight, "1440"},
		{"grossAmount", got.GrossAmount, "28800"},
		{"totalLabour", got.TotalLabour, "360"},
		{"netAfterLabour", got.NetAfterLabour, "28440"},
		{"finalAmount", got.FinalAmount, "27940"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if got.TotalBags != 30 {
		t.Errorf("totalBags = %d, want 30", got.TotalBags)
	}
}

func TestCalculate_Empty(t *testing.T) {
	got := Calculate(CalcInput{})
	if !got.FinalAmount.IsZero() || got.TotalBags != 0 || !got.NetWeight.IsZero() {
		t.Errorf("expected zero result, got %+v", got)
	}
}

func TestCalculateForm_NetWeightIdentity(t *testing.T) {
	tests := []struct {
		name       string
		entries    []EntryInput
		tarePerBag FormValue
		rate       FormValue
		wantNet    string
	}{
		{
			name:       "blank tare and rate",
			entries:    []EntryInput{{Weight: "1000", Bags: "20"}},
			tarePerBag: "",
			rate:       "",
			wantNet:    "1000",
		},
		{
			name:       "malformed weight",
			entries:    []EntryInput{{Weight: "abc", Bags: "5"}, {Weight: "300", Bags: "x"}},
			tarePerBag: "2",
			rate:       "1800",
			wantNet:    "290",
		},
		{
			name:       "formatted input",
			entries:    []EntryInput{{Weight: " 1,250.5 ", Bags: "25"}},
			tarePerBag: "1.5",
			rate:       "2100",
			wantNet:    "1213",
		},
		{
			name:       "negative coerced to zero",
			entries:    []EntryInput{{Weight: "-400", Bags: "4"}},
			tarePerBag: "2",
			rate:       "2000",
			wantNet:    "-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := PaddyForm{Entries: tt.entries, TarePerBag: tt.tarePerBag, Rate: tt.rate}
			got := CalculateForm(f)

			if !got.NetWeight.Equal(dec(tt.wantNet)) {
				t.Errorf("netWeight = %s, want %s", got.NetWeight, tt.wantNet)
			}
			identity := got.TotalWeight.Sub(decimal.NewFromInt(int64(got.TotalBags)).Mul(f.TarePerBag.Decimal()))
			if !got.NetWeight.Equal(identity) {
				t.Errorf("netWeight %s != totalWeight - bags*tare %s", got.NetWeight, identity)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"   ", "0"},
		{"12", "12"},
		{" 12.50 ", "12.5"},
		{"1,000", "1000"},
		{"NaN", "0"},
		{"12abc", "0"},
		{"-5", "0"},
	}
	for _, tt := range tests {
		if got := ParseDecimal(tt.in); !got.Equal(dec(tt.want)) {
			t.Errorf("ParseDecimal(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseBags(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"20", 20},
		{"20.9", 20},
		{"", 0},
		{"ten", 0},
	}
	for _, tt := range tests {
		if got := ParseBags(tt.in); got != tt.want {
			t.Errorf("ParseBags(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
