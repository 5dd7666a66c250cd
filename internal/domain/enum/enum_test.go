package enum

import (
	"encoding/json"
	"testing"
)

func TestBillTypeJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    BillType
		wantErr bool
	}{
		{`"paddy"`, BillTypePaddy, false},
		{`"interest"`, BillTypeInterest, false},
		{`1`, BillTypeInterest, false},
		{`"cheque"`, BillTypePaddy, true},
	}
	for _, tt := range tests {
		var got BillType
		err := json.Unmarshal([]byte(tt.in), &got)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}

	out, _ := json.Marshal(BillTypeInterest)
	if string(out) != `"interest"` {
		t.Errorf("Marshal = %s", out)
	}
}

func TestBillTypeScan(t *testing.T) {
	var bt BillType
	if err := bt.Scan([]byte("interest")); err != nil || bt != BillTypeInterest {
		t.Errorf("Scan([]byte) = %v, %v", bt, err)
	}
	if err := bt.Scan("paddy"); err != nil || bt != BillTypePaddy {
		t.Errorf("Scan(string) = %v, %v", bt, err)
	}
	if err := bt.Scan("x"); err == nil {
		t.Error("Scan of unknown name should fail")
	}
	if v, _ := BillTypeInterest.Value(); v != "interest" {
		t.Errorf("Value = %v", v)
	}
}

func TestInterestLineKindJSON(t *testing.T) {
	for _, k := range []InterestLineKind{InterestLineAdd, InterestLineSubtract, InterestLineCheckpoint} {
		data, err := json.Marshal(k)
		if err != nil {
			t.Fatal(err)
		}
		var back InterestLineKind
		if err := json.Unmarshal(data, &back); err != nil || back != k {
			t.Errorf("%s: got %v, %v", data, back, err)
		}
	}
	var k InterestLineKind
	if err := json.Unmarshal([]byte(`"mul"`), &k); err == nil {
		t.Error("unknown kind should fail")
	}
}

func TestAdjustmentKindSign(t *testing.T) {
	if AdjustmentAdd.Sign() != 1 || AdjustmentSubtract.Sign() != -1 {
		t.Error("wrong signs")
	}
	var k AdjustmentKind
	if err := json.Unmarshal([]byte(`"sub"`), &k); err != nil || k != AdjustmentSubtract {
		t.Errorf("sub = %v, %v", k, err)
	}
	if err := json.Unmarshal([]byte(`"minus"`), &k); err == nil {
		t.Error("unknown kind should fail")
	}
}
