package wire

import (
	"testing"

	"github.com/mrstraders/paddybill/internal/config"
	"github.com/mrstraders/paddybill/internal/receipt"
)

func TestLabels(t *testing.T) {
	cfg := config.ReceiptConfig{
		Bags:            "bags",
		Tare:            "tare",
		Labour:          "labour",
		Rate:            "rate",
		AddedNote:       "added",
		PaidNote:        "paid",
		InterestHeading: "interest",
		Footer:          "thanks",
	}
	want := receipt.Labels{
		Bags:            "bags",
		Tare:            "tare",
		Labour:          "labour",
		Rate:            "rate",
		AddedNote:       "added",
		PaidNote:        "paid",
		InterestHeading: "interest",
		Footer:          "thanks",
	}
	if got := Labels(cfg); got != want {
		t.Errorf("Labels = %+v, want %+v", got, want)
	}
	if got := Labels(config.ReceiptConfig{}); got != (receipt.Labels{}) {
		t.Errorf("empty config gave %+v", got)
	}
}
