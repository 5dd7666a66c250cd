package billing

import (
	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var quintal = decimal.NewFromInt(100)

// CalcInput is everything the paddy totals depend on.
type CalcInput struct {
	Entries          []entity.WeighingEntry
	TarePerBag       decimal.Decimal
	Rate             decimal.Decimal
	LabourRatePerBag decimal.Decimal
	Adjustments      []entity.Adjustment
}

// Calculate derives the paddy bill totals. It is pure and total: the same
// input always yields the same result and no input makes it fail.
func Calculate(in CalcInput) entity.CalculationResult {
	totalWeight := decimal.Zero
	totalBags := 0
	for _, e := range in.Entries {
		totalWeight = totalWeight.Add(e.Weight)
		totalBags += e.Bags
	}

	bags := decimal.NewFromInt(int64(totalBags))
	tare := bags.Mul(in.TarePerBag)
	net := totalWeight.Sub(tare)
	gross := net.Div(quintal).Mul(in.Rate)
	labour := bags.Mul(in.LabourRatePerBag)
	afterLabour := gross.Sub(labour)

	return entity.CalculationResult{
		TotalWeight:    totalWeight,
		TotalBags:      totalBags,
		TareWeight:     tare,
		NetWeight:      net,
		GrossAmount:    gross,
		TotalLabour:    labour,
		NetAfterLabour: afterLabour,
		FinalAmount:    afterLabour.Add(SumAdjustments(in.Adjustments)),
	}
}

// CalculateForm coerces the raw form and calculates its totals.
func CalculateForm(f PaddyForm) entity.CalculationResult {
	return Calculate(f.calcInput())
}
