package receipt

// Labels are the words printed on bills. The defaults are the Kannada terms
// the shop's customers read.
type Labels struct {
	Bags            string
	Tare            string
	Labour          string
	Rate            string
	AddedNote       string
	PaidNote        string
	InterestHeading string
	Footer          string
}

// DefaultLabels returns the stock bill vocabulary.
func DefaultLabels() Labels {
	return Labels{
		Bags:            "ಚೀಲ",
		Tare:            "ಪೆಚ್ಚು",
		Labour:          "ಹಮಾಲಿ",
		Rate:            "ದರ",
		AddedNote:       "Added",
		PaidNote:        "Paid by Cash",
		InterestHeading: "Interest / Breakdown",
		Footer:          "0000000",
	}
}

// withDefaults fills every blank label from DefaultLabels.
func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Labels{
		Bags:            pick(l.Bags, d.Bags),
		Tare:            pick(l.Tare, d.Tare),
		Labour:          pick(l.Labour, d.Labour),
		Rate:            pick(l.Rate, d.Rate),
		AddedNote:       pick(l.AddedNote, d.AddedNote),
		PaidNote:        pick(l.PaidNote, d.PaidNote),
		InterestHeading: pick(l.InterestHeading, d.InterestHeading),
		Footer:          pick(l.Footer, d.Footer),
	}
}
