package cutplan

// CutRegion is an internal candidate (or merged) cut interval, carrying
// provenance about why it was selected. isFiller participates in merge
// tie-breaking and is never serialized.
type CutRegion struct {
	Start    float64
	End      float64
	Reason   string
	IsFiller bool
}

func (r CutRegion) duration() float64 {
	return r.End - r.Start
}
