package freight

// Location is a Brazilian city/state pair as used by the routing API.
type Location struct {
	City  string
	State string
}

// Request is a validated freight quote request extracted from an email.
// It is only ever constructed by the parser once every required field is
// present; callers never see a partially populated Request.
type Request struct {
	Origin      Location
	Destination Location
	Species     string
	WeightKg    float64
	VolumeM3    float64
	CargoValue  float64
	AxleCount   int
}
