package freight

import "strings"

// ParseError reports every required field still missing after a parse pass.
type ParseError struct {
	Missing []string
}

func (e *ParseError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// validate checks the accumulated record against the required-field set and
// freezes it into an immutable Request. The failure names all missing
// fields, not just the first.
func validate(rec *record) (*Request, error) {
	var missing []string
	if rec.origin == nil {
		missing = append(missing, "origem")
	}
	if rec.destination == nil {
		missing = append(missing, "destino")
	}
	if rec.weightKg == nil {
		missing = append(missing, "peso")
	}
	if rec.axleCount == nil {
		missing = append(missing, "eixos_necessarios")
	}
	if len(missing) > 0 {
		return nil, &ParseError{Missing: missing}
	}

	req := &Request{
		Origin:      *rec.origin,
		Destination: *rec.destination,
		WeightKg:    *rec.weightKg,
		AxleCount:   *rec.axleCount,
	}
	if rec.species != nil {
		req.Species = *rec.species
	}
	if rec.volumeM3 != nil {
		req.VolumeM3 = *rec.volumeM3
	}
	if rec.cargoValue != nil {
		req.CargoValue = *rec.cargoValue
	}
	return req, nil
}
