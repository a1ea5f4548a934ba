package freight

import (
	"strings"

	"go.uber.org/zap"
)

// fieldOutcome is the result of normalizing one (key, value) pair.
type fieldOutcome int

const (
	fieldApplied   fieldOutcome = iota // value accepted onto the record
	fieldDropped                       // recognized key, malformed value
	fieldDefaulted                     // recognized key, fallback value used
	fieldIgnored                       // unrecognized key
)

const defaultAxleCount = 5

// record accumulates fields during a parse pass. Pointers distinguish
// "absent" from zero values; only validate turns a record into a Request.
type record struct {
	origin       *Location
	stuffingDest *Location
	destination  *Location
	species      *string
	weightKg     *float64
	volumeM3     *float64
	cargoValue   *float64
	axleCount    *int
}

// Parser turns the generation service's key/value response text into a
// validated Request.
type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log}
}

// Parse consumes the full response text line by line. A line without a colon
// is skipped with a diagnostic; duplicate keys are last-write-wins. Parse
// only fails after all lines are consumed, based on which required fields
// ended up populated.
func (p *Parser) Parse(text string) (*Request, error) {
	rec := &record{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		label, value, found := strings.Cut(line, ":")
		if !found {
			p.log.Warn("malformed line without separator", zap.String("line", line))
			continue
		}
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)
		key := FoldKey(label)

		switch p.applyField(rec, key, value) {
		case fieldApplied:
			p.log.Debug("field captured", zap.String("key", key), zap.String("value", value))
		case fieldDropped:
			p.log.Warn("malformed field value dropped", zap.String("key", key), zap.String("value", value))
		case fieldDefaulted:
			p.log.Warn("axle count not found, using default",
				zap.String("value", value), zap.Int("default", defaultAxleCount))
		case fieldIgnored:
			p.log.Warn("unrecognized key", zap.String("label", label))
		}
	}

	// The destination concept is always the stuffing/loading destination in
	// this domain; expose it under the plain name.
	if rec.destination == nil && rec.stuffingDest != nil {
		rec.destination = rec.stuffingDest
	}

	p.inferAxles(rec)

	return validate(rec)
}

// applyField routes one folded key to its normalization rule.
func (p *Parser) applyField(rec *record, key, value string) fieldOutcome {
	switch key {
	case "origem":
		loc, ok := ParseLocation(value)
		if !ok {
			return fieldDropped
		}
		rec.origin = &loc
	case "destino_estufagem":
		loc, ok := ParseLocation(value)
		if !ok {
			return fieldDropped
		}
		rec.stuffingDest = &loc
	case "especie", "espécie":
		s := value
		rec.species = &s
	case "peso":
		n, ok := ParseNumber(value)
		if !ok {
			return fieldDropped
		}
		rec.weightKg = &n
	case "volume":
		return applyOptionalNumber(value, &rec.volumeM3)
	case "valor_da_mercadoria":
		return applyOptionalNumber(value, &rec.cargoValue)
	case "eixos":
		n, ok := ParseInt(value)
		if !ok {
			n = defaultAxleCount
			rec.axleCount = &n
			return fieldDefaulted
		}
		rec.axleCount = &n
	default:
		return fieldIgnored
	}
	return fieldApplied
}

// applyOptionalNumber handles volume and cargo value: an explicit
// "not provided" sentinel normalizes to zero, an unparseable value is
// dropped (never defaulted to zero on parse failure).
func applyOptionalNumber(value string, dst **float64) fieldOutcome {
	if IsNotProvided(value) {
		zero := 0.0
		*dst = &zero
		return fieldApplied
	}
	n, ok := ParseNumber(value)
	if !ok {
		return fieldDropped
	}
	*dst = &n
	return fieldApplied
}

// inferAxles fills the axle count from the cargo weight when no axle line
// appeared at all, using the banding the quotation domain prescribes.
// When the weight is also unknown the field stays missing so validation
// reports it.
func (p *Parser) inferAxles(rec *record) {
	if rec.axleCount != nil || rec.weightKg == nil {
		return
	}
	var n int
	switch w := *rec.weightKg; {
	case w > 25000:
		n = 6
	case w > 20000:
		n = 5
	case w > 12000:
		n = 4
	default:
		n = 3
	}
	rec.axleCount = &n
	p.log.Info("axle count inferred from weight",
		zap.Float64("weight_kg", *rec.weightKg), zap.Int("axles", n))
}
