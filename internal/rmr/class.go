package rmr

// Class is the discrete rock mass quality class derived from a total RMR
// score.
type Class int

// Quality classes in decreasing order of rock mass quality.
const (
	ClassI Class = iota + 1
	ClassII
	ClassIII
	ClassIV
	ClassV
)

// Classify maps a total RMR score to its quality class. The same bands apply
// to station totals and family totals.
func Classify(total float64) Class {
	switch {
	case total >= 81:
		return ClassI
	case total >= 61:
		return ClassII
	case total >= 41:
		return ClassIII
	case total >= 21:
		return ClassIV
	default:
		return ClassV
	}
}

// String returns the roman-numeral class name.
func (c Class) String() string {
	switch c {
	case ClassI:
		return "I"
	case ClassII:
		return "II"
	case ClassIII:
		return "III"
	case ClassIV:
		return "IV"
	case ClassV:
		return "V"
	}
	return "unknown"
}

// Description returns the standard descriptive label for the class.
func (c Class) Description() string {
	switch c {
	case ClassI:
		return "very good rock"
	case ClassII:
		return "good rock"
	case ClassIII:
		return "fair rock"
	case ClassIV:
		return "poor rock"
	case ClassV:
		return "very poor rock"
	}
	return "unknown"
}

// Label returns the combined display label, e.g. "Class II - good rock".
func (c Class) Label() string {
	return "Class " + c.String() + " - " + c.Description()
}
