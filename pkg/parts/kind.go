package parts

// Kind identifies the stage a part occupies in the signal chain. The set is
// closed and audited: signal flows antenna-first, digitizer-last, and a legal
// connection always steps exactly one rank forward.
type Kind uint8

const (
	Antenna Kind = iota
	LNA
	CoaxShort
	CoaxLong
	Backplane
	Snap
)

// kindCodes maps each kind to the code prefix used in part identifiers.
var kindCodes = [...]string{
	Antenna:   "ANT",
	LNA:       "LNA",
	CoaxShort: "CXS",
	CoaxLong:  "CXL",
	Backplane: "BAC",
	Snap:      "SNAP",
}

// KindCount is the number of distinct kinds, which also bounds chain length.
const KindCount = len(kindCodes)

// Code returns the identifier prefix for the kind.
func (k Kind) Code() string {
	if int(k) < len(kindCodes) {
		return kindCodes[k]
	}
	return "UNKNOWN"
}

func (k Kind) String() string {
	switch k {
	case Antenna:
		return "ANTENNA"
	case LNA:
		return "LNA"
	case CoaxShort:
		return "COAXSHORT"
	case CoaxLong:
		return "COAXLONG"
	case Backplane:
		return "BACBOARD"
	case Snap:
		return "SNAP"
	default:
		return "UNKNOWN"
	}
}

// Rank returns the kind's position in the wiring sequence.
func (k Kind) Rank() int {
	return int(k)
}

// Next returns the only kind a part of this kind may connect to, and false
// for Snap, which terminates every chain.
func (k Kind) Next() (Kind, bool) {
	if k >= Snap {
		return 0, false
	}
	return k + 1, true
}

// Follows reports whether target is exactly one rank after k.
func Follows(k, target Kind) bool {
	next, ok := k.Next()
	return ok && next == target
}

// KindForCode resolves an identifier prefix back to its kind.
func KindForCode(code string) (Kind, bool) {
	for k, c := range kindCodes {
		if c == code {
			return Kind(k), true
		}
	}
	return 0, false
}
