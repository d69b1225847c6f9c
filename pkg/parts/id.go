package parts

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Polarization distinguishes the two independent signal paths that share an
// antenna base. Snap boards carry no polarization.
type Polarization uint8

const (
	PolNone Polarization = iota
	Pol1
	Pol2
)

func (p Polarization) String() string {
	switch p {
	case Pol1:
		return "P1"
	case Pol2:
		return "P2"
	default:
		return ""
	}
}

// Polarizations lists the two real polarizations in tag order.
var Polarizations = [2]Polarization{Pol1, Pol2}

// SnapAddress is the physical coordinate triple encoded in a Snap identifier.
type SnapAddress struct {
	Chassis int
	Slot    string
	Port    int
}

func (a SnapAddress) String() string {
	return fmt.Sprintf("SNAP%d%s%02d", a.Chassis, a.Slot, a.Port)
}

// Part is a parsed part identifier. Exactly one of Serial or Snap is
// meaningful, depending on Kind.
type Part struct {
	ID           string
	Kind         Kind
	Polarization Polarization
	Serial       int
	Snap         SnapAddress
}

var (
	ErrMalformedID = errors.New("malformed part identifier")

	serialIDPattern = regexp.MustCompile(`^(ANT|LNA|CXS|CXL|BAC)(\d{5})(P[12])$`)
	snapIDPattern   = regexp.MustCompile(`^SNAP(\d+)([A-Z])(\d{2})$`)
)

// ParseID parses a part identifier into its components. Serial-suffixed
// parts look like ANT00001P1; Snap parts encode (chassis, slot, port) as in
// SNAP1A05.
func ParseID(id string) (Part, error) {
	if m := serialIDPattern.FindStringSubmatch(id); m != nil {
		kind, ok := KindForCode(m[1])
		if !ok {
			return Part{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
		}
		serial, err := strconv.Atoi(m[2])
		if err != nil {
			return Part{}, fmt.Errorf("%w: %q: %v", ErrMalformedID, id, err)
		}
		pol := Pol1
		if m[3] == "P2" {
			pol = Pol2
		}
		return Part{ID: id, Kind: kind, Polarization: pol, Serial: serial}, nil
	}

	if m := snapIDPattern.FindStringSubmatch(id); m != nil {
		chassis, err := strconv.Atoi(m[1])
		if err != nil {
			return Part{}, fmt.Errorf("%w: %q: %v", ErrMalformedID, id, err)
		}
		port, err := strconv.Atoi(m[3])
		if err != nil {
			return Part{}, fmt.Errorf("%w: %q: %v", ErrMalformedID, id, err)
		}
		return Part{
			ID:   id,
			Kind: Snap,
			Snap: SnapAddress{Chassis: chassis, Slot: m[2], Port: port},
		}, nil
	}

	return Part{}, fmt.Errorf("%w: %q", ErrMalformedID, id)
}

// MakeID renders the canonical identifier for a serial-suffixed part.
func MakeID(kind Kind, serial int, pol Polarization) string {
	return fmt.Sprintf("%s%05d%s", kind.Code(), serial, pol)
}

// AntennaID renders the polarized identifier for an antenna base like
// "ANT00001".
func AntennaID(base string, pol Polarization) string {
	return base + pol.String()
}

// IsAntennaBase reports whether id is a bare antenna base identifier
// (kind code + serial, no polarization tag).
func IsAntennaBase(id string) bool {
	return strings.HasPrefix(id, "ANT") && len(id) == 8 && !strings.HasSuffix(id, "P1") && !strings.HasSuffix(id, "P2")
}
