package roslib

import (
	"fmt"
	"strconv"
	"strings"
)

// Per-base expansion bounds. Every major.minor base is expanded into the
// base itself, patches 1..maxPatch, and rc/beta pre-releases 1..maxPre
// for each patch.
const (
	maxPatch = 20
	maxPre   = 5
)

// VersionRange describes an inclusive range of major.minor release pairs.
type VersionRange struct {
	StartMajor int
	StartMinor int
	EndMajor   int
	EndMinor   int
}

// ParseVersionRange parses range bounds given as "major.minor" strings.
// A missing minor defaults to 0 on the start bound and 50 on the end bound.
func ParseVersionRange(start, end string) (VersionRange, error) {
	sMaj, sMin, err := parseBound(start, 0)
	if err != nil {
		return VersionRange{}, fmt.Errorf("start version %q: %w", start, err)
	}
	eMaj, eMin, err := parseBound(end, 50)
	if err != nil {
		return VersionRange{}, fmt.Errorf("end version %q: %w", end, err)
	}
	r := VersionRange{
		StartMajor: sMaj,
		StartMinor: sMin,
		EndMajor:   eMaj,
		EndMinor:   eMin,
	}
	if eMaj < sMaj {
		return VersionRange{}, fmt.Errorf("end version %q precedes start version %q", end, start)
	}
	return r, nil
}

func parseBound(s string, defMinor int) (major, minor int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ".", 2)
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid major: %w", err)
	}
	minor = defMinor
	if len(parts) > 1 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid minor: %w", err)
		}
	}
	return major, minor, nil
}

// minorBounds returns the inclusive minor range for one major inside r.
func (r VersionRange) minorBounds(major int) (lo, hi int) {
	lo, hi = 0, 99
	if major == r.StartMajor {
		lo = r.StartMinor
	}
	if major == r.EndMajor {
		hi = r.EndMinor
	}
	return lo, hi
}

// Generate produces the ordered candidate version space for the range.
// The output is intentionally over-complete; the existence probe is
// responsible for filtering it down to published releases. No I/O.
func (r VersionRange) Generate() []string {
	versions := make([]string, 0, r.Count())
	for major := r.StartMajor; major <= r.EndMajor; major++ {
		lo, hi := r.minorBounds(major)
		for minor := lo; minor <= hi; minor++ {
			base := fmt.Sprintf("%d.%d", major, minor)
			versions = append(versions, base)
			for patch := 1; patch <= maxPatch; patch++ {
				pv := fmt.Sprintf("%s.%d", base, patch)
				versions = append(versions, pv)
				for rc := 1; rc <= maxPre; rc++ {
					versions = append(versions, fmt.Sprintf("%src%d", pv, rc))
				}
				for beta := 1; beta <= maxPre; beta++ {
					versions = append(versions, fmt.Sprintf("%sbeta%d", pv, beta))
				}
			}
		}
	}
	return versions
}

// Count returns len(r.Generate()) without materializing the slice.
func (r VersionRange) Count() int {
	perBase := 1 + maxPatch*(1+2*maxPre)
	var pairs int
	for major := r.StartMajor; major <= r.EndMajor; major++ {
		lo, hi := r.minorBounds(major)
		if hi >= lo {
			pairs += hi - lo + 1
		}
	}
	return pairs * perBase
}
