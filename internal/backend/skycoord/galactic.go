// Package skycoord converts equatorial (ICRS) sky positions into the
// galactic frame.
//
// The conversion is the fixed rotation published with the Hipparcos
// catalogue (ESA SP-1200, Vol. 1, Sect. 1.5.3), extended to full double
// precision. It places the north galactic pole at RA 192.85948°, Dec 27.12825°
// and the galactic centre at l = 0 on the galactic equator.
package skycoord

import (
	"fmt"
	"math"

	"github.com/jo-hoe/skymap/internal/common"
)

// Galactic is a galactic position in degrees, L in [0,360), B in [-90,90]
type Galactic struct {
	L float64
	B float64
}

// icrsToGalactic rotates ICRS unit vectors into the galactic frame
var icrsToGalactic = [3][3]float64{
	{-0.0548755604162154, -0.8734370902348850, -0.4838350155487132},
	{+0.4941094278755837, -0.4448296299600112, +0.7469822444972189},
	{-0.8676661490190047, -0.1980763734312015, +0.4559837761750669},
}

// ICRSToGalactic converts right ascension and declination in degrees into
// galactic longitude and latitude in degrees.
func ICRSToGalactic(raDeg, decDeg float64) (Galactic, error) {
	if math.IsNaN(raDeg) || math.IsInf(raDeg, 0) || math.IsNaN(decDeg) || math.IsInf(decDeg, 0) {
		return Galactic{}, fmt.Errorf("%w: non-finite coordinate ra=%v dec=%v", common.ErrConversion, raDeg, decDeg)
	}
	if decDeg < -90 || decDeg > 90 {
		return Galactic{}, fmt.Errorf("%w: declination %v outside [-90, 90]", common.ErrConversion, decDeg)
	}

	ra := raDeg * math.Pi / 180
	dec := decDeg * math.Pi / 180
	v := [3]float64{
		math.Cos(dec) * math.Cos(ra),
		math.Cos(dec) * math.Sin(ra),
		math.Sin(dec),
	}

	var g [3]float64
	for i := range g {
		g[i] = icrsToGalactic[i][0]*v[0] + icrsToGalactic[i][1]*v[1] + icrsToGalactic[i][2]*v[2]
	}

	b := math.Asin(clamp(g[2], -1, 1)) * 180 / math.Pi
	l := NormalizeLongitude(math.Atan2(g[1], g[0]) * 180 / math.Pi)
	return Galactic{L: l, B: b}, nil
}

// NormalizeLongitude wraps an angle in degrees into [0, 360)
func NormalizeLongitude(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
