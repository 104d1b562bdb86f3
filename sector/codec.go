// sector/codec.go
// Copyright(c) 2025 sectorkit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sector

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sectorkit/sectorkit/math"
)

// Kind records which axes a decoded coordinate token resolved.
type Kind int

const (
	// Bare is a decimal number without a hemisphere marker; which axis it
	// belongs to is decided by its position in a lat/lon pair.
	Bare Kind = iota
	LatitudeOnly
	LongitudeOnly
	Both
)

func (k Kind) String() string {
	switch k {
	case Bare:
		return "bare"
	case LatitudeOnly:
		return "latitude"
	case LongitudeOnly:
		return "longitude"
	case Both:
		return "latitude/longitude"
	default:
		return "invalid"
	}
}

// PartialCoordinate is the result of decoding a single coordinate token.
// Latitude and Longitude are set according to Kind; Value holds the
// single decoded number for Bare, LatitudeOnly and LongitudeOnly.
type PartialCoordinate struct {
	Kind      Kind
	Latitude  float64
	Longitude float64
	Value     float64
}

var (
	// e.g. 51°30'12.5"N, 51 30'N
	reSexagesimal = regexp.MustCompile(`^(\d{1,3})\s*(?:°|º|[dD]|\s)\s*(\d{1,2}(?:\.\d+)?)'\s*(?:(\d{1,2}(?:\.\d+)?)(?:"|''))?\s*([NSEWnsew])$`)
	// pair of floats separated by a comma and/or whitespace
	reDecimalPair = regexp.MustCompile(`^([-+]?\d+(?:\.\d+)?)\s*[,\s]\s*([-+]?\d+(?:\.\d+)?)$`)
	reDecimal     = regexp.MustCompile(`^[-+]?(?:\d+(?:\.\d*)?|\.\d+)$`)
)

func hemisphere(c byte) (byte, bool) {
	switch c {
	case 'N', 'n':
		return 'N', true
	case 'S', 's':
		return 'S', true
	case 'E', 'e':
		return 'E', true
	case 'W', 'w':
		return 'W', true
	}
	return 0, false
}

func signedAxis(h byte, v float64) PartialCoordinate {
	if h == 'S' || h == 'W' {
		v = -v
	}
	if h == 'N' || h == 'S' {
		return PartialCoordinate{Kind: LatitudeOnly, Latitude: v, Value: v}
	}
	return PartialCoordinate{Kind: LongitudeOnly, Longitude: v, Value: v}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) float64 {
	v, _ := strconv.Atoi(s) // callers have checked allDigits
	return float64(v)
}

// dottedDegrees parses the part of a dotted DMS token after the hemisphere
// marker: D.M.S.F, or the compact D.MMSS[ff].F form where the minutes
// group also carries the seconds. F is always read as thousandths of a
// second, whatever its length.
func dottedDegrees(body string) (float64, bool) {
	g := strings.Split(body, ".")
	for _, s := range g {
		if !allDigits(s) {
			return 0, false
		}
	}

	switch len(g) {
	case 4:
		return atoi(g[0]) + atoi(g[1])/60 + (atoi(g[2])+atoi(g[3])/1000)/3600, true

	case 3:
		if len(g[1]) != 4 && len(g[1]) != 6 {
			return 0, false
		}
		min, sec := atoi(g[1][:2]), atoi(g[1][2:4])
		if len(g[1]) == 6 {
			sec += atoi(g[1][4:]) / 100
		}
		sec += atoi(g[2]) / 1000
		return atoi(g[0]) + min/60 + sec/3600, true
	}
	return 0, false
}

// decodeDotted handles hemisphere-prefixed or -suffixed dotted DMS, e.g.
// N040.37.58.400 or 040.37.58.400N.
func decodeDotted(text string, allowSuffix bool) (PartialCoordinate, bool) {
	if len(text) < 2 {
		return PartialCoordinate{}, false
	}
	if h, ok := hemisphere(text[0]); ok {
		if v, ok := dottedDegrees(text[1:]); ok {
			return signedAxis(h, v), true
		}
	}
	if h, ok := hemisphere(text[len(text)-1]); ok && allowSuffix {
		if v, ok := dottedDegrees(text[:len(text)-1]); ok {
			return signedAxis(h, v), true
		}
	}
	return PartialCoordinate{}, false
}

func decodeSexagesimal(text string) (PartialCoordinate, bool) {
	m := reSexagesimal.FindStringSubmatch(text)
	if m == nil {
		return PartialCoordinate{}, false
	}
	deg, _ := strconv.ParseFloat(m[1], 64)
	min, _ := strconv.ParseFloat(m[2], 64)
	var sec float64
	if m[3] != "" {
		sec, _ = strconv.ParseFloat(m[3], 64)
	}
	h, _ := hemisphere(m[4][0])
	return signedAxis(h, deg+min/60+sec/3600), true
}

func inRange(pc PartialCoordinate) bool {
	switch pc.Kind {
	case LatitudeOnly:
		return math.Abs(pc.Latitude) <= 90
	case LongitudeOnly, Bare:
		return math.Abs(pc.Value) <= 180
	case Both:
		return math.NewPoint2LL(pc.Latitude, pc.Longitude).Valid()
	}
	return false
}

// Decode decodes a single coordinate token. The encodings are tried in
// order: dotted DMS with a hemisphere prefix or suffix, sexagesimal
// notation with a hemisphere suffix, a pair of decimal numbers
// (latitude first), and finally a bare decimal number.
func Decode(text string) (PartialCoordinate, error) {
	t := strings.TrimSpace(text)

	pc, ok := decodeDotted(t, true)
	if !ok {
		pc, ok = decodeSexagesimal(t)
	}
	if !ok {
		if m := reDecimalPair.FindStringSubmatch(t); m != nil {
			lat, _ := strconv.ParseFloat(m[1], 64)
			lon, _ := strconv.ParseFloat(m[2], 64)
			pc, ok = PartialCoordinate{Kind: Both, Latitude: lat, Longitude: lon}, true
		}
	}
	if !ok && reDecimal.MatchString(t) {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return PartialCoordinate{}, &CoordinateDecodeError{Text: text, Err: err}
		}
		pc, ok = PartialCoordinate{Kind: Bare, Value: v}, true
	}

	if !ok {
		return PartialCoordinate{}, &CoordinateDecodeError{Text: text}
	}
	if !inRange(pc) {
		return PartialCoordinate{}, &CoordinateDecodeError{Text: text, Err: ErrOutOfRange}
	}
	return pc, nil
}

// IsDottedDMS reports whether text is a hemisphere-prefixed dotted DMS
// latitude or longitude, e.g. N040.37.58.400.
func IsDottedDMS(text string) bool {
	_, ok := decodeDotted(text, false)
	return ok
}

// resolvePair combines two decoded tokens into a position following the
// two-field lat/lon convention.
func resolvePair(a, b PartialCoordinate) (math.Point2LL, bool) {
	var lat, lon float64
	switch {
	case a.Kind == LatitudeOnly && b.Kind == LongitudeOnly:
		lat, lon = a.Latitude, b.Longitude
	case a.Kind == LongitudeOnly && b.Kind == LatitudeOnly:
		lat, lon = b.Latitude, a.Longitude
	case a.Kind == Bare && b.Kind == Bare:
		lat, lon = a.Value, b.Value
	case a.Kind == LatitudeOnly && b.Kind == Bare:
		lat, lon = a.Latitude, b.Value
	case a.Kind == Bare && b.Kind == LongitudeOnly:
		lat, lon = a.Value, b.Longitude
	case a.Kind == LongitudeOnly && b.Kind == Bare:
		lat, lon = b.Value, a.Longitude
	case a.Kind == Bare && b.Kind == LatitudeOnly:
		lat, lon = b.Latitude, a.Value
	default:
		return math.Point2LL{}, false
	}
	p := math.NewPoint2LL(lat, lon)
	return p, p.Valid()
}

// DecodePair decodes a latitude/longitude given as two tokens.
func DecodePair(a, b string) (math.Point2LL, error) {
	var d *Decoder
	return d.DecodePair(a, b)
}

// FormatDMS returns p as hemisphere-prefixed dotted DMS latitude and
// longitude tokens separated by a space, e.g. "N051.30.12.500
// W000.07.39.000". Splitting the result and passing it to DecodePair
// recovers p to within a thousandth of a second.
func FormatDMS(p math.Point2LL) string {
	return p.DMSString()
}

///////////////////////////////////////////////////////////////////////////
// Decoder

type decoded struct {
	pc  PartialCoordinate
	err error
}

// Decoder memoizes Decode results. Boundary data repeats the same tokens
// many times, so each parse creates its own Decoder; it must not be shared
// between concurrent parses. A nil *Decoder decodes without memoization.
type Decoder struct {
	memo         map[string]decoded
	hits, misses int
}

func NewDecoder() *Decoder {
	return &Decoder{memo: make(map[string]decoded)}
}

func (d *Decoder) Decode(text string) (PartialCoordinate, error) {
	if d == nil {
		return Decode(text)
	}
	if r, ok := d.memo[text]; ok {
		d.hits++
		return r.pc, r.err
	}
	d.misses++
	pc, err := Decode(text)
	d.memo[text] = decoded{pc: pc, err: err}
	return pc, err
}

func (d *Decoder) DecodePair(a, b string) (math.Point2LL, error) {
	pa, err := d.Decode(a)
	if err != nil {
		return math.Point2LL{}, err
	}
	pb, err := d.Decode(b)
	if err != nil {
		return math.Point2LL{}, err
	}
	if p, ok := resolvePair(pa, pb); ok {
		return p, nil
	}
	return math.Point2LL{}, &CoordinateDecodeError{Text: a + " " + b, Err: ErrUnresolved}
}

// Stats returns the number of memoized and computed decodes.
func (d *Decoder) Stats() (hits, misses int) {
	if d == nil {
		return 0, 0
	}
	return d.hits, d.misses
}
