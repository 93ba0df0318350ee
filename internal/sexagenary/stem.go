// Package sexagenary provides the fixed symbol tables of the sexagenary cycle:
// the ten heavenly stems, the twelve earthly branches, and the lookups keyed
// on them (zodiac animals, hidden stems, Nayin, five elements).
package sexagenary

import "fmt"

// Stem is one of the ten heavenly stems. Its value is the ordinal index 0–9
// used in all cycle arithmetic.
type Stem int

const (
	StemJia Stem = iota
	StemYi
	StemBing
	StemDing
	StemWu
	StemJi
	StemGeng
	StemXin
	StemRen
	StemGui
)

// StemCount is the length of the stem cycle.
const StemCount = 10

var stemNames = [StemCount]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

var stemPinyin = [StemCount]string{"Jia", "Yi", "Bing", "Ding", "Wu", "Ji", "Geng", "Xin", "Ren", "Gui"}

// StemAt returns the stem for any integer position in the cycle.
// The position is reduced with a floored modulus, so negative values
// (years before the anchor, for example) wrap instead of going out of range.
func StemAt(i int) Stem {
	return Stem(Mod(i, StemCount))
}

// Stems returns all ten stems in cycle order.
func Stems() []Stem {
	out := make([]Stem, StemCount)
	for i := range out {
		out[i] = Stem(i)
	}
	return out
}

// Index returns the ordinal of the stem, 0–9.
func (s Stem) Index() int {
	return int(s)
}

// Valid reports whether s is one of the ten stems.
func (s Stem) Valid() bool {
	return s >= StemJia && s <= StemGui
}

// String returns the Chinese character of the stem.
func (s Stem) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stem(%d)", int(s))
	}
	return stemNames[s]
}

// Pinyin returns the romanized name of the stem.
func (s Stem) Pinyin() string {
	if !s.Valid() {
		return ""
	}
	return stemPinyin[s]
}

// Element returns the five-element phase of the stem. Stems pair up:
// Jia/Yi wood, Bing/Ding fire, Wu/Ji earth, Geng/Xin metal, Ren/Gui water.
func (s Stem) Element() Element {
	return Element(int(s) / 2)
}

// Yang reports whether the stem has yang polarity (even ordinals).
func (s Stem) Yang() bool {
	return int(s)%2 == 0
}

// MarshalText encodes the stem as its Chinese character.
func (s Stem) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid stem %d", int(s))
	}
	return []byte(stemNames[s]), nil
}

// UnmarshalText accepts either the Chinese character or the pinyin name.
func (s *Stem) UnmarshalText(text []byte) error {
	v := string(text)
	for i := 0; i < StemCount; i++ {
		if stemNames[i] == v || stemPinyin[i] == v {
			*s = Stem(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stem %q", v)
}

// Mod is a floored modulus: the result always has the sign of n.
func Mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
