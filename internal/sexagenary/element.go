package sexagenary

// Element is one of the five phases, in generating order.
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

var elementNames = [5]string{"木", "火", "土", "金", "水"}

func (e Element) String() string {
	if e < Wood || e > Water {
		return ""
	}
	return elementNames[e]
}

// Generates reports whether e produces other in the generating cycle
// (wood feeds fire, fire makes earth, and so on).
func (e Element) Generates(other Element) bool {
	return Element(Mod(int(e)+1, 5)) == other
}

// Controls reports whether e overcomes other in the controlling cycle
// (wood parts earth, earth dams water, and so on).
func (e Element) Controls(other Element) bool {
	return Element(Mod(int(e)+2, 5)) == other
}
