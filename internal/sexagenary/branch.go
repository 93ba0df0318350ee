package sexagenary

import "fmt"

// Branch is one of the twelve earthly branches, ordinal 0–11.
type Branch int

const (
	BranchZi Branch = iota
	BranchChou
	BranchYin
	BranchMao
	BranchChen
	BranchSi
	BranchWu
	BranchWei
	BranchShen
	BranchYou
	BranchXu
	BranchHai
)

// BranchCount is the length of the branch cycle.
const BranchCount = 12

var branchNames = [BranchCount]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

var branchPinyin = [BranchCount]string{"Zi", "Chou", "Yin", "Mao", "Chen", "Si", "Wu", "Wei", "Shen", "You", "Xu", "Hai"}

var zodiacAnimals = [BranchCount]string{"鼠", "牛", "虎", "兔", "龙", "蛇", "马", "羊", "猴", "鸡", "狗", "猪"}

// hiddenStems is the fixed branch -> hidden stems table. The first entry of
// each list is the principal qi.
var hiddenStems = [BranchCount][]Stem{
	BranchZi:   {StemGui},
	BranchChou: {StemJi, StemGui, StemXin},
	BranchYin:  {StemJia, StemBing, StemWu},
	BranchMao:  {StemYi},
	BranchChen: {StemWu, StemYi, StemGui},
	BranchSi:   {StemBing, StemGeng, StemWu},
	BranchWu:   {StemDing, StemJi},
	BranchWei:  {StemJi, StemDing, StemYi},
	BranchShen: {StemGeng, StemRen, StemWu},
	BranchYou:  {StemXin},
	BranchXu:   {StemWu, StemXin, StemDing},
	BranchHai:  {StemRen, StemJia},
}

// BranchAt returns the branch for any integer position in the cycle,
// reduced with a floored modulus.
func BranchAt(i int) Branch {
	return Branch(Mod(i, BranchCount))
}

// Branches returns all twelve branches in cycle order.
func Branches() []Branch {
	out := make([]Branch, BranchCount)
	for i := range out {
		out[i] = Branch(i)
	}
	return out
}

// Index returns the ordinal of the branch, 0–11.
func (b Branch) Index() int {
	return int(b)
}

// Valid reports whether b is one of the twelve branches.
func (b Branch) Valid() bool {
	return b >= BranchZi && b <= BranchHai
}

// String returns the Chinese character of the branch.
func (b Branch) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Branch(%d)", int(b))
	}
	return branchNames[b]
}

// Pinyin returns the romanized name of the branch.
func (b Branch) Pinyin() string {
	if !b.Valid() {
		return ""
	}
	return branchPinyin[b]
}

// Zodiac returns the Chinese zodiac animal of the branch.
func (b Branch) Zodiac() string {
	if !b.Valid() {
		return ""
	}
	return zodiacAnimals[b]
}

// HiddenStems returns the stems hidden in the branch. The returned slice is
// a copy; callers may keep or modify it.
func (b Branch) HiddenStems() []Stem {
	if !b.Valid() {
		return nil
	}
	out := make([]Stem, len(hiddenStems[b]))
	copy(out, hiddenStems[b])
	return out
}

// MarshalText encodes the branch as its Chinese character.
func (b Branch) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid branch %d", int(b))
	}
	return []byte(branchNames[b]), nil
}

// UnmarshalText accepts either the Chinese character or the pinyin name.
func (b *Branch) UnmarshalText(text []byte) error {
	v := string(text)
	for i := 0; i < BranchCount; i++ {
		if branchNames[i] == v || branchPinyin[i] == v {
			*b = Branch(i)
			return nil
		}
	}
	return fmt.Errorf("unknown branch %q", v)
}

// CyclicName returns the two-character stem-branch name, e.g. "甲子".
func CyclicName(s Stem, b Branch) string {
	return s.String() + b.String()
}
