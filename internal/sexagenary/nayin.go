package sexagenary

// nayinTable is indexed by (stem+branch) mod 30, row-major in rows of six.
var nayinTable = [5][6]string{
	{"海中金", "炉中火", "大林木", "路旁土", "剑锋金", "山头火"},
	{"涧下水", "城头土", "白蜡金", "杨柳木", "泉中水", "屋上土"},
	{"霹雳火", "松柏木", "长流水", "沙中金", "山下火", "平地木"},
	{"壁上土", "金箔金", "覆灯火", "天河水", "大驿土", "钗钏金"},
	{"桑柘木", "大溪水", "沙中土", "天上火", "石榴木", "大海水"},
}

// NayinIndex returns the Nayin table position for a stem/branch pair,
// always in [0, 29].
//
// This is the simplified (stem+branch) mod 30 key, not the position of the
// pair in the 60-cycle; labels will not match almanac Nayin for most pairs.
func NayinIndex(s Stem, b Branch) int {
	return Mod(s.Index()+b.Index(), 30)
}

// Nayin returns the Nayin label for a stem/branch pair.
func Nayin(s Stem, b Branch) string {
	i := NayinIndex(s, b)
	return nayinTable[i/6][i%6]
}
