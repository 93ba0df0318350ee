package sexagenary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStemIndicesAreBijective(t *testing.T) {
	seen := make(map[string]bool)
	for i, s := range Stems() {
		assert.Equal(t, i, s.Index())
		assert.True(t, s.Valid())
		assert.False(t, seen[s.String()], "duplicate stem %s", s)
		seen[s.String()] = true
	}
	assert.Len(t, seen, StemCount)
}

func TestBranchIndicesAreBijective(t *testing.T) {
	seen := make(map[string]bool)
	for i, b := range Branches() {
		assert.Equal(t, i, b.Index())
		assert.True(t, b.Valid())
		assert.False(t, seen[b.String()], "duplicate branch %s", b)
		seen[b.String()] = true
	}
	assert.Len(t, seen, BranchCount)
}

func TestAtAlwaysInRange(t *testing.T) {
	// Every year a caller could plausibly pass, including negative offsets.
	for year := -3000; year <= 5000; year++ {
		s := StemAt(year - 4)
		b := BranchAt(year - 4)
		require.True(t, s.Valid(), "year %d", year)
		require.True(t, b.Valid(), "year %d", year)
		require.GreaterOrEqual(t, s.Index(), 0)
		require.Less(t, s.Index(), 10)
		require.GreaterOrEqual(t, b.Index(), 0)
		require.Less(t, b.Index(), 12)
	}
}

func TestMod(t *testing.T) {
	tests := []struct {
		a, n, want int
	}{
		{0, 10, 0},
		{9, 10, 9},
		{10, 10, 0},
		{-1, 10, 9},
		{-10, 10, 0},
		{-13, 12, 11},
		{1996, 12, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mod(tt.a, tt.n), "Mod(%d, %d)", tt.a, tt.n)
	}
}

func TestZodiac(t *testing.T) {
	assert.Equal(t, "鼠", BranchZi.Zodiac())
	assert.Equal(t, "龙", BranchChen.Zodiac())
	assert.Equal(t, "猪", BranchHai.Zodiac())
	assert.Equal(t, "", Branch(12).Zodiac())
}

func TestHiddenStems(t *testing.T) {
	for _, b := range Branches() {
		hs := b.HiddenStems()
		assert.GreaterOrEqual(t, len(hs), 1, "branch %s", b)
		assert.LessOrEqual(t, len(hs), 3, "branch %s", b)
	}

	assert.Equal(t, []Stem{StemGui}, BranchZi.HiddenStems())
	assert.Equal(t, []Stem{StemWu, StemYi, StemGui}, BranchChen.HiddenStems())
	assert.Equal(t, []Stem{StemRen, StemJia}, BranchHai.HiddenStems())

	// Mutating the returned slice must not leak into the table.
	hs := BranchYin.HiddenStems()
	hs[0] = StemGui
	assert.Equal(t, StemJia, BranchYin.HiddenStems()[0])
}

func TestNayin(t *testing.T) {
	for _, s := range Stems() {
		for _, b := range Branches() {
			i := NayinIndex(s, b)
			require.GreaterOrEqual(t, i, 0)
			require.LessOrEqual(t, i, 29)
			require.NotEmpty(t, Nayin(s, b), "%s%s", s, b)
		}
	}

	assert.Equal(t, "海中金", Nayin(StemJia, BranchZi))
	// 6 + 8 = 14 -> row 2, column 2
	assert.Equal(t, "长流水", Nayin(StemGeng, BranchShen))
	// 9 + 11 = 20 -> row 3, column 2
	assert.Equal(t, "覆灯火", Nayin(StemGui, BranchHai))
}

func TestTextRoundTrip(t *testing.T) {
	type pair struct {
		Stem   Stem   `json:"stem"`
		Branch Branch `json:"branch"`
	}

	data, err := json.Marshal(pair{StemGeng, BranchChen})
	require.NoError(t, err)
	assert.JSONEq(t, `{"stem":"庚","branch":"辰"}`, string(data))

	var p pair
	require.NoError(t, json.Unmarshal([]byte(`{"stem":"Geng","branch":"辰"}`), &p))
	assert.Equal(t, StemGeng, p.Stem)
	assert.Equal(t, BranchChen, p.Branch)

	assert.Error(t, json.Unmarshal([]byte(`{"stem":"X"}`), &p))
}

func TestTenGodOf(t *testing.T) {
	tests := []struct {
		dayMaster, target Stem
		want              TenGod
	}{
		{StemJia, StemJia, BiJian},
		{StemJia, StemYi, JieCai},
		{StemJia, StemBing, ShiShen},
		{StemJia, StemDing, ShangGuan},
		{StemJia, StemWu, PianCai},
		{StemJia, StemJi, ZhengCai},
		{StemJia, StemGeng, QiSha},
		{StemJia, StemXin, ZhengGuan},
		{StemJia, StemRen, PianYin},
		{StemJia, StemGui, ZhengYin},
		{StemXin, StemBing, ZhengGuan},
		{StemGui, StemWu, ZhengGuan},
		{StemDing, StemJia, ZhengYin},
	}
	for _, tt := range tests {
		got := TenGodOf(tt.dayMaster, tt.target)
		assert.Equal(t, tt.want, got, "TenGodOf(%s, %s) = %s", tt.dayMaster, tt.target, got)
	}
}

func TestCyclicName(t *testing.T) {
	assert.Equal(t, "甲子", CyclicName(StemJia, BranchZi))
	assert.Equal(t, "庚辰", CyclicName(StemAt(1996), BranchAt(1996)))
}
