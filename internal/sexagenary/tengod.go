package sexagenary

// TenGod classifies a stem by its five-element relation to the day master.
type TenGod int

const (
	BiJian    TenGod = iota // 比肩 same element, same polarity
	JieCai                  // 劫财 same element, other polarity
	ShiShen                 // 食神 day master produces, same polarity
	ShangGuan               // 伤官 day master produces, other polarity
	PianCai                 // 偏财 day master controls, same polarity
	ZhengCai                // 正财 day master controls, other polarity
	QiSha                   // 七杀 controls day master, same polarity
	ZhengGuan               // 正官 controls day master, other polarity
	PianYin                 // 偏印 produces day master, same polarity
	ZhengYin                // 正印 produces day master, other polarity
)

var tenGodNames = [10]string{"比肩", "劫财", "食神", "伤官", "偏财", "正财", "七杀", "正官", "偏印", "正印"}

func (g TenGod) String() string {
	if g < BiJian || g > ZhengYin {
		return ""
	}
	return tenGodNames[g]
}

// MarshalText encodes the ten god by its Chinese name.
func (g TenGod) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// TenGodOf returns the relation of target to the day master stem.
func TenGodOf(dayMaster, target Stem) TenGod {
	dm, t := dayMaster.Element(), target.Element()
	samePolarity := dayMaster.Yang() == target.Yang()

	pick := func(same, other TenGod) TenGod {
		if samePolarity {
			return same
		}
		return other
	}

	switch {
	case dm == t:
		return pick(BiJian, JieCai)
	case dm.Generates(t):
		return pick(ShiShen, ShangGuan)
	case dm.Controls(t):
		return pick(PianCai, ZhengCai)
	case t.Controls(dm):
		return pick(QiSha, ZhengGuan)
	default: // t generates dm
		return pick(PianYin, ZhengYin)
	}
}

// TwelveStage is one of the twelve life stages (十二长生).
type TwelveStage int

const (
	StageChangSheng TwelveStage = iota // 长生
	StageMuYu                          // 沐浴
	StageGuanDai                       // 冠带
	StageLinGuan                       // 临官
	StageDiWang                        // 帝旺
	StageShuai                         // 衰
	StageBing                          // 病
	StageSi                            // 死
	StageMu                            // 墓
	StageJue                           // 绝
	StageTai                           // 胎
	StageYang                          // 养
)

var twelveStageNames = [12]string{"长生", "沐浴", "冠带", "临官", "帝旺", "衰", "病", "死", "墓", "绝", "胎", "养"}

func (s TwelveStage) String() string {
	if s < StageChangSheng || s > StageYang {
		return ""
	}
	return twelveStageNames[s]
}

// MarshalText encodes the stage by its Chinese name.
func (s TwelveStage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
