package voice

// ModelInfo maps voice model identifiers to the character descriptions
// shown in the say tool description.
var ModelInfo = map[string]string{
	"ozisan_2":   "普通のおじさんの声",
	"seinen_2":   "さわやかな関西弁のお兄さんの声",
	"oneesan_4":  "安心感のある透き通ったお姉さんの声",
	"syouzyo_6":  "無気力な少女の声",
	"zingai_1":   "かわいいマスコットキャラクターのような声",
	"sutera":     "ステラの声",
	"syounen_1":  "元気な少年の声",
	"syouzyo_4":  "のじゃろりの声",
	"seinen_3":   "ちょっと気弱そうなお兄さんの声",
	"oneesan_2":  "落ち着いた声のお姉さんの声",
	"syouzyo_3":  "ツンデレ系の少女の声",
	"oziisan":    "おじいさんの声",
	"seinen_5":   "声の高い、ちょっとうざそうなお兄さんの声",
	"syouzyo_1":  "普通の少女の声",
	"ozisan_1":   "イケボのおじさんの声",
	"seinen_4":   "声の高い、優しそうなお兄さんの声",
	"oneesan_3":  "声の高いお姉さんの声",
	"obaatyan_1": "おばあちゃんの声",
	"syouzyo_7":  "のんびり無気力な少女の可愛い声",
	"syouzyo_2":  "元気な少女の声",
	"syouzyo_5":  "内気な少女の声",
	"oneesan_1":  "少し声の高めのお姉さんの声",
}

// DescribeModel returns the description for a model, falling back to a
// generic one for unknown identifiers.
func DescribeModel(model string) string {
	if desc, ok := ModelInfo[model]; ok {
		return desc
	}
	return model + "の声"
}
