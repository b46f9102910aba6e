package nlp

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"kstartup-rag-api/internal/domain/entity"
)

// amountUnit 금액 단위와 배수
type amountUnit struct {
	word string
	mult int64
}

// 긴 단어가 먼저 오도록 정렬되어 있다 (정규식 대안 순서가 곧 매칭 우선순위)
var amountUnits = []amountUnit{
	{"천조", 1_000_000_000_000_000},
	{"천억", 100_000_000_000},
	{"백억", 10_000_000_000},
	{"천만", 10_000_000},
	{"백만", 1_000_000},
	{"조", 1_000_000_000_000},
	{"억", 100_000_000},
	{"만", 10_000},
}

// 수량 추정 표현의 고정 추정값 (정밀한 파싱이 아닌 설계상의 근사치)
var vagueAmounts = map[string]int64{
	"수십억": 50_000_000_000,
	"수백억": 500_000_000_000,
	"수천억": 5_000_000_000_000,
	"수조":  5_000_000_000_000,
}

// 수식어별 금액 해석 유형
var modifierTypes = map[string]entity.AmountType{
	"최대": entity.AmountTypeMax,
	"최고": entity.AmountTypeMax,
	"최소": entity.AmountTypeMin,
	"최저": entity.AmountTypeMin,
	"약":  entity.AmountTypeApprox,
	"대략": entity.AmountTypeApprox,
	"총":  entity.AmountTypeTotal,
	"전체": entity.AmountTypeTotal,
}

// 정규화 텍스트 앞에 붙는 수식어 대표 단어
var typeMarkers = map[entity.AmountType]string{
	entity.AmountTypeMax:    "최대",
	entity.AmountTypeMin:    "최소",
	entity.AmountTypeApprox: "약",
	entity.AmountTypeTotal:  "총",
	entity.AmountTypeScale:  "규모",
}

var koreanDigits = map[rune]int64{
	'일': 1, '이': 2, '삼': 3, '사': 4, '오': 5,
	'육': 6, '칠': 7, '팔': 8, '구': 9, '십': 10,
}

const (
	numPattern  = `\d+(?:,\d{3})*(?:\.\d+)?`
	unitPattern = `천조|천억|백억|천만|백만|조|억|만`
)

var (
	modifiedAmountRe = regexp.MustCompile(`(최대|최고|최소|최저|약|대략|총|전체)\s*(` + numPattern + `)\s*(` + unitPattern + `)\s*원?`)
	scaleAmountRe    = regexp.MustCompile(`(` + numPattern + `)\s*(` + unitPattern + `)\s*원?\s*규모`)
	plainAmountRe    = regexp.MustCompile(`(` + numPattern + `)\s*(` + unitPattern + `)\s*원?`)
	vagueAmountRe    = regexp.MustCompile(`(수십억|수백억|수천억|수조)\s*원?`)
	koreanAmountRe   = regexp.MustCompile(`([일이삼사오육칠팔구십]+)\s*(억|만)\s*원?`)
	bareWonRe        = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+|\d{7,})\s*원`)
)

// NormalizeAmount 자유 텍스트에서 금액 표현을 전부 추출하고
// 최대 금액을 대표값으로 하는 AmountInfo를 반환한다
// 수식어가 붙은 표현을 먼저 훑고, 수식어 없는 표현을 나중에 훑는다
// 같은 위치의 표현은 한 번만 집계한다
func NormalizeAmount(text string) entity.AmountInfo {
	info := entity.AmountInfo{
		AmountType: entity.AmountTypeExact,
		AllAmounts: []entity.AmountDetail{},
	}
	if text == "" {
		return info
	}

	var claimed [][2]int
	overlaps := func(start, end int) bool {
		for _, c := range claimed {
			if start < c[1] && end > c[0] {
				return true
			}
		}
		return false
	}
	claim := func(start, end int) {
		claimed = append(claimed, [2]int{start, end})
	}

	// 1. 수식어 + 숫자 + 단위
	for _, idx := range modifiedAmountRe.FindAllStringSubmatchIndex(text, -1) {
		full := text[idx[0]:idx[1]]
		modifier := text[idx[2]:idx[3]]
		num := text[idx[4]:idx[5]]
		unit := text[idx[6]:idx[7]]
		value, ok := scaledValue(num, unit)
		if !ok {
			continue
		}
		claim(idx[0], idx[1])
		info.AllAmounts = append(info.AllAmounts, entity.AmountDetail{
			Amount: value,
			Text:   full,
			Type:   modifierTypes[modifier],
			Unit:   unit,
		})
	}

	// 2. 숫자 + 단위 + 규모 (후행 수식어)
	for _, idx := range scaleAmountRe.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(idx[0], idx[1]) {
			continue
		}
		full := text[idx[0]:idx[1]]
		num := text[idx[2]:idx[3]]
		unit := text[idx[4]:idx[5]]
		value, ok := scaledValue(num, unit)
		if !ok {
			continue
		}
		claim(idx[0], idx[1])
		info.AllAmounts = append(info.AllAmounts, entity.AmountDetail{
			Amount: value,
			Text:   full,
			Type:   entity.AmountTypeScale,
			Unit:   unit,
		})
	}

	// 3. 수십억/수백억 류 추정 표현
	for _, idx := range vagueAmountRe.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(idx[0], idx[1]) {
			continue
		}
		word := text[idx[2]:idx[3]]
		claim(idx[0], idx[1])
		info.AllAmounts = append(info.AllAmounts, entity.AmountDetail{
			Amount: vagueAmounts[word],
			Text:   text[idx[0]:idx[1]],
			Type:   entity.AmountTypeApprox,
			Unit:   word,
		})
	}

	// 4. 수식어 없는 숫자 + 단위
	for _, idx := range plainAmountRe.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(idx[0], idx[1]) {
			continue
		}
		full := text[idx[0]:idx[1]]
		num := text[idx[2]:idx[3]]
		unit := text[idx[4]:idx[5]]
		value, ok := scaledValue(num, unit)
		if !ok {
			continue
		}
		claim(idx[0], idx[1])
		info.AllAmounts = append(info.AllAmounts, entity.AmountDetail{
			Amount: value,
			Text:   full,
			Type:   entity.AmountTypeExact,
			Unit:   unit,
		})
	}

	// 5. 한글 숫자 + 억/만
	for _, idx := range koreanAmountRe.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(idx[0], idx[1]) {
			continue
		}
		word := text[idx[2]:idx[3]]
		unit := text[idx[4]:idx[5]]
		value := koreanWordValue(word) * unitMultiplier(unit)
		claim(idx[0], idx[1])
		info.AllAmounts = append(info.AllAmounts, entity.AmountDetail{
			Amount: value,
			Text:   text[idx[0]:idx[1]],
			Type:   entity.AmountTypeExact,
			Unit:   unit,
		})
	}

	// 6. 단위 없는 원 단위 숫자 (천 단위 구분자 또는 7자리 이상)
	for _, idx := range bareWonRe.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(idx[0], idx[1]) {
			continue
		}
		num := strings.ReplaceAll(text[idx[2]:idx[3]], ",", "")
		value, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			continue
		}
		claim(idx[0], idx[1])
		info.AllAmounts = append(info.AllAmounts, entity.AmountDetail{
			Amount: value,
			Text:   text[idx[0]:idx[1]],
			Type:   entity.AmountTypeExact,
			Unit:   "원",
		})
	}

	// 최대 금액이 대표값, 동률이면 먼저 발견된 쪽 유지
	for _, d := range info.AllAmounts {
		if d.Amount > info.AmountValue {
			info.AmountValue = d.Amount
			info.AmountText = d.Text
			info.AmountType = d.Type
		}
	}
	info.NormalizedText = renderAmount(info.AmountValue, info.AmountType)

	return info
}

// scaledValue 숫자 문자열과 단위를 기본 단위(원) 정수 금액으로 변환
func scaledValue(num, unit string) (int64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	mult := unitMultiplier(unit)
	if mult == 0 {
		return 0, false
	}
	return int64(math.Round(f * float64(mult))), true
}

func unitMultiplier(unit string) int64 {
	for _, u := range amountUnits {
		if u.word == unit {
			return u.mult
		}
	}
	return 0
}

// koreanWordValue 한글 숫자 단어를 정수로 변환
// 해석할 수 없는 조합은 1로 취급한다
func koreanWordValue(word string) int64 {
	runes := []rune(word)
	if len(runes) == 1 {
		if v, ok := koreanDigits[runes[0]]; ok {
			return v
		}
		return 1
	}

	// X십Y 형태 합성 처리
	for i, r := range runes {
		if r != '십' {
			continue
		}
		var tens, ones int64 = 1, 0
		if i > 0 {
			if i != 1 {
				return 1
			}
			v, ok := koreanDigits[runes[0]]
			if !ok || v == 10 {
				return 1
			}
			tens = v
		}
		if i < len(runes)-1 {
			if i != len(runes)-2 {
				return 1
			}
			v, ok := koreanDigits[runes[len(runes)-1]]
			if !ok || v == 10 {
				return 1
			}
			ones = v
		}
		return tens*10 + ones
	}
	return 1
}

// renderAmount 금액을 나누어떨어지는 가장 큰 단위로 표기
// 소수점은 한 자리까지만 허용한다 (예: 1500000000000 → "1.5조원")
// 수식어가 있는 유형이면 대표 단어를 앞에 붙인다
func renderAmount(value int64, amountType entity.AmountType) string {
	if value <= 0 {
		return ""
	}

	renderUnits := []amountUnit{
		{"조", 1_000_000_000_000},
		{"억", 100_000_000},
		{"만", 10_000},
	}

	body := fmt.Sprintf("%d원", value)
	for _, u := range renderUnits {
		if value < u.mult || (value*10)%u.mult != 0 {
			continue
		}
		tenths := value * 10 / u.mult
		if tenths%10 == 0 {
			body = fmt.Sprintf("%d%s원", tenths/10, u.word)
		} else {
			body = fmt.Sprintf("%d.%d%s원", tenths/10, tenths%10, u.word)
		}
		break
	}

	if marker, ok := typeMarkers[amountType]; ok {
		return marker + " " + body
	}
	return body
}
