package chapter

import "strconv"

var digitValues = map[rune]int{
	'零': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// ChineseToArabic 将中文数字（一 ~ 一百）转换为阿拉伯数字。
// 章节编号范围固定（1-100），不需要通用的数字文法。
func ChineseToArabic(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if s == "一百" {
		return 100, true
	}
	runes := []rune(s)
	switch {
	case len(runes) == 1:
		if runes[0] == '十' {
			return 10, true
		}
		v, ok := digitValues[runes[0]]
		if !ok || v == 0 {
			return 0, false
		}
		return v, true
	case len(runes) == 2 && runes[0] == '十':
		// 十一 ~ 十九
		v, ok := digitValues[runes[1]]
		if !ok {
			return 0, false
		}
		return 10 + v, true
	case len(runes) == 2 && runes[1] == '十':
		// 二十、三十 ... 九十
		v, ok := digitValues[runes[0]]
		if !ok || v == 0 {
			return 0, false
		}
		return v * 10, true
	case len(runes) == 3 && runes[1] == '十':
		// 二十一 ~ 九十九
		tens, ok := digitValues[runes[0]]
		if !ok || tens == 0 {
			return 0, false
		}
		ones, ok := digitValues[runes[2]]
		if !ok || ones == 0 {
			return 0, false
		}
		return tens*10 + ones, true
	}
	return 0, false
}

// NormalizeNumber 把章节标记中的编号部分（阿拉伯或中文数字）统一为整数。
func NormalizeNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	return ChineseToArabic(s)
}
