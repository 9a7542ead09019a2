package engine

import "unicode"

// DetectLanguage classifies the request text so prompt composition can
// instruct the model to respond in kind. The classification is coarse:
// script detection, not full language identification.
func DetectLanguage(text string) string {
	var han, kana, hangul, cyrillic, latin int

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
			kana++
		case unicode.Is(unicode.Hangul, r):
			hangul++
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.IsLetter(r):
			latin++
		}
	}

	switch {
	case kana > 0:
		return "ja"
	case hangul > 0:
		return "ko"
	case han > 0:
		return "zh"
	case cyrillic > latin:
		return "ru"
	default:
		return "en"
	}
}
