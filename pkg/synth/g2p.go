package synth

import "strings"

// G2P converts Japanese text into a phoneme string the engine accepts. It is
// a blocking, text-to-text collaborator; a richer implementation (a full
// morphological analyzer) can be swapped in without touching the
// synthesizer, since callers only depend on this interface.
type G2P interface {
	ToPhonemes(text string) (string, error)
}

// KanaG2P is a small table-driven transliterator from hiragana/katakana to a
// fixed romaji-derived phoneme alphabet. It covers the common kana syllabary;
// unmapped runes pass through unchanged so synthesis never hard-fails on an
// unfamiliar character.
type KanaG2P struct{}

// NewKanaG2P builds the default G2P implementation.
func NewKanaG2P() *KanaG2P {
	return &KanaG2P{}
}

func (KanaG2P) ToPhonemes(text string) (string, error) {
	var sb strings.Builder
	for _, r := range text {
		if p, ok := kanaPhonemes[r]; ok {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(p)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// kanaPhonemes maps the gojuuon hiragana/katakana syllabary to phoneme
// tokens. Kept deliberately small: dakuten/handakuten and small-kana
// combinations are out of scope for this worker's coverage.
var kanaPhonemes = map[rune]string{
	'あ': "a", 'い': "i", 'う': "u", 'え': "e", 'お': "o",
	'か': "ka", 'き': "ki", 'く': "ku", 'け': "ke", 'こ': "ko",
	'さ': "sa", 'し': "shi", 'す': "su", 'せ': "se", 'そ': "so",
	'た': "ta", 'ち': "chi", 'つ': "tsu", 'て': "te", 'と': "to",
	'な': "na", 'に': "ni", 'ぬ': "nu", 'ね': "ne", 'の': "no",
	'は': "ha", 'ひ': "hi", 'ふ': "fu", 'へ': "he", 'ほ': "ho",
	'ま': "ma", 'み': "mi", 'む': "mu", 'め': "me", 'も': "mo",
	'や': "ya", 'ゆ': "yu", 'よ': "yo",
	'ら': "ra", 'り': "ri", 'る': "ru", 'れ': "re", 'ろ': "ro",
	'わ': "wa", 'を': "wo", 'ん': "N",
	'ア': "a", 'イ': "i", 'ウ': "u", 'エ': "e", 'オ': "o",
	'カ': "ka", 'キ': "ki", 'ク': "ku", 'ケ': "ke", 'コ': "ko",
	'サ': "sa", 'シ': "shi", 'ス': "su", 'セ': "se", 'ソ': "so",
	'タ': "ta", 'チ': "chi", 'ツ': "tsu", 'テ': "te", 'ト': "to",
	'ナ': "na", 'ニ': "ni", 'ヌ': "nu", 'ネ': "ne", 'ノ': "no",
	'ハ': "ha", 'ヒ': "hi", 'フ': "fu", 'ヘ': "he", 'ホ': "ho",
	'マ': "ma", 'ミ': "mi", 'ム': "mu", 'メ': "me", 'モ': "mo",
	'ヤ': "ya", 'ユ': "yu", 'ヨ': "yo",
	'ラ': "ra", 'リ': "ri", 'ル': "ru", 'レ': "re", 'ロ': "ro",
	'ワ': "wa", 'ヲ': "wo", 'ン': "N",
}
