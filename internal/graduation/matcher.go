package graduation

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ── 과목 동일성 판정 ──────────────────────────────────────────
//
// 요건 항목과 성적표 레코드가 "같은 과목"인지 판정한다.
//   - 학수번호(code)가 있으면 그대로 식별 키로 사용
//   - 없으면 과목명을 Normalize 한 값을 식별 키로 사용
//   - 두 항목의 식별 키가 같으면 같은 과목 (문자열 동등성이므로 동치 관계)
// ─────────────────────────────────────────────────────────────

// romanNumerals 과목명 끝에 붙는 로마 숫자 글리프 → 아라비아 숫자.
// 호환 분해(NFKC)가 Ⅱ 를 "II" 로 바꾸기 전에 먼저 치환한다.
var romanNumerals = strings.NewReplacer(
	"Ⅰ", "1", "Ⅱ", "2", "Ⅲ", "3", "Ⅳ", "4", "Ⅴ", "5",
	"Ⅵ", "6", "Ⅶ", "7", "Ⅷ", "8", "Ⅸ", "9",
	"ⅰ", "1", "ⅱ", "2", "ⅲ", "3", "ⅳ", "4", "ⅴ", "5",
	"ⅵ", "6", "ⅶ", "7", "ⅷ", "8", "ⅸ", "9",
)

// noiseRunes 비교 시 무시하는 구두점과 괄호.
// 'ㆍ'(U+318D)는 NFKC 후 U+119E 가 되므로 둘 다 포함한다.
var noiseRunes = map[rune]bool{
	'·': true, 'ㆍ': true, 'ᆞ': true, '・': true,
	'.': true, '-': true, '_': true, '/': true,
	'(': true, ')': true, '[': true, ']': true, '{': true, '}': true,
}

// maxNormalizePasses 정규화를 고정점까지 반복하는 상한
const maxNormalizePasses = 4

// Normalize 과목명을 비교용 정규형으로 변환한다. 결과는 표시용이 아니다.
//
// 처리 순서: 로마 숫자 글리프 치환 → NFKC → 소문자 → 구두점·괄호·공백 제거.
// 구두점 제거 후 조합 문자가 재결합될 수 있으므로 결과가 변하지 않을 때까지
// 반복하여 Normalize(Normalize(x)) == Normalize(x) 를 보장한다.
func Normalize(name string) string {
	cur := normalizeOnce(name)
	for i := 1; i < maxNormalizePasses; i++ {
		next := normalizeOnce(cur)
		if next == cur {
			break
		}
		cur = next
	}
	return cur
}

func normalizeOnce(s string) string {
	s = romanNumerals.Replace(s)
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = romanNumerals.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || noiseRunes[r] {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IdentityKey 과목 식별 키: 학수번호 우선, 없으면 정규화된 과목명
func IdentityKey(code, name string) string {
	if c := strings.TrimSpace(code); c != "" {
		return c
	}
	return Normalize(name)
}

// SameCourse 두 과목의 식별 키가 같은지 판정
func SameCourse(codeA, nameA, codeB, nameB string) bool {
	return IdentityKey(codeA, nameA) == IdentityKey(codeB, nameB)
}

// keySet 유효 과목 식별 키 집합과 정규화 과목명 집합
type keySet struct {
	keys  map[string]bool
	names map[string]bool
}

func newKeySet(courses []Course) keySet {
	ks := keySet{
		keys:  make(map[string]bool, len(courses)),
		names: make(map[string]bool, len(courses)),
	}
	for _, c := range courses {
		ks.keys[c.Key()] = true
		if n := Normalize(c.Name); n != "" {
			ks.names[n] = true
		}
	}
	return ks
}

// contains 요건 항목 이수 여부. 식별 키가 일치하거나, 별칭 중 하나가
// 유효 과목의 정규화 과목명과 일치하면 이수로 본다.
func (ks keySet) contains(item RequirementItem) bool {
	if ks.keys[item.Key()] {
		return true
	}
	for _, alias := range item.Aliases {
		if n := Normalize(alias); n != "" && ks.names[n] {
			return true
		}
	}
	return false
}
