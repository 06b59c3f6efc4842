package sanitize

import "strings"

// cyrillicToLatin is a fixed Russian-to-Latin transliteration table
// (ужин -> uzhin). Hard and soft signs have no Latin counterpart and
// are dropped.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",

	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D",
	'Е': "E", 'Ё': "Yo", 'Ж': "Zh", 'З': "Z", 'И': "I",
	'Й': "Y", 'К': "K", 'Л': "L", 'М': "M", 'Н': "N",
	'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T",
	'У': "U", 'Ф': "F", 'Х': "Kh", 'Ц': "Ts", 'Ч': "Ch",
	'Ш': "Sh", 'Щ': "Shch", 'Ъ': "", 'Ы': "Y", 'Ь': "",
	'Э': "E", 'Ю': "Yu", 'Я': "Ya",
}

// Transliterate replaces Cyrillic characters with their Latin
// approximations, leaving everything else untouched.
func Transliterate(s string) string {
	var b *strings.Builder
	for i, r := range s {
		latin, ok := cyrillicToLatin[r]
		if !ok {
			if b != nil {
				b.WriteRune(r)
			}
			continue
		}
		if b == nil {
			// First Cyrillic rune: copy the untouched prefix.
			b = &strings.Builder{}
			b.Grow(len(s) + len(s)/2)
			b.WriteString(s[:i])
		}
		b.WriteString(latin)
	}
	if b == nil {
		return s
	}
	return b.String()
}
