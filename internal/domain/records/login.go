package records

import "strings"

// Транслитерация кириллицы для генерации логинов.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ы': "y", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Transliterate переводит кириллический текст в латиницу в нижнем регистре.
// Символы без соответствия (латиница, дефисы) сохраняются как есть.
func Transliterate(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if latin, ok := cyrillicToLatin[r]; ok {
			b.WriteString(latin)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GenerateLogin строит логин из ФИО: транслитерированная фамилия плюс
// заглавные инициалы имени и отчества ("Иванов Иван Иванович" → "ivanovII").
func (n FullName) GenerateLogin() string {
	last := Transliterate(strings.TrimSpace(n.LastName))
	first := strings.ToUpper(Transliterate(firstRune(n.FirstName)))
	patronymic := strings.ToUpper(Transliterate(firstRune(n.Patronymic)))
	return last + first + patronymic
}

func firstRune(s string) string {
	for _, r := range strings.TrimSpace(s) {
		return string(r)
	}
	return ""
}
