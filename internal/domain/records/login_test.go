package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransliterate(t *testing.T) {
	assert.Equal(t, "ivanov", Transliterate("Иванов"))
	assert.Equal(t, "shchukin", Transliterate("Щукин"))
	assert.Equal(t, "yolkin", Transliterate("Ёлкин"))
	assert.Equal(t, "khuzhakov", Transliterate("Хужаков"))

	// Латиница и дефисы проходят без изменений, кириллица транслитерируется.
	assert.Equal(t, "smith-petrov", Transliterate("Smith-Петров"))
}

func TestFullName_GenerateLogin(t *testing.T) {
	name := FullName{LastName: "Иванов", FirstName: "Иван", Patronymic: "Иванович"}
	assert.Equal(t, "ivanovII", name.GenerateLogin())

	name = FullName{LastName: "Щукина", FirstName: "Юлия", Patronymic: "Яковлевна"}
	assert.Equal(t, "shchukinaYUYA", name.GenerateLogin())

	// Без отчества инициал просто опускается.
	name = FullName{LastName: "Петров", FirstName: "Пётр"}
	assert.Equal(t, "petrovP", name.GenerateLogin())
}
