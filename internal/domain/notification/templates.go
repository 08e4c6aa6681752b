package notification

import (
	"fmt"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// Шаблоны сообщений. Тексты собираются здесь, а не в обработчиках,
// чтобы планировщик и событийные уведомления использовали один формат.

// ReminderText — напоминание о предстоящем экзамене или зачёте
// (рассылается за 1 и за 3 дня).
func ReminderText(exam records.ExamDetails, daysLeft int) string {
	when := "через 3 дня"
	if daysLeft == 1 {
		when = "завтра"
	}
	return fmt.Sprintf(
		"⏰ Напоминание\n"+
			"📚 %s по <b>%s</b> %s!\n"+
			"📅 Дата: %s\n"+
			"👨‍🏫 Преподаватель: %s",
		exam.Type.DisplayRu(),
		exam.Discipline,
		when,
		exam.HoldingDate,
		exam.CuratorName.Display(),
	)
}

// ExamCreatedText — уведомление о новом экзамене или зачёте.
func ExamCreatedText(exam records.ExamDetails) string {
	return fmt.Sprintf(
		"🆕 <b>Добавлен новый %s!</b>\n\n"+
			"📚 Дисциплина: <b>%s</b>\n"+
			"👨‍🏫 Преподаватель: <b>%s</b>\n"+
			"📅 Дата проведения: <b>%s</b>\n\n"+
			"📌 Проверь расписание и подготовься заранее!",
		lower(exam.Type.DisplayRu()),
		exam.Discipline,
		exam.CuratorName.Display(),
		exam.HoldingDate,
	)
}

// LinkAttachedText — уведомление о прикреплённом билете.
func LinkAttachedText(exam records.ExamDetails) string {
	return fmt.Sprintf(
		"📢 <b>Внимание!</b>\n\n"+
			"📚 %s по дисциплине <b>%s</b>\n"+
			"👨‍🏫 Преподаватель: <b>%s</b>\n"+
			"📅 Дата: <b>%s</b>\n\n"+
			"🎫 Был прикреплён билет.\n\n"+
			"🍀 Удачи на %sе! 💪",
		exam.Type.DisplayRu(),
		exam.Discipline,
		exam.CuratorName.Display(),
		exam.HoldingDate,
		lower(exam.Type.DisplayRu()),
	)
}

// LinkButton — кнопка "Открыть билет" под уведомлением о ссылке.
func LinkButton(url string) *Button {
	return &Button{Text: "Открыть билет", URL: url}
}

// MarkUpdatedText — уведомление студенту об изменённой оценке.
func MarkUpdatedText(discipline string, value *int16) string {
	return fmt.Sprintf(
		"🎓 Ваша оценка по предмету <b>%s</b> обновлена:\n"+
			"⭐ Оценка: <b>%s</b>",
		discipline,
		records.DisplayMarkValue(value),
	)
}

// lower опускает первую букву кириллического названия вида аттестации.
func lower(s string) string {
	switch s {
	case "Экзамен":
		return "экзамен"
	case "Зачёт":
		return "зачёт"
	default:
		return s
	}
}
