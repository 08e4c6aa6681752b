package botapi

import (
	"fmt"

	"github.com/Roy42022p/Backend/internal/infrastructure/external/telegram"
)

// Тексты и клавиатуры диалога регистрации. HTML-разметка, тон и эмодзи —
// часть контракта с пользователями, менять формулировки без нужды нельзя.

const (
	alreadyRegisteredText = "✅ Вы уже зарегистрированы!"

	fullNamePromptText = "✍️ Введите своё ФИО (например: Иванов Иван Иванович)"

	badFullNameText = "<b>❌ ФИО набрано неверно</b>. Пожалуйста, попробуйте написать снова.\n\n" +
		"<b>❓ Что не так?</b>\n" +
		"Убедитесь, что вы ввели ваше полное имя в правильном формате.\n\n" +
		"Например:\n" +
		"Иванов Иван Иванович\n\n" +
		"💡 <b>Пожалуйста</b>, вводите данные без ошибок, <b>чтобы регистрация прошла успешно!</b>"

	participantNotFoundText = "❌ Студент не найден. Проверьте ФИО и попробуйте снова."

	passwordPromptText = "🔐 Введите пароль (минимум 4 символа):"

	weakPasswordText = "⚠️ Пароль должен содержать не менее 4 символов."

	registrationFailedText = "❌ Не удалось завершить регистрацию. Попробуйте позже."
)

// welcomeText приветствует пользователя по имени и предлагает выбрать роль.
func welcomeText(firstName string) string {
	return fmt.Sprintf(
		"🌟 <b>Добро пожаловать в <u>Навигатор Промежуточной Аттестации корпуса Угреша</u>, %s</b>! 🌟\n\n"+
			"📚 Здесь вы сможете зарегистрироваться и начать работу.\n\n"+
			"🙋‍♂️🙋‍♀️ Пожалуйста, выберите свою роль, чтобы продолжить:",
		firstName,
	)
}

// successText показывает выданный логин и пароль (пароль — под спойлером).
func successText(login, password string) string {
	return fmt.Sprintf(
		"🌟 Регистрация прошла успешно! 🌟\n\n"+
			"Мы зарегистрировали вас в системе. Вот ваши данные:\n"+
			"Ваш логин: <b>%s</b>\n"+
			"Ваш пароль: <tg-spoiler>%s</tg-spoiler>",
		login, password,
	)
}

// roleKeyboard — выбор роли на первом шаге.
func roleKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "🎓 Студент", CallbackData: "role_student"},
				{Text: "👨‍🏫 Куратор", CallbackData: "role_curator"},
			},
		},
	}
}

// backKeyboard — возврат к выбору роли после ошибки ввода ФИО.
func backKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "🔙 Назад", CallbackData: "menu"}},
		},
	}
}
