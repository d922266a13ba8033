// Package i18n holds the user-facing string tables for the messaging surface.
// Lookup is keyed by (language, messageKey) and is not part of the pipeline
// contract.
package i18n

import "screennotes/pkg/domain"

// Message keys used by the bot surface.
const (
	KeyWelcome           = "welcome"
	KeyHelp              = "help"
	KeyNoNotes           = "no_notes"
	KeyRecentNotes       = "recent_notes"
	KeySendImage         = "send_image"
	KeyLanguageSelection = "language_selection"
	KeyLanguageChanged   = "language_changed"

	KeyProcessing  = "processing"
	KeyExtracting  = "extracting"
	KeyStructuring = "structuring"
	KeyUploading   = "uploading"
	KeySaving      = "saving"

	KeySuccess = "success"

	KeyErrUnsupportedMedia = "err_unsupported_media"
	KeyErrNoText           = "err_no_text"
	KeyErrAuthExpired      = "err_auth_expired"
	KeyErrAccessDenied     = "err_access_denied"
	KeyErrNetwork          = "err_network"
	KeyErrStructuring      = "err_structuring"
	KeyErrUpload           = "err_upload"
	KeyErrSave             = "err_save"
	KeyErrGeneric          = "err_generic"
	KeyErrFetchingNotes    = "err_fetching_notes"
	KeyErrRateLimited      = "err_rate_limited"
)

// Text returns the string for (lang, key), falling back to Russian and then
// to the key itself so a missing translation is visible, not a panic.
func Text(lang domain.Language, key string) string {
	if table, ok := translations[lang]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	if s, ok := translations[domain.LangRU][key]; ok {
		return s
	}
	return key
}

var translations = map[domain.Language]map[string]string{
	domain.LangRU: {
		KeyWelcome: "👋 Добро пожаловать в Screenshot Notes Bot!\n\n" +
			"📸 Отправьте мне скриншот или PDF, и я:\n" +
			"• Извлеку весь текст\n• Подберу теги\n• Сохраню заметку в вашу коллекцию\n\n" +
			"📋 Команды:\n/start — начало работы\n/help — справка\n/list — последние заметки\n/language — сменить язык",
		KeyHelp: "🤖 Справка\n\n1. Отправьте скриншот или PDF\n2. Я извлеку текст и создам заметку с заголовком и тегами\n3. /list покажет последние заметки\n\n💾 Все заметки сохраняются в вашу базу.",
		KeyNoNotes:           "📝 У вас пока нет заметок. Отправьте скриншот, чтобы начать!",
		KeyRecentNotes:       "📋 Ваши последние заметки:\n\n",
		KeySendImage:         "📸 Пожалуйста, отправьте скриншот или PDF для анализа.",
		KeyLanguageSelection: "🌐 Выберите язык / Тілді таңдаңыз / Choose language:\n\n🇷🇺 Русский — /lang_ru\n🇰🇿 Қазақша — /lang_kz\n🇺🇸 English — /lang_en",
		KeyLanguageChanged:   "🌐 Язык изменен на русский",

		KeyProcessing:  "🔄 Обрабатываю ваш скриншот...",
		KeyExtracting:  "🔍 Извлекаю текст...",
		KeyStructuring: "📝 Формирую заметку...",
		KeyUploading:   "📤 Загружаю изображение...",
		KeySaving:      "💾 Сохраняю заметку...",

		KeySuccess: "✅ Заметка создана!\n\n📝 Заголовок: %s\n🏷 Теги: %s\n\n📄 %s\n\n🔗 %s",

		KeyErrUnsupportedMedia: "❌ Этот тип файла не поддерживается. Отправьте изображение или PDF.",
		KeyErrNoText:           "❌ Не удалось найти текст на изображении. Попробуйте более чёткий скриншот.",
		KeyErrAuthExpired:      "❌ Срок действия учетных данных OCR истёк. Обратитесь к оператору для обновления токена.",
		KeyErrAccessDenied:     "❌ Доступ к сервису распознавания запрещён. Проверьте права доступа.",
		KeyErrNetwork:          "❌ Сетевая ошибка при обработке изображения. Попробуйте снова.",
		KeyErrStructuring:      "❌ Не удалось проанализировать изображение. Попробуйте снова.",
		KeyErrUpload:           "❌ Не удалось загрузить изображение. Попробуйте снова.",
		KeyErrSave:             "❌ Не удалось сохранить заметку. Попробуйте снова.",
		KeyErrGeneric:          "❌ Произошла ошибка при обработке. Попробуйте снова.",
		KeyErrFetchingNotes:    "❌ Ошибка при получении заметок. Попробуйте позже.",
		KeyErrRateLimited:      "⏳ Слишком много запросов. Подождите минуту и попробуйте снова.",
	},
	domain.LangKZ: {
		KeyWelcome: "👋 Screenshot Notes Bot-қа қош келдіңіз!\n\n" +
			"📸 Маған скриншот немесе PDF жіберіңіз:\n" +
			"• Барлық мәтінді аламын\n• Тегтерді таңдаймын\n• Жазбаны коллекцияңызға сақтаймын\n\n" +
			"📋 Командалар:\n/start — бастау\n/help — анықтама\n/list — соңғы жазбалар\n/language — тілді өзгерту",
		KeyHelp: "🤖 Анықтама\n\n1. Скриншот немесе PDF жіберіңіз\n2. Мен мәтінді алып, тақырыбы мен тегтері бар жазба жасаймын\n3. /list соңғы жазбаларды көрсетеді\n\n💾 Барлық жазбалар сақталады.",
		KeyNoNotes:           "📝 Сізде әлі жазба жоқ. Бастау үшін скриншот жіберіңіз!",
		KeyRecentNotes:       "📋 Сіздің соңғы жазбаларыңыз:\n\n",
		KeySendImage:         "📸 Талдау үшін скриншот немесе PDF жіберіңіз.",
		KeyLanguageSelection: "🌐 Выберите язык / Тілді таңдаңыз / Choose language:\n\n🇷🇺 Русский — /lang_ru\n🇰🇿 Қазақша — /lang_kz\n🇺🇸 English — /lang_en",
		KeyLanguageChanged:   "🌐 Тіл қазақ тіліне өзгертілді",

		KeyProcessing:  "🔄 Скриншотыңызды өңдеп жатырмын...",
		KeyExtracting:  "🔍 Мәтінді алып жатырмын...",
		KeyStructuring: "📝 Жазбаны құрастырып жатырмын...",
		KeyUploading:   "📤 Суретті жүктеп жатырмын...",
		KeySaving:      "💾 Жазбаны сақтап жатырмын...",

		KeySuccess: "✅ Жазба жасалды!\n\n📝 Тақырыбы: %s\n🏷 Тегтер: %s\n\n📄 %s\n\n🔗 %s",

		KeyErrUnsupportedMedia: "❌ Бұл файл түрі қолдау таппайды. Сурет немесе PDF жіберіңіз.",
		KeyErrNoText:           "❌ Суреттен мәтін табылмады. Анығырақ скриншот жіберіп көріңіз.",
		KeyErrAuthExpired:      "❌ OCR қызметінің токені ескірген. Операторға хабарласыңыз.",
		KeyErrAccessDenied:     "❌ Тану қызметіне қол жеткізу шектелген.",
		KeyErrNetwork:          "❌ Өңдеу кезінде желі қатесі. Қайталап көріңіз.",
		KeyErrStructuring:      "❌ Суретті талдау мүмкін болмады. Қайталап көріңіз.",
		KeyErrUpload:           "❌ Суретті жүктеу мүмкін болмады. Қайталап көріңіз.",
		KeyErrSave:             "❌ Жазбаны сақтау мүмкін болмады. Қайталап көріңіз.",
		KeyErrGeneric:          "❌ Өңдеу кезінде қате орын алды. Қайталап көріңіз.",
		KeyErrFetchingNotes:    "❌ Жазбаларды алу кезінде қате. Кейінірек көріңіз.",
		KeyErrRateLimited:      "⏳ Сұраныстар тым көп. Бір минут күтіп, қайталап көріңіз.",
	},
	domain.LangEN: {
		KeyWelcome: "👋 Welcome to Screenshot Notes Bot!\n\n" +
			"📸 Send me a screenshot or PDF and I'll:\n" +
			"• Extract all text\n• Generate tags\n• Save a note to your collection\n\n" +
			"📋 Commands:\n/start — get started\n/help — show help\n/list — recent notes\n/language — change language",
		KeyHelp: "🤖 Help\n\n1. Send a screenshot or PDF\n2. I'll extract the text and create a note with a title and tags\n3. /list shows your recent notes\n\n💾 All notes are saved to your database.",
		KeyNoNotes:           "📝 You don't have any notes yet. Send me a screenshot to get started!",
		KeyRecentNotes:       "📋 Your recent notes:\n\n",
		KeySendImage:         "📸 Please send me a screenshot or PDF to analyze.",
		KeyLanguageSelection: "🌐 Выберите язык / Тілді таңдаңыз / Choose language:\n\n🇷🇺 Русский — /lang_ru\n🇰🇿 Қазақша — /lang_kz\n🇺🇸 English — /lang_en",
		KeyLanguageChanged:   "🌐 Language changed to English",

		KeyProcessing:  "🔄 Processing your screenshot...",
		KeyExtracting:  "🔍 Extracting text...",
		KeyStructuring: "📝 Building the note...",
		KeyUploading:   "📤 Uploading image...",
		KeySaving:      "💾 Saving the note...",

		KeySuccess: "✅ Note created!\n\n📝 Title: %s\n🏷 Tags: %s\n\n📄 %s\n\n🔗 %s",

		KeyErrUnsupportedMedia: "❌ This file type is not supported. Send an image or PDF.",
		KeyErrNoText:           "❌ Could not find any text in the image. Try a clearer screenshot.",
		KeyErrAuthExpired:      "❌ OCR credentials have expired. Ask the operator to refresh the token.",
		KeyErrAccessDenied:     "❌ Access to the recognition service was denied. Check the permissions.",
		KeyErrNetwork:          "❌ Network error while processing the image. Please try again.",
		KeyErrStructuring:      "❌ Failed to analyze the image. Please try again.",
		KeyErrUpload:           "❌ Failed to upload the image. Please try again.",
		KeyErrSave:             "❌ Failed to save the note. Please try again.",
		KeyErrGeneric:          "❌ An error occurred while processing. Please try again.",
		KeyErrFetchingNotes:    "❌ Error fetching your notes. Please try again later.",
		KeyErrRateLimited:      "⏳ Too many requests. Please wait a minute and try again.",
	},
}
