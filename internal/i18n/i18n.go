// Package i18n provides localized advisor texts for en, ru, and uz.
package i18n

import "fmt"

// Language selects a translation set. Unknown values fall back to English.
type Language string

// Supported languages.
const (
	English Language = "en"
	Russian Language = "ru"
	Uzbek   Language = "uz"
)

// All lists the supported languages.
var All = []Language{English, Russian, Uzbek}

// Normalize maps an arbitrary language code onto a supported Language.
func Normalize(code string) Language {
	switch Language(code) {
	case Russian:
		return Russian
	case Uzbek:
		return Uzbek
	default:
		return English
	}
}

// Topic identifies a canned advice subject.
type Topic string

// Advice topics matched by the local advisor heuristic.
const (
	TopicSavings   Topic = "savings"
	TopicStability Topic = "stability"
	TopicStress    Topic = "stress"
)

// Keywords returns the case-folded substrings that map a free-text message
// onto a topic for the given language. English keywords are always included
// as a fallback since users mix languages freely.
func Keywords(lang Language, topic Topic) []string {
	base := keywordSets[English][topic]
	if lang == English {
		return base
	}
	return append(append([]string{}, keywordSets[lang][topic]...), base...)
}

var keywordSets = map[Language]map[Topic][]string{
	English: {
		TopicSavings:   {"sav", "money aside", "emergency fund"},
		TopicStability: {"stabil", "financial health", "secure"},
		TopicStress:    {"stress", "anxious", "worry", "worried"},
	},
	Russian: {
		TopicSavings:   {"сбереж", "накоп", "эконом"},
		TopicStability: {"стабиль", "устойчив"},
		TopicStress:    {"стресс", "тревог", "беспоко"},
	},
	Uzbek: {
		TopicSavings:   {"jamg'arma", "jamgʻarma", "tejash", "tejam"},
		TopicStability: {"barqaror"},
		TopicStress:    {"stress", "tashvish", "xavotir"},
	},
}

// Tip returns the canned multi-paragraph advice for a topic.
func Tip(lang Language, topic Topic) string {
	if tips, ok := tipSets[lang]; ok {
		if tip, ok := tips[topic]; ok {
			return tip
		}
	}
	return tipSets[English][topic]
}

var tipSets = map[Language]map[Topic]string{
	English: {
		TopicSavings: "Great question! Here are my top tips for building savings:\n\n" +
			"1. Pay yourself first - set aside savings before spending on anything else\n" +
			"2. Use the 50/30/20 rule - 50% needs, 30% wants, 20% savings\n" +
			"3. Automate your savings - set up automatic transfers on payday\n" +
			"4. Track every expense - awareness is the first step to change\n" +
			"5. Cut one unnecessary expense - start small and build momentum",
		TopicStability: "Your stability score reflects your overall financial health. Here's how to improve it:\n\n" +
			"1. Build an emergency fund - aim for 3-6 months of expenses\n" +
			"2. Pay down high-interest debt - this frees up more money for savings\n" +
			"3. Diversify your allocations - don't put all eggs in one basket\n" +
			"4. Stay within recommended ranges - follow the budget guidelines\n" +
			"5. Plan for unexpected expenses - life always has surprises!",
		TopicStress: "Financial stress is common, but manageable! Try these strategies:\n\n" +
			"1. Create a realistic budget - one you can actually stick to\n" +
			"2. Focus on what you can control - small steps lead to big changes\n" +
			"3. Build a safety net - even small savings help peace of mind\n" +
			"4. Celebrate small wins - every good decision counts!\n" +
			"5. Learn from mistakes - this simulation is for practice, after all",
	},
	Russian: {
		TopicSavings: "Отличный вопрос! Вот мои главные советы по накоплению сбережений:\n\n" +
			"1. Сначала заплатите себе - отложите сбережения до любых трат\n" +
			"2. Используйте правило 50/30/20 - 50% нужды, 30% желания, 20% сбережения\n" +
			"3. Автоматизируйте сбережения - настройте переводы в день зарплаты\n" +
			"4. Отслеживайте каждый расход - осознанность первый шаг к переменам\n" +
			"5. Откажитесь от одной лишней траты - начните с малого",
		TopicStability: "Индекс стабильности отражает общее финансовое здоровье. Как его улучшить:\n\n" +
			"1. Создайте резервный фонд - на 3-6 месяцев расходов\n" +
			"2. Погасите дорогие кредиты - это освободит деньги для сбережений\n" +
			"3. Распределяйте бюджет разнообразно - не кладите все в одну корзину\n" +
			"4. Держитесь рекомендованных диапазонов - следуйте подсказкам бюджета\n" +
			"5. Планируйте неожиданные расходы - сюрпризы будут всегда!",
		TopicStress: "Финансовый стресс знаком многим, но с ним можно справиться:\n\n" +
			"1. Составьте реалистичный бюджет - такой, которого сможете придерживаться\n" +
			"2. Сосредоточьтесь на том, что можете контролировать\n" +
			"3. Создайте подушку безопасности - даже небольшие сбережения успокаивают\n" +
			"4. Отмечайте маленькие победы - каждое хорошее решение важно!\n" +
			"5. Учитесь на ошибках - симулятор для этого и нужен",
	},
	Uzbek: {
		TopicSavings: "Ajoyib savol! Jamg'arma to'plash bo'yicha asosiy maslahatlarim:\n\n" +
			"1. Avval o'zingizga to'lang - xarajatlardan oldin jamg'arma ajrating\n" +
			"2. 50/30/20 qoidasidan foydalaning - 50% ehtiyoj, 30% istak, 20% jamg'arma\n" +
			"3. Jamg'armani avtomatlashtiring - maosh kuni avtomatik o'tkazma qiling\n" +
			"4. Har bir xarajatni kuzating - o'zgarishning birinchi qadami xabardorlik\n" +
			"5. Bitta keraksiz xarajatdan voz keching - kichikdan boshlang",
		TopicStability: "Barqarorlik indeksi umumiy moliyaviy salomatlikni ko'rsatadi. Uni yaxshilash yo'llari:\n\n" +
			"1. Zaxira fondi yarating - 3-6 oylik xarajatga yetadigan\n" +
			"2. Qimmat qarzlarni to'lang - bu jamg'arma uchun pul bo'shatadi\n" +
			"3. Byudjetni turli yo'nalishlarga taqsimlang\n" +
			"4. Tavsiya etilgan oraliqlarda qoling - byudjet ko'rsatmalariga amal qiling\n" +
			"5. Kutilmagan xarajatlarni rejalashtiring - hayot doim kutilmagan!",
		TopicStress: "Moliyaviy stress ko'pchilikka tanish, lekin uni yengish mumkin:\n\n" +
			"1. Real byudjet tuzing - amal qila oladiganini\n" +
			"2. Nazorat qila oladigan narsalarga e'tibor qarating\n" +
			"3. Xavfsizlik yostig'ini yarating - kichik jamg'arma ham xotirjamlik beradi\n" +
			"4. Kichik g'alabalarni nishonlang - har bir yaxshi qaror muhim!\n" +
			"5. Xatolardan o'rganing - simulyator aynan shuning uchun",
	},
}

// GenericReply renders the fallback advisor reply interpolating the current
// month and stability index.
func GenericReply(lang Language, month int, stability float64) string {
	switch lang {
	case Russian:
		return fmt.Sprintf("Судя по вашей ситуации (месяц %d, стабильность %.0f%%), вот мой совет:\n\n"+
			"Продолжайте держать сбалансированное распределение бюджета и наращивать сбережения. "+
			"Помните: это обучающий симулятор - каждое решение помогает отработать реальные финансовые навыки!\n\n"+
			"Хотите конкретные советы по какой-нибудь категории?", month, stability)
	case Uzbek:
		return fmt.Sprintf("Holatingizga qarab (oy %d, barqarorlik %.0f%%), maslahatim shunday:\n\n"+
			"Byudjetni muvozanatli taqsimlashda davom eting va jamg'armangizni oshiring. "+
			"Esda tuting: bu o'quv simulyatori - har bir qaror haqiqiy moliyaviy ko'nikmalarni mashq qilishga yordam beradi!\n\n"+
			"Biror toifa bo'yicha aniq maslahat kerakmi?", month, stability)
	default:
		return fmt.Sprintf("Based on your current situation (Month %d, %.0f%% stability), here's my advice:\n\n"+
			"Keep focusing on balanced allocations and building your savings. Remember, this is a learning "+
			"simulation - every decision helps you practice real-world financial skills!\n\n"+
			"Would you like specific tips on any category?", month, stability)
	}
}

// Apology renders the assistant turn appended when the advisory transport
// fails. The raw error detail is embedded so the user sees what went wrong.
func Apology(lang Language, detail string) string {
	switch lang {
	case Russian:
		return fmt.Sprintf("Извините, произошла ошибка: %s. Пожалуйста, попробуйте снова.", detail)
	case Uzbek:
		return fmt.Sprintf("Kechirasiz, xatolik yuz berdi: %s. Iltimos, qayta urinib ko'ring.", detail)
	default:
		return fmt.Sprintf("Sorry, an error occurred: %s. Please try again.", detail)
	}
}

// Greeting is the opening assistant message of a new conversation.
func Greeting(lang Language, month int, stability float64) string {
	switch lang {
	case Russian:
		return fmt.Sprintf("Здравствуйте! Я ваш финансовый консультант.\n\nВижу, что идёт месяц %d, индекс стабильности %.0f%%. "+
			"Я помогу принимать разумные финансовые решения и вырабатывать хорошие привычки.\n\nЧем могу помочь?", month, stability)
	case Uzbek:
		return fmt.Sprintf("Salom! Men sizning moliyaviy maslahatchingizman.\n\nHozir %d-oy, barqarorlik indeksi %.0f%%. "+
			"Men oqilona moliyaviy qarorlar qabul qilishga va yaxshi odatlar shakllantirishga yordam beraman.\n\nQanday yordam bera olaman?", month, stability)
	default:
		return fmt.Sprintf("Hello! I'm your financial advisor.\n\nI see you're in Month %d with a stability index of %.0f%%. "+
			"I'm here to help you make smart financial decisions and learn good money habits.\n\nHow can I help you today?", month, stability)
	}
}
