package storefront

// Main menu labels. Incoming text equal to a label selects the bound view.
const (
	LabelCabinet = "💼 Личный Кабинет"
	LabelProxies = "🌐 Прокси"
	LabelInfo    = "📃 Информация"
	LabelFAQ     = "📌 FAQ"
	LabelBack    = "⬅️ Назад в меню"
)

const (
	labelPay        = "💳 Оплатить"
	labelBackToList = "⬅️ К списку стран"
)

const (
	defaultBrand    = "Ghost Proxy"
	defaultInfoText = "<b>ℹ️ О Ghost Proxy</b>\n\n" +
		"🚀 SOCKS5 Прокси на разный цвет и вкус\n" +
		"◦ Качественные Proxy-Сервера, которые можно подключить к Telegram, гайд см. в FAQ"
	defaultFAQText = "📌 Часто Задаваемые Вопросы ::\n\n" +
		" ◦ 'На Сколько выдается Proxy?' - На месяц.\n" +
		" ◦ 'Есть ли гарантии?' - Гарантия 24ч.\n" +
		" ◦ 'Как использовать для Telegram?' - напишите администратору."
)

const (
	welcomeFormat   = "<b>👻 Добро Пожаловать в %s, %s</b>!\n❤️ Самые дешевые и надежные прокси только у нас"
	cabinetFormat   = "<b>👤 Личный кабинет</b>\n\n<b>🆔 ID ::</b> %s\n<b>📅 Регистрация ::</b> %s\n<b>🛍 Покупок ::</b> %d"
	unknownDate     = "Неизвестно"
	catalogTitle    = "🌍 Доступные локации ::"
	catalogEmpty    = "🛒 <b>Нет доступных локаций</b>"
	offeringFormat  = "<b>📦 %s</b> (ID: %s)\n⚙️ <b>Тип:</b> %s\n💰 <b>Цена:</b> %s"
	unavailableText = "прокси недоступен"
	payGreeting     = "привет, хочу "
	regDateLayout   = "2006-01-02 15:04:05"
)

const (
	addUsage = "<code>/add_proxy name:desc:price:msg</code>\n" +
		"пример <code>/add_proxy 🇫🇷 Франция:SOCKS5 IPv4 | 1 Мес:39₽:за покупкой 🇫🇷</code>"
	addFieldCount  = "нужно 4 параметра\n"
	addedFormat    = "прокси %s добавлен (ID: %s)"
	listEmpty      = "📭 Список прокси пуст"
	listHeader     = "<b>список всех прокси ::</b>\n\n"
	listRowFormat  = "▪️ <b>ID:</b> %s | <b>Название ::</b> %s | <b>Цена ::</b> %s\n"
	listFooter     = "\nудалить прокси <code>/delete_proxy [ID]</code>"
	deleteUsage    = "<b>использование</b> <code>/delete_proxy [ID_прокси]</code>\n/list_proxies"
	deletedFormat  = "прокси %s успешно удален"
	notFoundFormat = "прокси %s не найден"
	updateUsage    = "<code>/update_bd [ID_пользователя] [колво_покупок]</code>"
	updatedFormat  = "для пользователя %s установлено число покупок <b>%d</b>"
	noUserFormat   = "пользователь %s не найден в базе данных"
)
