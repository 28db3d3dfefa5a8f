package constants

// Statuses of a submission (final decision of the admin)
// Статусы заявки (итоговое решение администратора)
const (
	STATUS_PENDING  = "pending"
	STATUS_APPROVED = "approved"
	STATUS_REJECTED = "rejected"
)

// Stages of the order flow, derived from which submission fields are populated.
// Этапы оформления заказа, выводятся из того, какие поля заявки заполнены.
const (
	STAGE_NO_ORDER        = "no_order"        // Заявки нет / No submission
	STAGE_PLATFORM_CHOSEN = "platform_chosen" // Выбрана платформа, ждем ссылку / Platform chosen, waiting for the link
	STAGE_LINK_PROVIDED   = "link_provided"   // Ссылка получена, ждем скриншот аккаунта / Link received, waiting for account screenshot
	STAGE_ACCOUNT_PHOTO   = "account_photo"   // Скриншот аккаунта получен, ждем выбор пакета / Account screenshot received, waiting for package
	STAGE_PACKAGE_CHOSEN  = "package_chosen"  // Пакет выбран, ждем скриншот оплаты / Package chosen, waiting for payment screenshot
	STAGE_PAYMENT_PHOTO   = "payment_photo"   // Скриншот оплаты получен, заявка на проверке / Payment screenshot received, under review
	STAGE_DECIDED         = "decided"         // Администратор принял решение / Admin has decided
)

// Callback data: префиксы с параметром / prefixes carrying a parameter
const (
	CALLBACK_PREFIX_PLATFORM       = "platform_"
	CALLBACK_PREFIX_PACKAGE        = "package_"
	CALLBACK_PREFIX_APPROVE        = "approve_"
	CALLBACK_PREFIX_REJECT         = "reject_"
	CALLBACK_PREFIX_CONFIRM_CANCEL = "confirm_cancel_"
)

// Callback data: одиночные значения / standalone values
const (
	CALLBACK_START_ORDER              = "start_order"
	CALLBACK_CANCEL_ORDER             = "cancel_order"
	CALLBACK_KEEP_ORDER               = "keep_order"
	CALLBACK_ENTER_LINK_PROMPT        = "enter_link_prompt"
	CALLBACK_UPLOAD_SCREENSHOT_PROMPT = "upload_screenshot_prompt"
	CALLBACK_UPLOAD_PAYMENT_PROMPT    = "upload_payment_prompt"
)

// Callback data: админ-панель / admin panel
const (
	CALLBACK_ADMIN_ADD_PRICE       = "admin_add"
	CALLBACK_ADMIN_EDIT_PRICE      = "admin_edit"
	CALLBACK_ADMIN_DELETE_PRICE    = "admin_delete"
	CALLBACK_ADMIN_UPDATE_QR       = "admin_qr"
	CALLBACK_ADMIN_VIEW            = "admin_view"
	CALLBACK_ADMIN_EXPORT          = "admin_export"
	CALLBACK_ADMIN_ADD_PLATFORM    = "admin_add_platform"
	CALLBACK_ADMIN_EDIT_PLATFORM   = "admin_edit_platform"
	CALLBACK_ADMIN_DELETE_PLATFORM = "admin_delete_platform"
	CALLBACK_ADMIN_TOGGLE_PLATFORM = "admin_toggle_platform"
	CALLBACK_ADMIN_ADD_ADMIN       = "admin_add_admin"
	CALLBACK_ADMIN_REMOVE_ADMIN    = "admin_remove_admin"
)

// Общие тексты, которые используются в нескольких обработчиках.
// Shared texts used by more than one handler.
const (
	MSG_ACCESS_DENIED   = "🚫 *Access denied!*"
	MSG_GENERIC_FAILURE = "⚠️ *Something went wrong!* Please try again or contact support."
)
