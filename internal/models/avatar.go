package models

// Static avatar asset locations
const (
	AvatarPathUser      = "/static/images/user-avatar.png"
	AvatarPathYandex    = "/static/images/yandex-avatar.png"
	AvatarPathLocal     = "/static/images/local-avatar.png"
	AvatarPathDefaultAI = "/static/images/default-ai-avatar.png"
)

// Avatar identifies who a rendered message belongs to
type Avatar struct {
	Path  string // static asset path on the backend
	Glyph string // terminal stand-in for the image
	Label string
}

var (
	userAvatar      = Avatar{Path: AvatarPathUser, Glyph: "⬤", Label: "You"}
	yandexAvatar    = Avatar{Path: AvatarPathYandex, Glyph: "Я", Label: "YandexGPT"}
	localAvatar     = Avatar{Path: AvatarPathLocal, Glyph: "⌂", Label: "Local LLM"}
	defaultAIAvatar = Avatar{Path: AvatarPathDefaultAI, Glyph: "✦", Label: "Assistant"}
)

// AvatarFor picks the avatar for a message. User messages always get the
// user avatar; assistant messages are keyed by the model that produced them.
func AvatarFor(isUser bool, modelUsed string) Avatar {
	if isUser {
		return userAvatar
	}
	switch modelUsed {
	case ModelYandexGPT:
		return yandexAvatar
	case ModelLocalLLM:
		return localAvatar
	default:
		return defaultAIAvatar
	}
}
