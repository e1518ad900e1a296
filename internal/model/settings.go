package model

// DefaultCurrency is applied when an import carries no currency setting.
const DefaultCurrency = "INR"

// UserSettings holds per-user display preferences.
type UserSettings struct {
	Name     string
	Currency string
	AppIcon  *AppIcon
}

// AppIcon is an emoji app icon together with the assets derived from it.
// Asset fields hold data URIs.
type AppIcon struct {
	Emoji     string `json:"emoji"`
	Favicon   string `json:"favicon"`
	TouchIcon string `json:"touch_icon"`
	Icon192   string `json:"icon_192"`
	Icon512   string `json:"icon_512"`
}
