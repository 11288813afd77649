package settings

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultTheme = ThemeLight
)

type ThemeDTO struct {
	Theme string `json:"theme"`
}

type ThemeResponse struct {
	Theme     string `json:"theme"`
	IsDefault bool   `json:"is_default"`
}

func validTheme(v string) bool {
	return v == ThemeLight || v == ThemeDark
}
