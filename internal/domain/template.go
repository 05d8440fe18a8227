package domain

// Template is a named preset of theme, default text and decorative stickers.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Emoji       string   `json:"emoji"`
	Description string   `json:"description"`
	Background  string   `json:"background"`
	Colors      []string `json:"colors"`
	Decorations []string `json:"decorations"`
	Text        string   `json:"text"`
	TextColor   string   `json:"textColor"`
	FontFamily  string   `json:"fontFamily"`
}

const DefaultTheme = "vintage"

var templates = []Template{
	{
		ID:          "vintage",
		Name:        "Vintage Classic",
		Emoji:       "📸",
		Description: "Classic look with warm tones and vintage ornaments",
		Background:  "#FFFBEB",
		Colors:      []string{"#F5E6D3", "#E8D5B7", "#D4C4A8"},
		Decorations: []string{"🌸", "🍂", "📜", "🕯️"},
		Text:        "Kenangan Indah",
		TextColor:   "#8B4513",
		FontFamily:  "Playfair Display",
	},
	{
		ID:          "modern",
		Name:        "Modern Minimalist",
		Emoji:       "✨",
		Description: "Clean modern layout with geometric accents",
		Background:  "#F9FAFB",
		Colors:      []string{"#FFFFFF", "#F8F9FA", "#E9ECEF"},
		Decorations: []string{"⭐", "💫", "🔸", "◆"},
		Text:        "Modern Life",
		TextColor:   "#374151",
		FontFamily:  "Inter",
	},
	{
		ID:          "cute",
		Name:        "Cute & Sweet",
		Emoji:       "🌸",
		Description: "Sweet pastel theme with playful decorations",
		Background:  "#FDF2F8",
		Colors:      []string{"#FFE4E1", "#FFB6C1", "#FFC0CB"},
		Decorations: []string{"🌸", "🦋", "💕", "🎀"},
		Text:        "Sweet Memories",
		TextColor:   "#EC4899",
		FontFamily:  "Dancing Script",
	},
	{
		ID:          "nature",
		Name:        "Nature Fresh",
		Emoji:       "🌿",
		Description: "Green natural palette with leaves and flowers",
		Background:  "#F0FDF4",
		Colors:      []string{"#F0F8E8", "#E8F5E8", "#D4F1D4"},
		Decorations: []string{"🌿", "🌱", "🍃", "🌻"},
		Text:        "Natural Beauty",
		TextColor:   "#059669",
		FontFamily:  "Playfair Display",
	},
	{
		ID:          "travel",
		Name:        "Travel Adventure",
		Emoji:       "✈️",
		Description: "Journey theme with adventure elements",
		Background:  "#EFF6FF",
		Colors:      []string{"#E6F3FF", "#CCE7FF", "#B3DBFF"},
		Decorations: []string{"✈️", "🗺️", "🧳", "📍"},
		Text:        "Travel Diary",
		TextColor:   "#1D4ED8",
		FontFamily:  "Inter",
	},
	{
		ID:          "birthday",
		Name:        "Birthday Party",
		Emoji:       "🎉",
		Description: "Party theme with birthday decorations",
		Background:  "#FEFCE8",
		Colors:      []string{"#FFF9E6", "#FFF3CD", "#FFECB3"},
		Decorations: []string{"🎉", "🎂", "🎈", "🎁"},
		Text:        "Happy Birthday",
		TextColor:   "#B45309",
		FontFamily:  "Dancing Script",
	},
}

// Templates returns a copy of the built-in template catalog.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// LookupTemplate finds a template by id.
func LookupTemplate(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// ThemeBackground returns the page background for a theme tag, falling back
// to the default theme.
func ThemeBackground(theme string) string {
	if t, ok := LookupTemplate(theme); ok {
		return t.Background
	}
	t, _ := LookupTemplate(DefaultTheme)
	return t.Background
}
