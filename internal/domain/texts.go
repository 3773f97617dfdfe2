package domain

// Texts holds every fixed user-facing string the bot replies with.
// Defaults live in DefaultTexts; a YAML catalogue may override any field.
type Texts struct {
	Greeting     string
	Help         string
	NotFound     string
	BadReference string
	StatsUsage   string
	Unavailable  string
	BooksHeader  string
	StatsHeader  string // formatted with the book abbreviation
}

// DefaultTexts returns the built-in Russian catalogue.
func DefaultTexts() Texts {
	return Texts{
		Greeting: "Здравствуй! Это навигатор по Библии!",
		Help: "Отправьте ссылку в виде «Мф. 5:3» или «Мф. 5:3-12».\n" +
			"/books — список книг и сокращений\n" +
			"/stats <сокращение> — число стихов в главах книги",
		NotFound:     "По вашему запросу ничего не найдено.",
		BadReference: "Проверьте правильность сокращений!",
		StatsUsage:   "Укажите сокращение книги, например: /stats мф",
		Unavailable:  "Сервис временно недоступен, попробуйте позже.",
		BooksHeader:  "*Книги:*",
		StatsHeader:  "*Главы книги %s:*",
	}
}

// Merge returns t with every empty field taken from fallback.
func (t Texts) Merge(fallback Texts) Texts {
	pick := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}
	return Texts{
		Greeting:     pick(t.Greeting, fallback.Greeting),
		Help:         pick(t.Help, fallback.Help),
		NotFound:     pick(t.NotFound, fallback.NotFound),
		BadReference: pick(t.BadReference, fallback.BadReference),
		StatsUsage:   pick(t.StatsUsage, fallback.StatsUsage),
		Unavailable:  pick(t.Unavailable, fallback.Unavailable),
		BooksHeader:  pick(t.BooksHeader, fallback.BooksHeader),
		StatsHeader:  pick(t.StatsHeader, fallback.StatsHeader),
	}
}
