package messages

// File is the root structure of messages.yaml.
// Every key is optional: an absent or blank key keeps the built-in text.
type File struct {
	Greeting     string `yaml:"greeting"`
	Help         string `yaml:"help"`
	NotFound     string `yaml:"not_found"`
	BadReference string `yaml:"bad_reference"`
	StatsUsage   string `yaml:"stats_usage"`
	Unavailable  string `yaml:"unavailable"`
	BooksHeader  string `yaml:"books_header"`
	StatsHeader  string `yaml:"stats_header"`
}
