package story

// Genre 故事题材
type Genre string

// 固定的六种题材
const (
	GenreFantasy   Genre = "fantasy"
	GenreSciFi     Genre = "scifi"
	GenreMystery   Genre = "mystery"
	GenreRomance   Genre = "romance"
	GenreHorror    Genre = "horror"
	GenreAdventure Genre = "adventure"
)

// GenreConfig 题材级生成参数调优
type GenreConfig struct {
	Temperature   float64
	MaxTokens     int
	RepeatPenalty float64
	TopP          float64
}

// genreConfigs 题材参数表，运行期只读
var genreConfigs = map[Genre]GenreConfig{
	GenreFantasy:   {Temperature: 0.9, MaxTokens: 2048, RepeatPenalty: 1.1, TopP: 0.95},
	GenreSciFi:     {Temperature: 0.8, MaxTokens: 2048, RepeatPenalty: 1.1, TopP: 0.9},
	GenreMystery:   {Temperature: 0.7, MaxTokens: 2048, RepeatPenalty: 1.15, TopP: 0.9},
	GenreRomance:   {Temperature: 0.85, MaxTokens: 1800, RepeatPenalty: 1.1, TopP: 0.95},
	GenreHorror:    {Temperature: 0.8, MaxTokens: 1800, RepeatPenalty: 1.1, TopP: 0.9},
	GenreAdventure: {Temperature: 0.9, MaxTokens: 2048, RepeatPenalty: 1.05, TopP: 0.95},
}

// genreGuidelines 题材写作风格指引，用于提示词拼装
var genreGuidelines = map[Genre]string{
	GenreFantasy:   "Write an imaginative fantasy tale with magic, mythical creatures and a vivid otherworld.",
	GenreSciFi:     "Write a science fiction story grounded in speculative technology and its consequences.",
	GenreMystery:   "Write a suspenseful mystery with clues, misdirection and a satisfying reveal.",
	GenreRomance:   "Write a heartfelt romance focused on emotional connection between the characters.",
	GenreHorror:    "Write an unsettling horror story that builds dread through atmosphere, not gore.",
	GenreAdventure: "Write a fast-paced adventure full of danger, travel and narrow escapes.",
}

// genreImageStyles 题材级图片提示词风格后缀
var genreImageStyles = map[Genre]string{
	GenreFantasy:   "fantasy art, magical, ethereal lighting",
	GenreSciFi:     "futuristic, sci-fi concept art, neon accents",
	GenreMystery:   "noir atmosphere, moody shadows, muted palette",
	GenreRomance:   "soft lighting, warm tones, romantic mood",
	GenreHorror:    "dark, eerie, unsettling atmosphere",
	GenreAdventure: "dynamic composition, epic landscape, dramatic sky",
}

// Genres 返回全部已知题材
func Genres() []Genre {
	return []Genre{GenreFantasy, GenreSciFi, GenreMystery, GenreRomance, GenreHorror, GenreAdventure}
}

// IsValidGenre 检查题材是否合法
func IsValidGenre(g Genre) bool {
	_, ok := genreConfigs[g]
	return ok
}

// ConfigFor 返回题材生成参数，未知题材回退 fantasy
func ConfigFor(g Genre) GenreConfig {
	if cfg, ok := genreConfigs[g]; ok {
		return cfg
	}
	return genreConfigs[GenreFantasy]
}

// GuidelineFor 返回题材写作指引，未知题材回退 fantasy
func GuidelineFor(g Genre) string {
	if s, ok := genreGuidelines[g]; ok {
		return s
	}
	return genreGuidelines[GenreFantasy]
}

// ImageStyleFor 返回题材图片风格后缀，未知题材返回通用风格
func ImageStyleFor(g Genre) string {
	if s, ok := genreImageStyles[g]; ok {
		return s
	}
	return "detailed, artistic"
}
