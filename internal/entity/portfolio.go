package entity

type Project struct {
	ID              int      `yaml:"id" json:"id"`
	Title           string   `yaml:"title" json:"title"`
	Description     string   `yaml:"description" json:"description"`
	LongDescription string   `yaml:"long_description" json:"long_description"`
	Image           string   `yaml:"image" json:"image"`
	Category        string   `yaml:"category" json:"category"`
	Tags            []string `yaml:"tags" json:"tags"`
	Date            string   `yaml:"date" json:"date"`
	GithubURL       string   `yaml:"github_url" json:"github_url,omitempty"`
	DemoURL         string   `yaml:"demo_url" json:"demo_url,omitempty"`
	Featured        bool     `yaml:"featured" json:"featured"`
}

type SkillKind string

const (
	SkillKindHard SkillKind = "hard"
	SkillKindSoft SkillKind = "soft"
)

func (k SkillKind) Valid() bool {
	return k == SkillKindHard || k == SkillKindSoft
}

type Skill struct {
	Name     string    `yaml:"name" json:"name"`
	Level    int       `yaml:"level" json:"level"`
	Category string    `yaml:"category" json:"category,omitempty"`
	Kind     SkillKind `yaml:"kind" json:"kind"`
}
