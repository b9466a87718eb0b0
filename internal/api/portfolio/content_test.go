package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/entity"
)

func TestDefaultContent(t *testing.T) {
	c, err := DefaultContent()
	require.NoError(t, err)

	require.Len(t, c.Projects, 2)
	assert.Equal(t, "Smart Vending Machine", c.Projects[0].Title)
	assert.Equal(t, "IoT", c.Projects[0].Category)
	assert.Equal(t, "2024", c.Projects[0].Date)
	assert.Contains(t, c.Projects[1].Tags, "KiCad")

	hard, soft := 0, 0
	for _, s := range c.Skills {
		switch s.Kind {
		case entity.SkillKindHard:
			hard++
		case entity.SkillKindSoft:
			soft++
		}
	}
	assert.Equal(t, 10, hard)
	assert.Equal(t, 6, soft)
	assert.Equal(t, entity.Skill{Name: "C/C++", Level: 95, Category: "Programming", Kind: entity.SkillKindHard}, c.Skills[0])
}

func TestParseContentRejectsBadData(t *testing.T) {
	_, err := ParseContent([]byte("projects:\n  - id: 1\n  - id: 1\n"))
	assert.ErrorContains(t, err, "duplicate project id 1")

	_, err = ParseContent([]byte("skills:\n  - {name: Go, level: 90, kind: medium}\n"))
	assert.ErrorContains(t, err, `kind "medium"`)

	_, err = ParseContent([]byte("projects: [\n"))
	assert.Error(t, err)
}
