package credentials

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockai/advisor/internal/database"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	return NewRepository(db, zerolog.Nop())
}

func TestGet_DefaultsWhenEmpty(t *testing.T) {
	repo := testRepo(t)

	c, err := repo.Get()
	require.NoError(t, err)

	assert.Equal(t, "openai", c.LLMProvider.SelectedProvider)
	assert.Equal(t, "gpt-4", c.LLMProvider.Model)
	assert.Empty(t, c.LLMProvider.APIKey)
	assert.Equal(t, "firecrawl", c.WebTools.SelectedTool)
	assert.Equal(t, "Standard", c.WebTools.Mode)
	assert.Equal(t, "serper", c.SearchTools.SelectedProvider)
	assert.Equal(t, "Search", c.SearchTools.Mode)
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	repo := testRepo(t)

	saved := Credentials{
		LLMProvider: LLMProvider{SelectedProvider: "anthropic", APIKey: "sk-test", Model: "claude-3-5-sonnet-20241022"},
		WebTools:    WebTools{SelectedTool: "spider", APIKey: "sp-test", Mode: "Fast"},
		SearchTools: SearchTools{SelectedProvider: "serper", APIKey: "se-test", Mode: "News"},
	}
	require.NoError(t, repo.Save(saved))

	got, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestSave_Overwrites(t *testing.T) {
	repo := testRepo(t)

	first := Defaults()
	first.LLMProvider.APIKey = "first"
	require.NoError(t, repo.Save(first))

	second := Defaults()
	second.LLMProvider.APIKey = "second"
	second.WebTools.SelectedTool = "spider"
	require.NoError(t, repo.Save(second))

	got, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, "second", got.LLMProvider.APIKey)
	assert.Equal(t, "spider", got.WebTools.SelectedTool)
}
