package credentials

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockai/advisor/internal/database"
)

// Repository stores the single credentials row
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a credentials repository
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "credentials").Logger(),
	}
}

// Get returns the stored credentials, or the defaults when nothing
// has been saved yet
func (r *Repository) Get() (Credentials, error) {
	var c Credentials
	err := r.db.QueryRow(`
		SELECT llm_provider, llm_api_key, llm_model,
		       web_tool, web_api_key, web_mode,
		       search_provider, search_api_key, search_mode
		FROM credentials WHERE id = 1`).Scan(
		&c.LLMProvider.SelectedProvider, &c.LLMProvider.APIKey, &c.LLMProvider.Model,
		&c.WebTools.SelectedTool, &c.WebTools.APIKey, &c.WebTools.Mode,
		&c.SearchTools.SelectedProvider, &c.SearchTools.APIKey, &c.SearchTools.Mode,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Defaults(), nil
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to load credentials: %w", err)
	}
	return c, nil
}

// Save upserts the credentials row
func (r *Repository) Save(c Credentials) error {
	_, err := r.db.Exec(`
		INSERT INTO credentials (
			id, llm_provider, llm_api_key, llm_model,
			web_tool, web_api_key, web_mode,
			search_provider, search_api_key, search_mode, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			llm_provider = excluded.llm_provider,
			llm_api_key = excluded.llm_api_key,
			llm_model = excluded.llm_model,
			web_tool = excluded.web_tool,
			web_api_key = excluded.web_api_key,
			web_mode = excluded.web_mode,
			search_provider = excluded.search_provider,
			search_api_key = excluded.search_api_key,
			search_mode = excluded.search_mode,
			updated_at = datetime('now')`,
		c.LLMProvider.SelectedProvider, c.LLMProvider.APIKey, c.LLMProvider.Model,
		c.WebTools.SelectedTool, c.WebTools.APIKey, c.WebTools.Mode,
		c.SearchTools.SelectedProvider, c.SearchTools.APIKey, c.SearchTools.Mode,
	)
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	r.log.Info().Str("llm", c.LLMProvider.SelectedProvider).Str("web", c.WebTools.SelectedTool).Msg("Credentials updated")
	return nil
}
