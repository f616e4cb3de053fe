package profile

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockai/advisor/internal/database"
)

// Repository stores the single profile row
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a profile repository
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "profile").Logger(),
	}
}

// Get returns the stored profile, seeding the demo user on first read
func (r *Repository) Get() (Profile, error) {
	p, err := r.load()
	if errors.Is(err, sql.ErrNoRows) {
		seed := Default()
		if err := r.Save(seed); err != nil {
			return Profile{}, err
		}
		return seed, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}

func (r *Repository) load() (Profile, error) {
	var p Profile
	var notifyEmail, notifyPush, notifyReports int
	err := r.db.QueryRow(`
		SELECT name, email, plan, plan_status,
		       notify_email, notify_push, notify_reports,
		       investment_style, risk_level
		FROM user_profile WHERE id = 1`).Scan(
		&p.Name, &p.Email, &p.Subscription.Plan, &p.Subscription.Status,
		&notifyEmail, &notifyPush, &notifyReports,
		&p.RiskProfile.InvestmentStyle, &p.RiskProfile.RiskLevel,
	)
	if err != nil {
		return Profile{}, err
	}
	p.Notifications.Email = notifyEmail != 0
	p.Notifications.Push = notifyPush != 0
	p.Notifications.Reports = notifyReports != 0
	return p, nil
}

// Save upserts the profile row
func (r *Repository) Save(p Profile) error {
	_, err := r.db.Exec(`
		INSERT INTO user_profile (
			id, name, email, plan, plan_status,
			notify_email, notify_push, notify_reports,
			investment_style, risk_level, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			plan = excluded.plan,
			plan_status = excluded.plan_status,
			notify_email = excluded.notify_email,
			notify_push = excluded.notify_push,
			notify_reports = excluded.notify_reports,
			investment_style = excluded.investment_style,
			risk_level = excluded.risk_level,
			updated_at = datetime('now')`,
		p.Name, p.Email, p.Subscription.Plan, p.Subscription.Status,
		boolToInt(p.Notifications.Email), boolToInt(p.Notifications.Push), boolToInt(p.Notifications.Reports),
		p.RiskProfile.InvestmentStyle, p.RiskProfile.RiskLevel,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	r.log.Info().Str("email", p.Email).Msg("Profile updated")
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
