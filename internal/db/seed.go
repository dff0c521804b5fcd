package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AdminSeed holds the credentials of the bootstrap admin account.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// Seed inserts the admin user and the report schedule row when the
// corresponding tables are empty. It is safe to call on every startup.
func Seed(ctx context.Context, conn *sqlx.DB, admin AdminSeed) error {
	var userCount int
	if err := conn.GetContext(ctx, &userCount, "SELECT COUNT(*) FROM users"); err != nil {
		return fmt.Errorf("seed: failed to count users: %w", err)
	}

	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed: failed to hash admin password: %w", err)
		}

		_, err = conn.ExecContext(ctx,
			`INSERT INTO users (username, email, password, role, created_at) VALUES (?, ?, ?, ?, ?)`,
			admin.Username, admin.Email, string(hash), "admin", time.Now().UTC().Truncate(time.Second),
		)
		if err != nil {
			return fmt.Errorf("seed: failed to insert admin user: %w", err)
		}
		log.Info().Str("username", admin.Username).Msg("Admin user created")
	}

	var scheduleCount int
	if err := conn.GetContext(ctx, &scheduleCount, "SELECT COUNT(*) FROM report_schedule"); err != nil {
		return fmt.Errorf("seed: failed to count report schedule rows: %w", err)
	}

	if scheduleCount == 0 {
		now := time.Now().UTC().Truncate(time.Second)
		_, err := conn.ExecContext(ctx,
			`INSERT INTO report_schedule (last_run, enabled, created_at) VALUES (?, ?, ?)`,
			now, true, now,
		)
		if err != nil {
			return fmt.Errorf("seed: failed to insert report schedule: %w", err)
		}
		log.Info().Msg("Report schedule initialized")
	}

	return nil
}
