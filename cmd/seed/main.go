// Command seed resets the users table and loads the sample accounts used in
// development.
package main

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/userdesk/userdesk/internal/app"
	"github.com/userdesk/userdesk/internal/platform/db"
)

type sampleUser struct {
	name     string
	email    string
	password string
}

var sampleUsers = []sampleUser{
	{"John Doe", "john@example.com", "password123"},
	{"Jane Smith", "jane@example.com", "secret456"},
	{"Bob Johnson", "bob@example.com", "qwerty789"},
	{"Diana Prince", "diana@example.com", "securepass"},
	{"Eve Adams", "eve@example.com", "evepassword"},
}

func main() {
	ctx := context.Background()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Error("migrate schema", slog.Any("error", err))
		os.Exit(1)
	}

	if _, err := pool.Exec(ctx, `TRUNCATE users RESTART IDENTITY`); err != nil {
		logger.Error("truncate users", slog.Any("error", err))
		os.Exit(1)
	}

	for _, u := range sampleUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("hash password", slog.String("email", u.email), slog.Any("error", err))
			os.Exit(1)
		}
		if _, err := pool.Exec(ctx,
			`INSERT INTO users (name, email, password_hash) VALUES ($1, $2, $3)`,
			u.name, u.email, string(hash),
		); err != nil {
			logger.Error("insert sample user", slog.String("email", u.email), slog.Any("error", err))
			os.Exit(1)
		}
	}

	logger.Info("sample users seeded", slog.Int("count", len(sampleUsers)))
}
