package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		display_name VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255),
		provider VARCHAR(50) NOT NULL DEFAULT 'password',
		provider_id VARCHAR(255),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Profile documents are deliberately separate from identity rows:
	// avatar URLs and display metadata live here, never on users.
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		email VARCHAR(255) NOT NULL,
		display_name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(500),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS maps (
		id VARCHAR(100) PRIMARY KEY,
		image_url VARCHAR(500) NOT NULL,
		uploaded_by UUID NOT NULL REFERENCES users(id),
		uploaded_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		name VARCHAR(255) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS seats (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		occupied_by UUID REFERENCES users(id) ON DELETE SET NULL,
		occupied_at TIMESTAMP WITH TIME ZONE,
		map_id VARCHAR(100) NOT NULL DEFAULT 'default',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_seats_map_id ON seats(map_id)`,
	`CREATE INDEX IF NOT EXISTS idx_seats_occupied_by ON seats(occupied_by)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
