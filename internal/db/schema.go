package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates the relational tables on first boot. Statements are
// idempotent so startup against an existing database is a no-op.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              BIGSERIAL PRIMARY KEY,
	username        TEXT UNIQUE NOT NULL,
	password        TEXT NOT NULL,
	email           TEXT NOT NULL,
	full_name       TEXT NOT NULL,
	role            TEXT NOT NULL,
	profile_picture TEXT,
	bio             TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS agent_profiles (
	id             BIGSERIAL PRIMARY KEY,
	user_id        BIGINT UNIQUE NOT NULL REFERENCES users(id),
	specialization TEXT NOT NULL,
	languages      TEXT[] NOT NULL DEFAULT '{}',
	experience     INT NOT NULL DEFAULT 0,
	regions        TEXT[] NOT NULL DEFAULT '{}',
	travel_styles  TEXT[] NOT NULL DEFAULT '{}',
	rating         INT,
	review_count   INT NOT NULL DEFAULT 0,
	is_verified    BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS trip_preferences (
	id              BIGSERIAL PRIMARY KEY,
	traveler_id     BIGINT NOT NULL REFERENCES users(id),
	destination     TEXT NOT NULL,
	start_date      TEXT NOT NULL,
	end_date        TEXT NOT NULL,
	budget          TEXT NOT NULL,
	travel_styles   TEXT[] NOT NULL DEFAULT '{}',
	additional_info TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS itineraries (
	id                 BIGSERIAL PRIMARY KEY,
	traveler_id        BIGINT NOT NULL REFERENCES users(id),
	agent_id           BIGINT NOT NULL REFERENCES users(id),
	trip_preference_id BIGINT NOT NULL REFERENCES trip_preferences(id),
	title              TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	total_price        INT NOT NULL DEFAULT 0,
	status             TEXT NOT NULL DEFAULT 'draft',
	details            JSONB NOT NULL DEFAULT '[]',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
	id          BIGSERIAL PRIMARY KEY,
	sender_id   BIGINT NOT NULL REFERENCES users(id),
	receiver_id BIGINT NOT NULL REFERENCES users(id),
	content     TEXT NOT NULL,
	is_read     BOOLEAN NOT NULL DEFAULT false,
	sent_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages (sender_id, sent_at);
CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages (receiver_id, sent_at);

CREATE TABLE IF NOT EXISTS reviews (
	id           BIGSERIAL PRIMARY KEY,
	traveler_id  BIGINT NOT NULL REFERENCES users(id),
	agent_id     BIGINT NOT NULL REFERENCES users(id),
	itinerary_id BIGINT NOT NULL REFERENCES itineraries(id),
	rating       INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment      TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema initializes the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
