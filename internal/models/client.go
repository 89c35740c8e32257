package models

import "time"

// Client is a borrower record.
type Client struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Phone      string    `json:"phone" db:"phone"`
	Address    string    `json:"address" db:"address"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ClientRequest creates or updates a client.
type ClientRequest struct {
	Name       string `json:"name" binding:"required"`
	DocumentID string `json:"document_id"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

const ClientSchema = `
CREATE TABLE IF NOT EXISTS clients (
    id VARCHAR(36) PRIMARY KEY,
    name TEXT NOT NULL,
    document_id VARCHAR(50),
    phone VARCHAR(30),
    address TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_clients_name ON clients (name);
`
