package postgres

import (
	"context"
	"database/sql"

	"github.com/carewatch/carewatch/module/core/domain"
	"github.com/carewatch/carewatch/module/core/internal/repository/database"
)

var _ database.ContactRepository = (*ContactRepo)(nil)

type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

func (r *ContactRepo) ListByUser(ctx context.Context, userID string) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, phone, email, push_token, notify_push, notify_sms, notify_voice, notify_email, is_primary
		 FROM contacts WHERE user_id = $1 ORDER BY is_primary DESC, name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Contact
	for rows.Next() {
		var c domain.Contact
		var phone, email, token sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &phone, &email, &token, &c.Channels.Push, &c.Channels.SMS, &c.Channels.Voice, &c.Channels.Email, &c.Primary); err != nil {
			return nil, err
		}
		c.Phone = phone.String
		c.Email = email.String
		c.PushToken = token.String
		results = append(results, c)
	}
	return results, rows.Err()
}
