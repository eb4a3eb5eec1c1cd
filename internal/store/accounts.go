package store

import (
	"context"
	"database/sql"
)

func (s *Store) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM accounts ORDER BY name ASC")
	if err != nil {
		return nil, &InternalError{Message: "Error reading accounts", Err: err}
	}
	defer rows.Close()

	accounts := make([]Account, 0)
	for rows.Next() {
		var a Account
		var name sql.NullString
		if err := rows.Scan(&a.ID, &name); err != nil {
			return nil, &InternalError{Message: "Error reading account row", Err: err}
		}
		a.Name = name.String
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &InternalError{Message: "Error reading accounts", Err: err}
	}
	return accounts, nil
}

// AddAccount creates an account and, when initialCredit is non-zero, posts
// it as the account's first credit in the same transaction.
func (s *Store) AddAccount(ctx context.Context, name string, initialCredit int64) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "INSERT INTO accounts(id, name) VALUES(NULL, ?)", name)
		if err != nil {
			return &InternalError{Message: "Error inserting account", Err: err}
		}
		if id, err = res.LastInsertId(); err != nil {
			return &InternalError{Message: "Error reading new account id", Err: err}
		}
		if initialCredit == 0 {
			return nil
		}
		_, err = s.postCredit(ctx, tx, id, initialCredit)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debugf("Account %d (%s) created", id, name)
	return id, nil
}

func (s *Store) SetAccountName(ctx context.Context, id int64, name string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE accounts SET name=? WHERE id=?", name, id); err != nil {
			return &InternalError{Message: "Error renaming account", Err: err}
		}
		return nil
	})
}

// AddCredit posts amount (negative for a debit) to accountID. The account is
// not checked for existence.
func (s *Store) AddCredit(ctx context.Context, accountID, amount int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		groupID, err := s.postCredit(ctx, tx, accountID, amount)
		if err == nil {
			s.logger.Debugf("Credit %d posted to account %d in group %d", amount, accountID, groupID)
		}
		return err
	})
}

func (s *Store) postCredit(ctx context.Context, tx *sql.Tx, accountID, amount int64) (int64, error) {
	groupID, err := nextGroupID(ctx, tx)
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO transactions(group_id, account_id, drink_id, count, value, timestamp) VALUES(?, ?, ?, ?, ?, ?)",
		groupID, accountID, NoDrink, 1, amount, s.now())
	if err != nil {
		return 0, &InternalError{Message: "Error inserting credit transaction", Err: err}
	}
	return groupID, nil
}

// DeleteAccount removes the account together with its transactions and
// leaderboard entries.
func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{
			"DELETE FROM accounts WHERE id=?",
			"DELETE FROM transactions WHERE account_id=?",
			"DELETE FROM leaderboard WHERE account_id=?",
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return &InternalError{Message: "Error deleting account", Err: err}
			}
		}
		return nil
	})
	if err == nil {
		s.logger.Infof("Account %d deleted", id)
	}
	return err
}
