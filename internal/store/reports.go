package store

import (
	"context"
	"database/sql"
)

// Transactions returns every row of the account's history ordered by group
// id. Rows of one group are not aggregated.
func (s *Store) Transactions(ctx context.Context, accountID int64) ([]TransactionRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.group_id, t.drink_id, d.name, t.count, t.value, t.timestamp
		  FROM transactions AS t
		  LEFT OUTER JOIN drinks AS d ON d.id = t.drink_id
		 WHERE t.account_id = ?
		 ORDER BY t.group_id ASC, t.rowid ASC`, accountID)
	if err != nil {
		return nil, &InternalError{Message: "Error reading transactions", Err: err}
	}
	defer rows.Close()

	result := make([]TransactionRow, 0)
	for rows.Next() {
		var r TransactionRow
		var name sql.NullString
		if err := rows.Scan(&r.GroupID, &r.DrinkID, &name, &r.Count, &r.Value, &r.Timestamp); err != nil {
			return nil, &InternalError{Message: "Error reading transaction row", Err: err}
		}
		r.DrinkName, r.HasDrink = name.String, name.Valid
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &InternalError{Message: "Error reading transactions", Err: err}
	}
	return result, nil
}

// Kings returns, for every eligible drink name, the account that quaffed the
// most of it summed over all live drinks with that name. Ties go to the
// alphabetically first account name, then the lower account id.
func (s *Store) Kings(ctx context.Context) ([]King, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH totals AS (
			SELECT l.account_id, d.name AS drink_name, SUM(l.quaffed) AS total
			  FROM leaderboard AS l
			  JOIN drinks AS d ON d.id = l.drink_id
			 WHERE d.deleted = 0
			   AND d.name IN (SELECT DISTINCT name FROM drinks WHERE kings_eligible = 1 AND deleted = 0)
			 GROUP BY l.account_id, d.name
		), ranked AS (
			SELECT a.name AS account_name, t.drink_name, t.total,
			       ROW_NUMBER() OVER (PARTITION BY t.drink_name ORDER BY t.total DESC, a.name ASC, a.id ASC) AS pos
			  FROM totals AS t
			  JOIN accounts AS a ON a.id = t.account_id
			 WHERE t.total > 0
		)
		SELECT account_name, drink_name, total
		  FROM ranked
		 WHERE pos = 1
		 ORDER BY account_name ASC, drink_name ASC`)
	if err != nil {
		return nil, &InternalError{Message: "Error reading kings", Err: err}
	}
	defer rows.Close()

	kings := make([]King, 0)
	for rows.Next() {
		var k King
		var accountName sql.NullString
		if err := rows.Scan(&accountName, &k.DrinkName, &k.Quaffed); err != nil {
			return nil, &InternalError{Message: "Error reading king row", Err: err}
		}
		k.AccountName = accountName.String
		kings = append(kings, k)
	}
	if err := rows.Err(); err != nil {
		return nil, &InternalError{Message: "Error reading kings", Err: err}
	}
	return kings, nil
}

// Balances returns sum(count*value) for every account, ordered by name.
// Accounts without transactions report zero.
func (s *Store) Balances(ctx context.Context) ([]AccountBalance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, COALESCE(SUM(t.count * t.value), 0)
		  FROM accounts AS a
		  LEFT OUTER JOIN transactions AS t ON t.account_id = a.id
		 GROUP BY a.id, a.name
		 ORDER BY a.name ASC`)
	if err != nil {
		return nil, &InternalError{Message: "Error reading balances", Err: err}
	}
	defer rows.Close()

	balances := make([]AccountBalance, 0)
	for rows.Next() {
		var b AccountBalance
		var name sql.NullString
		if err := rows.Scan(&b.AccountID, &name, &b.Balance); err != nil {
			return nil, &InternalError{Message: "Error reading balance row", Err: err}
		}
		b.Name = name.String
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &InternalError{Message: "Error reading balances", Err: err}
	}
	return balances, nil
}
