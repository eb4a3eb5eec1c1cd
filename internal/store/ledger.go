package store

import (
	"context"
	"database/sql"
	"fmt"
)

type pendingDrink struct {
	drinkID    int64
	quantity   int64
	salesPrice int64
}

// ConsumeDrinks charges accountID for every line item under one new
// transaction group and returns the group id. Repeated drink ids are summed.
// Stock moves from full to empty bottles without any bound. If a drink id
// does not resolve nothing is written and a *NotFoundError is returned.
func (s *Store) ConsumeDrinks(ctx context.Context, accountID int64, items []LineItem) (int64, error) {
	if len(items) == 0 {
		s.logger.Debugf("Nothing to consume for account %d", accountID)
		return 0, nil
	}

	var groupID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		pending, err := resolveLineItems(ctx, tx, items)
		if err != nil {
			return err
		}

		if groupID, err = nextGroupID(ctx, tx); err != nil {
			return err
		}

		now := s.now()
		for _, p := range pending {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO transactions(group_id, account_id, drink_id, count, value, timestamp) VALUES(?, ?, ?, ?, ?, ?)",
				groupID, accountID, p.drinkID, p.quantity, -p.salesPrice, now)
			if err != nil {
				return &InternalError{Message: "Error inserting drink transaction", Err: err}
			}
			_, err = tx.ExecContext(ctx,
				"UPDATE drinks SET bottles_full=bottles_full-?, bottles_empty=bottles_empty+? WHERE id=?",
				p.quantity, p.quantity, p.drinkID)
			if err != nil {
				return &InternalError{Message: "Error updating drink stock", Err: err}
			}
			if err := addQuaffed(ctx, tx, accountID, p.drinkID, p.quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Errorf("Consumption for account %d aborted: %s", accountID, err)
		return 0, err
	}
	s.logger.Debugf("Account %d consumed %d drink(s) in group %d", accountID, len(items), groupID)
	return groupID, nil
}

// resolveLineItems folds duplicate drink ids together, keeping first-seen
// order, and loads each drink's sales price.
func resolveLineItems(ctx context.Context, tx *sql.Tx, items []LineItem) ([]*pendingDrink, error) {
	byID := make(map[int64]*pendingDrink, len(items))
	pending := make([]*pendingDrink, 0, len(items))
	for _, item := range items {
		if p, ok := byID[item.DrinkID]; ok {
			p.quantity += item.Quantity
			continue
		}
		var price int64
		err := tx.QueryRowContext(ctx, "SELECT sales_price FROM drinks WHERE id=?", item.DrinkID).Scan(&price)
		if isNoRows(err) {
			return nil, &NotFoundError{Err: fmt.Errorf("drink %d not found", item.DrinkID)}
		}
		if err != nil {
			return nil, &InternalError{Message: "Error reading drink", Err: err}
		}
		p := &pendingDrink{drinkID: item.DrinkID, quantity: item.Quantity, salesPrice: price}
		byID[item.DrinkID] = p
		pending = append(pending, p)
	}
	return pending, nil
}

func addQuaffed(ctx context.Context, tx *sql.Tx, accountID, drinkID, quantity int64) error {
	var quaffed int64
	err := tx.QueryRowContext(ctx,
		"SELECT quaffed FROM leaderboard WHERE account_id=? AND drink_id=?", accountID, drinkID).Scan(&quaffed)
	switch {
	case isNoRows(err):
		_, err = tx.ExecContext(ctx,
			"INSERT INTO leaderboard(account_id, drink_id, quaffed) VALUES(?, ?, ?)", accountID, drinkID, quantity)
	case err == nil:
		_, err = tx.ExecContext(ctx,
			"UPDATE leaderboard SET quaffed=? WHERE account_id=? AND drink_id=?", quaffed+quantity, accountID, drinkID)
	}
	if err != nil {
		return &InternalError{Message: "Error updating leaderboard", Err: err}
	}
	return nil
}

type groupRow struct {
	accountID int64
	drinkID   int64
	count     int64
}

// UndoTransaction reverses a whole transaction group: stock and leaderboard
// counts of drink rows are restored, then the group's rows are deleted.
// Leaderboard entries stay at zero rather than being removed. An unknown
// group id is a silent no-op.
func (s *Store) UndoTransaction(ctx context.Context, groupID int64) error {
	var undone int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		group, err := loadGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		undone = len(group)

		for _, r := range group {
			if r.drinkID == NoDrink {
				continue
			}
			_, err := tx.ExecContext(ctx,
				"UPDATE drinks SET bottles_full=bottles_full+?, bottles_empty=bottles_empty-? WHERE id=?",
				r.count, r.count, r.drinkID)
			if err != nil {
				return &InternalError{Message: "Error restoring drink stock", Err: err}
			}
			// Missing entries are left missing.
			_, err = tx.ExecContext(ctx,
				"UPDATE leaderboard SET quaffed=quaffed-? WHERE account_id=? AND drink_id=?",
				r.count, r.accountID, r.drinkID)
			if err != nil {
				return &InternalError{Message: "Error restoring leaderboard", Err: err}
			}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE group_id=?", groupID); err != nil {
			return &InternalError{Message: "Error deleting transaction group", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if undone == 0 {
		s.logger.Debugf("Transaction group %d not found, nothing undone", groupID)
	} else {
		s.logger.Infof("Transaction group %d undone (%d rows)", groupID, undone)
	}
	return nil
}

func loadGroup(ctx context.Context, tx *sql.Tx, groupID int64) ([]groupRow, error) {
	rows, err := tx.QueryContext(ctx, "SELECT account_id, drink_id, count FROM transactions WHERE group_id=?", groupID)
	if err != nil {
		return nil, &InternalError{Message: "Error reading transaction group", Err: err}
	}
	defer rows.Close()

	var group []groupRow
	for rows.Next() {
		var r groupRow
		if err := rows.Scan(&r.accountID, &r.drinkID, &r.count); err != nil {
			return nil, &InternalError{Message: "Error reading transaction row", Err: err}
		}
		group = append(group, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &InternalError{Message: "Error reading transaction group", Err: err}
	}
	return group, nil
}
