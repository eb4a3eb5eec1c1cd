package store

import (
	"context"
	"database/sql"
)

// ListDrinks returns the catalog without soft-deleted drinks, ordered by name.
func (s *Store) ListDrinks(ctx context.Context) ([]Drink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sales_price, purchase_price, deposit, bottles_full, bottles_empty, kings_eligible
		  FROM drinks
		 WHERE deleted=0
		 ORDER BY name ASC`)
	if err != nil {
		return nil, &InternalError{Message: "Error reading drinks", Err: err}
	}
	defer rows.Close()

	drinks := make([]Drink, 0)
	for rows.Next() {
		var d Drink
		if err := rows.Scan(&d.ID, &d.Name, &d.SalesPrice, &d.PurchasePrice, &d.Deposit,
			&d.BottlesFull, &d.BottlesEmpty, &d.KingsEligible); err != nil {
			return nil, &InternalError{Message: "Error reading drink row", Err: err}
		}
		drinks = append(drinks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, &InternalError{Message: "Error reading drinks", Err: err}
	}
	return drinks, nil
}

func (s *Store) AddDrink(ctx context.Context, spec DrinkSpec) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO drinks(id, name, sales_price, purchase_price, deposit, bottles_full, bottles_empty, deleted, kings_eligible)
			VALUES(NULL, ?, ?, ?, ?, ?, ?, 0, ?)`,
			spec.Name, spec.SalesPrice, spec.PurchasePrice, spec.Deposit,
			spec.BottlesFull, spec.BottlesEmpty, spec.KingsEligible)
		if err != nil {
			return &InternalError{Message: "Error inserting drink", Err: err}
		}
		if id, err = res.LastInsertId(); err != nil {
			return &InternalError{Message: "Error reading new drink id", Err: err}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debugf("Drink %d (%s) added", id, spec.Name)
	return id, nil
}

// SetDrink replaces every mutable attribute of a drink. The soft-delete flag
// is left as it is. An unknown id changes nothing.
func (s *Store) SetDrink(ctx context.Context, id int64, spec DrinkSpec) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE drinks
			   SET name=?, sales_price=?, purchase_price=?, deposit=?,
			       bottles_full=?, bottles_empty=?, kings_eligible=?
			 WHERE id=?`,
			spec.Name, spec.SalesPrice, spec.PurchasePrice, spec.Deposit,
			spec.BottlesFull, spec.BottlesEmpty, spec.KingsEligible, id)
		if err != nil {
			return &InternalError{Message: "Error updating drink", Err: err}
		}
		if n, _ := res.RowsAffected(); n == 0 {
			s.logger.Debugf("Drink %d not found, nothing updated", id)
		}
		return nil
	})
}

// DeleteDrink hides a drink from the catalog and the kings report. The row
// stays so historical transactions keep resolving its name.
func (s *Store) DeleteDrink(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE drinks SET deleted=1, kings_eligible=0 WHERE id=?", id); err != nil {
			return &InternalError{Message: "Error deleting drink", Err: err}
		}
		return nil
	})
}
