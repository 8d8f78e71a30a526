package snapshot

import (
	"context"
	"fmt"
)

// FactorModelData is the trained matrix-factorization model as exported
// by the training pipeline: latent vectors and biases keyed by user and
// title, plus the global mean rating used as the baseline.
type FactorModelData struct {
	GlobalMean  float64
	UserBiases  map[uint]float64
	UserFactors map[uint][]float64
	ItemBiases  map[string]float64
	ItemFactors map[string][]float64
}

// LoadFactorModel reads the model artifact.
func LoadFactorModel(ctx context.Context, path string) (*FactorModelData, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	data := &FactorModelData{
		UserBiases:  make(map[uint]float64),
		UserFactors: make(map[uint][]float64),
		ItemBiases:  make(map[string]float64),
		ItemFactors: make(map[string][]float64),
	}

	row := db.QueryRowContext(ctx,
		`SELECT value FROM model_meta WHERE key = 'global_mean'`)
	if err := row.Scan(&data.GlobalMean); err != nil {
		return nil, fmt.Errorf("load global mean: %w", err)
	}

	users, err := db.QueryContext(ctx, `SELECT user_id, bias, vector FROM user_factors`)
	if err != nil {
		return nil, fmt.Errorf("load user factors: %w", err)
	}
	defer users.Close()

	for users.Next() {
		var userID uint
		var bias float64
		var blob []byte
		if err := users.Scan(&userID, &bias, &blob); err != nil {
			return nil, fmt.Errorf("scan user factors: %w", err)
		}
		data.UserBiases[userID] = bias
		data.UserFactors[userID] = decodeVector(blob)
	}
	if err := users.Err(); err != nil {
		return nil, fmt.Errorf("load user factors: %w", err)
	}

	items, err := db.QueryContext(ctx, `SELECT book_title, bias, vector FROM item_factors`)
	if err != nil {
		return nil, fmt.Errorf("load item factors: %w", err)
	}
	defer items.Close()

	for items.Next() {
		var title string
		var bias float64
		var blob []byte
		if err := items.Scan(&title, &bias, &blob); err != nil {
			return nil, fmt.Errorf("scan item factors: %w", err)
		}
		data.ItemBiases[title] = bias
		data.ItemFactors[title] = decodeVector(blob)
	}
	if err := items.Err(); err != nil {
		return nil, fmt.Errorf("load item factors: %w", err)
	}

	return data, nil
}
