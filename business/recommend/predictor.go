package recommend

import "myBookShelf/domain"

// Predictor estimates how a user would rate a book. Implementations
// are opaque pre-trained models; the engine only consumes scores. A
// Predictor must answer for any (user, title) pair, falling back to a
// baseline estimate when it has no signal, so ranking works over the
// whole catalog.
type Predictor interface {
	Predict(userID uint, title string) float64
}

// FactorModelParams is the exported state of a trained
// matrix-factorization model (SVD-style): a global mean plus per-user
// and per-item biases and latent vectors.
type FactorModelParams struct {
	GlobalMean  float64
	UserBiases  map[uint]float64
	UserFactors map[uint][]float64
	ItemBiases  map[string]float64
	ItemFactors map[string][]float64
}

// FactorModel predicts ratings as
//
//	globalMean + userBias + itemBias + dot(userFactors, itemFactors)
//
// clamped to the rating scale. Terms for unknown users or items are
// simply dropped, which degrades to the model's baseline estimate
// instead of failing on cold input.
type FactorModel struct {
	params FactorModelParams
}

func NewFactorModel(params FactorModelParams) *FactorModel {
	return &FactorModel{params: params}
}

func (m *FactorModel) Predict(userID uint, title string) float64 {
	est := m.params.GlobalMean

	if bu, ok := m.params.UserBiases[userID]; ok {
		est += bu
	}
	if bi, ok := m.params.ItemBiases[title]; ok {
		est += bi
	}

	pu, uok := m.params.UserFactors[userID]
	qi, iok := m.params.ItemFactors[title]
	if uok && iok {
		est += dotProduct(pu, qi)
	}

	return clampToScale(est)
}

func dotProduct(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func clampToScale(v float64) float64 {
	if v < domain.RatingScaleMin {
		return domain.RatingScaleMin
	}
	if v > domain.RatingScaleMax {
		return domain.RatingScaleMax
	}
	return v
}
