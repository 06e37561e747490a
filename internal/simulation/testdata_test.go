package simulation

import "defi-backtest-lab/internal/domain"

const testInterval = 86400

func lendingDataset(prices []float64, utilSupply, utilBorrow float64) *domain.Dataset {
	samples := make([]domain.HistoricalSample, len(prices))
	for i, p := range prices {
		samples[i] = domain.HistoricalSample{
			Timestep:          i,
			Price:             p,
			UtilizationSupply: utilSupply,
			UtilizationBorrow: utilBorrow,
		}
	}
	return &domain.Dataset{Protocol: domain.ProtocolLending, IntervalSeconds: testInterval, Samples: samples}
}

func perpDataset(prices []float64) *domain.Dataset {
	samples := make([]domain.HistoricalSample, len(prices))
	for i, p := range prices {
		samples[i] = domain.HistoricalSample{Timestep: i, Price: p}
	}
	return &domain.Dataset{Protocol: domain.ProtocolPerp, IntervalSeconds: testInterval, Samples: samples}
}

func clmmDataset(prices []float64, poolLiquidity, poolVolume float64) *domain.Dataset {
	samples := make([]domain.HistoricalSample, len(prices))
	for i, p := range prices {
		samples[i] = domain.HistoricalSample{
			Timestep:      i,
			Price:         p,
			PoolLiquidity: poolLiquidity,
			PoolVolume:    poolVolume,
		}
	}
	return &domain.Dataset{Protocol: domain.ProtocolClmm, IntervalSeconds: testInterval, Samples: samples}
}

func constantPrices(price float64, n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = price
	}
	return prices
}
