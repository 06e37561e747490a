package dataset

import (
	"context"
	"errors"
	"fmt"

	"defi-backtest-lab/internal/domain"
	"defi-backtest-lab/internal/storage"
)

// AllProtocols lists every protocol a dataset can exist for.
var AllProtocols = []domain.Protocol{
	domain.ProtocolLending,
	domain.ProtocolPerp,
	domain.ProtocolClmm,
}

// LoadFromStore fetches datasets for the given protocols. Protocols
// with no stored samples are simply absent from the result; requests
// against them surface a dataset gap at simulation time.
func LoadFromStore(ctx context.Context, store storage.DatasetStore, protocols ...domain.Protocol) (map[domain.Protocol]*domain.Dataset, error) {
	if len(protocols) == 0 {
		protocols = AllProtocols
	}

	datasets := make(map[domain.Protocol]*domain.Dataset, len(protocols))
	for _, protocol := range protocols {
		ds, err := store.GetByProtocol(ctx, protocol)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s dataset: %w", protocol, err)
		}
		datasets[protocol] = ds
	}
	return datasets, nil
}

// ImportCSV loads a CSV file and persists its samples to the store.
func ImportCSV(ctx context.Context, store storage.DatasetStore, path string, protocol domain.Protocol, intervalSeconds int) (*domain.Dataset, error) {
	ds, err := LoadCSV(path, protocol, intervalSeconds)
	if err != nil {
		return nil, err
	}
	if err := store.InsertBulk(ctx, protocol, intervalSeconds, ds.Samples); err != nil {
		return nil, fmt.Errorf("persist %s dataset: %w", protocol, err)
	}
	return ds, nil
}
