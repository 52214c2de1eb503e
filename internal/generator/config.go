package generator

// Config controls synthetic transfer-graph generation.
type Config struct {
	// NumAccounts is the number of account nodes to create.
	NumAccounts int
	// EdgeFactor is the average out-degree of each account.
	EdgeFactor float64
	// PlantedLength is the hop count of the guaranteed source-to-target path.
	// Zero disables planting.
	PlantedLength int
	// CycleFraction is the probability that an account gets a back edge to
	// one of its ancestors, which keeps the generated graph cyclic.
	CycleFraction float64
	// Seed makes generation reproducible.
	Seed int64
}

// DefaultConfig returns generation defaults suitable for local development.
func DefaultConfig() Config {
	return Config{
		NumAccounts:   200,
		EdgeFactor:    2.5,
		PlantedLength: 4,
		CycleFraction: 0.15,
		Seed:          42,
	}
}

func (c Config) normalized() Config {
	out := c
	if out.NumAccounts < 2 {
		out.NumAccounts = 2
	}
	if out.EdgeFactor < 0 {
		out.EdgeFactor = 0
	}
	if out.PlantedLength < 0 {
		out.PlantedLength = 0
	}
	if out.PlantedLength > out.NumAccounts-1 {
		out.PlantedLength = out.NumAccounts - 1
	}
	if out.CycleFraction < 0 {
		out.CycleFraction = 0
	}
	if out.CycleFraction > 1 {
		out.CycleFraction = 1
	}
	return out
}
