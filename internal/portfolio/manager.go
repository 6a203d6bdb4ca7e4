package portfolio

import (
	"BtcSentinel/internal/model"
)

// Manager owns the portfolio ledger for the lifetime of the process. The
// running catch-up cycle is the only writer and the only in-memory reader,
// so there is no locking here; the weekly reporter reads the durable
// checkpoint file instead of this state.
type Manager struct {
	state    *model.Portfolio
	filePath string
}

// NewManager loads the ledger from the last checkpoint, initializing a
// fresh one with the configured starting cash when none exists, and writes
// it back so the checkpoint exists from the first moment.
func NewManager(filePath string, startingCash float64) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	// Fresh state: seed the cash balance.
	if state.Cash == 0 && state.HoldingsQty == 0 {
		state.Cash = startingCash
		state.EquityUSD = startingCash
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.Checkpoint(); err != nil {
		return nil, err
	}
	return m, nil
}

// Portfolio returns the owned ledger state for mutation by the executor.
func (m *Manager) Portfolio() *model.Portfolio {
	return m.state
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() model.Portfolio {
	return *m.state
}

// Checkpoint persists the full ledger to the state file.
func (m *Manager) Checkpoint() error {
	return SaveState(m.filePath, m.state)
}
