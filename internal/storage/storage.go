// Package storage persists farm state (stock, last calculated plan) as a JSON
// state file and provides the stock repository the planner reads from.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iwvelando/stock-planner/pkg/constants"
)

// StateVersion is the on-disk schema version of the state file.
const StateVersion = 4

// DefaultFarmName is the name given to the farm bootstrapped on first run.
const DefaultFarmName = "My farm"

// StockRecord is the persisted form of one stock entry.
type StockRecord struct {
	ProductID             string  `json:"productId"`
	QuantityLiters        float64 `json:"quantityLiters"`
	MaxPricePerThousand   float64 `json:"maxPricePerThousand"`
	CapacityPerTripLiters float64 `json:"capacityPerTripLiters"`
	MinKeepLiters         float64 `json:"minKeepLiters"`
	Enabled               bool    `json:"enabled"`
}

// PlanLineRecord is the persisted form of one selling-plan allocation.
type PlanLineRecord struct {
	ProductID  string  `json:"productId"`
	VolumeSold float64 `json:"volumeSold"`
	TripsUsed  int     `json:"tripsUsed"`
	Revenue    float64 `json:"revenue"`
}

// PlanRecord is the persisted form of the farm's last calculated plan.
type PlanRecord struct {
	TargetAmount float64          `json:"targetAmount"`
	TotalRevenue float64          `json:"totalRevenue"`
	TotalTrips   int              `json:"totalTrips"`
	TargetMet    bool             `json:"targetMet"`
	Lines        []PlanLineRecord `json:"lines"`
}

// FarmState holds everything persisted for one farm.
type FarmState struct {
	Name     string        `json:"name"`
	Stock    []StockRecord `json:"stock"`
	LastPlan *PlanRecord   `json:"lastPlan,omitempty"`
}

type stateFile struct {
	Version       int                   `json:"version"`
	CurrentFarmID string                `json:"currentFarmId"`
	Farms         map[string]*FarmState `json:"farms"`
}

// Store owns the farm state file. All methods are safe for concurrent use so
// the HTTP server can share one Store across requests.
type Store struct {
	mu      sync.Mutex
	logger  *zap.Logger
	dataDir string
	state   stateFile
}

// NewStore loads the state file under dataDir, bootstrapping a single default
// farm when no state exists yet.
func NewStore(logger *zap.Logger, dataDir string) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dataDir == "" {
		dataDir = constants.DefaultDataDir
	}

	s := &Store{logger: logger, dataDir: dataDir}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFarmID returns a fresh 10-character hexadecimal farm identifier.
func NewFarmID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func (s *Store) statePath() string {
	return filepath.Join(s.dataDir, constants.StateFileName)
}

func (s *Store) load() (err error) {
	if mkErr := os.MkdirAll(s.dataDir, 0755); mkErr != nil {
		return fmt.Errorf("failed to create data directory %s: %w", s.dataDir, mkErr)
	}

	raw, readErr := os.ReadFile(s.statePath())
	if readErr != nil {
		if !os.IsNotExist(readErr) {
			return fmt.Errorf("failed to read state file %s: %w", s.statePath(), readErr)
		}
		fid := NewFarmID()
		s.state = stateFile{
			Version:       StateVersion,
			CurrentFarmID: fid,
			Farms:         map[string]*FarmState{fid: {Name: DefaultFarmName}},
		}
		s.logger.Info("no saved state found, starting a new farm",
			zap.String("op", "storage.load"),
			zap.String("farmId", fid),
		)
		return nil
	}

	if err = json.Unmarshal(raw, &s.state); err != nil {
		return fmt.Errorf("failed to parse state file %s: %w", s.statePath(), err)
	}
	if len(s.state.Farms) == 0 {
		return fmt.Errorf("state file %s contains no farms", s.statePath())
	}
	if _, ok := s.state.Farms[s.state.CurrentFarmID]; !ok {
		return fmt.Errorf("state file %s selects unknown farm %s", s.statePath(), s.state.CurrentFarmID)
	}
	return nil
}

// Save writes the state file atomically: marshal to a temp file in the data
// directory, then rename over the previous state.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	s.state.Version = StateVersion
	payload, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp := s.statePath() + ".tmp"
	if err := os.WriteFile(tmp, payload, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.statePath()); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// ActiveFarmID returns the identifier of the currently selected farm.
func (s *Store) ActiveFarmID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentFarmID
}

// ActiveFarm returns a copy of the currently selected farm's state.
func (s *Store) ActiveFarm() FarmState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyFarm(s.state.Farms[s.state.CurrentFarmID])
}

// FarmIDs returns all known farm identifiers in stable order.
func (s *Store) FarmIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.state.Farms))
	for id := range s.state.Farms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SelectFarm switches the active farm.
func (s *Store) SelectFarm(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Farms[id]; !ok {
		return fmt.Errorf("unknown farm %s", id)
	}
	s.state.CurrentFarmID = id
	return s.saveLocked()
}

// AddFarm creates a new empty farm and returns its identifier.
func (s *Store) AddFarm(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(name) == "" {
		name = DefaultFarmName
	}
	fid := NewFarmID()
	s.state.Farms[fid] = &FarmState{Name: name}
	return fid, s.saveLocked()
}

// RenameFarm updates the active farm's display name.
func (s *Store) RenameFarm(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("farm name cannot be empty")
	}
	s.state.Farms[s.state.CurrentFarmID].Name = name
	return s.saveLocked()
}

// FindStock returns the active farm's stock record for a product, if present.
func (s *Store) FindStock(productID string) (StockRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.state.Farms[s.state.CurrentFarmID].Stock {
		if rec.ProductID == productID {
			return rec, true
		}
	}
	return StockRecord{}, false
}

// UpsertStock inserts or replaces a stock record on the active farm. Any
// previously calculated plan is invalidated, since it no longer reflects the
// stock it was computed from.
func (s *Store) UpsertStock(rec StockRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	farm := s.state.Farms[s.state.CurrentFarmID]
	replaced := false
	for i := range farm.Stock {
		if farm.Stock[i].ProductID == rec.ProductID {
			farm.Stock[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		farm.Stock = append(farm.Stock, rec)
	}
	farm.LastPlan = nil
	return s.saveLocked()
}

// RemoveStock deletes a product from the active farm's stock and invalidates
// the last calculated plan.
func (s *Store) RemoveStock(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	farm := s.state.Farms[s.state.CurrentFarmID]
	for i := range farm.Stock {
		if farm.Stock[i].ProductID == productID {
			farm.Stock = append(farm.Stock[:i], farm.Stock[i+1:]...)
			farm.LastPlan = nil
			return s.saveLocked()
		}
	}
	return fmt.Errorf("product %s is not in stock", productID)
}

// SetLastPlan persists the most recently calculated plan for the active farm.
func (s *Store) SetLastPlan(plan *PlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Farms[s.state.CurrentFarmID].LastPlan = plan
	return s.saveLocked()
}

// Export returns a deep copy of all farms keyed by id plus the active id,
// for serialization at API boundaries.
func (s *Store) Export() (map[string]FarmState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	farms := make(map[string]FarmState, len(s.state.Farms))
	for id, farm := range s.state.Farms {
		farms[id] = copyFarm(farm)
	}
	return farms, s.state.CurrentFarmID
}

func copyFarm(farm *FarmState) FarmState {
	out := FarmState{Name: farm.Name}
	out.Stock = append(out.Stock, farm.Stock...)
	if farm.LastPlan != nil {
		plan := *farm.LastPlan
		plan.Lines = append([]PlanLineRecord(nil), farm.LastPlan.Lines...)
		out.LastPlan = &plan
	}
	return out
}
