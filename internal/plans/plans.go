package plans

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// ErrPlanNotFound is returned when a plan id is not in the catalog.
var ErrPlanNotFound = errors.New("staking plan not found")

// Plan is an immutable staking plan catalog entry. DailyRate is a fraction
// (0.001 = 0.1% per day).
type Plan struct {
	Id             string          `json:"id"`
	Name           string          `json:"name"`
	DailyRate      decimal.Decimal `json:"daily_rate"`
	MinStakeAmount decimal.Decimal `json:"min_stake_amount"`
	LockPeriodDays int             `json:"lock_period_days"`
}

type planYAML struct {
	Id             string `yaml:"id"`
	Name           string `yaml:"name"`
	DailyRate      string `yaml:"daily_rate"`
	MinStakeAmount string `yaml:"min_stake_amount"`
	LockPeriodDays int    `yaml:"lock_period_days"`
}

type catalogYAML struct {
	Plans []planYAML `yaml:"plans"`
}

// Catalog is a read-only staking plan catalog loaded at startup.
type Catalog struct {
	byId  map[string]Plan
	order []string
}

// Load reads and validates the plan catalog from a YAML file. Rates and
// amounts are parsed as decimal strings so the catalog never goes through
// binary floating point.
func Load(plansFile string) (*Catalog, error) {
	var plansPath string
	if filepath.IsAbs(plansFile) {
		plansPath = plansFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		plansPath = filepath.Join(wd, plansFile)
	}

	data, err := os.ReadFile(plansPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", plansFile, err)
	}

	return Parse(data)
}

// Parse builds a catalog from raw YAML.
func Parse(data []byte) (*Catalog, error) {
	var raw catalogYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unable to parse plan catalog: %w", err)
	}

	if len(raw.Plans) == 0 {
		return nil, fmt.Errorf("plan catalog contains no plans")
	}

	catalog := &Catalog{byId: make(map[string]Plan, len(raw.Plans))}
	for i, entry := range raw.Plans {
		if entry.Id == "" {
			return nil, fmt.Errorf("plan at index %d missing id", i)
		}
		if entry.Name == "" {
			return nil, fmt.Errorf("plan %s missing name", entry.Id)
		}
		if _, exists := catalog.byId[entry.Id]; exists {
			return nil, fmt.Errorf("duplicate plan id %s", entry.Id)
		}

		rate, err := decimal.NewFromString(entry.DailyRate)
		if err != nil {
			return nil, fmt.Errorf("plan %s: invalid daily_rate %q: %w", entry.Id, entry.DailyRate, err)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("plan %s: daily_rate must not be negative", entry.Id)
		}

		minStake, err := decimal.NewFromString(entry.MinStakeAmount)
		if err != nil {
			return nil, fmt.Errorf("plan %s: invalid min_stake_amount %q: %w", entry.Id, entry.MinStakeAmount, err)
		}
		if minStake.IsNegative() {
			return nil, fmt.Errorf("plan %s: min_stake_amount must not be negative", entry.Id)
		}

		if entry.LockPeriodDays <= 0 {
			return nil, fmt.Errorf("plan %s: lock_period_days must be positive, got %d", entry.Id, entry.LockPeriodDays)
		}

		catalog.byId[entry.Id] = Plan{
			Id:             entry.Id,
			Name:           entry.Name,
			DailyRate:      rate,
			MinStakeAmount: minStake,
			LockPeriodDays: entry.LockPeriodDays,
		}
		catalog.order = append(catalog.order, entry.Id)
	}

	return catalog, nil
}

// Get returns the plan with the given id.
func (c *Catalog) Get(planId string) (Plan, error) {
	plan, ok := c.byId[planId]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, planId)
	}
	return plan, nil
}

// List returns all plans in catalog order.
func (c *Catalog) List() []Plan {
	result := make([]Plan, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.byId[id])
	}
	return result
}

// Ids returns the plan ids sorted lexicographically, mainly for logging.
func (c *Catalog) Ids() []string {
	ids := make([]string, 0, len(c.byId))
	for id := range c.byId {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
