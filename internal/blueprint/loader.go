// Package blueprint loads and validates the structured dossier JSON
// produced by the external document-classification pipeline.
package blueprint

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/box3check/box3-engine/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Load reads and parses a blueprint file, validates it, and merges any
// embedded manual overrides.
func Load(filename string) (*domain.Blueprint, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return Parse(data)
}

// Parse decodes blueprint JSON, validates it, and merges any embedded
// manual overrides.
func Parse(data []byte) (*domain.Blueprint, error) {
	var bp domain.Blueprint
	if err := json.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("failed to parse blueprint JSON: %w", err)
	}

	if err := Validate(&bp); err != nil {
		return nil, fmt.Errorf("blueprint validation failed: %w", err)
	}

	if bp.Overrides != nil {
		ApplyOverrides(&bp, bp.Overrides)
	}
	return &bp, nil
}

// LoadOverrides reads a standalone manual-overrides file.
func LoadOverrides(filename string) (*domain.ManualOverrides, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var ov domain.ManualOverrides
	if err := json.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("failed to parse overrides JSON: %w", err)
	}
	return &ov, nil
}

// Validate checks the structural soundness of a blueprint. Data quality
// problems (absent amounts, implausible allocations) are not errors; the
// engine degrades on those. Only shapes the engine cannot work with at all
// are rejected.
func Validate(bp *domain.Blueprint) error {
	if bp.DossierID == "" {
		return fmt.Errorf("dossier id is required")
	}
	if bp.FiscalEntity.Taxpayer.ID == "" {
		return fmt.Errorf("taxpayer id is required")
	}
	if bp.FiscalEntity.FiscalPartner != nil && bp.FiscalEntity.FiscalPartner.ID == "" {
		return fmt.Errorf("fiscal partner present but has no id")
	}

	known := map[string]bool{bp.FiscalEntity.Taxpayer.ID: true, domain.OwnerJoint: true}
	if bp.FiscalEntity.FiscalPartner != nil {
		known[bp.FiscalEntity.FiscalPartner.ID] = true
	}

	seen := map[string]bool{}
	for _, asset := range bp.AllAssets() {
		if err := validateAsset(asset, known, seen); err != nil {
			return err
		}
	}

	for _, year := range bp.DeclaredYears() {
		if year < 2001 || year > 2100 {
			return fmt.Errorf("implausible tax year %d", year)
		}
	}
	return nil
}

func validateAsset(asset domain.Asset, knownOwners, seen map[string]bool) error {
	if asset.ID == "" {
		return fmt.Errorf("asset without id (%q)", asset.Description)
	}
	if seen[asset.ID] {
		return fmt.Errorf("duplicate asset id %s", asset.ID)
	}
	seen[asset.ID] = true

	if asset.OwnerID != "" && !knownOwners[asset.OwnerID] {
		return fmt.Errorf("asset %s has unknown owner %q", asset.ID, asset.OwnerID)
	}

	if pct, ok := asset.OwnershipPercentage.Value(); ok {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return fmt.Errorf("asset %s has ownership percentage outside 0-100: %s", asset.ID, pct.String())
		}
	}
	return nil
}

// ApplyOverrides merges user-supplied corrections into the blueprint.
// Only known override fields replace their extracted counterparts; the
// merge happens once, before recomputation.
func ApplyOverrides(bp *domain.Blueprint, ov *domain.ManualOverrides) {
	for _, override := range ov.Assets {
		applyAssetOverride(bp.BankAccounts, override)
		applyAssetOverride(bp.Investments, override)
		applyAssetOverride(bp.RealEstate, override)
		applyAssetOverride(bp.OtherAssets, override)
	}
}

func applyAssetOverride(assets []domain.Asset, override domain.AssetOverride) {
	for i := range assets {
		if assets[i].ID != override.AssetID {
			continue
		}
		if assets[i].YearlyData == nil {
			assets[i].YearlyData = map[int]domain.YearlyFigures{}
		}
		figures := assets[i].YearlyData[override.Year]
		mergeFigures(&figures, override.Figures)
		assets[i].YearlyData[override.Year] = figures
		return
	}
}

func mergeFigures(dst *domain.YearlyFigures, src domain.YearlyFigures) {
	if src.ValueJan1.Known() {
		dst.ValueJan1 = src.ValueJan1
	}
	if src.ValueDec31.Known() {
		dst.ValueDec31 = src.ValueDec31
	}
	if src.InterestReceived.Known() {
		dst.InterestReceived = src.InterestReceived
	}
	if src.DividendReceived.Known() {
		dst.DividendReceived = src.DividendReceived
	}
	if src.RealizedGain.Known() {
		dst.RealizedGain = src.RealizedGain
	}
	if src.RentalIncomeGross.Known() {
		dst.RentalIncomeGross = src.RentalIncomeGross
	}
	if src.RentalCosts.Known() {
		dst.RentalCosts = src.RentalCosts
	}
}
