package emissions

import (
	"errors"
	"math"
	"testing"

	"carbonledger/internal/adapters/persistence/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFactorKnownActivity(t *testing.T) {
	factor, err := Factor(models.CategoryFuel, "Natural gas")
	if err != nil {
		t.Fatalf("Factor returned error: %v", err)
	}
	if !almostEqual(factor, 2.02) {
		t.Errorf("expected factor 2.02, got %v", factor)
	}
}

func TestFactorUnknownActivity(t *testing.T) {
	_, err := Factor(models.CategoryFuel, "Unobtainium")
	if !errors.Is(err, ErrUnknownActivityType) {
		t.Errorf("expected ErrUnknownActivityType, got %v", err)
	}
}

func TestFactorUnsupportedCategory(t *testing.T) {
	_, err := Factor(models.CategoryWater, "anything")
	if !errors.Is(err, ErrUnsupportedCategory) {
		t.Errorf("expected ErrUnsupportedCategory, got %v", err)
	}
}

func TestComputeMultipliesAmountByFactor(t *testing.T) {
	results, err := Compute(models.CategoryFuel, []Entry{
		{ActivityType: "Natural gas", Amount: 10},
		{ActivityType: "LPG", Amount: 2},
	})
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !almostEqual(results[0].CO2e, 20.2) {
		t.Errorf("expected 10 * 2.02 = 20.2, got %v", results[0].CO2e)
	}
	if !almostEqual(results[1].CO2e, 3.12) {
		t.Errorf("expected 2 * 1.56 = 3.12, got %v", results[1].CO2e)
	}
	if !almostEqual(Total(results), 23.32) {
		t.Errorf("expected total 23.32, got %v", Total(results))
	}
}

func TestComputeFailsWholeBatchOnUnknownActivity(t *testing.T) {
	results, err := Compute(models.CategoryFuel, []Entry{
		{ActivityType: "Natural gas", Amount: 10},
		{ActivityType: "Unobtainium", Amount: 5},
	})
	if !errors.Is(err, ErrUnknownActivityType) {
		t.Fatalf("expected ErrUnknownActivityType, got %v", err)
	}
	if results != nil {
		t.Errorf("expected no partial results, got %v", results)
	}
}

func TestComputeVehicleCodes(t *testing.T) {
	results, err := Compute(models.CategoryOwnedVehicles, []Entry{
		{ActivityType: "6007", Amount: 100},
	})
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if !almostEqual(results[0].CO2e, 24) {
		t.Errorf("expected 100 * 0.24 = 24, got %v", results[0].CO2e)
	}
}

func TestDecodeEntriesWrappedObject(t *testing.T) {
	entries, err := DecodeEntries([]byte(`{"entries":[{"activityType":"Electricity","amount":3}]}`))
	if err != nil {
		t.Fatalf("DecodeEntries returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].ActivityType != "Electricity" || entries[0].Amount != 3 {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestDecodeEntriesBareArray(t *testing.T) {
	entries, err := DecodeEntries([]byte(`[{"activityType":"Electricity","amount":3}]`))
	if err != nil {
		t.Fatalf("DecodeEntries returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].ActivityType != "Electricity" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestDecodeEntriesEmptyObject(t *testing.T) {
	entries, err := DecodeEntries([]byte(`{}`))
	if err != nil {
		t.Fatalf("DecodeEntries returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %+v", entries)
	}
}
