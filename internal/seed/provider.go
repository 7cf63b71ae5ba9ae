package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Provider supplies the data to seed
type Provider interface {
	Dataset(ctx context.Context) (*Dataset, error)
}

// DemoProvider returns a small built-in dataset
type DemoProvider struct{}

// Dataset returns three friends sharing a weekend trip in Ghana cedis
func (DemoProvider) Dataset(_ context.Context) (*Dataset, error) {
	thirty := decimal.NewFromInt(30)
	fifty := decimal.NewFromInt(50)
	twenty := decimal.NewFromInt(20)
	return &Dataset{
		Users: []UserSpec{
			{Key: "ama", Name: "Ama Mensah", Email: "ama@example.com", Phone: "+233241234567"},
			{Key: "kofi", Name: "Kofi Boateng", Email: "kofi@example.com", Phone: "+233201111111"},
			{Key: "esi", Name: "Esi Owusu", Email: "esi@example.com", Phone: "+233551234567"},
		},
		Groups: []GroupSpec{{
			Name:        "Cape Coast weekend",
			Description: "Trip costs",
			Currency:    "GHS",
			Creator:     "ama",
			Members:     []string{"kofi", "esi"},
			Expenses: []ExpenseSpec{
				{
					Description: "Guest house",
					Amount:      decimal.NewFromInt(45000),
					PaidBy:      "ama",
					SplitType:   "EQUAL",
				},
				{
					Description: "Fuel",
					Amount:      decimal.NewFromInt(600),
					PaidBy:      "kofi",
					SplitType:   "PERCENTAGE",
					Participants: []ParticipantSpec{
						{User: "ama", Percentage: &fifty},
						{User: "kofi", Percentage: &thirty},
						{User: "esi", Percentage: &twenty},
					},
				},
			},
		}},
	}, nil
}

// FileProvider reads a dataset from a YAML file
type FileProvider struct {
	Path string
}

// Dataset reads and validates the file
func (p FileProvider) Dataset(_ context.Context) (*Dataset, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML dataset and validates it
func Parse(data []byte) (*Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
