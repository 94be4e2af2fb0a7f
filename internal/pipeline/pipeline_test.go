package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrosariodev/dealscout/internal/models"
)

func newDeal(title, brand string, price float64) *models.Deal {
	d := models.NewDeal()
	d.Title = title
	d.Brand = brand
	d.Price = price
	d.URL = "https://example.test/" + brand
	d.Category = models.CategoryTV
	d.Condition = models.ConditionNew
	d.Location = "Santo Domingo"
	return d
}

func TestCleanNormalizesTitlesAndBrands(t *testing.T) {
	deals := []*models.Deal{
		newDeal("  Samsung   Smart\tTV  ", "Smg", 32000),
		newDeal("LG Nevera", "Lg", 45000),
	}

	cleaned := Clean(deals)

	require.Len(t, cleaned, 2)
	assert.Equal(t, "Samsung Smart TV", cleaned[0].Title)
	assert.Equal(t, "Samsung", cleaned[0].Brand)
	assert.Equal(t, "LG", cleaned[1].Brand)
}

func TestCleanDropsInvalidDeals(t *testing.T) {
	valid := newDeal("Samsung TV", "Samsung", 32000)
	noTitle := newDeal("", "LG", 45000)
	negative := newDeal("Mabe Estufa", "Mabe", -1)

	cleaned := Clean([]*models.Deal{valid, noTitle, negative})

	require.Len(t, cleaned, 1)
	assert.Equal(t, "Samsung TV", cleaned[0].Title)
}

func TestStandardizeBrand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Smg", "Samsung"},
		{"lg", "LG"},
		{"Elgie", "LG"},
		{"wirlpool", "Whirlpool"},
		{"mabe", "Mabe"},
		{"SONY", "Sony"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, StandardizeBrand(tt.input))
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deals.json")
	store := NewSnapshotStore(path)

	results := map[string][]*models.Deal{
		"electrodomesticos": {newDeal("Samsung TV", "Samsung", 32000)},
		"plazalama":         {newDeal("TCL TV", "TCL", 27000), newDeal("Oster Micro", "Oster", 4000)},
	}

	require.NoError(t, store.Save(results))

	snapshot, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, snapshot.Metadata.TotalDeals)
	assert.False(t, snapshot.Metadata.GeneratedAt.IsZero())
	assert.Len(t, snapshot.Data["plazalama"], 2)
	assert.Len(t, snapshot.Deals(), 3)
}

func TestSnapshotLoadMissingFile(t *testing.T) {
	store := NewSnapshotStore(filepath.Join(t.TempDir(), "absent.json"))
	_, err := store.Load()
	assert.Error(t, err)
}
