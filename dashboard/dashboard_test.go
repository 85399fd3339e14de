package dashboard

import (
	"bytes"
	"fmt"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giygas/drugs-eda/dataset"
)

func record(condition, class string, rating float64) dataset.DrugRecord {
	return dataset.DrugRecord{
		GenericName:       "drug",
		DrugClasses:       class,
		MedicalCondition:  condition,
		SideEffects:       "hives",
		RelatedDrugs:      "Unknown",
		Rating:            dataset.Num(rating),
		NoOfReviews:       dataset.Num(10),
		Activity:          dataset.Num(0.5),
		CSA:               "N",
		RxOTC:             "Rx",
		PregnancyCategory: "C",
	}
}

// hundredRows has 5 Diabetes rows among 100
func hundredRows() *dataset.Table {
	records := make([]dataset.DrugRecord, 0, 100)
	for i := 0; i < 100; i++ {
		condition := fmt.Sprintf("Condition %02d", i%19)
		if i%20 == 0 {
			condition = "Diabetes"
		}
		class := "Biguanides"
		if i%2 == 1 {
			class = "Sulfonylureas"
		}
		records = append(records, record(condition, class, float64(i%10)+0.5))
	}
	return dataset.NewTable(dataset.RequiredColumns, records)
}

func TestFilters(t *testing.T) {
	table := dataset.NewTable(dataset.RequiredColumns, []dataset.DrugRecord{
		record("Pain", "Analgesics", 7),
		record("Acne", "Tetracyclines", 6),
		record("Pain", "Salicylates", 8),
	})

	opts := Filters(table)
	assert.Equal(t, []string{All, "Acne", "Pain"}, opts.Conditions)
	assert.Equal(t, []string{All, "Analgesics", "Salicylates", "Tetracyclines"}, opts.DrugClasses)

	empty := Filters(dataset.NewTable(dataset.RequiredColumns, nil))
	assert.Equal(t, []string{All}, empty.Conditions)
}

func TestFilterAllReturnsFullTable(t *testing.T) {
	table := hundredRows()
	assert.Same(t, table, Filter(table, NewSelection("", "")))
	assert.Same(t, table, Filter(table, Selection{Condition: All, DrugClass: All}))
}

func TestFilterIsConjunction(t *testing.T) {
	table := hundredRows()

	assert.Equal(t, 5, Filter(table, NewSelection("Diabetes", All)).Len())
	assert.Equal(t, 50, Filter(table, NewSelection(All, "Sulfonylureas")).Len())
	// Diabetes rows sit on even indexes, so none is a sulfonylurea
	assert.Equal(t, 0, Filter(table, NewSelection("Diabetes", "Sulfonylureas")).Len())
	assert.Equal(t, 5, Filter(table, NewSelection("Diabetes", "Biguanides")).Len())
	assert.Equal(t, 0, Filter(table, NewSelection("diabetes", All)).Len(), "matching is exact")
}

func TestBuildDiabetesView(t *testing.T) {
	v := Build(hundredRows(), NewSelection("Diabetes", All))

	assert.Equal(t, 100, v.Total)
	assert.Equal(t, 5, v.Count)
	assert.Len(t, v.Preview, 5)
	assert.Equal(t, 5, v.RatingHistogram.N)

	total := 0
	full := Build(hundredRows(), NewSelection(All, All))
	for _, c := range full.TopConditions {
		total += c.Count
	}
	all := 0
	for _, c := range v.TopConditions {
		all += c.Count
	}
	assert.Equal(t, total, all, "top conditions describe the full table")
	assert.Equal(t, full.TopSideEffects, v.TopSideEffects)

	require.Len(t, v.RatingsByClass, 1)
	assert.Equal(t, "Biguanides", v.RatingsByClass[0].Group)
}

func TestBuildTopConditionsSumToTotal(t *testing.T) {
	// 20 distinct conditions; top N large enough to cover all of them
	v := BuildWith(hundredRows(), NewSelection("Diabetes", All), Options{TopN: 50})

	sum := 0
	for _, c := range v.TopConditions {
		sum += c.Count
	}
	assert.Equal(t, 100, sum)
	assert.Equal(t, 5, v.Count)
}

func TestBuildPreviewIsCapped(t *testing.T) {
	v := Build(hundredRows(), NewSelection(All, All))
	assert.Equal(t, 100, v.Count)
	assert.Len(t, v.Preview, 20)
	assert.Len(t, v.TopConditions, 10)

	v = BuildWith(hundredRows(), NewSelection(All, All), Options{PreviewRows: 3})
	assert.Len(t, v.Preview, 3)
}

func TestBuildZeroMatches(t *testing.T) {
	v := Build(hundredRows(), NewSelection("Nonexistent", All))

	assert.Equal(t, 0, v.Count)
	assert.Empty(t, v.Preview)
	assert.True(t, v.RatingHistogram.Empty())
	assert.Empty(t, v.RatingsByClass)
	assert.NotEmpty(t, v.TopConditions)
}

func TestRenderChart(t *testing.T) {
	views := map[string]*View{
		"full":  Build(hundredRows(), NewSelection(All, All)),
		"empty": Build(hundredRows(), NewSelection("Nonexistent", All)),
	}

	for label, v := range views {
		for _, name := range ChartNames {
			t.Run(label+"/"+name, func(t *testing.T) {
				var buf bytes.Buffer
				require.NoError(t, RenderChart(&buf, name, v))
				cfg, err := png.DecodeConfig(&buf)
				require.NoError(t, err)
				assert.Equal(t, chartSizes[name].Width, cfg.Width)
			})
		}
	}
}

func TestRenderUnknownChart(t *testing.T) {
	var buf bytes.Buffer
	err := RenderChart(&buf, "pie", Build(hundredRows(), NewSelection(All, All)))
	assert.ErrorIs(t, err, ErrUnknownChart)
	assert.Zero(t, buf.Len())
}
