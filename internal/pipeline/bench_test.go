package pipeline

import (
	"testing"
)

func BenchmarkAnalyze(b *testing.B) {
	ds := fixtureDataset(b)
	req := Request{Project: "P1", AsOf: fixtureAsOf}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rep, err := Analyze(ds, req)
		if err != nil {
			b.Fatal(err)
		}
		_ = rep
	}
}

func BenchmarkAnalyzeAll(b *testing.B) {
	ds, projects := largeDataset(b, 200)
	req := Request{AsOf: fixtureAsOf}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		results := AnalyzeAll(ds, projects, req, nil)
		for _, r := range results {
			if r.Err != nil {
				b.Fatal(r.Err)
			}
		}
	}
}

func BenchmarkCumulative(b *testing.B) {
	ds := fixtureDataset(b)
	row := ds.Actuals.Rows[0]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Cumulative(row.Months, row.Amounts); err != nil {
			b.Fatal(err)
		}
	}
}
