package services

import (
	"math"
	"sort"

	"github.com/custodia-labs/overlap/internal/core/domain"
)

const defaultBatchSize = 10

// AggregateBatches splits docs into contiguous batches of size (the last
// may be shorter) and computes descriptive statistics per batch. Averages
// are rounded half away from zero.
func AggregateBatches(docs []domain.Document, size int) domain.BatchReport {
	if size <= 0 {
		size = defaultBatchSize
	}

	report := domain.BatchReport{
		TotalDocuments: len(docs),
		Batches:        []domain.Batch{},
	}

	for start := 0; start < len(docs); start += size {
		end := min(start+size, len(docs))
		batch := summariseBatch(docs[start:end])
		batch.Index = len(report.Batches) + 1
		report.Batches = append(report.Batches, batch)
		report.TotalCharacters += batch.TotalChars
	}

	report.AverageLength = roundedAverage(report.TotalCharacters, report.TotalDocuments)
	return report
}

func summariseBatch(docs []domain.Document) domain.Batch {
	batch := domain.Batch{Documents: len(docs)}
	seen := make(map[string]struct{})
	for _, d := range docs {
		batch.TotalChars += d.Length()
		if _, ok := seen[d.Author]; !ok {
			seen[d.Author] = struct{}{}
			batch.Authors = append(batch.Authors, d.Author)
		}
	}
	sort.Strings(batch.Authors)
	batch.AvgChars = roundedAverage(batch.TotalChars, batch.Documents)
	return batch
}

func roundedAverage(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}
