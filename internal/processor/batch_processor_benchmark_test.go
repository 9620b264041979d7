package processor

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"propertylens/config"
	"propertylens/internal/models"
	"propertylens/internal/queue"
)

func BenchmarkBatchProcessing(b *testing.B) {
	batchSizes := []int{1, 10, 50}
	recordCounts := []int{100, 1000}

	for _, batchSize := range batchSizes {
		for _, recordCount := range recordCounts {
			b.Run(fmt.Sprintf("BatchSize_%d_Records_%d", batchSize, recordCount), func(b *testing.B) {
				cfg := &config.Config{}
				cfg.BatchProcessing.MaxRetries = 1
				cfg.BatchProcessing.MaxBatchSize = batchSize
				logger := logrus.New()
				logger.SetLevel(logrus.WarnLevel) // Reduce logging noise during benchmarks

				records := generateTestRecords(recordCount)
				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					b.StopTimer()
					db := setupTestDB(b)
					processor := NewBatchProcessor(db, queue.NewAnalysisQueue(recordCount, logger), cfg, logger)
					b.StartTimer()

					for _, r := range records {
						require.NoError(b, processor.accept([]*models.AnalysisRecord{r}))
					}
					require.NoError(b, processor.Flush())
				}
			})
		}
	}
}
