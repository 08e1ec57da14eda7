package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/txnload/internal/adapters/fs"
	"github.com/bft-labs/txnload/internal/domain"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank_transactions_data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func inputWith(n int) string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf(`{"TransactionID": "TX%06d", "AccountID": "AC%05d", "TransactionAmount": %d.09, "CustomerAge": 41, "Channel": "ATM"}`, i+1, i%7, i)
	}
	return "[" + strings.Join(rows, ",\n") + "]"
}

func TestPipeline_Run(t *testing.T) {
	path := writeInput(t, inputWith(30))
	tables := &fakeTables{}
	logger, buf := jsonLogger(t)
	reports := fs.NewReportFileRepository(filepath.Join(t.TempDir(), "report.json"))

	p := NewPipeline(PipelineConfig{File: path, Table: testTable, BatchSize: 25, Retry: fastPolicy(3)}, tables, reports, logger)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, report.Records)
	assert.Equal(t, 2, report.TotalBatches)
	assert.Equal(t, 30, report.Written())
	assert.NotEmpty(t, report.RunID)

	calls := tables.Calls()
	require.Len(t, calls, 2)
	assert.Len(t, calls[0], 25)
	assert.Len(t, calls[1], 5)
	assert.Equal(t, []string{testTable, testTable}, tables.tables)

	first := calls[0][0]
	assert.Equal(t, 0, first.Index)
	id, _ := first.Item.Get("TransactionID")
	assert.Equal(t, "TX000001", id.Str)
	amount, _ := first.Item.Get("TransactionAmount")
	assert.True(t, amount.Exact)
	assert.Equal(t, "0.09", amount.Decimal.String())
	age, _ := first.Item.Get("CustomerAge")
	assert.Equal(t, "41", age.Decimal.String())

	loaded := withMessage(entries(t, buf), "loaded transactions")
	require.Len(t, loaded, 1)
	assert.Equal(t, 30, loaded[0].int("transactions"))
	assert.Equal(t, 2, loaded[0].int("batches"))

	saved, err := reports.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, report.RunID, saved.RunID)
	assert.Len(t, saved.Batches, 2)
}

func TestPipeline_EmptyInput(t *testing.T) {
	path := writeInput(t, `[]`)
	tables := &fakeTables{}
	logger, buf := jsonLogger(t)

	p := NewPipeline(PipelineConfig{File: path, Table: testTable, BatchSize: 25}, tables, nil, logger)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, tables.Calls())
	assert.Equal(t, 0, report.TotalBatches)
	loaded := withMessage(entries(t, buf), "loaded transactions")
	require.Len(t, loaded, 1)
	assert.Equal(t, 0, loaded[0].int("batches"))
}

func TestPipeline_MalformedInput(t *testing.T) {
	path := writeInput(t, `[{"TransactionID": "TX000001", "TransactionAmount": 14.09},`)
	tables := &fakeTables{}
	logger, buf := jsonLogger(t)
	reports := fs.NewReportFileRepository(filepath.Join(t.TempDir(), "report.json"))

	p := NewPipeline(PipelineConfig{File: path, Table: testTable, BatchSize: 25}, tables, reports, logger)
	report, err := p.Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrParse), "error = %v", err)
	assert.Empty(t, tables.Calls())
	assert.Len(t, withMessage(entries(t, buf), "load failed"), 1)
	assert.NotEmpty(t, report.Error)

	saved, loadErr := reports.Load(context.Background())
	require.NoError(t, loadErr)
	assert.Equal(t, report.Error, saved.Error)
}

func TestPipeline_MissingInput(t *testing.T) {
	tables := &fakeTables{}
	p := NewPipeline(PipelineConfig{File: filepath.Join(t.TempDir(), "nope.json"), Table: testTable}, tables, nil, nil)

	_, err := p.Run(context.Background())
	assert.True(t, errors.Is(err, domain.ErrFileNotFound), "error = %v", err)
	assert.Empty(t, tables.Calls())
}

func TestPipeline_FailedBatchIsReportedNotReturned(t *testing.T) {
	path := writeInput(t, inputWith(75))
	tables := &fakeTables{}
	tables.respond = func(call int, sent []domain.PutRequest) ([]domain.PutRequest, error) {
		if call == 2 {
			return nil, errors.New("AccessDeniedException")
		}
		return nil, nil
	}

	p := NewPipeline(PipelineConfig{File: path, Table: testTable, BatchSize: 25, Retry: fastPolicy(3)}, tables, nil, nil)
	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, tables.Calls(), 3)
	assert.Equal(t, 1, report.FailedBatches())
	assert.Equal(t, 50, report.Written())
	dropped := report.Dropped()
	require.Len(t, dropped, 25)
	assert.Equal(t, 25, dropped[0])
	assert.Equal(t, 49, dropped[24])
}

func TestNewPipeline_ClampsBatchSize(t *testing.T) {
	for _, size := range []int{0, -3, 26, 100} {
		p := NewPipeline(PipelineConfig{BatchSize: size}, &fakeTables{}, nil, nil)
		assert.Equal(t, domain.MaxBatchWriteItems, p.config.BatchSize, "size %d", size)
	}
}

func TestPipeline_LogsPreviousRun(t *testing.T) {
	reports := fs.NewReportFileRepository(filepath.Join(t.TempDir(), "report.json"))
	require.NoError(t, reports.Save(context.Background(), domain.RunReport{
		RunID: "prev-run",
		Batches: []domain.BatchResult{
			{Number: 1, Status: domain.BatchWritten, Requests: 25},
			{Number: 2, Status: domain.BatchFailed, Requests: 3, Dropped: []int{25, 26, 27}},
		},
	}))
	logger, buf := jsonLogger(t)

	p := NewPipeline(PipelineConfig{File: writeInput(t, `[]`), Table: testTable}, &fakeTables{}, reports, logger)
	_, err := p.Run(context.Background())
	require.NoError(t, err)

	prev := withMessage(entries(t, buf), "previous run")
	require.Len(t, prev, 1)
	assert.Equal(t, "prev-run", prev[0]["run_id"])
	assert.Equal(t, 25, prev[0].int("written"))
	assert.Equal(t, 3, prev[0].int("dropped"))
}

func TestPipeline_NoPreviousRun(t *testing.T) {
	reports := fs.NewReportFileRepository(filepath.Join(t.TempDir(), "report.json"))
	logger, buf := jsonLogger(t)

	p := NewPipeline(PipelineConfig{File: writeInput(t, `[]`), Table: testTable}, &fakeTables{}, reports, logger)
	_, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, withMessage(entries(t, buf), "previous run"))
}
