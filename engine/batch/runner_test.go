package batch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/compozy/pdftab/engine/core"
	"github.com/compozy/pdftab/engine/document"
	"github.com/compozy/pdftab/engine/encode"
	"github.com/compozy/pdftab/engine/table"
	"github.com/compozy/pdftab/test/helpers"
)

// stubParser returns canned pages per document name and records call order.
type stubParser struct {
	pages map[string][]string
	fail  map[string]error
	calls []string
}

func (s *stubParser) Pages(_ context.Context, name string, _ []byte) ([]string, error) {
	s.calls = append(s.calls, name)
	if err, ok := s.fail[name]; ok {
		return nil, err
	}
	return s.pages[name], nil
}

func docs(names ...string) []Document {
	out := make([]Document, 0, len(names))
	for _, name := range names {
		out = append(out, Document{Name: name, Data: []byte(name)})
	}
	return out
}

func TestRunner_Extract(t *testing.T) {
	t.Run("Should keep file then page then row order", func(t *testing.T) {
		parser := &stubParser{pages: map[string][]string{
			"a.pdf": {"Name    Age\nAlice   30\nBob     25\n\nnot a table line", "K  V\nk1  v1"},
			"b.pdf": {"X  Y\r\n1  2\r\n3  4"},
		}}
		records, err := NewRunner(parser).Extract(t.Context(), docs("a.pdf", "b.pdf"))
		require.NoError(t, err)
		expected := table.ResultSet{
			table.RecordFromPairs("Name", "Alice", "Age", "30"),
			table.RecordFromPairs("Name", "Bob", "Age", "25"),
			table.RecordFromPairs("K", "k1", "V", "v1"),
			table.RecordFromPairs("X", "1", "Y", "2"),
			table.RecordFromPairs("X", "3", "Y", "4"),
		}
		assert.True(t, expected.Equal(records))
		assert.Equal(t, []string{"a.pdf", "b.pdf"}, parser.calls)
	})
	t.Run("Should fail fast naming the document", func(t *testing.T) {
		cause := errors.New("xref table missing")
		parser := &stubParser{
			pages: map[string][]string{"a.pdf": {"A  B\n1  2"}, "c.pdf": {"A  B\n3  4"}},
			fail:  map[string]error{"b.pdf": cause},
		}
		records, err := NewRunner(parser).Extract(t.Context(), docs("a.pdf", "b.pdf", "c.pdf"))
		require.Error(t, err)
		assert.Nil(t, records)
		assert.ErrorIs(t, err, core.ErrDocumentDecode)
		assert.ErrorIs(t, err, cause)
		var decodeErr *core.DocumentDecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "b.pdf", decodeErr.Name)
		assert.Equal(t, []string{"a.pdf", "b.pdf"}, parser.calls)
	})
	t.Run("Should reject oversized documents before parsing", func(t *testing.T) {
		parser := &stubParser{}
		big := Document{Name: "big.pdf", Data: []byte(strings.Repeat("x", 2048))}
		_, err := NewRunner(parser, WithMaxFileSize(1024)).Extract(t.Context(), []Document{big})
		assert.ErrorIs(t, err, core.ErrDocumentTooLarge)
		assert.ErrorIs(t, err, core.ErrDocumentDecode)
		assert.Contains(t, err.Error(), "2.0 KiB exceeds 1.0 KiB")
		assert.Empty(t, parser.calls)
	})
	t.Run("Should normalize decomposed accents in keys and values", func(t *testing.T) {
		parser := &stubParser{pages: map[string][]string{
			"a.pdf": {"Cafe\u0301  Prix\nNoir  2"},
		}}
		records, err := NewRunner(parser).Extract(t.Context(), docs("a.pdf"))
		require.NoError(t, err)
		require.Len(t, records, 1)
		v, ok := records[0].Get("Caf\u00e9")
		assert.True(t, ok)
		assert.Equal(t, "Noir", v)
	})
	t.Run("Should skip normalization when disabled", func(t *testing.T) {
		parser := &stubParser{pages: map[string][]string{
			"a.pdf": {"Cafe\u0301  Prix\nNoir  2"},
		}}
		records, err := NewRunner(parser, WithLineNormalizer(nil)).Extract(t.Context(), docs("a.pdf"))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].Has("Cafe\u0301"))
	})
	t.Run("Should return the context error when canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		parser := &stubParser{}
		_, err := NewRunner(parser).Extract(ctx, docs("a.pdf"))
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, core.ErrDocumentDecode)
	})
	t.Run("Should extract tables from a generated pdf", func(t *testing.T) {
		data := helpers.BuildPDF(t, helpers.TableRows(
			[]string{"Name", "Age"},
			[]string{"Alice", "30"},
			[]string{"Bob", "25"},
		))
		runner := NewRunner(document.NewAutoParser())
		records, err := runner.Extract(t.Context(), []Document{{Name: "people.pdf", Data: data}})
		require.NoError(t, err)
		expected := table.ResultSet{
			table.RecordFromPairs("Name", "Alice", "Age", "30"),
			table.RecordFromPairs("Name", "Bob", "Age", "25"),
		}
		assert.True(t, expected.Equal(records))
	})
}

func TestRunner_Run(t *testing.T) {
	parser := &stubParser{pages: map[string][]string{
		"a.pdf": {"Item  Qty\nBolt  7"},
	}}
	t.Run("Should encode the result set once in the requested format", func(t *testing.T) {
		out, err := NewRunner(parser).Run(t.Context(), docs("a.pdf"), "csv")
		require.NoError(t, err)
		assert.Equal(t, encode.FormatCSV, out.Format)
		assert.Equal(t, "Item,Qty\r\nBolt,7\r\n", string(out.Data))
		assert.Equal(t, 1, out.Records)
		assert.Len(t, out.Result, 1)
		assert.Equal(t, "processed_data.csv", out.FileName)
		assert.Equal(t, encode.FormatCSV.MIMEType(), out.MIMEType)
		assert.False(t, out.RunID.IsZero())
	})
	t.Run("Should default to structured text when no format is given", func(t *testing.T) {
		out, err := NewRunner(parser).Run(t.Context(), docs("a.pdf"), "")
		require.NoError(t, err)
		assert.Equal(t, encode.FormatJSON, out.Format)
		assert.JSONEq(t, `[{"Item":"Bolt","Qty":"7"}]`, string(out.Data))
	})
	t.Run("Should reject an unknown format after extraction", func(t *testing.T) {
		p := &stubParser{pages: parser.pages}
		out, err := NewRunner(p).Run(t.Context(), docs("a.pdf"), "xml")
		assert.Nil(t, out)
		assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
		assert.Contains(t, err.Error(), `"xml"`)
		assert.Equal(t, []string{"a.pdf"}, p.calls)
	})
	t.Run("Should encode an empty result set", func(t *testing.T) {
		empty := &stubParser{pages: map[string][]string{"a.pdf": {"just prose"}}}
		out, err := NewRunner(empty).Run(t.Context(), docs("a.pdf"), "csv")
		require.NoError(t, err)
		assert.Equal(t, 0, out.Records)
		assert.Empty(t, out.Data)
	})
}

func TestMetrics(t *testing.T) {
	t.Run("Should count documents records and failures", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
		ResetMetricsForTesting()
		t.Cleanup(ResetMetricsForTesting)
		parser := &stubParser{
			pages: map[string][]string{"a.pdf": {"A  B\n1  2\n3  4"}},
			fail:  map[string]error{"bad.pdf": errors.New("broken")},
		}
		runner := NewRunner(parser)
		_, err := runner.Run(t.Context(), docs("a.pdf"), "json")
		require.NoError(t, err)
		_, err = runner.Run(t.Context(), docs("bad.pdf"), "json")
		require.Error(t, err)
		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(t.Context(), &rm))
		assert.Equal(t, int64(1), sumValue(t, rm, "pdftab_batch_files_total"))
		assert.Equal(t, int64(2), sumValue(t, rm, "pdftab_batch_records_total"))
		assert.Equal(t, int64(1), sumValue(t, rm, "pdftab_batch_failures_total"))
	})
}

func sumValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
