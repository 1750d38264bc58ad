package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuhaohwang/flv-inspector/src/configs"
	"github.com/yuhaohwang/flv-inspector/src/instance"
	"github.com/yuhaohwang/flv-inspector/src/pkg/events"
	"github.com/yuhaohwang/flv-inspector/src/pkg/parser/native/flv"
)

func newTestCollector(t *testing.T, cfg *configs.Config) (context.Context, *collector, events.Dispatcher) {
	t.Helper()
	inst := &instance.Instance{Config: cfg}
	ctx := instance.WithInstance(context.Background(), inst)
	ed := events.NewDispatcher(ctx)
	c := NewCollector(ctx).(*collector)
	assert.Equal(t, inst.MetricsCollector, c)
	require.NoError(t, c.Start(ctx))
	return ctx, c, ed
}

func TestCollector(t *testing.T) {
	ctx, c, ed := newTestCollector(t, configs.NewConfig())

	ed.DispatchEvent(events.NewEvent(flv.TagParsed, &flv.Tag{Type: flv.AudioTag, DataSize: 2}))
	ed.DispatchEvent(events.NewEvent(flv.TagParsed, &flv.Tag{Type: flv.AudioTag, DataSize: 3, Timestamp: 23}))
	ed.DispatchEvent(events.NewEvent(flv.TagParsed, &flv.Tag{Type: flv.VideoTag, DataSize: 6, Timestamp: 40}))
	ed.DispatchEvent(events.NewEvent(flv.ParseFailed, &flv.ParseError{Kind: flv.KindTruncatedInput}))
	ed.DispatchEvent(events.NewEvent(flv.ParseFailed, errors.New("read error")))

	expected := `
# HELP flv_tags_total Number of parsed FLV tags.
# TYPE flv_tags_total counter
flv_tags_total{tag_type="audio"} 2
flv_tags_total{tag_type="video"} 1
# HELP flv_payload_bytes_total Declared payload bytes of parsed FLV tags.
# TYPE flv_payload_bytes_total counter
flv_payload_bytes_total{tag_type="audio"} 5
flv_payload_bytes_total{tag_type="video"} 6
# HELP flv_parse_errors_total Number of fatal parse errors.
# TYPE flv_parse_errors_total counter
flv_parse_errors_total{kind="Other"} 1
flv_parse_errors_total{kind="TruncatedInput"} 1
# HELP flv_last_timestamp_milliseconds Extended timestamp of the last parsed tag.
# TYPE flv_last_timestamp_milliseconds gauge
flv_last_timestamp_milliseconds 40
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))

	// 关闭后不再统计
	c.Close(ctx)
	ed.DispatchEvent(events.NewEvent(flv.TagParsed, &flv.Tag{Type: flv.ScriptTag}))
	assert.Equal(t, 7, testutil.CollectAndCount(c))
}

func TestCollectorTextfile(t *testing.T) {
	cfg := configs.NewConfig()
	cfg.Metrics.Enable = true
	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "flv.prom")

	ctx, c, ed := newTestCollector(t, cfg)
	ed.DispatchEvent(events.NewEvent(flv.TagParsed, &flv.Tag{Type: flv.ScriptTag, DataSize: 100}))
	c.Close(ctx)

	b, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `flv_tags_total{tag_type="script"} 1`)
	assert.Contains(t, string(b), `flv_payload_bytes_total{tag_type="script"} 100`)
}

func TestCollectorWithoutDispatcher(t *testing.T) {
	c := NewCollector(context.Background())
	assert.Error(t, c.Start(context.Background()))
}

func TestHandler(t *testing.T) {
	ctx, _, ed := newTestCollector(t, configs.NewConfig())
	ed.DispatchEvent(events.NewEvent(flv.TagParsed, &flv.Tag{Type: flv.ScriptTag, DataSize: 9}))

	rec := httptest.NewRecorder()
	Handler(ctx).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `flv_tags_total{tag_type="script"} 1`)

	rec = httptest.NewRecorder()
	Handler(context.Background()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
