package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urc/models"
	"urc/services/remotetest"
)

func TestFilterByRelawan(t *testing.T) {
	records := []models.Record{
		{"relawan": "Budi "},
		{"relawan": "ANI"},
		{},
	}

	assert.Equal(t, []models.Record{{"relawan": "Budi "}}, FilterByRelawan(records, "budi"))
	assert.Equal(t, []models.Record{{"relawan": "ANI"}}, FilterByRelawan(records, "  Ani "))
	assert.Empty(t, FilterByRelawan(records, ""))
	assert.NotNil(t, FilterByRelawan(nil, "budi"))
}

func TestFilterByRelawanNonStringValues(t *testing.T) {
	records := []models.Record{
		{"relawan": float64(42)},
		{"relawan": float64(0)},
		{"relawan": nil},
		{"relawan": ""},
		{"relawan": true},
	}

	assert.Equal(t, []models.Record{{"relawan": float64(42)}}, FilterByRelawan(records, " 42"))
	assert.Empty(t, FilterByRelawan(records, "0"))
	assert.Equal(t, []models.Record{{"relawan": true}}, FilterByRelawan(records, "TRUE"))
}

func TestGetDataByRelawanBackup(t *testing.T) {
	remote := remotetest.New(
		models.Record{"id": "1", "relawan": "Budi "},
		models.Record{"id": "2", "relawan": "ANI"},
		models.Record{"id": "3"},
	)
	defer remote.Close()

	env := newTestGateway(t, remote.URL).GetDataByRelawanBackup(context.Background(), "budi")
	assert.Equal(t, models.StatusSuccess, env.Status)
	assert.Equal(t, []models.Record{{"id": "1", "relawan": "Budi "}}, env.Data)
	assert.Equal(t, "Data ditemukan: 1 pengajuan (client-side filter)", env.Message)
	assert.Equal(t, 0, remote.Calls(ActionGetByRelawan))
}

func TestGetDataByRelawanBackupMixedDataset(t *testing.T) {
	remote := remotetest.New()
	defer remote.Close()
	remote.Set(func(s *remotetest.Server) {
		s.AllBody = `{"status":"success","data":[{"id":"1","relawan":"Budi"},"junk",42,{"id":"2","relawan":"Ani"}]}`
	})

	g := newTestGateway(t, remote.URL)
	env := g.GetDataByRelawanBackup(context.Background(), "budi")
	assert.Equal(t, []models.Record{{"id": "1", "relawan": "Budi"}}, env.Data)
	assert.Equal(t, "Data ditemukan: 1 pengajuan (client-side filter)", env.Message)

	res := g.Resolve(context.Background(), "budi")
	assert.Equal(t, models.SourceFallback, res.Source)
	assert.Equal(t, env, res.Envelope)
}

func TestGetDataByRelawanBackupUnsuccessfulDataset(t *testing.T) {
	for _, body := range []string{`{"status":"error","message":"sheet missing"}`, `{"status":"success"}`} {
		remote := remotetest.New()
		remote.Set(func(s *remotetest.Server) { s.AllBody = body })

		env := newTestGateway(t, remote.URL).GetDataByRelawanBackup(context.Background(), "budi")
		assert.Equal(t, models.EmptyEnvelope(), env, body)
		remote.Close()
	}
}

func TestResolvePrimary(t *testing.T) {
	remote := remotetest.New(models.Record{"id": "1", "relawan": "Budi"})
	defer remote.Close()

	g := newTestGateway(t, remote.URL)
	ctx := context.Background()

	res := g.Resolve(ctx, "Budi")
	assert.Equal(t, models.SourcePrimary, res.Source)
	assert.Equal(t, g.GetDataByRelawan(ctx, "Budi"), res.Envelope)
	assert.Equal(t, 0, remote.Calls(ActionGetAll))
}

func TestResolveFallsBackOnEmptyPrimary(t *testing.T) {
	remote := remotetest.New(
		models.Record{"id": "1", "relawan": "Budi "},
		models.Record{"id": "2", "relawan": "ANI"},
	)
	defer remote.Close()

	g := newTestGateway(t, remote.URL)
	ctx := context.Background()

	res := g.Resolve(ctx, "budi")
	assert.Equal(t, models.SourceFallback, res.Source)
	assert.Equal(t, g.GetDataByRelawanBackup(ctx, "budi"), res.Envelope)
	assert.Equal(t, []models.Record{{"id": "1", "relawan": "Budi "}}, res.Envelope.Data)
	assert.Equal(t, res.Envelope, g.GetDataByRelawanEnhanced(ctx, "budi"))
}

func TestResolveFallsBackOnNetworkError(t *testing.T) {
	remote := remotetest.New(models.Record{"id": "1", "relawan": "Budi"})
	defer remote.Close()
	remote.Set(func(s *remotetest.Server) { s.RelawanStatus = http.StatusServiceUnavailable })

	g := newTestGateway(t, remote.URL)
	res := g.Resolve(context.Background(), "Budi")

	assert.Equal(t, models.SourceFallback, res.Source)
	assert.Equal(t, []models.Record{{"id": "1", "relawan": "Budi"}}, res.Envelope.Data)
	assert.Equal(t, 1, remote.Calls(ActionGetAll))
}

func TestResolveFallsBackOnErrorStatus(t *testing.T) {
	remote := remotetest.New(models.Record{"id": "1", "relawan": "Budi"})
	defer remote.Close()
	remote.Set(func(s *remotetest.Server) {
		s.RelawanBody = `{"status":"error","data":[{"id":"stale","relawan":"Budi"}]}`
	})

	res := newTestGateway(t, remote.URL).Resolve(context.Background(), "Budi")
	assert.Equal(t, models.SourceFallback, res.Source)
	assert.Equal(t, []models.Record{{"id": "1", "relawan": "Budi"}}, res.Envelope.Data)
}

func TestResolveEmptyWhenEverythingFails(t *testing.T) {
	remote := remotetest.New(models.Record{"id": "1", "relawan": "Budi"})
	defer remote.Close()
	remote.Set(func(s *remotetest.Server) {
		s.RelawanStatus = http.StatusInternalServerError
		s.AllStatus = http.StatusInternalServerError
	})

	g := newTestGateway(t, remote.URL)
	ctx := context.Background()

	res := g.Resolve(ctx, "Budi")
	assert.Equal(t, models.SourceEmpty, res.Source)
	assert.Equal(t, models.StatusSuccess, res.Envelope.Status)
	assert.Empty(t, res.Envelope.Data)
	assert.Equal(t, g.GetDataByRelawanBackup(ctx, "Budi"), res.Envelope)
}

func TestResolveCanceledContext(t *testing.T) {
	remote := remotetest.New(models.Record{"id": "1", "relawan": "Budi"})
	defer remote.Close()

	g := newTestGateway(t, remote.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := g.Resolve(ctx, "Budi")
	assert.Equal(t, models.SourceEmpty, res.Source)
	assert.Equal(t, g.GetDataByRelawanBackup(ctx, "Budi"), res.Envelope)
	assert.Equal(t, "Data ditemukan: 0 pengajuan (client-side filter)", res.Envelope.Message)
	assert.Equal(t, 0, remote.Calls(ActionGetAll))
}

func TestDebugRelawan(t *testing.T) {
	remote := remotetest.New(models.Record{"id": "1", "relawan": "Budi"})
	defer remote.Close()

	g := newTestGateway(t, remote.URL)
	ctx := context.Background()

	// An empty but successful server result is returned as-is.
	env := g.DebugRelawan(ctx, "budi")
	assert.Empty(t, env.Data)
	assert.Equal(t, 0, remote.Calls(ActionGetAll))

	remote.Set(func(s *remotetest.Server) { s.RelawanBody = `{"status":"error","message":"boom"}` })
	env = g.DebugRelawan(ctx, "budi")
	assert.Equal(t, []models.Record{{"id": "1", "relawan": "Budi"}}, env.Data)
	assert.Equal(t, 1, remote.Calls(ActionGetAll))
}

func TestListRelawan(t *testing.T) {
	remote := remotetest.New(
		models.Record{"relawan": "Budi"},
		models.Record{"relawan": "Ani"},
		models.Record{"relawan": "Budi"},
		models.Record{"relawan": ""},
		models.Record{"id": "x"},
	)
	defer remote.Close()

	names := newTestGateway(t, remote.URL).ListRelawan(context.Background())
	require.Equal(t, []string{"Budi", "Ani"}, names)

	assert.Equal(t, []string{}, newTestGateway(t, closedURL()).ListRelawan(context.Background()))
}
