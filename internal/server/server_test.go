package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navigation-qr/internal/config"
	"navigation-qr/internal/eventBus"
	"navigation-qr/internal/generator"
)

type fakeGenerator struct {
	mu      sync.Mutex
	calls   []int
	release chan struct{}
	bus     *eventBus.EventBus
}

func (f *fakeGenerator) GenerateFloor(ctx context.Context, graphPath, outDir string, floor int) (generator.FloorResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, floor)
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	f.bus.Publish(eventBus.Event{Type: eventBus.EventFloorFinished, Floor: floor})
	return generator.FloorResult{Floor: floor, Generated: 1}, nil
}

func newTestServer(t *testing.T, gen *fakeGenerator) (*Server, *eventBus.EventBus) {
	t.Helper()
	bus := eventBus.NewEventBus(nil)
	if gen == nil {
		gen = &fakeGenerator{}
	}
	gen.bus = bus
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, config.Default(), bus, gen, nil), bus
}

func TestValidateHandler(t *testing.T) {
	s, _ := newTestServer(t, nil)

	tests := []struct {
		body string
		want ValidateResponse
	}{
		{`{"type":"nodo","id":"P1_A","piso":1}`, ValidateResponse{true, "nodo", "valid nodo QR: P1_A"}},
		{`{"type":"ruta","origen":"A"}`, ValidateResponse{false, "ruta", "'ruta' QR must have 'origen' and 'destino' fields"}},
		{`{"type":"coord","x":1,"y":2}`, ValidateResponse{true, "coordenadas", "valid coordinate QR: (1, 2)"}},
		{`{"piso":1}`, ValidateResponse{false, "unknown", "missing 'type' field"}},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(tt.body)))

		require.Equal(t, http.StatusOK, rec.Code)
		var got ValidateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, tt.want, got, tt.body)
	}
}

func TestValidateHandler_DecodeError(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader("not json")))

	var got ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Valid)
	assert.True(t, strings.HasPrefix(got.Message, "JSON decode error: "))
}

func TestValidateHandler_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/validate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPayloadHandler(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payload?piso=3", strings.NewReader(`{"id": "Entrada_Sin_Piso", "x": 5, "y": 5}`))
	s.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"type": "nodo", "id": "Entrada_Sin_Piso", "piso": 3, "x": 5, "y": 5}`, rec.Body.String())
}

func TestPayloadHandler_BadRequests(t *testing.T) {
	s, _ := newTestServer(t, nil)

	for _, target := range []string{"/payload", "/payload?piso=0", "/payload?piso=uno"} {
		rec := httptest.NewRecorder()
		s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payload?piso=1", strings.NewReader(`{"id": 4}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateHandler(t *testing.T) {
	gen := &fakeGenerator{release: make(chan struct{})}
	s, _ := newTestServer(t, gen)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate?piso=2", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate?piso=2", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(gen.release)
	s.Wait()

	gen.mu.Lock()
	assert.Equal(t, []int{2}, gen.calls)
	gen.mu.Unlock()

	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate?piso=2", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	s.Wait()
}

func TestGenerateHandler_PathVariable(t *testing.T) {
	gen := &fakeGenerator{}
	s, _ := newTestServer(t, gen)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/floors/4/generate", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	s.Wait()

	gen.mu.Lock()
	assert.Equal(t, []int{4}, gen.calls)
	gen.mu.Unlock()
}

func TestPayloadHandler_PathVariable(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/floors/2/payload", strings.NewReader(`{"id": "Hall"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"type": "nodo", "id": "Hall", "piso": 2, "x": null, "y": null}`, rec.Body.String())
}

func TestFloorsHandler(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/floors", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []FloorStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 4)
	assert.Equal(t, FloorStatus{Piso: 1, Graph: "lib/data/grafo_piso1.json", Output: "qr_codes/piso1"}, got[0])
}

func TestGenerateHandler_UnknownFloor(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate?piso=9", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebsocket_StreamsEvents(t *testing.T) {
	s, bus := newTestServer(t, nil)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	// the handler subscribes after the upgrade, so publish until one arrives
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		tick := time.NewTicker(10 * time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tick.C:
				bus.Publish(eventBus.Event{Type: eventBus.EventQRGenerated, Floor: 1, NodeID: "P1_A"})
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev eventBus.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, eventBus.EventQRGenerated, ev.Type)
	assert.Equal(t, "P1_A", ev.NodeID)
}
