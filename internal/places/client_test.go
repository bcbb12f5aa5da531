package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func geoapifyStub(t *testing.T, geocodeBody, placesBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") == "" {
			t.Error("missing apiKey query parameter")
		}
		switch r.URL.Path {
		case "/v1/geocode/search":
			w.Write([]byte(geocodeBody))
		case "/v2/places":
			w.Write([]byte(placesBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestGetCityPlaces(t *testing.T) {
	srv := geoapifyStub(t,
		`{"features":[{"properties":{"city":"Lisbon","formatted":"Lisbon, Portugal","lat":38.72,"lon":-9.14}}]}`,
		`{"features":[
			{"properties":{"name":"Belem Tower","categories":["tourism.sights"],"address_line2":"Av. Brasilia"}},
			{"properties":{"name":"","categories":["tourism.sights"],"address_line2":"unnamed pin"}},
			{"properties":{"name":"Castle","categories":["tourism.attraction"],"address_line2":"Rua de Santa Cruz"}}
		]}`,
	)
	defer srv.Close()

	client := NewClientWithBaseURL("test-key", srv.URL, zap.NewNop())
	info, err := client.GetCityPlaces(context.Background(), "lisbon")
	if err != nil {
		t.Fatal(err)
	}

	if info.Name != "Lisbon" {
		t.Fatalf("expected city Lisbon, got %q", info.Name)
	}
	// Unnamed features are dropped.
	if len(info.Places) != 2 {
		t.Fatalf("expected 2 places, got %d", len(info.Places))
	}
	if info.Places[0].Name != "Belem Tower" || info.Places[0].Description != "Av. Brasilia" {
		t.Fatalf("unexpected first place: %+v", info.Places[0])
	}
}

func TestGetCityPlacesFallsBackToFormattedName(t *testing.T) {
	srv := geoapifyStub(t,
		`{"features":[{"properties":{"city":"","formatted":"Vatican City, Vatican","lat":41.9,"lon":12.45}}]}`,
		`{"features":[]}`,
	)
	defer srv.Close()

	client := NewClientWithBaseURL("test-key", srv.URL, zap.NewNop())
	info, err := client.GetCityPlaces(context.Background(), "vatican")
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "Vatican City" {
		t.Fatalf("expected 'Vatican City', got %q", info.Name)
	}
}

func TestGetCityPlacesUnknownCity(t *testing.T) {
	srv := geoapifyStub(t, `{"features":[]}`, `{"features":[]}`)
	defer srv.Close()

	client := NewClientWithBaseURL("test-key", srv.URL, zap.NewNop())
	_, err := client.GetCityPlaces(context.Background(), "atlantis")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
}

func TestGetCityPlacesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("test-key", srv.URL, zap.NewNop())
	if _, err := client.GetCityPlaces(context.Background(), "paris"); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}
