package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func yahooServer(t *testing.T, body string) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("1h", "")
	f.BaseURL = srv.URL
	return f
}

func fetchWindow(t *testing.T, f *YahooFetcher) ([]float64, error) {
	t.Helper()
	end := time.Now()
	bars, err := f.FetchBars(context.Background(), "SPX500", end.Add(-time.Hour), end)
	if err != nil {
		return nil, err
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes, nil
}

func TestYahooFetchBars(t *testing.T) {
	f := yahooServer(t, `{"chart":{"result":[{"timestamp":[1710000000,1710003600],
		"indicators":{"quote":[{"open":[1,2],"high":[3,4],"low":[0.5,1.5],
		"close":[2,3],"volume":[100,200]}]}}]}}`)
	closes, err := fetchWindow(t, f)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 3}, closes)
}

func TestYahooEmptyQuoteArray(t *testing.T) {
	f := yahooServer(t, `{"chart":{"result":[{"timestamp":[1710000000],
		"indicators":{"quote":[]}}]}}`)
	_, err := fetchWindow(t, f)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no quote data")
}

func TestYahooShortQuoteArrays(t *testing.T) {
	f := yahooServer(t, `{"chart":{"result":[{"timestamp":[1710000000,1710003600],
		"indicators":{"quote":[{"open":[1],"high":[3],"low":[0.5],
		"close":[2],"volume":[100]}]}}]}}`)
	_, err := fetchWindow(t, f)
	require.Error(t, err)
	require.Contains(t, err.Error(), "shorter than timestamps")
}

func TestYahooEmptyWindow(t *testing.T) {
	f := yahooServer(t, `{"chart":{"result":[{"timestamp":[],
		"indicators":{"quote":[]}}]}}`)
	closes, err := fetchWindow(t, f)
	require.NoError(t, err)
	require.Empty(t, closes)
}
