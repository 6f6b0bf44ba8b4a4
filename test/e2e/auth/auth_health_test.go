package auth_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestProbes(t *testing.T) {
	baseURL := setupAuthContainer(t)
	client := authsdk.NewClient(baseURL)

	probes := map[string]func(context.Context) (*authsdk.HealthResponse, error){
		"livez":  client.GetLiveness,
		"readyz": client.GetReadiness,
	}
	for name, probe := range probes {
		t.Run(name, func(t *testing.T) {
			health, err := probe(t.Context())
			assertHealthy(t, health, err)
			if name == "readyz" {
				require.NotNil(t, health.Checks)
				require.Equal(t, "ok", health.Checks.Database)
			}
		})
	}

	// the probes above must show up in the scrape
	resp, err := http.Get(baseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `route="GET /readyz"`)
}
