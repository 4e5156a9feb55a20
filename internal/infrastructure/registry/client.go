package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	"nexaway/internal/domain"
	"nexaway/internal/domain/service/agency"
	"nexaway/pkg/errcodes"
	"nexaway/pkg/httpx"
	"nexaway/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// verifiedScoreBoost is granted when the RNE public registry confirms
// the company record.
const verifiedScoreBoost = 25

// Client queries the Tunisian RNE public registry
// (registre-entreprises.tn) for company records by tax identifier.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration, masker logx.SensitiveDataMasker) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: httpx.NewLoggingRoundTripper(
				http.DefaultTransport,
				httpx.WithSensitiveDataMasker(masker),
			),
		},
		baseURL: baseURL,
	}
}

type searchResponse struct {
	Total   int `json:"total"`
	Results []struct {
		TaxID string `json:"identifiantUnique"`
		Name  string `json:"raisonSociale"`
	} `json:"results"`
}

// Verify looks the tax identifier up in the public registry. A record match
// yields a fixed score boost; an empty result set is not an error.
func (c *Client) Verify(ctx context.Context, taxID string) (agency.RegistryVerification, error) {
	endpoint := fmt.Sprintf("%s/api/companies/search?%s",
		c.baseURL, url.Values{"taxId": {taxID}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return agency.RegistryVerification{},
			domain.WrapError(err, errcodes.InternalServerError, "failed to build registry request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return agency.RegistryVerification{},
			domain.WrapError(err, errcodes.InternalServerError, "registry request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return agency.RegistryVerification{},
			domain.NewError(errcodes.InternalServerError,
				fmt.Sprintf("registry returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return agency.RegistryVerification{},
			domain.WrapError(err, errcodes.InternalServerError, "failed to read registry response")
	}

	var search searchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return agency.RegistryVerification{},
			domain.WrapError(err, errcodes.InternalServerError, "failed to decode registry response")
	}

	for _, result := range search.Results {
		if result.TaxID == taxID {
			return agency.RegistryVerification{Verified: true, ScoreBoost: verifiedScoreBoost}, nil
		}
	}

	return agency.RegistryVerification{}, nil
}
