package accountability

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// AnchorClient publishes commitment hashes to an external ledger-anchor
// service (an opaque memo-style endpoint — the core does not care whether
// it is backed by a blockchain, a notarisation API, or something else).
// Shaped after transfer.Client: a bare resty.Client pointed at a base URL,
// same dependency, same outbound-HTTP pattern.
type AnchorClient struct {
	http *resty.Client
}

func NewAnchorClient(baseURL string, requestTimeout time.Duration) *AnchorClient {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetRetryCount(0)

	return &AnchorClient{http: http}
}

type anchorPublishRequest struct {
	Memo      string `json:"memo"`
	Signature string `json:"signature"`
}

type anchorPublishResponse struct {
	Success bool   `json:"success"`
	TxID    string `json:"tx_id"`
	Error   string `json:"error"`
}

// Publish submits hash (hex commitment hash) as a memo, signed by the
// server authority key, and waits for the anchor service to confirm it was
// recorded. It returns the anchor transaction id on success.
func (c *AnchorClient) Publish(ctx context.Context, hash, signature string) (string, error) {
	var body anchorPublishResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(anchorPublishRequest{Memo: hash, Signature: signature}).
		SetResult(&body).
		Post("/anchor/publish")
	if err != nil {
		return "", fmt.Errorf("ledger anchor request failed: %w", err)
	}

	if resp.IsError() || !body.Success {
		if body.Error != "" {
			return "", fmt.Errorf("ledger anchor rejected publish: %s", body.Error)
		}

		return "", fmt.Errorf("ledger anchor rejected publish: status %d", resp.StatusCode())
	}

	return body.TxID, nil
}
