package api

import "context"

type analysisResponse struct {
	Analysis                 string `json:"analysis"`
	RecommendationsGenerated bool   `json:"recommendations_generated"`
}

// Analyze submits the assessment fields and returns the engine's free-text
// career analysis. The payload is the submittable Profile shape, so
// identity and timestamp fields can never leak into the request.
func (c *Client) Analyze(ctx context.Context, profile Profile) (string, error) {
	var resp analysisResponse
	if err := c.call(ctx, "POST", "/assessment/analyze", profile, &resp, true); err != nil {
		return "", err
	}
	return resp.Analysis, nil
}

// Domains fetches the career-domain taxonomy used to populate the
// assessment form options.
func (c *Client) Domains(ctx context.Context) (map[string]Domain, error) {
	var domains map[string]Domain
	if err := c.call(ctx, "GET", "/careers/domains", nil, &domains, false); err != nil {
		return nil, err
	}
	return domains, nil
}
