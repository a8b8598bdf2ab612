package api

import "context"

// Profile fetches the stored assessment for the current principal.
// An absent profile surfaces as KindNotFound; callers treat it as the
// "no assessment yet" state rather than a failure.
func (c *Client) Profile(ctx context.Context) (ProfileRecord, error) {
	var record ProfileRecord
	if err := c.call(ctx, "GET", "/profile", nil, &record, true); err != nil {
		return ProfileRecord{}, err
	}
	return record, nil
}

// SaveProfile upserts the full assessment. The server derives user_id and
// updated_at itself; the submitted shape carries neither.
func (c *Client) SaveProfile(ctx context.Context, profile Profile) error {
	return c.call(ctx, "POST", "/profile", profile, nil, true)
}
