package api

import "context"

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response  string    `json:"response"`
	Timestamp Timestamp `json:"timestamp"`
}

// Send delivers one chat message to the counselor and returns the reply.
// Conversation context lives server-side; the client sends only the text.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	var resp chatResponse
	if err := c.call(ctx, "POST", "/chat", chatRequest{Message: message}, &resp, true); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// History returns prior turns. The backend serves them newest-first and
// capped at 20; ordering for display is the caller's concern.
func (c *Client) History(ctx context.Context) ([]Turn, error) {
	var turns []Turn
	if err := c.call(ctx, "GET", "/chat/history", nil, &turns, true); err != nil {
		return nil, err
	}
	return turns, nil
}
