package backend

import (
	"context"
)

// Conversations lists the history, newest first
func (c *Client) Conversations(ctx context.Context) ([]ConversationHeader, error) {
	req, token, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	var headers []ConversationHeader
	resp, err := req.
		SetQueryParam("token", token).
		SetResult(&headers).
		SetError(&errorBody{}).
		Get("/database/conversations/")
	if err := check("list conversations", resp, err); err != nil {
		return nil, err
	}

	return visible(headers), nil
}

// SearchConversations runs a full-text search over the history
func (c *Client) SearchConversations(ctx context.Context, query string) ([]ConversationHeader, error) {
	req, token, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	var headers []ConversationHeader
	resp, err := req.
		SetQueryParam("token", token).
		SetQueryParam("search_query", query).
		SetResult(&headers).
		SetError(&errorBody{}).
		Get("/database/conversations/search/")
	if err := check("search conversations", resp, err); err != nil {
		return nil, err
	}

	return visible(headers), nil
}

type tokenBody struct {
	Token string `json:"token"`
}

// DeleteConversation soft-deletes a conversation
func (c *Client) DeleteConversation(ctx context.Context, id ID) error {
	req, token, err := c.authed(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetQueryParam("conversationId", id.String()).
		SetHeader("Content-Type", "application/json").
		SetBody(tokenBody{Token: token}).
		SetError(&errorBody{}).
		Delete("/database/conversations/")
	return check("delete conversation", resp, err)
}

func visible(headers []ConversationHeader) []ConversationHeader {
	out := headers[:0]
	for _, h := range headers {
		if !h.Deleted {
			out = append(out, h)
		}
	}
	return out
}
