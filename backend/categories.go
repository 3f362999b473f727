package backend

import (
	"context"
	"strconv"
)

// Categories lists the user's categories. activeOnly narrows to active ones.
func (c *Client) Categories(ctx context.Context, activeOnly bool) ([]Category, error) {
	req, token, err := c.authed(ctx)
	if err != nil {
		return nil, err
	}

	req.SetQueryParam("token", token)
	if activeOnly {
		req.SetQueryParam("active", strconv.FormatBool(true))
	}

	var categories []Category
	resp, err := req.
		SetResult(&categories).
		SetError(&errorBody{}).
		Get("/database/categories/")
	if err := check("list categories", resp, err); err != nil {
		return nil, err
	}

	return categories, nil
}

type updateCategoryRequest struct {
	CategoryID ID       `json:"categoryId"`
	Token      string   `json:"token"`
	Category   Category `json:"category"`
}

// UpdateCategory writes the full record back
func (c *Client) UpdateCategory(ctx context.Context, category Category) error {
	req, token, err := c.authed(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetQueryParam("categoryId", category.ID.String()).
		SetHeader("Content-Type", "application/json").
		SetBody(updateCategoryRequest{CategoryID: category.ID, Token: token, Category: category}).
		SetError(&errorBody{}).
		Put("/database/categories/")
	return check("update category", resp, err)
}
