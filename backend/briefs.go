package backend

import (
	"context"
	"errors"
)

type briefResponse struct {
	TaskBrief  string `json:"taskBrief"`
	EventBrief string `json:"eventBrief"`
	NewsBrief  string `json:"newsBrief"`
}

// Briefs fetches the three daily summaries. Each one is independent: a
// failing endpoint leaves its field empty and is reported in the joined error.
func (c *Client) Briefs(ctx context.Context) (Briefs, error) {
	var (
		briefs Briefs
		errs   []error
	)

	for _, kind := range []string{"tasks", "events", "news"} {
		req, token, err := c.authed(ctx)
		if err != nil {
			return Briefs{}, err
		}

		var body briefResponse
		resp, err := req.
			SetQueryParam("token", token).
			SetResult(&body).
			SetError(&errorBody{}).
			Get("/database/briefs/" + kind + "/")
		if err := check("fetch "+kind+" brief", resp, err); err != nil {
			errs = append(errs, err)
			continue
		}

		switch kind {
		case "tasks":
			briefs.Tasks = body.TaskBrief
		case "events":
			briefs.Events = body.EventBrief
		case "news":
			briefs.News = body.NewsBrief
		}
	}

	return briefs, errors.Join(errs...)
}
