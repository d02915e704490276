package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterSteps registers every step definition against tc.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the API is running$`, tc.theAPIIsRunning)
	ctx.Step(`^I send a (GET|POST|PUT|PATCH|DELETE) request to "([^"]*)"$`, tc.iSendARequestTo)
	ctx.Step(`^I send a (GET|POST) request to "([^"]*)" from origin "([^"]*)"$`, tc.iSendARequestFromOrigin)
	ctx.Step(`^I send a POST request to "([^"]*)" with body:$`, tc.iSendAPOSTWithBody)
	ctx.Step(`^I create a review by "([^"]*)" as "([^"]*)" saying "([^"]*)"$`, tc.iCreateAReview)

	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response body should be "([^"]*)"$`, tc.theResponseBodyShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.theResponseFieldShouldBe)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, tc.theResponseHeaderShouldBe)
	ctx.Step(`^the created review should echo the submitted fields$`, tc.theCreatedReviewShouldEcho)
	ctx.Step(`^the last created review should be listed before the one created before it$`, tc.lastCreatedListedFirst)
}

func (tc *TestContext) theAPIIsRunning(ctx context.Context) error {
	if err := tc.do(ctx, http.MethodGet, "/", "", nil); err != nil {
		return fmt.Errorf("API not reachable at %s: %w", tc.BaseURL, err)
	}
	if tc.LastStatus != http.StatusOK {
		return fmt.Errorf("health check returned %d", tc.LastStatus)
	}
	return nil
}

func (tc *TestContext) iSendARequestTo(ctx context.Context, method, path string) error {
	return tc.do(ctx, method, path, "", nil)
}

func (tc *TestContext) iSendARequestFromOrigin(ctx context.Context, method, path, origin string) error {
	return tc.do(ctx, method, path, "", map[string]string{"Origin": origin})
}

func (tc *TestContext) iSendAPOSTWithBody(ctx context.Context, path string, body *godog.DocString) error {
	return tc.do(ctx, http.MethodPost, path, body.Content, nil)
}

func (tc *TestContext) iCreateAReview(ctx context.Context, name, role, comment string) error {
	tc.submitted = map[string]string{"name": name, "role": role, "comment": comment}
	body, err := json.Marshal(tc.submitted)
	if err != nil {
		return err
	}
	if err := tc.do(ctx, http.MethodPost, "/api/reviews", string(body), nil); err != nil {
		return err
	}
	if tc.LastStatus != http.StatusCreated {
		return nil
	}

	var resp struct {
		Review struct {
			ID string `json:"_id"`
		} `json:"review"`
	}
	if err := json.Unmarshal(tc.LastBody, &resp); err != nil {
		return err
	}
	tc.createdIDs = append(tc.createdIDs, resp.Review.ID)
	return nil
}

func (tc *TestContext) theResponseStatusShouldBe(expected int) error {
	if tc.LastStatus != expected {
		return fmt.Errorf("expected status %d, got %d (body %q)", expected, tc.LastStatus, tc.LastBody)
	}
	return nil
}

func (tc *TestContext) theResponseBodyShouldBe(expected string) error {
	if got := strings.TrimSpace(string(tc.LastBody)); got != expected {
		return fmt.Errorf("expected body %q, got %q", expected, got)
	}
	return nil
}

func (tc *TestContext) theResponseFieldShouldBe(field, expected string) error {
	obj, err := tc.jsonObject()
	if err != nil {
		return err
	}
	if got, _ := obj[field].(string); got != expected {
		return fmt.Errorf("expected %s=%q, got %v", field, expected, obj[field])
	}
	return nil
}

func (tc *TestContext) theResponseHeaderShouldBe(header, expected string) error {
	if got := tc.LastHeader.Get(header); got != expected {
		return fmt.Errorf("expected header %s=%q, got %q", header, expected, got)
	}
	return nil
}

func (tc *TestContext) theCreatedReviewShouldEcho() error {
	obj, err := tc.jsonObject()
	if err != nil {
		return err
	}
	review, ok := obj["review"].(map[string]any)
	if !ok {
		return fmt.Errorf("response has no review object: %q", tc.LastBody)
	}
	for field, want := range tc.submitted {
		if review[field] != want {
			return fmt.Errorf("expected review.%s=%q, got %v", field, want, review[field])
		}
	}
	if id, _ := review["_id"].(string); id == "" {
		return fmt.Errorf("review has no _id")
	}
	if ts, _ := review["createdAt"].(string); ts == "" {
		return fmt.Errorf("review has no createdAt")
	}
	return nil
}

// lastCreatedListedFirst checks relative order only, since the store may be
// shared with other scenarios.
func (tc *TestContext) lastCreatedListedFirst() error {
	if len(tc.createdIDs) < 2 {
		return fmt.Errorf("need two created reviews, have %d", len(tc.createdIDs))
	}
	var listed []struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(tc.LastBody, &listed); err != nil {
		return err
	}

	newest, older := tc.createdIDs[len(tc.createdIDs)-1], tc.createdIDs[len(tc.createdIDs)-2]
	newestAt, olderAt := -1, -1
	for i, r := range listed {
		switch r.ID {
		case newest:
			newestAt = i
		case older:
			olderAt = i
		}
	}
	if newestAt < 0 || olderAt < 0 {
		return fmt.Errorf("created reviews missing from list")
	}
	if newestAt > olderAt {
		return fmt.Errorf("review %s listed at %d, after older review at %d", newest, newestAt, olderAt)
	}
	return nil
}
