package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"rjboard/internal/models"
)

// Error is a non-2xx response from the data service. Its status code is
// forwarded unchanged to our own caller.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("data service responded %d: %s", e.Status, e.Message)
}

// Client talks to the data service that owns all durable state. Every call
// takes the caller's opaque token; wallet and buy-limit invariants are
// enforced downstream and surface here as *Error values.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the payload of a successful PUT /session.
type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  int64  `json:"userId"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	if err := c.call(ctx, http.MethodPut, "/session", "", loginRequest{Email: email, Password: password}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type userEnvelope struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

func (c *Client) GetUser(ctx context.Context, token string, id int64) (*models.User, error) {
	var env userEnvelope
	if err := c.get(ctx, fmt.Sprintf("/user/%d", id), token, &env); err != nil {
		return nil, err
	}
	return env.User, nil
}

// UserFields carries a user update. Nil wallet/privilege means the field is
// left untouched.
type UserFields struct {
	Pseudo    string `json:"pseudo"`
	Name      string `json:"name,omitempty"`
	Surname   string `json:"surname,omitempty"`
	Wallet    *int   `json:"wallet,omitempty"`
	Privilege *int   `json:"privilege,omitempty"`
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, fields UserFields) (*models.User, error) {
	var env userEnvelope
	if err := c.call(ctx, http.MethodPatch, fmt.Sprintf("/user/%d", id), token, fields, &env); err != nil {
		return nil, err
	}
	return env.User, nil
}

type goodiesEnvelope struct {
	Message string          `json:"message"`
	Goodies *models.Goodies `json:"goodies"`
}

func (c *Client) GetGoodies(ctx context.Context, token string, id int64) (*models.Goodies, error) {
	var env goodiesEnvelope
	if err := c.get(ctx, fmt.Sprintf("/goodies/%d", id), token, &env); err != nil {
		return nil, err
	}
	return env.Goodies, nil
}

type GoodiesFields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	BuyLimit    int    `json:"buyLimit"`
}

func (c *Client) CreateGoodies(ctx context.Context, token string, fields GoodiesFields) (*models.Goodies, error) {
	var env goodiesEnvelope
	if err := c.call(ctx, http.MethodPost, "/goodies", token, fields, &env); err != nil {
		return nil, err
	}
	return env.Goodies, nil
}

func (c *Client) UpdateGoodies(ctx context.Context, token string, id int64, fields GoodiesFields) (*models.Goodies, error) {
	var env goodiesEnvelope
	if err := c.call(ctx, http.MethodPatch, fmt.Sprintf("/goodies/%d", id), token, fields, &env); err != nil {
		return nil, err
	}
	return env.Goodies, nil
}

func (c *Client) DeleteGoodies(ctx context.Context, token string, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/goodies/%d", id), token, nil, nil)
}

type purchaseEnvelope struct {
	Message  string           `json:"message"`
	Purchase *models.Purchase `json:"purchase"`
}

type purchaseListEnvelope struct {
	Message   string            `json:"message"`
	Purchases []models.Purchase `json:"purchases"`
}

type createPurchaseRequest struct {
	GoodiesID int64 `json:"goodiesId"`
}

func (c *Client) CreatePurchase(ctx context.Context, token string, goodiesID int64) (*models.Purchase, error) {
	var env purchaseEnvelope
	if err := c.call(ctx, http.MethodPost, "/purchase", token, createPurchaseRequest{GoodiesID: goodiesID}, &env); err != nil {
		return nil, err
	}
	return env.Purchase, nil
}

// DeletePurchase refunds a purchase: the data service deletes the record
// and credits the spent amount back in the same operation.
func (c *Client) DeletePurchase(ctx context.Context, token string, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/purchase/%d", id), token, nil, nil)
}

func (c *Client) ListPurchases(ctx context.Context, token string, limit, offset int, goodiesID, userID *int64) ([]models.Purchase, error) {
	params := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	if goodiesID != nil {
		params.Set("goodiesId", strconv.FormatInt(*goodiesID, 10))
	}
	if userID != nil {
		params.Set("userId", strconv.FormatInt(*userID, 10))
	}

	var env purchaseListEnvelope
	if err := c.get(ctx, "/purchase?"+params.Encode(), token, &env); err != nil {
		return nil, err
	}
	return env.Purchases, nil
}

type accomplishmentEnvelope struct {
	Message        string                 `json:"message"`
	Accomplishment *models.Accomplishment `json:"accomplishment"`
}

func (c *Client) GetAccomplishment(ctx context.Context, token string, id int64) (*models.Accomplishment, error) {
	var env accomplishmentEnvelope
	if err := c.get(ctx, fmt.Sprintf("/accomplishment/%d", id), token, &env); err != nil {
		return nil, err
	}
	return env.Accomplishment, nil
}

type AccomplishmentCreate struct {
	ChallengeID int64  `json:"challengeId"`
	Proof       string `json:"proof"`
}

func (c *Client) CreateAccomplishment(ctx context.Context, token string, fields AccomplishmentCreate) (*models.Accomplishment, error) {
	var env accomplishmentEnvelope
	if err := c.call(ctx, http.MethodPost, "/accomplishment", token, fields, &env); err != nil {
		return nil, err
	}
	return env.Accomplishment, nil
}

// AccomplishmentUpdate mutates either the proof (owner edits while the
// accomplishment is pending) or the validation state (decisions).
type AccomplishmentUpdate struct {
	Proof      *string            `json:"proof,omitempty"`
	Validation *models.Validation `json:"validation,omitempty"`
}

func (c *Client) UpdateAccomplishment(ctx context.Context, token string, id int64, fields AccomplishmentUpdate) (*models.Accomplishment, error) {
	var env accomplishmentEnvelope
	if err := c.call(ctx, http.MethodPatch, fmt.Sprintf("/accomplishment/%d", id), token, fields, &env); err != nil {
		return nil, err
	}
	return env.Accomplishment, nil
}

func (c *Client) DeleteAccomplishment(ctx context.Context, token string, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/accomplishment/%d", id), token, nil, nil)
}

// Ping reports whether the data service is reachable at all. Any HTTP
// response counts as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling data service: %w", err)
	}
	resp.Body.Close()
	return nil
}

// get wraps call with a short constant-backoff retry. Only reads are
// retried; a retried mutation could apply twice.
func (c *Client) get(ctx context.Context, path, token string, out any) error {
	backoff := retry.WithMaxRetries(2, retry.NewConstant(150*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.call(ctx, http.MethodGet, path, token, nil, out)
		if err == nil {
			return nil
		}
		var respErr *Error
		if errors.As(err, &respErr) && respErr.Status < 500 {
			return err
		}
		return retry.RetryableError(err)
	})
}

func (c *Client) call(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling data service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Message == "" {
			payload.Message = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: payload.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding data service response: %w", err)
		}
	}
	return nil
}
